package service

import (
	"github.com/IPampurin/AromaQuizBot/pkg/cache"
	"github.com/IPampurin/AromaQuizBot/pkg/db"
	"github.com/IPampurin/AromaQuizBot/pkg/stats"
)

type Service struct {
	link      db.LinkMethods
	redirects db.RedirectMethods
	cache     cache.CacheMethods
	stats     *stats.Aggregator
}

// InitService собирает слой бизнес-логики сервиса редиректов.
// cacheClient может быть nil - тогда ссылки ищутся только в БД
func InitService(storage *db.DataBase, cacheClient *cache.Cache, agg *stats.Aggregator) *Service {

	svc := &Service{
		link:      storage, // *db.DataBase реализует LinkMethods
		redirects: storage, // *db.DataBase реализует RedirectMethods
		stats:     agg,
	}

	// с типизированным nil интерфейс перестаёт быть nil, поэтому присваиваем явно
	if cacheClient != nil {
		svc.cache = cacheClient
	}

	return svc
}
