package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/IPampurin/AromaQuizBot/pkg/configuration"
	"github.com/IPampurin/AromaQuizBot/pkg/db"
	"github.com/wb-go/wbf/logger"
	"github.com/wb-go/wbf/redis"
)

// Cache хранит подключение к БД Redis.
// В кэше лежат пары "короткий код - запись о ссылке", чтобы горячий путь
// редиректа не ходил в Postgres на каждый переход
type Cache struct {
	redis   *redis.Client
	ttl     time.Duration
	warming time.Duration
}

// InitCache запускает работу с Redis и прогревает кэш ссылками за крайний период
func InitCache(ctx context.Context, storage *db.DataBase, cfgCache *configuration.ConfCache, log logger.Logger) (*Cache, error) {

	// определяем конфигурацию подключения к Redis
	options := redis.Options{
		Address:   fmt.Sprintf("%s:%d", cfgCache.HostName, cfgCache.Port),
		Password:  cfgCache.Password,
		MaxMemory: "100mb",
		Policy:    "allkeys-lru",
	}

	// пробуем подключиться
	clientRedis, err := redis.Connect(options)
	if err != nil {
		return nil, fmt.Errorf("ошибка установки соединения с Redis: %w", err)
	}

	// проверяем подключение
	err = clientRedis.Ping(context.Background())
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
	}

	// получаем экземпляр
	cache := &Cache{
		redis:   clientRedis,
		ttl:     cfgCache.TTL,
		warming: cfgCache.Warming,
	}

	// прогреваем кэш свежими ссылками
	links, err := storage.GetLinksOfPeriod(ctx, cache.warming)
	if err != nil {
		log.Warn("ошибка прогрева кэша", "error", err)
	}

	err = cache.LoadDataToCache(ctx, links)
	if err != nil {
		log.Warn("ошибка прогрева кэша", "error", err)
	}

	log.Info("Кэш работает.", "links", len(links))

	return cache, nil
}
