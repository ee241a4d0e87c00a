package service

import (
	"context"

	"github.com/wb-go/wbf/logger"
)

type ServiceMethods interface {
	// CreateShortLink создаёт короткую ссылку на карточку товара item для пользователя userID
	CreateShortLink(ctx context.Context, log logger.Logger, item, userID string) (*ResponseLink, error)

	// ResolveShortCode возвращает полный URL по короткому коду и фиксирует переход;
	// для неизвестного кода возвращает ErrLinkNotFound
	ResolveShortCode(ctx context.Context, log logger.Logger, code string) (string, error)

	// LinkAnalytics возвращает данные ссылки и переходы по дням за крайний месяц
	LinkAnalytics(ctx context.Context, log logger.Logger, code string) (*ResponseAnalytics, error)
}
