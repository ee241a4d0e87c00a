package db

import (
	"context"
	"time"
)

// методы по таблице links
type LinkMethods interface {
	// CreateLink создаёт новую запись в таблице links;
	// при занятом коротком коде возвращает ошибку уникальности (см. IsUniqueViolation)
	CreateLink(ctx context.Context, shortURL, originalURL, item, userID string) (*Link, error)

	// GetLinkByShortURL возвращает ссылку по её короткому коду (nil, nil - если кода нет)
	GetLinkByShortURL(ctx context.Context, shortURL string) (*Link, error)

	// IncrementClicks увеличивает счётчик переходов по ссылке на единицу
	IncrementClicks(ctx context.Context, linkID int64) error

	// GetLinksOfPeriod возвращает ссылки, созданные за указанный период времени
	GetLinksOfPeriod(ctx context.Context, period time.Duration) ([]*Link, error)
}

// методы по таблице redirects
type RedirectMethods interface {
	// SaveRedirect сохраняет запись о переходе по короткой ссылке
	SaveRedirect(ctx context.Context, shortURL string, accessedAt time.Time) error

	// GetRedirectsOfPeriod возвращает переходы за крайний period времени
	// вместе с артикулом и пользователем из связанной ссылки (для отчётов)
	GetRedirectsOfPeriod(ctx context.Context, period time.Duration) ([]*RedirectEvent, error)

	// CountClicksByDay возвращает количество переходов по ссылке, сгруппированных по дням в заданном диапазоне
	CountClicksByDay(ctx context.Context, shortURL string, from, to time.Time) (map[string]int, error)
}
