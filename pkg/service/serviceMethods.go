package service

import (
	"context"
	"fmt"
	"time"

	"github.com/IPampurin/AromaQuizBot/pkg/db"
	"github.com/wb-go/wbf/logger"
)

// формат полного URL карточки товара Wildberries
const wbCatalogURLFormat = "https://www.wildberries.ru/catalog/%s/detail.aspx"

// maxGenerateAttempts ограничивает подбор свободного кода: при реалистичных
// объёмах таблицы хватает одной попытки, цикл без предела недопустим
const maxGenerateAttempts = 10

// TargetURL собирает полный URL карточки товара по артикулу
func TargetURL(item string) string {
	return fmt.Sprintf(wbCatalogURLFormat, item)
}

// CreateShortLink создаёт короткую ссылку на карточку товара.
// Код генерируется случайно, уникальность обеспечивает UNIQUE-индекс в БД:
// при конфликте вставки генерируем новый код и повторяем,
// после maxGenerateAttempts неудач возвращаем ErrCodeSpaceExhausted
func (s *Service) CreateShortLink(ctx context.Context, log logger.Logger, item, userID string) (*ResponseLink, error) {

	originalURL := TargetURL(item)

	var link *db.Link
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {

		code := NewRandomCode(0)

		created, err := s.link.CreateLink(ctx, code, originalURL, item, userID)
		if err != nil {
			if db.IsUniqueViolation(err) {
				// код занят - пробуем другой
				log.Ctx(ctx).Warn("конфликт короткого кода, повтор генерации", "code", code, "attempt", attempt+1)
				continue
			}
			return nil, err
		}

		link = created
		break
	}

	if link == nil {
		log.Ctx(ctx).Error("свободный код не подобран", "item", item, "attempts", maxGenerateAttempts)
		return nil, ErrCodeSpaceExhausted
	}

	// кладём свежую ссылку в кэш
	if s.cache != nil {
		if err := s.cache.SetLink(ctx, link.ShortURL, link); err != nil {
			log.Ctx(ctx).Error("ошибка сохранения в кэш", "error", err)
		}
	}

	log.Ctx(ctx).Info("новая короткая ссылка создана",
		"short_url", link.ShortURL,
		"item", item,
		"user_id", userID)

	return toResponseLink(link), nil
}

// ResolveShortCode возвращает полный URL по короткому коду.
// Найденный переход обязательно фиксируется: строка в журнале redirects,
// счётчик у ссылки и счётчик агрегатора (ошибки записи логируются,
// но редиректу не мешают)
func (s *Service) ResolveShortCode(ctx context.Context, log logger.Logger, code string) (string, error) {

	link, err := s.lookup(ctx, log, code)
	if err != nil {
		return "", err
	}
	if link == nil {
		log.Ctx(ctx).Info("короткий код не найден", "code", code)
		return "", ErrLinkNotFound
	}

	// фиксируем переход
	if err := s.redirects.SaveRedirect(ctx, link.ShortURL, time.Now()); err != nil {
		log.Ctx(ctx).Error("ошибка записи перехода", "error", err, "code", code)
	}
	if err := s.link.IncrementClicks(ctx, int64(link.ID)); err != nil {
		log.Ctx(ctx).Error("ошибка увеличения счётчика", "error", err, "code", code)
	}
	if s.stats != nil {
		s.stats.RecordClick(link.ShortURL)
	}

	log.Ctx(ctx).Debug("переход по короткой ссылке", "code", code, "item", link.Item)

	return link.OriginalURL, nil
}

// LinkAnalytics возвращает данные ссылки и переходы по дням за крайний месяц
func (s *Service) LinkAnalytics(ctx context.Context, log logger.Logger, code string) (*ResponseAnalytics, error) {

	link, err := s.link.GetLinkByShortURL(ctx, code)
	if err != nil {
		return nil, err
	}
	if link == nil {
		log.Ctx(ctx).Info("ссылка не найдена при запросе аналитики", "code", code)
		return nil, ErrLinkNotFound
	}

	from := time.Now().AddDate(0, -1, 0)
	to := time.Now()

	clicksByDay, err := s.redirects.CountClicksByDay(ctx, link.ShortURL, from, to)
	if err != nil {
		log.Ctx(ctx).Error("ошибка агрегации по дням", "error", err)
		// не фатально, можно оставить пустым
	}

	return &ResponseAnalytics{
		Link:        *toResponseLink(link),
		ClicksByDay: clicksByDay,
	}, nil
}

// lookup ищет ссылку сначала в кэше, затем в БД, подогревая кэш при промахе
func (s *Service) lookup(ctx context.Context, log logger.Logger, code string) (*db.Link, error) {

	if s.cache != nil {
		link, err := s.cache.GetLink(ctx, code)
		if err != nil {
			log.Ctx(ctx).Error("ошибка получения из кэша", "error", err)
		}
		if link != nil {
			log.Ctx(ctx).Debug("ссылка получена из кэша", "code", code)
			return link, nil
		}
	}

	link, err := s.link.GetLinkByShortURL(ctx, code)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, nil
	}

	if s.cache != nil {
		if err := s.cache.SetLink(ctx, code, link); err != nil {
			log.Ctx(ctx).Error("ошибка сохранения в кэш", "error", err)
		}
	}

	return link, nil
}

// toResponseLink преобразует db.Link в service.ResponseLink
func toResponseLink(l *db.Link) *ResponseLink {

	return &ResponseLink{
		ShortURL:    l.ShortURL,
		OriginalURL: l.OriginalURL,
		Item:        l.Item,
		CreatedAt:   l.CreatedAt,
		ClicksCount: l.ClicksCount,
	}
}
