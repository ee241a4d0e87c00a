package service

import (
	"errors"
	"time"
)

// ошибки уровня сервиса коротких ссылок
var (
	// ErrLinkNotFound - короткий код отсутствует в хранилище
	ErrLinkNotFound = errors.New("короткая ссылка не найдена")

	// ErrCodeSpaceExhausted - не удалось подобрать свободный код за отведённое число попыток.
	// Операционная ошибка: на проектных объёмах возникать не должна
	ErrCodeSpaceExhausted = errors.New("не удалось сгенерировать свободный короткий код")
)

// ResponseLink - данные созданной или найденной короткой ссылки
type ResponseLink struct {
	ShortURL    string    `json:"short_url"`
	OriginalURL string    `json:"original_url"`
	Item        string    `json:"item"`
	CreatedAt   time.Time `json:"created_at"`
	ClicksCount int       `json:"clicks_count"`
}

// ResponseAnalytics - ответ для GET /analytics/:code
type ResponseAnalytics struct {
	Link        ResponseLink   `json:"link"`
	ClicksByDay map[string]int `json:"clicks_by_day,omitempty"`
}
