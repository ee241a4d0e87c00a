package db

import (
	"time"
)

// Link представляет запись в таблице links.
// После создания запись не меняется (кроме счётчика переходов)
type Link struct {
	ID          int       // внутренний идентификатор ссылки (автоинкремент)
	ShortURL    string    // короткий код (например, "aZ3k9Q"), уникален в пределах таблицы
	OriginalURL string    // полный URL карточки товара
	Item        string    // артикул товара, из которого собран OriginalURL
	UserID      string    // идентификатор пользователя, для которого ссылка создана
	CreatedAt   time.Time // дата и время создания записи
	ClicksCount int       // количество переходов по ссылке (чтобы всё время COUNT не делать)
}

// RedirectEvent представляет запись о переходе по короткой ссылке.
// Пишется только при реальном переходе, а не при создании ссылки
type RedirectEvent struct {
	ID         int       // уникальный идентификатор записи о переходе (автоинкремент)
	ShortURL   string    // короткий код, по которому совершён переход
	Item       string    // артикул товара из связанной ссылки (заполняется при выборке)
	UserID     string    // идентификатор пользователя из связанной ссылки
	AccessedAt time.Time // момент времени, когда произошёл переход
}
