package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// код ошибки PostgreSQL "unique_violation"
const uniqueViolationCode = "23505"

// IsUniqueViolation сообщает, вызвана ли ошибка нарушением уникального индекса
// (короткий код уже занят - нужно сгенерировать новый и повторить вставку)
func IsUniqueViolation(err error) bool {

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// CreateLink добавляет новую запись в таблицу links БД
func (d *DataBase) CreateLink(ctx context.Context, shortURL, originalURL, item, userID string) (*Link, error) {

	query := `   INSERT INTO links (short_url, original_url, item, user_id, created_at, clicks_count)
                 VALUES ($1, $2, $3, $4, NOW(), $5)
			  RETURNING id, created_at`

	link := &Link{
		ShortURL:    shortURL,
		OriginalURL: originalURL,
		Item:        item,
		UserID:      userID,
		ClicksCount: 0,
	}

	err := d.Pool.QueryRow(ctx, query, shortURL, originalURL, item, userID, 0).
		Scan(&link.ID, &link.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			// конфликт кода отдаём как есть - его разбирает слой сервиса
			return nil, err
		}
		return nil, fmt.Errorf("ошибка добавления записи о ссылке в CreateLink: %w", err)
	}

	return link, nil
}

// GetLinkByShortURL получает из таблицы links БД запись по короткому коду
func (d *DataBase) GetLinkByShortURL(ctx context.Context, shortURL string) (*Link, error) {

	query := `SELECT id, short_url, original_url, item, user_id, created_at, clicks_count
	            FROM links
			   WHERE short_url = $1`

	link := &Link{}

	err := d.Pool.QueryRow(ctx, query, shortURL).
		Scan(&link.ID,
			&link.ShortURL,
			&link.OriginalURL,
			&link.Item,
			&link.UserID,
			&link.CreatedAt,
			&link.ClicksCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения записи о ссылке в GetLinkByShortURL: %w", err)
	}

	return link, nil
}

// IncrementClicks увеличивает счётчик переходов по ссылке
func (d *DataBase) IncrementClicks(ctx context.Context, linkID int64) error {

	query := `UPDATE links
	             SET clicks_count = clicks_count + 1
			   WHERE id = $1`

	_, err := d.Pool.Exec(ctx, query, linkID)
	if err != nil {
		return fmt.Errorf("ошибка увеличения счётчика переходов в IncrementClicks: %w", err)
	}

	return nil
}

// GetLinksOfPeriod возвращает записи за крайний period времени (для прогрева кэша)
func (d *DataBase) GetLinksOfPeriod(ctx context.Context, period time.Duration) ([]*Link, error) {

	threshold := time.Now().Add(-period)

	query := `SELECT id, short_url, original_url, item, user_id, created_at, clicks_count
	            FROM links
			   WHERE created_at >= $1`

	rows, err := d.Pool.Query(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка ссылок в GetLinksOfPeriod: %w", err)
	}
	defer rows.Close()

	var links []*Link
	for rows.Next() {
		var link Link
		err := rows.Scan(
			&link.ID,
			&link.ShortURL,
			&link.OriginalURL,
			&link.Item,
			&link.UserID,
			&link.CreatedAt,
			&link.ClicksCount,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка при сканировании строки списка ссылок в GetLinksOfPeriod: %w", err)
		}

		links = append(links, &link)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по списку ссылок в GetLinksOfPeriod: %w", err)
	}

	return links, nil
}
