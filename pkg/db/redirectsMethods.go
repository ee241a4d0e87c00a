package db

import (
	"context"
	"fmt"
	"time"
)

// SaveRedirect записывает каждый переход по короткой ссылке
func (d *DataBase) SaveRedirect(ctx context.Context, shortURL string, accessedAt time.Time) error {

	query := `INSERT INTO redirects (short_url, accessed_at)
              VALUES ($1, $2)`

	_, err := d.Pool.Exec(ctx, query, shortURL, accessedAt)
	if err != nil {
		return fmt.Errorf("ошибка добавления записи о переходе в SaveRedirect: %w", err)
	}

	return nil
}

// GetRedirectsOfPeriod возвращает переходы за крайний period времени
// с артикулом и пользователем из связанной ссылки (строки для отчёта)
func (d *DataBase) GetRedirectsOfPeriod(ctx context.Context, period time.Duration) ([]*RedirectEvent, error) {

	threshold := time.Now().Add(-period)

	query := `SELECT r.id, r.short_url, l.item, l.user_id, r.accessed_at
	            FROM redirects r
				JOIN links l ON l.short_url = r.short_url
			   WHERE r.accessed_at >= $1
			   ORDER BY r.accessed_at DESC`

	rows, err := d.Pool.Query(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка переходов в GetRedirectsOfPeriod: %w", err)
	}
	defer rows.Close()

	var events []*RedirectEvent
	for rows.Next() {
		var e RedirectEvent
		err := rows.Scan(
			&e.ID,
			&e.ShortURL,
			&e.Item,
			&e.UserID,
			&e.AccessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка при сканировании строки списка переходов в GetRedirectsOfPeriod: %w", err)
		}

		events = append(events, &e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по списку переходов в GetRedirectsOfPeriod: %w", err)
	}

	return events, nil
}

// CountClicksByDay - группировка переходов по дням
func (d *DataBase) CountClicksByDay(ctx context.Context, shortURL string, from, to time.Time) (map[string]int, error) {

	query := `SELECT DATE(accessed_at) AS day,
	                 COUNT(*) AS count
                FROM redirects
               WHERE short_url = $1
                 AND accessed_at >= $2 AND accessed_at < $3
               GROUP BY day`

	rows, err := d.Pool.Query(ctx, query, shortURL, from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка при выполнении запроса в CountClicksByDay: %w", err)
	}
	defer rows.Close()

	dayCountClick := make(map[string]int)
	var key string
	var val int
	for rows.Next() {
		err := rows.Scan(
			&key,
			&val,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка при сканировании строки запроса в CountClicksByDay: %w", err)
		}

		dayCountClick[key] = val
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по списку записей в CountClicksByDay: %w", err)
	}

	return dayCountClick, nil
}
