package db

import (
	"context"
	"fmt"
)

const (
	linksSchema = `CREATE TABLE IF NOT EXISTS links (
			           id SERIAL PRIMARY KEY,
		        short_url VARCHAR(50) UNIQUE NOT NULL,
		     original_url TEXT NOT NULL,
		             item TEXT NOT NULL,
		          user_id TEXT,
		       created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		     clicks_count INT NOT NULL DEFAULT 0);

			 CREATE INDEX IF NOT EXISTS idx_links_short_url ON links(short_url);
		     CREATE INDEX IF NOT EXISTS idx_links_created_at ON links(created_at);`

	redirectsSchema = `CREATE TABLE IF NOT EXISTS redirects (
			               id SERIAL PRIMARY KEY,
			        short_url VARCHAR(50) NOT NULL REFERENCES links(short_url) ON DELETE CASCADE,
			      accessed_at TIMESTAMPTZ NOT NULL DEFAULT NOW());

				 CREATE INDEX IF NOT EXISTS idx_redirects_short_url_accessed_at ON redirects(short_url, accessed_at);
		         CREATE INDEX IF NOT EXISTS idx_redirects_accessed_at ON redirects(accessed_at);`
)

// Migration создаёт таблицы links и redirects, если они ещё не существуют, добавляет индексы.
// Уникальность короткого кода обеспечивает сама БД (UNIQUE на short_url):
// одновременные вставки одного кода разрешаются конфликтом, а не проверкой перед вставкой
func (d *DataBase) Migration(ctx context.Context) error {

	// создаём таблицу links с индексами
	query := linksSchema
	_, err := d.Pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("ошибка создания таблицы links: %w", err)
	}

	// создаём таблицу redirects с индексами
	query = redirectsSchema
	_, err = d.Pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("ошибка создания таблицы redirects: %w", err)
	}

	return nil
}
