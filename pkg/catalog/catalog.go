package catalog

import (
	"fmt"
	"strconv"

	"github.com/wb-go/wbf/logger"
	"github.com/xuri/excelize/v2"
)

// имена столбцов в таблице комбинаций
const (
	colCombination = "Комбинация"
	colArticle     = "WB Article"
	colPhoto       = "Фото WB"
)

// Entry - строка каталога: артикул товара и ссылка на его фото
type Entry struct {
	Article  string // артикул WB (непрозрачный идентификатор товара)
	PhotoURL string // прямая ссылка на первое фото товара, может быть пустой
}

// Index - неизменяемое после загрузки соответствие "комбинация ответов -> товар"
type Index struct {
	entries map[string]Entry
}

// Load читает xlsx-таблицу комбинаций и строит индекс.
// Ошибка чтения означает, что каталог недоступен и сервис запускать нельзя
func Load(path string, log logger.Logger) (*Index, error) {

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия таблицы каталога %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения листа таблицы каталога: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("таблица каталога %s пуста", path)
	}

	// находим нужные столбцы по заголовкам первой строки
	combIdx, artIdx, photoIdx := -1, -1, -1
	for i, h := range rows[0] {
		switch h {
		case colCombination:
			combIdx = i
		case colArticle:
			artIdx = i
		case colPhoto:
			photoIdx = i
		}
	}
	if combIdx < 0 || artIdx < 0 {
		return nil, fmt.Errorf("в таблице каталога нет столбцов %q и %q", colCombination, colArticle)
	}

	entries := make(map[string]Entry, len(rows)-1)
	for _, row := range rows[1:] {
		if combIdx >= len(row) || artIdx >= len(row) {
			continue // неполная строка
		}
		key := row[combIdx]
		article := row[artIdx]
		if key == "" || article == "" {
			continue
		}

		entry := Entry{Article: article}
		if photoIdx >= 0 && photoIdx < len(row) {
			entry.PhotoURL = row[photoIdx]
		}
		// если фото в таблице нет, пробуем вывести ссылку из артикула
		if entry.PhotoURL == "" {
			entry.PhotoURL = ImageURL(article)
		}

		entries[key] = entry
	}

	log.Info("каталог комбинаций загружен", "path", path, "entries", len(entries))

	return &Index{entries: entries}, nil
}

// NewIndex собирает индекс из готовых записей (для тестов и нестандартных источников)
func NewIndex(entries map[string]Entry) *Index {

	copied := make(map[string]Entry, len(entries))
	for k, v := range entries {
		copied[k] = v
	}

	return &Index{entries: copied}
}

// Lookup возвращает запись каталога по каноническому ключу комбинации
func (i *Index) Lookup(key string) (Entry, bool) {

	entry, ok := i.entries[key]
	return entry, ok
}

// Len возвращает число записей в индексе
func (i *Index) Len() int {
	return len(i.entries)
}

// Keys возвращает все ключи комбинаций (порядок не определён)
func (i *Index) Keys() []string {

	keys := make([]string, 0, len(i.entries))
	for k := range i.entries {
		keys = append(keys, k)
	}

	return keys
}

// ImageURL возвращает прямую ссылку на первое фото товара WB по артикулу.
// Номер хоста basket зависит от диапазона vol (артикул, делённый на 100000).
// Для нечислового артикула возвращает пустую строку
func ImageURL(article string) string {

	nmID, err := strconv.Atoi(article)
	if err != nil || nmID < 0 {
		return ""
	}

	vol := nmID / 100000
	part := nmID / 1000

	var host string
	switch {
	case vol <= 143:
		host = "01"
	case vol <= 287:
		host = "02"
	case vol <= 431:
		host = "03"
	case vol <= 719:
		host = "04"
	case vol <= 1007:
		host = "05"
	case vol <= 1061:
		host = "06"
	case vol <= 1115:
		host = "07"
	case vol <= 1169:
		host = "08"
	case vol <= 1313:
		host = "09"
	case vol <= 1601:
		host = "10"
	case vol <= 1655:
		host = "11"
	case vol <= 1919:
		host = "12"
	case vol <= 2045:
		host = "13"
	case vol <= 2189:
		host = "14"
	case vol <= 2405:
		host = "15"
	case vol <= 2621:
		host = "16"
	case vol <= 2837:
		host = "17"
	case vol >= 2838 && vol <= 3083:
		host = "19"
	case vol >= 3084 && vol <= 3330:
		host = "20"
	default:
		host = "18"
	}

	return fmt.Sprintf("https://basket-%s.wbbasket.ru/vol%d/part%d/%d/images/big/1.webp", host, vol, part, nmID)
}
