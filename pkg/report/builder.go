package report

import (
	"fmt"

	"github.com/IPampurin/AromaQuizBot/pkg/db"
	"github.com/IPampurin/AromaQuizBot/pkg/stats"
	"github.com/xuri/excelize/v2"
)

// имена листов в файле отчёта
const (
	sheetData    = "data"
	sheetSummary = "summary"
)

// BuildReport собирает xlsx-файл отчёта: лист data с переходами за окно отчёта
// и лист summary со срезом счётчиков опроса.
// Пустое окно даёт файл с одними заголовками, это не ошибка
func BuildReport(events []*db.RedirectEvent, snap stats.Snapshot) ([]byte, error) {

	f := excelize.NewFile()
	defer f.Close()

	// лист с сырыми переходами
	f.SetSheetName("Sheet1", sheetData)

	dataHeaders := []string{"Короткий код", "Артикул", "Пользователь", "Время перехода"}
	for i, h := range dataHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("ошибка адресации ячейки заголовка: %w", err)
		}
		if err := f.SetCellValue(sheetData, cell, h); err != nil {
			return nil, fmt.Errorf("ошибка записи заголовка отчёта: %w", err)
		}
	}

	for row, e := range events {
		values := []interface{}{e.ShortURL, e.Item, e.UserID, e.AccessedAt.Format("2006-01-02 15:04:05")}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("ошибка адресации ячейки данных: %w", err)
			}
			if err := f.SetCellValue(sheetData, cell, v); err != nil {
				return nil, fmt.Errorf("ошибка записи строки отчёта: %w", err)
			}
		}
	}

	// лист со сводкой по опросу
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, fmt.Errorf("ошибка создания листа сводки: %w", err)
	}

	if err := writeSummary(f, snap); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения файла отчёта: %w", err)
	}

	return buf.Bytes(), nil
}

// writeSummary заполняет лист summary срезом счётчиков
func writeSummary(f *excelize.File, snap stats.Snapshot) error {

	set := func(col, row int, v interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return fmt.Errorf("ошибка адресации ячейки сводки: %w", err)
		}
		if err := f.SetCellValue(sheetSummary, cell, v); err != nil {
			return fmt.Errorf("ошибка записи сводки: %w", err)
		}
		return nil
	}

	if err := set(1, 1, "Всего стартов опроса"); err != nil {
		return err
	}
	if err := set(2, 1, snap.TotalStarts); err != nil {
		return err
	}

	row := 3
	for i := range snap.StepCounts {
		if err := set(1, row, fmt.Sprintf("Дошли до вопроса %d", i+1)); err != nil {
			return err
		}
		if err := set(2, row, snap.StepCounts[i]); err != nil {
			return err
		}
		if err := set(3, row, fmt.Sprintf("%.1f%%", snap.StepPercents[i])); err != nil {
			return err
		}
		row++
	}

	row++
	if err := set(1, row, "Переходы по ссылкам"); err != nil {
		return err
	}
	if err := set(2, row, snap.TotalClicks); err != nil {
		return err
	}
	row++

	for code, n := range snap.Clicks {
		if err := set(1, row, code); err != nil {
			return err
		}
		if err := set(2, row, n); err != nil {
			return err
		}
		if err := set(3, row, fmt.Sprintf("%.1f%%", snap.ClickShares[code])); err != nil {
			return err
		}
		row++
	}

	return nil
}
