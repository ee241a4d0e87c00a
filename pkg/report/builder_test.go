package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/IPampurin/AromaQuizBot/pkg/db"
	"github.com/IPampurin/AromaQuizBot/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// TestBuildReportEmpty проверяет отчёт за пустое окно: файл валиден, данных нет
func TestBuildReportEmpty(t *testing.T) {

	agg := stats.NewAggregator(6)

	data, err := BuildReport(nil, agg.Snapshot())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	// оба листа на месте
	assert.NotEqual(t, -1, mustSheetIndex(t, f, sheetData))
	assert.NotEqual(t, -1, mustSheetIndex(t, f, sheetSummary))

	// на листе данных только строка заголовков
	rows, err := f.GetRows(sheetData)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Короткий код", "Артикул", "Пользователь", "Время перехода"}, rows[0])

	// в сводке нули
	starts, err := f.GetCellValue(sheetSummary, "B1")
	require.NoError(t, err)
	assert.Equal(t, "0", starts)
}

// TestBuildReportWithEvents проверяет, что переходы попадают на лист data
func TestBuildReportWithEvents(t *testing.T) {

	at := time.Date(2026, 8, 28, 12, 30, 0, 0, time.UTC)
	events := []*db.RedirectEvent{
		{ShortURL: "abc123", Item: "12345", UserID: "100", AccessedAt: at},
		{ShortURL: "xyz789", Item: "67890", UserID: "200", AccessedAt: at.Add(time.Minute)},
	}

	agg := stats.NewAggregator(6)
	agg.RecordStart()
	agg.RecordClick("abc123")
	agg.RecordClick("abc123")
	agg.RecordClick("xyz789")

	data, err := BuildReport(events, agg.Snapshot())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetData)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"abc123", "12345", "100", "2026-08-28 12:30:00"}, rows[1])
	assert.Equal(t, "xyz789", rows[2][0])

	// сводка: один старт и три перехода
	starts, err := f.GetCellValue(sheetSummary, "B1")
	require.NoError(t, err)
	assert.Equal(t, "1", starts)

	summary, err := f.GetRows(sheetSummary)
	require.NoError(t, err)
	assert.True(t, containsRow(summary, "Переходы по ссылкам", "3"))
	assert.True(t, containsRow(summary, "abc123", "2"))
}

// mustSheetIndex возвращает индекс листа, падая при ошибке чтения
func mustSheetIndex(t *testing.T, f *excelize.File, name string) int {

	idx, err := f.GetSheetIndex(name)
	require.NoError(t, err)

	return idx
}

// containsRow ищет в листе строку с заданными значениями первых двух ячеек
func containsRow(rows [][]string, label, value string) bool {

	for _, row := range rows {
		if len(row) >= 2 && row[0] == label && row[1] == value {
			return true
		}
	}

	return false
}
