package report

import (
	"context"
	"fmt"
	"time"

	"github.com/IPampurin/AromaQuizBot/pkg/configuration"
	"github.com/IPampurin/AromaQuizBot/pkg/db"
	"github.com/IPampurin/AromaQuizBot/pkg/stats"
	"github.com/wb-go/wbf/logger"
	"github.com/wb-go/wbf/retry"
)

// Operator - канал доставки отчётов и служебных сообщений оператору
// (в бою - админский чат телеграма)
type Operator interface {
	// SendReport отправляет оператору файл отчёта
	SendReport(ctx context.Context, filename string, data []byte, caption string) error

	// SendAlert отправляет оператору текст об ошибке формирования отчёта
	SendAlert(ctx context.Context, text string) error
}

// InitReporter запускает периодическую сборку и отправку отчётов,
// блокируется до отмены контекста. Любая ошибка одного цикла
// сообщается оператору или в лог, но не останавливает планировщик
func InitReporter(ctx context.Context, cfg *configuration.ConfReport,
	events db.RedirectMethods, agg *stats.Aggregator, operator Operator, log logger.Logger) {

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	log.Info("планировщик отчётов запущен", "interval", cfg.Interval, "window", cfg.Window)

	for {
		select {
		case <-ctx.Done():
			log.Info("планировщик отчётов завершает работу")
			return
		case <-ticker.C:
			sendOnce(ctx, cfg, events, agg, operator, log)
		}
	}
}

// sendOnce выполняет один цикл отчёта: выборка переходов, сборка файла, отправка
func sendOnce(ctx context.Context, cfg *configuration.ConfReport,
	events db.RedirectMethods, agg *stats.Aggregator, operator Operator, log logger.Logger) {

	// выбираем переходы за окно отчёта
	rows, err := events.GetRedirectsOfPeriod(ctx, cfg.Window)
	if err != nil {
		log.Error("ошибка выборки переходов для отчёта", "error", err)
		// ошибку запроса оператор должен увидеть отдельным сообщением, а не тишиной
		if alertErr := operator.SendAlert(ctx, fmt.Sprintf("Не удалось сформировать отчёт.\nОшибка выборки: %v", err)); alertErr != nil {
			log.Error("ошибка отправки сообщения оператору", "error", alertErr)
		}
		return
	}

	data, err := BuildReport(rows, agg.Snapshot())
	if err != nil {
		log.Error("ошибка сборки файла отчёта", "error", err)
		if alertErr := operator.SendAlert(ctx, fmt.Sprintf("Не удалось собрать файл отчёта: %v", err)); alertErr != nil {
			log.Error("ошибка отправки сообщения оператору", "error", alertErr)
		}
		return
	}

	caption := fmt.Sprintf("Отчёт по переходам (%s)", time.Now().Format("02.01 15:04"))

	// доставка с повторами: чат оператора может быть временно недоступен
	strategy := retry.Strategy{Attempts: 3, Delay: time.Second, Backoff: 2}
	err = retry.DoContext(ctx, strategy, func() error {
		return operator.SendReport(ctx, "report.xlsx", data, caption)
	})
	if err != nil {
		log.Error("отчёт не доставлен оператору", "error", err, "rows", len(rows))
		return
	}

	log.Info("отчёт отправлен оператору", "rows", len(rows))
}
