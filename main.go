package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/IPampurin/AromaQuizBot/pkg/bot"
	"github.com/IPampurin/AromaQuizBot/pkg/cache"
	"github.com/IPampurin/AromaQuizBot/pkg/catalog"
	"github.com/IPampurin/AromaQuizBot/pkg/configuration"
	"github.com/IPampurin/AromaQuizBot/pkg/db"
	"github.com/IPampurin/AromaQuizBot/pkg/quiz"
	"github.com/IPampurin/AromaQuizBot/pkg/report"
	"github.com/IPampurin/AromaQuizBot/pkg/server"
	"github.com/IPampurin/AromaQuizBot/pkg/service"
	"github.com/IPampurin/AromaQuizBot/pkg/session"
	"github.com/IPampurin/AromaQuizBot/pkg/stats"
	"github.com/wb-go/wbf/logger"
)

func main() {

	// cоздаём контекст
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// запускаем горутину обработки сигналов
	go signalHandler(ctx, cancel)

	// считываем .env файл
	cfg, err := configuration.ReadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// настраиваем логгер
	appLogger, err := logger.InitLogger(
		logger.ZapEngine,
		"AromaQuizBot",
		os.Getenv("APP_ENV"),
		logger.WithLevel(logger.InfoLevel),
	)
	if err != nil {
		log.Fatalf("Ошибка создания логгера: %v", err)
	}

	// получаем экземпляр хранилища
	storage, err := db.InitDB(ctx, &cfg.DB, appLogger)
	if err != nil {
		appLogger.Error("ошибка подключения к БД", "error", err)
		return
	}
	defer func() { _ = db.CloseDB(storage) }()

	// получаем экземпляр кэша
	cacheClient, err := cache.InitCache(ctx, storage, &cfg.Redis, appLogger)
	if err != nil {
		appLogger.Warn("кэш не работает", "error", err)
		cacheClient = nil
	}

	// загружаем каталог комбинаций (без каталога бот бесполезен)
	catalogIndex, err := catalog.Load(cfg.Catalog.Path, appLogger)
	if err != nil {
		appLogger.Error("каталог недоступен", "error", err)
		return
	}

	// агрегатор статистики создаётся здесь и передаётся явно
	aggregator := stats.NewAggregator(quiz.Count())

	// слой бизнес-логики сервиса редиректов
	svc := service.InitService(storage, cacheClient, aggregator)

	// подключаемся к телеграму
	tgBot, err := bot.InitBot(&cfg.Bot, appLogger)
	if err != nil {
		appLogger.Error("ошибка запуска бота", "error", err)
		return
	}

	// менеджер сессий опроса
	manager := session.InitManager(catalogIndex, svc, tgBot, aggregator,
		&cfg.Session, cfg.Server.PublicURL, appLogger)

	// фоновые задачи: опрос телеграма, вытеснение сессий, отчёты
	go func() {
		if err := tgBot.Run(ctx, manager); err != nil {
			appLogger.Error("бот остановился с ошибкой", "error", err)
			cancel()
		}
	}()
	go manager.StartJanitor(ctx)
	go report.InitReporter(ctx, &cfg.Report, storage, aggregator, tgBot, appLogger)

	// запускаем сервер редиректов
	err = server.Run(ctx, &cfg.Server, svc, appLogger)
	if err != nil {
		appLogger.Error("Ошибка сервера", "error", err)
		cancel()
		return
	}

	appLogger.Info("Приложение корректно завершено")
}

// signalHandler обрабатывет сигналы отмены
func signalHandler(ctx context.Context, cancel context.CancelFunc) {

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		return
	case <-sigChan:
		cancel()
		return
	}
}
