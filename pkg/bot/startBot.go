package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/IPampurin/AromaQuizBot/pkg/configuration"
	"github.com/IPampurin/AromaQuizBot/pkg/session"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/wb-go/wbf/logger"
)

// тексты бота вне машины состояний
const (
	msgGreeting = "Привет! Я — бот Shermadini House.\n\n" +
		"Сейчас помогу тебе выбрать идеальный аромат, исходя из твоих предпочтений."
	msgComeBack = "Хорошо! Возвращайтесь, когда будете готовы ✨"
)

// Bot - адаптер телеграма: принимает события пользователей для машины состояний
// и реализует каналы доставки (session.Channel и report.Operator)
type Bot struct {
	api         *tgbotapi.BotAPI
	adminChatID int64
	imagesDir   string
	log         logger.Logger
}

// InitBot подключается к Telegram Bot API
func InitBot(cfg *configuration.ConfBot, log logger.Logger) (*Bot, error) {

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к Telegram Bot API: %w", err)
	}

	log.Info("бот авторизован", "username", api.Self.UserName)

	return &Bot{
		api:         api,
		adminChatID: cfg.AdminChatID,
		imagesDir:   cfg.ImagesDir,
		log:         log,
	}, nil
}

// Run запускает long polling и раздаёт обновления обработчикам:
// на каждое событие пользователя - своя горутина.
// Блокируется до отмены контекста
func (b *Bot) Run(ctx context.Context, manager *session.Manager) error {

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)

	b.log.Info("получение обновлений запущено")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("получение обновлений остановлено")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, manager, update)
		}
	}
}

// handleUpdate разбирает одно обновление телеграма
func (b *Bot) handleUpdate(ctx context.Context, manager *session.Manager, update tgbotapi.Update) {

	switch {
	case update.Message != nil && update.Message.IsCommand():
		if update.Message.Command() == "start" {
			b.sendGreeting(update.Message.Chat.ID)
		}

	case update.CallbackQuery != nil:
		b.handleCallback(ctx, manager, update.CallbackQuery)
	}
}

// handleCallback обрабатывает нажатие инлайн-кнопки
func (b *Bot) handleCallback(ctx context.Context, manager *session.Manager, cq *tgbotapi.CallbackQuery) {

	// сразу подтверждаем нажатие, чтобы у пользователя не крутился индикатор
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.log.Warn("ошибка подтверждения callback", "error", err)
	}

	userID := cq.From.ID
	data := cq.Data

	var err error
	switch {
	case data == "start:yes":
		err = manager.Start(ctx, userID)

	case data == "start:no":
		if sendErr := b.SendText(userID, msgComeBack); sendErr != nil {
			b.log.Error("ошибка отправки сообщения", "error", sendErr)
		}

	case strings.HasPrefix(data, "ans"):
		var qIdx int
		var code string
		qIdx, code, err = parseAnswerData(data)
		if err == nil {
			err = manager.SubmitAnswer(ctx, userID, qIdx, code)
		}

	case data == "restart:yes" || data == "restart:no":
		err = manager.SubmitRestartChoice(ctx, userID, data == "restart:yes")

	default:
		b.log.Warn("неизвестные callback-данные", "data", data)
	}

	// ошибки переходов не показываются пользователю: машина состояний сама
	// либо молча подтвердила событие, либо повторила вопрос
	if err != nil && !errors.Is(err, session.ErrInvalidTransition) && !errors.Is(err, session.ErrUnknownOption) {
		b.log.Error("ошибка обработки события", "user_id", userID, "data", data, "error", err)
	}
}

// parseAnswerData разбирает callback-данные вида "ans<номер вопроса>:<код варианта>"
func parseAnswerData(data string) (int, string, error) {

	prefix, code, found := strings.Cut(data, ":")
	if !found {
		return 0, "", fmt.Errorf("некорректные callback-данные ответа: %q", data)
	}

	qIdx, err := strconv.Atoi(strings.TrimPrefix(prefix, "ans"))
	if err != nil {
		return 0, "", fmt.Errorf("некорректный номер вопроса в callback-данных %q: %w", data, err)
	}

	return qIdx, code, nil
}

// sendGreeting отправляет приветствие с кнопкой начала опроса
func (b *Bot) sendGreeting(chatID int64) {

	msg := tgbotapi.NewMessage(chatID, msgGreeting)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Начать", "start:yes"),
		),
	)

	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("ошибка отправки приветствия", "chat_id", chatID, "error", err)
	}
}
