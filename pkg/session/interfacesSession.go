package session

import (
	"context"

	"github.com/IPampurin/AromaQuizBot/pkg/quiz"
	"github.com/IPampurin/AromaQuizBot/pkg/service"
	"github.com/wb-go/wbf/logger"
)

// Channel - канал доставки сообщений пользователю (телеграм или заглушка в тестах).
// Доставка best-effort: ошибки отправки логируются и не роняют обработку события
type Channel interface {
	// SendQuestion показывает вопрос анкеты с кнопками вариантов
	SendQuestion(userID int64, qIdx int, q quiz.Question) error

	// SendOffer показывает предложение товара: подпись, фото (может быть пустым),
	// короткую ссылку на покупку и кнопку повторного прохождения
	SendOffer(userID int64, caption, photoURL, shortURL string) error

	// SendRestartPrompt предлагает пройти опрос заново (кнопки "да"/"нет")
	SendRestartPrompt(userID int64, text string) error

	// SendText отправляет простое текстовое сообщение
	SendText(userID int64, text string) error
}

// Shortener - то, что умеет выдать короткую ссылку на товар
// (реализуется сервисом редиректов)
type Shortener interface {
	CreateShortLink(ctx context.Context, log logger.Logger, item, userID string) (*service.ResponseLink, error)
}
