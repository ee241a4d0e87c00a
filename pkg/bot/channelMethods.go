package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/IPampurin/AromaQuizBot/pkg/quiz"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// реализация session.Channel

// SendQuestion показывает вопрос анкеты с кнопками вариантов.
// Если в папке картинок лежит q<номер>.png, вопрос уходит фотографией с подписью
func (b *Bot) SendQuestion(userID int64, qIdx int, q quiz.Question) error {

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(q.Options))
	for _, opt := range q.Options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(opt.Label, fmt.Sprintf("ans%d:%s", qIdx, opt.Code)),
		))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)

	imgPath := filepath.Join(b.imagesDir, fmt.Sprintf("q%d.png", qIdx+1))
	if _, err := os.Stat(imgPath); err == nil {
		photo := tgbotapi.NewPhoto(userID, tgbotapi.FilePath(imgPath))
		photo.Caption = q.Text
		photo.ReplyMarkup = keyboard
		if _, err := b.api.Send(photo); err == nil {
			return nil
		}
		// если фото не ушло, пробуем обычным сообщением
		b.log.Warn("вопрос с картинкой не отправился, шлём текстом", "q_idx", qIdx)
	}

	msg := tgbotapi.NewMessage(userID, q.Text)
	msg.ReplyMarkup = keyboard

	_, err := b.api.Send(msg)
	return err
}

// SendOffer показывает предложение товара: кнопка перехода по короткой ссылке
// и кнопка повторного прохождения опроса
func (b *Bot) SendOffer(userID int64, caption, photoURL, shortURL string) error {

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Перейти к покупке", shortURL),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Пройти ещё раз", "restart:yes"),
		),
	)

	if photoURL != "" {
		photo := tgbotapi.NewPhoto(userID, tgbotapi.FileURL(photoURL))
		photo.Caption = caption
		photo.ReplyMarkup = keyboard
		if _, err := b.api.Send(photo); err == nil {
			return nil
		}
		// битая ссылка на фото не должна срывать предложение
		b.log.Warn("предложение с фото не отправилось, шлём текстом", "photo_url", photoURL)
	}

	msg := tgbotapi.NewMessage(userID, caption)
	msg.ReplyMarkup = keyboard

	_, err := b.api.Send(msg)
	return err
}

// SendRestartPrompt предлагает пройти опрос заново
func (b *Bot) SendRestartPrompt(userID int64, text string) error {

	msg := tgbotapi.NewMessage(userID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Пройти ещё раз", "restart:yes"),
			tgbotapi.NewInlineKeyboardButtonData("Завершить", "restart:no"),
		),
	)

	_, err := b.api.Send(msg)
	return err
}

// SendText отправляет простое текстовое сообщение
func (b *Bot) SendText(userID int64, text string) error {

	_, err := b.api.Send(tgbotapi.NewMessage(userID, text))
	return err
}

// реализация report.Operator

// SendReport отправляет файл отчёта в админский чат
func (b *Bot) SendReport(_ context.Context, filename string, data []byte, caption string) error {

	doc := tgbotapi.NewDocument(b.adminChatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = caption

	_, err := b.api.Send(doc)
	return err
}

// SendAlert отправляет оператору сообщение об ошибке
func (b *Bot) SendAlert(_ context.Context, text string) error {

	_, err := b.api.Send(tgbotapi.NewMessage(b.adminChatID, text))
	return err
}
