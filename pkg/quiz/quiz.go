package quiz

import "strings"

// Option - один вариант ответа: подпись кнопки и её стабильный код
type Option struct {
	Label string // текст, который видит пользователь (он же участвует в ключе комбинации)
	Code  string // короткий код, который уходит в callback-данные
}

// Question - вопрос анкеты с упорядоченным списком вариантов
type Question struct {
	Text    string
	Options []Option
}

// Questions - фиксированная анкета подбора аромата.
// Порядок вопросов и вариантов менять нельзя: из подписей собирается ключ комбинации
var Questions = []Question{
	{
		Text: "Какой напиток Вы предпочтёте?",
		Options: []Option{
			{Label: "Фраппучино", Code: "frap"},
			{Label: "Зелёный чай", Code: "tea"},
			{Label: "Ром", Code: "rum"},
		},
	},
	{
		Text: "Кто вы: интроверт или экстраверт?",
		Options: []Option{
			{Label: "Игровая комната с компом и техникой", Code: "room"},
			{Label: "Тусовка в ночном клубе", Code: "club"},
		},
	},
	{
		Text: "Какой стиль отдыха Вам по душе?",
		Options: []Option{
			{Label: "Кровать", Code: "bed"},
			{Label: "Море", Code: "sea"},
			{Label: "Горы", Code: "mount"},
			{Label: "Пикник в лесу", Code: "picnic"},
		},
	},
	{
		Text: "Какой лайфстайл Вы выберете?",
		Options: []Option{
			{Label: "Модная дорогая одежда", Code: "fashion"},
			{Label: "Спортивный стиль с худи", Code: "sport"},
		},
	},
	{
		Text: "Кошки или собаки?",
		Options: []Option{
			{Label: "Кошка", Code: "cat"},
			{Label: "Собака", Code: "dog"},
		},
	},
	{
		Text: "Холод или тепло?",
		Options: []Option{
			{Label: "Дождь", Code: "rain"},
			{Label: "Пляж", Code: "beach"},
		},
	},
}

// Count возвращает число вопросов анкеты
func Count() int {
	return len(Questions)
}

// FindOption ищет вариант по коду среди вариантов вопроса qIdx.
// Возвращает nil, если такого кода у вопроса нет (устаревшая или битая кнопка)
func FindOption(qIdx int, code string) *Option {

	if qIdx < 0 || qIdx >= len(Questions) {
		return nil
	}

	for i := range Questions[qIdx].Options {
		if Questions[qIdx].Options[i].Code == code {
			return &Questions[qIdx].Options[i]
		}
	}

	return nil
}

// CombinationKey собирает канонический ключ комбинации из подписей ответов
// (в том же виде ключи лежат в столбце "Комбинация" таблицы)
func CombinationKey(labels []string) string {
	return strings.Join(labels, " + ")
}
