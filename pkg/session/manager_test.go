package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IPampurin/AromaQuizBot/pkg/catalog"
	"github.com/IPampurin/AromaQuizBot/pkg/configuration"
	"github.com/IPampurin/AromaQuizBot/pkg/quiz"
	"github.com/IPampurin/AromaQuizBot/pkg/service"
	"github.com/IPampurin/AromaQuizBot/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/logger"
)

// коды ответов, ведущие к тестовому товару (по одному на каждый вопрос)
var scenarioCodes = []string{"frap", "room", "bed", "fashion", "cat", "rain"}

// fakeChannel записывает все отправленные пользователю сообщения
type fakeChannel struct {
	mu             sync.Mutex
	questions      []int // индексы показанных вопросов по порядку
	offers         []offerCall
	restartPrompts int
	texts          []string
}

type offerCall struct {
	photoURL string
	shortURL string
}

func (f *fakeChannel) SendQuestion(_ int64, qIdx int, _ quiz.Question) error {

	f.mu.Lock()
	defer f.mu.Unlock()

	f.questions = append(f.questions, qIdx)

	return nil
}

func (f *fakeChannel) SendOffer(_ int64, _, photoURL, shortURL string) error {

	f.mu.Lock()
	defer f.mu.Unlock()

	f.offers = append(f.offers, offerCall{photoURL: photoURL, shortURL: shortURL})

	return nil
}

func (f *fakeChannel) SendRestartPrompt(_ int64, _ string) error {

	f.mu.Lock()
	defer f.mu.Unlock()

	f.restartPrompts++

	return nil
}

func (f *fakeChannel) SendText(_ int64, text string) error {

	f.mu.Lock()
	defer f.mu.Unlock()

	f.texts = append(f.texts, text)

	return nil
}

// fakeShortener выдаёт один и тот же короткий код либо заданную ошибку
type fakeShortener struct {
	mu    sync.Mutex
	items []string // артикулы, с которыми сервис вызывался
	err   error
}

func (f *fakeShortener) CreateShortLink(_ context.Context, _ logger.Logger, item, _ string) (*service.ResponseLink, error) {

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	f.items = append(f.items, item)

	return &service.ResponseLink{
		ShortURL:    "abc123",
		OriginalURL: service.TargetURL(item),
		Item:        item,
	}, nil
}

// scenarioKey собирает ключ комбинации из кодов ответов так,
// как его соберёт менеджер по подписям вариантов
func scenarioKey(t *testing.T) string {

	labels := make([]string, 0, len(scenarioCodes))
	for i, code := range scenarioCodes {
		opt := quiz.FindOption(i, code)
		require.NotNil(t, opt, "код %q не найден у вопроса %d", code, i)
		labels = append(labels, opt.Label)
	}

	return quiz.CombinationKey(labels)
}

// newTestManager собирает менеджер на фейковых зависимостях
func newTestManager(t *testing.T, cat *catalog.Index, shortener Shortener) (*Manager, *fakeChannel, *stats.Aggregator) {

	log, err := logger.InitLogger(logger.ZapEngine, "session-test", "", logger.WithLevel(logger.InfoLevel))
	require.NoError(t, err)

	channel := &fakeChannel{}
	agg := stats.NewAggregator(quiz.Count())
	cfg := &configuration.ConfSession{
		IdleTTL:        time.Hour,
		ResolveTimeout: time.Second,
	}

	m := InitManager(cat, shortener, channel, agg, cfg, "https://aroma.example.com", log)

	return m, channel, agg
}

// passQuiz проходит опрос целиком кодами scenarioCodes
func passQuiz(t *testing.T, m *Manager, userID int64) error {

	require.NoError(t, m.Start(context.Background(), userID))

	var last error
	for i, code := range scenarioCodes {
		last = m.SubmitAnswer(context.Background(), userID, i, code)
	}

	return last
}

// TestFullScenario проверяет полный путь: старт -> шесть ответов -> предложение товара
func TestFullScenario(t *testing.T) {

	cat := catalog.NewIndex(map[string]catalog.Entry{
		scenarioKey(t): {Article: "12345", PhotoURL: "https://photo.example.com/1.webp"},
	})
	shortener := &fakeShortener{}
	m, channel, agg := newTestManager(t, cat, shortener)

	err := passQuiz(t, m, 100)
	require.NoError(t, err)

	// сервис ссылок вызван ровно один раз и именно с подобранным артикулом
	require.Equal(t, []string{"12345"}, shortener.items)

	// пользователь увидел все шесть вопросов по порядку и одно предложение
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, channel.questions)
	require.Len(t, channel.offers, 1)
	assert.Equal(t, "https://photo.example.com/1.webp", channel.offers[0].photoURL)
	assert.Equal(t, "https://aroma.example.com/abc123", channel.offers[0].shortURL)

	// сессия ждёт решения о повторе
	s := m.lookup(100)
	require.NotNil(t, s)
	assert.Equal(t, StateAwaitRestart, s.State)

	// статистика: один старт, до каждого вопроса дошёл один пользователь
	snap := agg.Snapshot()
	assert.Equal(t, int64(1), snap.TotalStarts)
	for i, n := range snap.StepCounts {
		assert.Equal(t, int64(1), n, "вопрос %d", i)
	}
}

// TestNoMatchCombination проверяет поведение при комбинации без артикула
func TestNoMatchCombination(t *testing.T) {

	shortener := &fakeShortener{}
	m, channel, _ := newTestManager(t, catalog.NewIndex(nil), shortener)

	err := passQuiz(t, m, 100)
	assert.ErrorIs(t, err, ErrCombinationNotFound)

	// вместо предложения - заглушка и вопрос о повторе, сервис ссылок не трогали
	assert.Empty(t, shortener.items)
	assert.Empty(t, channel.offers)
	assert.Contains(t, channel.texts, msgNoMatch)
	assert.Equal(t, 1, channel.restartPrompts)

	// после заглушки тоже ждём решения о повторе
	s := m.lookup(100)
	require.NotNil(t, s)
	assert.Equal(t, StateAwaitRestart, s.State)
}

// TestShortenerUnavailable проверяет заглушку при недоступности сервиса ссылок
func TestShortenerUnavailable(t *testing.T) {

	shortErr := errors.New("сервис недоступен")
	cat := catalog.NewIndex(map[string]catalog.Entry{
		scenarioKey(t): {Article: "12345"},
	})
	m, channel, _ := newTestManager(t, cat, &fakeShortener{err: shortErr})

	err := passQuiz(t, m, 100)
	assert.ErrorIs(t, err, shortErr)

	assert.Empty(t, channel.offers)
	assert.Contains(t, channel.texts, msgLinkUnavailable)
	assert.Equal(t, 1, channel.restartPrompts)
}

// TestAnswerOutsideQuestion проверяет игнорирование событий вне вопроса
func TestAnswerOutsideQuestion(t *testing.T) {

	m, channel, _ := newTestManager(t, catalog.NewIndex(nil), &fakeShortener{})

	// ответ до старта - сессии ещё нет
	err := m.SubmitAnswer(context.Background(), 100, 0, "frap")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// ответ не на текущий вопрос (устаревшая кнопка)
	require.NoError(t, m.Start(context.Background(), 100))
	err = m.SubmitAnswer(context.Background(), 100, 3, "fashion")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// решение о повторе посреди опроса тоже игнорируется
	err = m.SubmitRestartChoice(context.Background(), 100, true)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// пользователю ничего лишнего не показали: только первый вопрос
	assert.Equal(t, []int{0}, channel.questions)

	s := m.lookup(100)
	require.NotNil(t, s)
	assert.Equal(t, StateQuestion, s.State)
	assert.Equal(t, 0, s.Step)
}

// TestUnknownOption проверяет повтор вопроса при неизвестном коде варианта
func TestUnknownOption(t *testing.T) {

	m, channel, _ := newTestManager(t, catalog.NewIndex(nil), &fakeShortener{})

	require.NoError(t, m.Start(context.Background(), 100))

	err := m.SubmitAnswer(context.Background(), 100, 0, "nope")
	assert.ErrorIs(t, err, ErrUnknownOption)

	// тот же вопрос показан повторно, шаг не сдвинулся
	assert.Equal(t, []int{0, 0}, channel.questions)
	s := m.lookup(100)
	require.NotNil(t, s)
	assert.Equal(t, 0, s.Step)
	assert.Empty(t, s.Answers)

	// корректный ответ после этого принимается
	require.NoError(t, m.SubmitAnswer(context.Background(), 100, 0, "frap"))
	assert.Equal(t, 1, s.Step)
}

// TestRestartRetry проверяет повторное прохождение опроса
func TestRestartRetry(t *testing.T) {

	cat := catalog.NewIndex(map[string]catalog.Entry{
		scenarioKey(t): {Article: "12345"},
	})
	shortener := &fakeShortener{}
	m, channel, agg := newTestManager(t, cat, shortener)

	require.NoError(t, passQuiz(t, m, 100))
	require.NoError(t, m.SubmitRestartChoice(context.Background(), 100, true))

	// опрос начался заново: второй старт, снова первый вопрос, прежние ответы стёрты
	assert.Equal(t, int64(2), agg.Snapshot().TotalStarts)
	assert.Contains(t, channel.texts, msgRestart)

	s := m.lookup(100)
	require.NotNil(t, s)
	assert.Equal(t, StateQuestion, s.State)
	assert.Equal(t, 0, s.Step)
	assert.Empty(t, s.Answers)

	// второе прохождение создаёт вторую ссылку
	for i, code := range scenarioCodes {
		require.NoError(t, m.SubmitAnswer(context.Background(), 100, i, code))
	}
	assert.Len(t, shortener.items, 2)
}

// TestRestartDecline проверяет завершение сессии по отказу от повтора
func TestRestartDecline(t *testing.T) {

	cat := catalog.NewIndex(map[string]catalog.Entry{
		scenarioKey(t): {Article: "12345"},
	})
	m, channel, _ := newTestManager(t, cat, &fakeShortener{})

	require.NoError(t, passQuiz(t, m, 100))
	require.NoError(t, m.SubmitRestartChoice(context.Background(), 100, false))

	assert.Contains(t, channel.texts, msgGoodbye)

	// запись о сессии удалена, новые события требуют нового /start
	assert.Nil(t, m.lookup(100))
	err := m.SubmitAnswer(context.Background(), 100, 0, "frap")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

// TestIndependentUsers проверяет изоляцию сессий разных пользователей
func TestIndependentUsers(t *testing.T) {

	m, _, agg := newTestManager(t, catalog.NewIndex(nil), &fakeShortener{})

	require.NoError(t, m.Start(context.Background(), 100))
	require.NoError(t, m.Start(context.Background(), 200))

	require.NoError(t, m.SubmitAnswer(context.Background(), 100, 0, "frap"))

	// прогресс одного пользователя не двигает другого
	assert.Equal(t, 1, m.lookup(100).Step)
	assert.Equal(t, 0, m.lookup(200).Step)

	assert.Equal(t, int64(2), agg.Snapshot().TotalStarts)
}

// TestEvictIdle проверяет вытеснение простаивающих сессий
func TestEvictIdle(t *testing.T) {

	m, _, _ := newTestManager(t, catalog.NewIndex(nil), &fakeShortener{})

	require.NoError(t, m.Start(context.Background(), 100))
	require.NoError(t, m.Start(context.Background(), 200))

	// состарим одну сессию
	s := m.lookup(100)
	s.mu.Lock()
	s.UpdatedAt = time.Now().Add(-2 * time.Hour)
	s.mu.Unlock()

	evicted := m.evictIdle(time.Now().Add(-time.Hour))
	assert.Equal(t, 1, evicted)
	assert.Nil(t, m.lookup(100))
	assert.NotNil(t, m.lookup(200))
}
