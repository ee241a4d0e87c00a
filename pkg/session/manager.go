package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/IPampurin/AromaQuizBot/pkg/catalog"
	"github.com/IPampurin/AromaQuizBot/pkg/configuration"
	"github.com/IPampurin/AromaQuizBot/pkg/quiz"
	"github.com/IPampurin/AromaQuizBot/pkg/stats"
	"github.com/wb-go/wbf/logger"
)

// тексты сообщений пользователю
const (
	msgOffer           = "Отличный выбор! Нажмите кнопку ниже, чтобы перейти к покупке."
	msgNoMatch         = "К сожалению, по заданной комбинации нет артикула.\nМы работаем над расширением ассортимента!"
	msgLinkUnavailable = "Не получилось собрать ссылку на товар, попробуйте чуть позже."
	msgRestartPrompt   = "Хотите пройти опрос ещё раз?"
	msgRestart         = "Начинаем заново!"
	msgGoodbye         = "Спасибо за участие! ✨"
)

// Manager ведёт сессии опроса: одна активная сессия на пользователя.
// Карта сессий закрыта мьютексом менеджера, события одного пользователя
// сериализуются мьютексом его сессии
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session

	catalog   *catalog.Index
	shortener Shortener
	channel   Channel
	stats     *stats.Aggregator
	log       logger.Logger

	publicURL      string // префикс коротких ссылок в сообщениях
	resolveTimeout time.Duration
	idleTTL        time.Duration
}

// InitManager собирает менеджер сессий опроса
func InitManager(cat *catalog.Index, shortener Shortener, channel Channel, agg *stats.Aggregator,
	cfg *configuration.ConfSession, publicURL string, log logger.Logger) *Manager {

	return &Manager{
		sessions:       make(map[int64]*Session),
		catalog:        cat,
		shortener:      shortener,
		channel:        channel,
		stats:          agg,
		log:            log,
		publicURL:      publicURL,
		resolveTimeout: cfg.ResolveTimeout,
		idleTTL:        cfg.IdleTTL,
	}
}

// Start начинает опрос заново: сбрасывает прежние ответы пользователя,
// учитывает старт в статистике и показывает первый вопрос
func (m *Manager) Start(ctx context.Context, userID int64) error {

	s := m.getOrCreate(userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	m.restartLocked(s)

	return nil
}

// SubmitAnswer обрабатывает выбор варианта code на вопросе qIdx.
// Событие вне вопроса (двойное нажатие, устаревшая кнопка после рестарта)
// игнорируется: возвращается ErrInvalidTransition для лога, пользователю
// ничего не показывается. Неизвестный код варианта повторяет тот же вопрос
func (m *Manager) SubmitAnswer(ctx context.Context, userID int64, qIdx int, code string) error {

	s := m.lookup(userID)
	if s == nil {
		return ErrInvalidTransition
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State != StateQuestion || s.Step != qIdx {
		m.log.Debug("ответ вне вопроса проигнорирован",
			"sid", s.SID, "state", s.State.String(), "step", s.Step, "q_idx", qIdx)
		return ErrInvalidTransition
	}

	opt := quiz.FindOption(qIdx, code)
	if opt == nil {
		m.log.Warn("неизвестный код варианта, вопрос показан повторно",
			"sid", s.SID, "q_idx", qIdx, "code", code)
		m.askQuestion(s, qIdx)
		return ErrUnknownOption
	}

	// записываем ответ на свою позицию
	if len(s.Answers) <= qIdx {
		s.Answers = append(s.Answers, opt.Label)
	} else {
		s.Answers[qIdx] = opt.Label
	}
	m.stats.RecordStep(qIdx)
	s.UpdatedAt = time.Now()

	if qIdx+1 < quiz.Count() {
		s.Step = qIdx + 1
		m.askQuestion(s, s.Step)
		return nil
	}

	// все вопросы отвечены - подбираем товар и ждём решения о повторе
	err := m.resolve(ctx, s)
	s.State = StateAwaitRestart
	s.UpdatedAt = time.Now()

	return err
}

// SubmitRestartChoice обрабатывает решение пользователя после завершения опроса:
// retry=true запускает опрос заново, retry=false завершает сессию
func (m *Manager) SubmitRestartChoice(ctx context.Context, userID int64, retry bool) error {

	s := m.lookup(userID)
	if s == nil {
		return ErrInvalidTransition
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State != StateAwaitRestart {
		m.log.Debug("решение о повторе вне ожидания проигнорировано",
			"sid", s.SID, "state", s.State.String())
		return ErrInvalidTransition
	}

	if !retry {
		s.State = StateTerminated
		s.UpdatedAt = time.Now()
		if err := m.channel.SendText(userID, msgGoodbye); err != nil {
			m.log.Error("ошибка отправки прощального сообщения", "sid", s.SID, "error", err)
		}
		// запись о завершённой сессии больше не нужна
		m.remove(userID)
		m.log.Info("опрос завершён пользователем", "sid", s.SID, "user_id", userID)
		return nil
	}

	if err := m.channel.SendText(userID, msgRestart); err != nil {
		m.log.Error("ошибка отправки сообщения о рестарте", "sid", s.SID, "error", err)
	}
	m.restartLocked(s)

	return nil
}

// StartJanitor запускает фоновое вытеснение сессий, простаивающих дольше idleTTL.
// Блокируется до отмены контекста
func (m *Manager) StartJanitor(ctx context.Context) {

	interval := m.idleTTL / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.log.Info("вытеснение простаивающих сессий запущено", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			m.log.Info("вытеснение сессий остановлено")
			return
		case <-ticker.C:
			evicted := m.evictIdle(time.Now().Add(-m.idleTTL))
			if evicted > 0 {
				m.log.Info("простаивающие сессии удалены", "count", evicted)
			}
		}
	}
}

// restartLocked переводит сессию в начало опроса (вызывается под s.mu)
func (m *Manager) restartLocked(s *Session) {

	s.Answers = s.Answers[:0]
	s.State = StateQuestion
	s.Step = 0
	s.UpdatedAt = time.Now()

	m.stats.RecordStart()
	m.log.Info("опрос начат", "sid", s.SID, "user_id", s.UserID)

	m.askQuestion(s, 0)
}

// askQuestion показывает вопрос qIdx пользователю (вызывается под s.mu)
func (m *Manager) askQuestion(s *Session, qIdx int) {

	if err := m.channel.SendQuestion(s.UserID, qIdx, quiz.Questions[qIdx]); err != nil {
		m.log.Error("ошибка отправки вопроса", "sid", s.SID, "q_idx", qIdx, "error", err)
	}
}

// resolve собирает ключ комбинации, ищет товар в каталоге и отправляет
// пользователю предложение с короткой ссылкой (вызывается под s.mu).
// Недоступность сервиса ссылок и отсутствие комбинации - не ошибки пользователя:
// он получает штатное сообщение и предложение пройти опрос заново
func (m *Manager) resolve(ctx context.Context, s *Session) error {

	key := quiz.CombinationKey(s.Answers)

	entry, ok := m.catalog.Lookup(key)
	if !ok {
		m.log.Info("комбинация не найдена в каталоге", "sid", s.SID, "key", key)
		if err := m.channel.SendText(s.UserID, msgNoMatch); err != nil {
			m.log.Error("ошибка отправки сообщения-заглушки", "sid", s.SID, "error", err)
		}
		m.promptRestart(s)
		return ErrCombinationNotFound
	}

	// обращение к сервису ссылок ограничено по времени:
	// таймаут превращается в сообщение-заглушку, а не в бесконечные повторы
	ctxLink, cancel := context.WithTimeout(ctx, m.resolveTimeout)
	defer cancel()

	link, err := m.shortener.CreateShortLink(ctxLink, m.log, entry.Article, strconv.FormatInt(s.UserID, 10))
	if err != nil {
		m.log.Error("сервис коротких ссылок недоступен", "sid", s.SID, "item", entry.Article, "error", err)
		if sendErr := m.channel.SendText(s.UserID, msgLinkUnavailable); sendErr != nil {
			m.log.Error("ошибка отправки сообщения-заглушки", "sid", s.SID, "error", sendErr)
		}
		m.promptRestart(s)
		return err
	}

	shortURL := m.publicURL + "/" + link.ShortURL

	if err := m.channel.SendOffer(s.UserID, msgOffer, entry.PhotoURL, shortURL); err != nil {
		m.log.Error("ошибка отправки предложения", "sid", s.SID, "error", err)
	}

	m.log.Info("опрос завершён подбором товара",
		"sid", s.SID, "item", entry.Article, "short_url", link.ShortURL)

	return nil
}

// promptRestart предлагает пройти опрос заново (вызывается под s.mu)
func (m *Manager) promptRestart(s *Session) {

	if err := m.channel.SendRestartPrompt(s.UserID, msgRestartPrompt); err != nil {
		m.log.Error("ошибка отправки предложения о повторе", "sid", s.SID, "error", err)
	}
}

// getOrCreate возвращает сессию пользователя, создавая её при первом обращении
func (m *Manager) getOrCreate(userID int64) *Session {

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		s = newSession(userID)
		m.sessions[userID] = s
	}

	return s
}

// lookup возвращает сессию пользователя или nil
func (m *Manager) lookup(userID int64) *Session {

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sessions[userID]
}

// remove удаляет запись о сессии пользователя
func (m *Manager) remove(userID int64) {

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
}

// evictIdle удаляет сессии, не менявшиеся с момента deadline, и возвращает их число.
// Мьютексы сессий берутся без удержания мьютекса карты: обработчики событий
// берут их в обратном порядке, и вложенный захват привёл бы к взаимной блокировке
func (m *Manager) evictIdle(deadline time.Time) int {

	m.mu.Lock()
	candidates := make(map[int64]*Session, len(m.sessions))
	for userID, s := range m.sessions {
		candidates[userID] = s
	}
	m.mu.Unlock()

	idle := make([]int64, 0)
	for userID, s := range candidates {
		s.mu.Lock()
		if s.UpdatedAt.Before(deadline) {
			idle = append(idle, userID)
		}
		s.mu.Unlock()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for _, userID := range idle {
		// сессия могла обновиться между проверкой и удалением - не страшно:
		// следующее событие пользователя просто создаст новую
		if _, ok := m.sessions[userID]; ok {
			delete(m.sessions, userID)
			evicted++
		}
	}

	return evicted
}
