package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State - закрытый набор состояний сессии опроса.
// Переходы: Idle -> Question(0..N-1) -> AwaitRestart -> (Question(0) | Terminated)
type State int

const (
	// StateIdle - сессия создана, опрос ещё не начат
	StateIdle State = iota
	// StateQuestion - пользователю показан вопрос с номером Session.Step
	StateQuestion
	// StateAwaitRestart - опрос завершён, ждём решения о повторном прохождении
	StateAwaitRestart
	// StateTerminated - пользователь отказался продолжать, сессию можно удалять
	StateTerminated
)

// String нужен для читаемых логов переходов
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateQuestion:
		return "question"
	case StateAwaitRestart:
		return "await_restart"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// ошибки переходов состояния
var (
	// ErrInvalidTransition - событие не подходит текущему состоянию сессии.
	// Пользователю не показывается: событие тихо подтверждается и логируется
	ErrInvalidTransition = errors.New("событие не соответствует состоянию сессии")

	// ErrUnknownOption - код варианта не из списка текущего вопроса
	// (устаревшая кнопка); пользователю повторно показывается тот же вопрос
	ErrUnknownOption = errors.New("неизвестный код варианта ответа")

	// ErrCombinationNotFound - анкета пройдена, но комбинации нет в каталоге;
	// пользователь видит штатное сообщение-заглушку, а не ошибку
	ErrCombinationNotFound = errors.New("комбинация отсутствует в каталоге")
)

// Session - состояние опроса одного пользователя.
// Все изменения идут под mu: события одного пользователя строго сериализуются
type Session struct {
	mu sync.Mutex

	SID       uuid.UUID // идентификатор сессии для связывания логов
	UserID    int64
	State     State
	Step      int       // номер текущего вопроса, осмыслен только в StateQuestion
	Answers   []string  // подписи выбранных вариантов по порядку вопросов
	UpdatedAt time.Time // момент последнего события (для вытеснения по бездействию)
}

// newSession создаёт пустую сессию пользователя
func newSession(userID int64) *Session {

	return &Session{
		SID:       uuid.New(),
		UserID:    userID,
		State:     StateIdle,
		UpdatedAt: time.Now(),
	}
}
