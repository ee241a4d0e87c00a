package stats

import (
	"sync"
	"sync/atomic"
)

// Aggregator копит счётчики работы бота и сервиса редиректов.
// Экземпляр создаётся в main и передаётся явно: глобальных счётчиков нет.
// Инкременты атомарные, снимок может не учитывать переходы "в полёте"
type Aggregator struct {
	totalStarts atomic.Int64   // сколько раз опрос начинали заново или впервые
	stepCounts  []atomic.Int64 // stepCounts[i] - сколько пользователей дошло до вопроса i

	mu     sync.Mutex
	clicks map[string]int64 // переходы по коротким кодам
}

// Snapshot - согласованный срез счётчиков с долями в процентах
type Snapshot struct {
	TotalStarts  int64
	StepCounts   []int64
	StepPercents []float64        // доля дошедших до вопроса i от числа стартов
	Clicks       map[string]int64 // переходы по каждому коду
	TotalClicks  int64
	ClickShares  map[string]float64 // доля кода от всех переходов
}

// NewAggregator создаёт агрегатор на steps вопросов анкеты
func NewAggregator(steps int) *Aggregator {

	return &Aggregator{
		stepCounts: make([]atomic.Int64, steps),
		clicks:     make(map[string]int64),
	}
}

// RecordStart учитывает начало опроса
func (a *Aggregator) RecordStart() {
	a.totalStarts.Add(1)
}

// RecordStep учитывает, что пользователь дошёл до вопроса stepIdx
func (a *Aggregator) RecordStep(stepIdx int) {

	if stepIdx < 0 || stepIdx >= len(a.stepCounts) {
		return
	}
	a.stepCounts[stepIdx].Add(1)
}

// RecordClick учитывает переход по короткому коду
func (a *Aggregator) RecordClick(code string) {

	a.mu.Lock()
	a.clicks[code]++
	a.mu.Unlock()
}

// Steps возвращает число отслеживаемых вопросов
func (a *Aggregator) Steps() int {
	return len(a.stepCounts)
}

// Snapshot возвращает срез счётчиков с процентами.
// При нулевых итогах доли равны нулю (деления на ноль нет)
func (a *Aggregator) Snapshot() Snapshot {

	snap := Snapshot{
		TotalStarts:  a.totalStarts.Load(),
		StepCounts:   make([]int64, len(a.stepCounts)),
		StepPercents: make([]float64, len(a.stepCounts)),
		Clicks:       make(map[string]int64),
		ClickShares:  make(map[string]float64),
	}

	for i := range a.stepCounts {
		snap.StepCounts[i] = a.stepCounts[i].Load()
		if snap.TotalStarts > 0 {
			snap.StepPercents[i] = float64(snap.StepCounts[i]) / float64(snap.TotalStarts) * 100
		}
	}

	a.mu.Lock()
	for code, n := range a.clicks {
		snap.Clicks[code] = n
		snap.TotalClicks += n
	}
	a.mu.Unlock()

	if snap.TotalClicks > 0 {
		for code, n := range snap.Clicks {
			snap.ClickShares[code] = float64(n) / float64(snap.TotalClicks) * 100
		}
	}

	return snap
}
