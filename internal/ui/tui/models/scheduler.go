package models

import (
	"sync"
	"time"

	"github.com/PizzaHomicide/kagami/internal/playback"
	tea "github.com/charmbracelet/bubbletea"
)

// TimerFiredMsg carries an expired timer into the update loop, where its callback runs
type TimerFiredMsg struct {
	timer *loopTimer
}

// LoopScheduler creates timers whose callbacks run inside the bubbletea update loop.  Expiry happens on a runtime
// timer goroutine, which only hands the timer to the loop; Run executes the callback there.
type LoopScheduler struct {
	fired     chan *loopTimer
	done      chan struct{}
	closeOnce sync.Once
}

// loopTimer state is only read and written on the update loop goroutine
type loopTimer struct {
	t       *time.Timer
	f       func()
	stopped bool
	ran     bool
}

// NewLoopScheduler creates a scheduler.  Call Close when the program exits.
func NewLoopScheduler() *LoopScheduler {
	return &LoopScheduler{
		fired: make(chan *loopTimer, 16),
		done:  make(chan struct{}),
	}
}

// AfterFunc schedules f to run on the update loop after d
func (s *LoopScheduler) AfterFunc(d time.Duration, f func()) playback.Timer {
	lt := &loopTimer{f: f}
	lt.t = time.AfterFunc(d, func() {
		select {
		case s.fired <- lt:
		case <-s.done:
		}
	})
	return lt
}

// Stop prevents the callback from running, even if the timer already expired and is waiting in the queue
func (t *loopTimer) Stop() bool {
	if t.stopped || t.ran {
		return false
	}
	t.stopped = true
	t.t.Stop()
	return true
}

// Listen waits for the next expired timer.  It returns nil once the scheduler is closed.
func (s *LoopScheduler) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case t := <-s.fired:
			return TimerFiredMsg{timer: t}
		case <-s.done:
			return nil
		}
	}
}

// Run executes the callback of a fired timer unless it was stopped in the meantime
func (s *LoopScheduler) Run(msg TimerFiredMsg) {
	t := msg.timer
	if t == nil || t.stopped || t.ran {
		return
	}
	t.ran = true
	t.f()
}

// Close releases any timer goroutine blocked on handing over an expiry
func (s *LoopScheduler) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
