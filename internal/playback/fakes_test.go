package playback

import (
	"errors"
	"sort"
	"time"
)

// manualScheduler fires timers only when the test advances its clock
type manualScheduler struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	s       *manualScheduler
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.seq++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves time forward, firing due timers in order.  Timers scheduled by callbacks fire too if they fall
// inside the window.
func (s *manualScheduler) Advance(d time.Duration) {
	end := s.now + d
	for {
		next := s.nextDue(end)
		if next == nil {
			break
		}
		s.now = next.at
		next.fired = true
		next.f()
	}
	s.now = end
}

func (s *manualScheduler) nextDue(end time.Duration) *manualTimer {
	var due []*manualTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= end {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at == due[j].at {
			return due[i].seq < due[j].seq
		}
		return due[i].at < due[j].at
	})
	return due[0]
}

// pending returns the number of timers that are still armed
func (s *manualScheduler) pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// fakeMedia records every command it receives
type fakeMedia struct {
	loaded        []string
	seeks         []float64
	plays         int
	pauses        int
	speed         float64
	volume        float64
	muted         bool
	fullscreenReq []bool
	fullscreenErr error
	seekErr       error
}

var errFakeDenied = errors.New("denied")

func (m *fakeMedia) Load(url string) error {
	m.loaded = append(m.loaded, url)
	return nil
}

func (m *fakeMedia) Play() error {
	m.plays++
	return nil
}

func (m *fakeMedia) Pause() error {
	m.pauses++
	return nil
}

func (m *fakeMedia) Seek(seconds float64) error {
	m.seeks = append(m.seeks, seconds)
	return m.seekErr
}

func (m *fakeMedia) SetSpeed(rate float64) error {
	m.speed = rate
	return nil
}

func (m *fakeMedia) SetVolume(volume float64) error {
	m.volume = volume
	return nil
}

func (m *fakeMedia) SetMute(muted bool) error {
	m.muted = muted
	return nil
}

func (m *fakeMedia) SetFullscreen(on bool) error {
	m.fullscreenReq = append(m.fullscreenReq, on)
	return m.fullscreenErr
}

func (m *fakeMedia) lastSeek() float64 {
	if len(m.seeks) == 0 {
		return -1
	}
	return m.seeks[len(m.seeks)-1]
}
