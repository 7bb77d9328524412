package playback

import (
	"math"
	"time"

	"github.com/PizzaHomicide/kagami/internal/log"
)

// Direction of a fast-seek hold
type Direction int

const (
	Backward Direction = iota
	Forward
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

// sign returns the sign applied to the seek step for the direction
func (d Direction) sign() float64 {
	if d == Forward {
		return 1
	}
	return -1
}

// FastSeekOptions tunes press-and-hold seeking
type FastSeekOptions struct {
	Interval       time.Duration // Time between seek ticks
	Step           float64       // Seconds moved per tick
	SpeedIncrement float64       // Added to the displayed speed on each tick after the first
	MaxSpeed       float64       // Ceiling of the displayed speed
}

// DefaultFastSeekOptions tick five times a second, two seconds per tick
var DefaultFastSeekOptions = FastSeekOptions{
	Interval:       200 * time.Millisecond,
	Step:           2,
	SpeedIncrement: 0.5,
	MaxSpeed:       5,
}

// FastSeekSession is the state of one direction's hold
type FastSeekSession struct {
	Direction Direction
	Active    bool
	Speed     float64
	ticks     int
	timer     Timer
}

// FastSeek implements press-and-hold seeking.  Each direction has its own session and at most one timer.
//
// The speed multiplier only labels the on-screen indicator.  Every tick moves by the same Step regardless of it.
type FastSeek struct {
	opts     FastSeekOptions
	sched    Scheduler
	seek     func(delta float64)
	sessions [2]FastSeekSession
}

// NewFastSeek creates a controller that moves playback through seek
func NewFastSeek(opts FastSeekOptions, sched Scheduler, seek func(delta float64)) *FastSeek {
	f := &FastSeek{
		opts:  opts,
		sched: sched,
		seek:  seek,
	}
	for _, d := range []Direction{Backward, Forward} {
		f.sessions[d] = FastSeekSession{Direction: d, Speed: 1}
	}
	return f
}

// Start begins a hold in the given direction.  Starting a direction that is already held restarts it cleanly.
func (f *FastSeek) Start(d Direction) {
	s := &f.sessions[d]
	if s.Active {
		log.Debug("Restarting fast-seek hold", "direction", d)
	}
	f.cancel(s)
	s.Active = true
	s.Speed = 1
	s.ticks = 0
	f.arm(d)
}

// Stop ends the hold in the given direction
func (f *FastSeek) Stop(d Direction) {
	s := &f.sessions[d]
	if s.Active {
		log.Debug("Fast-seek hold released", "direction", d, "ticks", s.ticks, "speed", s.Speed)
	}
	f.cancel(s)
	s.Active = false
	s.Speed = 1
	s.ticks = 0
}

// StopAll ends both holds
func (f *FastSeek) StopAll() {
	f.Stop(Backward)
	f.Stop(Forward)
}

// Session returns a copy of a direction's session
func (f *FastSeek) Session(d Direction) FastSeekSession {
	s := f.sessions[d]
	s.timer = nil
	return s
}

// Active returns the held direction, if any
func (f *FastSeek) Active() (Direction, bool) {
	for _, d := range []Direction{Backward, Forward} {
		if f.sessions[d].Active {
			return d, true
		}
	}
	return Backward, false
}

func (f *FastSeek) arm(d Direction) {
	f.sessions[d].timer = f.sched.AfterFunc(f.opts.Interval, func() { f.tick(d) })
}

func (f *FastSeek) tick(d Direction) {
	s := &f.sessions[d]
	if !s.Active {
		return
	}
	s.ticks++
	f.seek(d.sign() * f.opts.Step)
	if s.ticks > 1 {
		s.Speed = math.Min(s.Speed+f.opts.SpeedIncrement, f.opts.MaxSpeed)
	}
	f.arm(d)
}

func (f *FastSeek) cancel(s *FastSeekSession) {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
