package player

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/PizzaHomicide/kagami/internal/playback"
)

// Observer ids for the properties mpv reports back as property-change events
const (
	propTimePos = iota + 1
	propDuration
	propPause
	propFullscreen
	propEOFReached
)

var observedProperties = []struct {
	id   int
	name string
}{
	{propTimePos, "time-pos"},
	{propDuration, "duration"},
	{propPause, "pause"},
	{propFullscreen, "fullscreen"},
	{propEOFReached, "eof-reached"},
}

const (
	defaultConnectTimeout     = 10 * time.Second
	defaultTimeUpdateInterval = 250 * time.Millisecond
	fullscreenTimeout         = 5 * time.Second
	quitGracePeriod           = 2 * time.Second
)

// Options configures how mpv is started
type Options struct {
	Path       string // mpv binary.  Default: mpv
	Args       string // Extra arguments, split with SplitArgs
	SocketPath string // IPC socket or named pipe.  Default: DefaultSocketPath()

	ConnectTimeout time.Duration
	// TimeUpdateInterval limits how often position changes are reported.  mpv reports time-pos every frame.
	TimeUpdateInterval time.Duration
}

// MPV drives a single mpv process over JSON IPC and implements playback.Media.  Commands are sent without waiting
// for mpv's reply so they never block the UI; what mpv reports back arrives on Events.
type MPV struct {
	opts Options
	ipc  *MPVIPCClient
	cmd  *exec.Cmd

	events      chan playback.MediaEvent
	results     chan playback.MediaEvent // Outcomes of asynchronous requests, merged into events
	stop        chan struct{}
	processDone chan struct{}
	wg          sync.WaitGroup
	closeOnce   sync.Once
	started     bool

	// Only touched by the translate goroutine
	timePos    timeThrottle
	flushTimer *time.Timer
	flush      <-chan time.Time
}

// timeThrottle reports at most one position per interval.  The latest position held back during an interval is
// flushed when it ends, so the last of a burst of seeks is never lost.
type timeThrottle struct {
	interval time.Duration
	last     time.Time
	held     float64
	holding  bool
}

// offer reports whether t goes out now.  Otherwise t is held and wait is when the interval ends.
func (th *timeThrottle) offer(t float64, now time.Time) (emit bool, wait time.Duration) {
	if remaining := th.interval - now.Sub(th.last); remaining > 0 {
		th.held, th.holding = t, true
		return false, remaining
	}
	th.last = now
	th.holding = false
	return true, 0
}

// release returns the held position, if any
func (th *timeThrottle) release(now time.Time) (float64, bool) {
	if !th.holding {
		return 0, false
	}
	th.holding = false
	th.last = now
	return th.held, true
}

// NewMPV creates a player that is not yet running.  Call Start.
func NewMPV(opts Options) *MPV {
	if opts.Path == "" {
		opts.Path = "mpv"
	}
	if opts.SocketPath == "" {
		opts.SocketPath = DefaultSocketPath()
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = defaultConnectTimeout
	}
	if opts.TimeUpdateInterval == 0 {
		opts.TimeUpdateInterval = defaultTimeUpdateInterval
	}
	return &MPV{
		opts:    opts,
		timePos: timeThrottle{interval: opts.TimeUpdateInterval},
		ipc:     NewMPVIPCClient(opts.SocketPath),
		events:  make(chan playback.MediaEvent, 64),
		results: make(chan playback.MediaEvent),
		stop:    make(chan struct{}),
	}
}

// Start launches mpv idle with a window and connects to its IPC server
func (p *MPV) Start(ctx context.Context) error {
	args := []string{
		"--idle=yes",                              // Stay alive between episodes
		"--force-window=yes",                      // Show the window before the first file loads
		"--keep-open=yes",                         // Hold the last frame at the end instead of unloading
		"--no-terminal",                           // The terminal belongs to the TUI
		"--input-ipc-server=" + p.opts.SocketPath, // Set IPC socket path
	}
	extra, err := SplitArgs(p.opts.Args)
	if err != nil {
		return fmt.Errorf("invalid player args: %w", err)
	}
	args = append(args, extra...)

	removeSocket(p.opts.SocketPath)

	logger.Info("Starting mpv", "path", p.opts.Path, "args", args)
	cmd := exec.Command(p.opts.Path, args...)
	setupPlayerProcess(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start mpv: %w", err)
	}
	p.cmd = cmd
	p.processDone = make(chan struct{})

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer close(p.processDone)
		err := cmd.Wait()
		logger.Info("mpv process exited", "error", err)
	}()

	connCtx, cancel := context.WithTimeout(ctx, p.opts.ConnectTimeout)
	defer cancel()
	if err := p.connect(connCtx); err != nil {
		_ = p.Close()
		return err
	}
	return nil
}

// connect attaches to an mpv IPC server that is already listening
func (p *MPV) connect(ctx context.Context) error {
	if err := p.ipc.WaitForConnection(ctx, 40, 250*time.Millisecond); err != nil {
		return err
	}
	for _, prop := range observedProperties {
		if err := p.ipc.ObserveProperty(prop.id, prop.name); err != nil {
			return fmt.Errorf("failed to observe %s: %w", prop.name, err)
		}
	}

	p.started = true
	p.wg.Add(1)
	go p.translate()
	return nil
}

// Events returns media events for the controller.  The channel is closed when mpv goes away.
func (p *MPV) Events() <-chan playback.MediaEvent {
	return p.events
}

// translate is the only writer of the events channel
func (p *MPV) translate() {
	defer p.wg.Done()
	defer close(p.events)
	defer func() {
		if p.flushTimer != nil {
			p.flushTimer.Stop()
		}
	}()

	mpvEvents := p.ipc.Events()
	for {
		select {
		case <-p.flush:
			p.flush = nil
			if t, ok := p.timePos.release(time.Now()); ok {
				if !p.emit(playback.MediaEvent{Type: playback.EventTimeUpdate, Value: t}) {
					return
				}
			}
		case ev, ok := <-mpvEvents:
			if !ok {
				logger.Debug("mpv event channel closed")
				return
			}
			if mediaEvent, ok := p.toMediaEvent(ev); ok && !p.emit(mediaEvent) {
				return
			}
		case ev := <-p.results:
			if !p.emit(ev) {
				return
			}
		case <-p.stop:
			return
		}
	}
}

func (p *MPV) emit(ev playback.MediaEvent) bool {
	select {
	case p.events <- ev:
		return true
	case <-p.stop:
		return false
	}
}

func (p *MPV) toMediaEvent(ev MPVEvent) (playback.MediaEvent, bool) {
	switch ev.Event {
	case "property-change":
		return p.propertyChange(ev)
	case "playback-restart":
		return playback.MediaEvent{Type: playback.EventDataLoaded}, true
	case "end-file":
		if ev.Reason == "error" {
			return playback.MediaEvent{
				Type: playback.EventError,
				Err:  fmt.Errorf("mpv failed to play file: %s", ev.FileError),
			}, true
		}
	}
	return playback.MediaEvent{}, false
}

func (p *MPV) propertyChange(ev MPVEvent) (playback.MediaEvent, bool) {
	switch ev.ID {
	case propTimePos:
		var t float64
		if !decodeData(ev, &t) {
			return playback.MediaEvent{}, false
		}
		if emit, wait := p.timePos.offer(t, time.Now()); !emit {
			p.scheduleFlush(wait)
			return playback.MediaEvent{}, false
		}
		return playback.MediaEvent{Type: playback.EventTimeUpdate, Value: t}, true
	case propDuration:
		var d float64
		if !decodeData(ev, &d) {
			return playback.MediaEvent{}, false
		}
		return playback.MediaEvent{Type: playback.EventMetadataLoaded, Value: d}, true
	case propPause:
		var paused bool
		if !decodeData(ev, &paused) {
			return playback.MediaEvent{}, false
		}
		return playback.MediaEvent{Type: playback.EventPauseChanged, Flag: paused}, true
	case propFullscreen:
		var on bool
		if !decodeData(ev, &on) {
			return playback.MediaEvent{}, false
		}
		return playback.MediaEvent{Type: playback.EventFullscreenChanged, Flag: on}, true
	case propEOFReached:
		var eof bool
		if !decodeData(ev, &eof) || !eof {
			return playback.MediaEvent{}, false
		}
		return playback.MediaEvent{Type: playback.EventEnded}, true
	}
	return playback.MediaEvent{}, false
}

// scheduleFlush arms the release of a held position unless one is already armed
func (p *MPV) scheduleFlush(wait time.Duration) {
	if p.flush != nil {
		return
	}
	if p.flushTimer == nil {
		p.flushTimer = time.NewTimer(wait)
	} else {
		p.flushTimer.Reset(wait)
	}
	p.flush = p.flushTimer.C
}

// decodeData unmarshals a property value.  mpv reports unavailable properties as null.
func decodeData(ev MPVEvent, v any) bool {
	if len(ev.Data) == 0 || string(ev.Data) == "null" {
		return false
	}
	if err := json.Unmarshal(ev.Data, v); err != nil {
		logger.Warn("Failed to unmarshal property value", "name", ev.Name, "data", string(ev.Data), "error", err)
		return false
	}
	return true
}

// Load replaces the current file.  The new file starts paused.
func (p *MPV) Load(url string) error {
	if err := p.ipc.SetProperty("pause", true); err != nil {
		return err
	}
	return p.ipc.SendCommand("loadfile", url, "replace")
}

func (p *MPV) Play() error {
	return p.ipc.SetProperty("pause", false)
}

func (p *MPV) Pause() error {
	return p.ipc.SetProperty("pause", true)
}

func (p *MPV) Seek(seconds float64) error {
	return p.ipc.SendCommand("seek", seconds, "absolute")
}

func (p *MPV) SetSpeed(rate float64) error {
	return p.ipc.SetProperty("speed", rate)
}

// SetVolume maps [0, 1] onto mpv's 0 to 100 scale
func (p *MPV) SetVolume(volume float64) error {
	return p.ipc.SetProperty("volume", volume*100)
}

func (p *MPV) SetMute(muted bool) error {
	return p.ipc.SetProperty("mute", muted)
}

// SetFullscreen asks mpv to change fullscreen in the background.  The outcome arrives on Events.
func (p *MPV) SetFullscreen(on bool) error {
	if !p.ipc.Connected() {
		return ErrNotConnected
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), fullscreenTimeout)
		defer cancel()

		ev := playback.MediaEvent{Type: playback.EventFullscreenChanged, Flag: on}
		if _, err := p.ipc.Command(ctx, "set_property", "fullscreen", on); err != nil {
			ev = playback.MediaEvent{Type: playback.EventFullscreenRejected, Err: err}
		}

		select {
		case p.results <- ev:
		case <-p.stop:
		}
	}()
	return nil
}

// Close quits mpv and waits for every goroutine the player started
func (p *MPV) Close() error {
	p.closeOnce.Do(func() {
		if p.ipc.Connected() {
			_ = p.ipc.SendCommand("quit")
		}
		close(p.stop)
		_ = p.ipc.Close()

		if p.cmd != nil && p.cmd.Process != nil {
			select {
			case <-p.processDone:
			case <-time.After(quitGracePeriod):
				logger.Warn("mpv did not quit, killing it")
				_ = p.cmd.Process.Kill()
			}
		}

		p.wg.Wait()
		if !p.started {
			close(p.events)
		}
		removeSocket(p.opts.SocketPath)
	})
	return nil
}
