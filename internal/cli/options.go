package cli

import (
	"time"

	"github.com/PizzaHomicide/kagami/internal/config"
	"github.com/PizzaHomicide/kagami/internal/playback"
	"github.com/PizzaHomicide/kagami/internal/player"
)

// PlayerOptions maps the player section of the config onto mpv's launch options
func PlayerOptions(cfg *config.Config) player.Options {
	return player.Options{
		Path:       cfg.Player.Path,
		Args:       cfg.Player.Args,
		SocketPath: cfg.Player.SocketPath,
	}
}

// PlaybackOptions maps the config onto the controller's options.  Non-positive tuning values keep the controller
// defaults; skip windows always come from the config since 0 is a valid bound.
func PlaybackOptions(cfg *config.Config) playback.Options {
	opts := playback.DefaultOptions()
	opts.PreferredQuality = cfg.Player.PreferredQuality

	p := cfg.Playback
	if p.Volume > 0 {
		opts.Volume = min(p.Volume, 1)
	}
	if p.SeekStep > 0 {
		opts.SeekStep = p.SeekStep
	}
	if p.VolumeStep > 0 {
		opts.VolumeStep = p.VolumeStep
	}

	opts.Skip = playback.SkipDefaults{
		IntroStart:  p.Intro.Start,
		IntroEnd:    p.Intro.End,
		RecapStart:  p.Recap.Start,
		RecapEnd:    p.Recap.End,
		OutroLength: p.OutroLength,
	}

	fs := p.FastSeek
	if fs.IntervalMillis > 0 {
		opts.FastSeek.Interval = time.Duration(fs.IntervalMillis) * time.Millisecond
	}
	if fs.Step > 0 {
		opts.FastSeek.Step = fs.Step
	}
	if fs.SpeedIncrement > 0 {
		opts.FastSeek.SpeedIncrement = fs.SpeedIncrement
	}
	if fs.MaxSpeed > 0 {
		opts.FastSeek.MaxSpeed = fs.MaxSpeed
	}

	if ms := cfg.UI.ControlsHideDelayMillis; ms > 0 {
		opts.HideDelay = time.Duration(ms) * time.Millisecond
	}
	return opts
}
