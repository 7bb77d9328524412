package playback

import "math"

// SkipKind identifies one of the skippable sections of an episode
type SkipKind string

const (
	SkipIntro SkipKind = "intro"
	SkipRecap SkipKind = "recap"
	SkipOutro SkipKind = "outro"
)

// SkipWindow is a time range during which a "Skip X" button is eligible to display
type SkipWindow struct {
	Kind    SkipKind
	Start   float64
	End     float64
	Visible bool
}

// Contains reports whether t lies within the window, bounds included
func (w SkipWindow) Contains(t float64) bool {
	return t >= w.Start && t <= w.End
}

// SkipWindows holds one window per kind for the current episode
type SkipWindows struct {
	Intro SkipWindow
	Recap SkipWindow
	Outro SkipWindow

	// outroLength is used to derive the outro window once the duration is known
	outroLength float64
}

// SkipDefaults describes the windows used for an episode before its duration is known
type SkipDefaults struct {
	IntroStart  float64
	IntroEnd    float64
	RecapStart  float64
	RecapEnd    float64
	OutroLength float64
}

// DefaultSkipDefaults are used when neither the config nor the catalog specify any windows
var DefaultSkipDefaults = SkipDefaults{
	IntroStart:  0,
	IntroEnd:    90,
	RecapStart:  0,
	RecapEnd:    30,
	OutroLength: 90,
}

// NewSkipWindows builds the windows for an episode.  The outro window stays empty until WithDuration is called.
// Negative bounds are raised to 0 and inverted ranges collapse onto their start.
func NewSkipWindows(d SkipDefaults) SkipWindows {
	return SkipWindows{
		Intro:       newSkipWindow(SkipIntro, d.IntroStart, d.IntroEnd),
		Recap:       newSkipWindow(SkipRecap, d.RecapStart, d.RecapEnd),
		Outro:       SkipWindow{Kind: SkipOutro},
		outroLength: math.Max(0, d.OutroLength),
	}
}

func newSkipWindow(kind SkipKind, start, end float64) SkipWindow {
	start = math.Max(0, start)
	return SkipWindow{Kind: kind, Start: start, End: math.Max(start, end)}
}

// WithDuration derives the outro bounds from the episode duration: the last outroLength seconds of the episode.
func (w SkipWindows) WithDuration(duration float64) SkipWindows {
	w.Outro.Start = math.Max(0, duration-w.outroLength)
	w.Outro.End = math.Max(0, duration)
	return w
}

// Evaluate recomputes the visibility of every window for the given position.  Recap pre-empts intro when the
// two overlap; outro is independent of both and never shows while the duration is unknown.
func (w SkipWindows) Evaluate(currentTime, duration float64) SkipWindows {
	w.Recap.Visible = w.Recap.Contains(currentTime)
	w.Intro.Visible = w.Intro.Contains(currentTime) && !w.Recap.Visible
	w.Outro.Visible = duration > 0 && w.Outro.Contains(currentTime)
	return w
}

// Hidden returns the windows with every visibility flag cleared
func (w SkipWindows) Hidden() SkipWindows {
	w.Intro.Visible = false
	w.Recap.Visible = false
	w.Outro.Visible = false
	return w
}

// Window returns the window of the given kind
func (w SkipWindows) Window(kind SkipKind) (SkipWindow, bool) {
	switch kind {
	case SkipIntro:
		return w.Intro, true
	case SkipRecap:
		return w.Recap, true
	case SkipOutro:
		return w.Outro, true
	default:
		return SkipWindow{}, false
	}
}

// Active returns the window whose button takes priority right now: recap, then intro, then outro.
func (w SkipWindows) Active() (SkipWindow, bool) {
	switch {
	case w.Recap.Visible:
		return w.Recap, true
	case w.Intro.Visible:
		return w.Intro, true
	case w.Outro.Visible:
		return w.Outro, true
	default:
		return SkipWindow{}, false
	}
}
