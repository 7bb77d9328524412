package domain

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Series is a titled list of episodes, as read from the catalog
type Series struct {
	Title    string    `yaml:"title"`
	Episodes []Episode `yaml:"episodes"`
}

// Episode represents a single playable episode
type Episode struct {
	ID       string         `yaml:"id"`
	Number   int            `yaml:"number"`
	Title    string         `yaml:"title"`
	Duration string         `yaml:"duration,omitempty"` // Display duration, e.g. "24:30"
	Skip     *SkipOverrides `yaml:"skip,omitempty"`
	Sources  []Source       `yaml:"sources"`
}

// SkipRange is a start/end pair in seconds
type SkipRange struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// SkipOverrides replaces the default skip windows for one episode.  Nil fields keep the defaults.
type SkipOverrides struct {
	Intro       *SkipRange `yaml:"intro,omitempty"`
	Recap       *SkipRange `yaml:"recap,omitempty"`
	OutroLength *float64   `yaml:"outro_length,omitempty"`
}

// Source is one rendition of an episode
type Source struct {
	Quality   string `yaml:"quality"` // e.g. "480p", "1080p"
	URL       string `yaml:"url"`
	SizeBytes uint64 `yaml:"size_bytes,omitempty"`
	Size      string `yaml:"size,omitempty"` // Optional display label, derived from SizeBytes when empty
}

// SizeLabel returns a human-readable size for the rendition
func (s Source) SizeLabel() string {
	if s.Size != "" {
		return s.Size
	}
	if s.SizeBytes == 0 {
		return ""
	}
	return humanize.Bytes(s.SizeBytes)
}

// Qualities returns the quality tags of the episode in catalog order
func (e Episode) Qualities() []string {
	qualities := make([]string, 0, len(e.Sources))
	for _, s := range e.Sources {
		qualities = append(qualities, s.Quality)
	}
	return qualities
}

// Source returns the rendition with the given quality tag
func (e Episode) Source(quality string) (Source, bool) {
	for _, s := range e.Sources {
		if strings.EqualFold(s.Quality, quality) {
			return s, true
		}
	}
	return Source{}, false
}

// PreferredSource picks the rendition to start an episode with: the preferred quality if the episode has it,
// otherwise the highest resolution available.
func (e Episode) PreferredSource(preferred string) (Source, bool) {
	if len(e.Sources) == 0 {
		return Source{}, false
	}
	if preferred != "" {
		if s, ok := e.Source(preferred); ok {
			return s, true
		}
	}
	best := e.Sources[0]
	for _, s := range e.Sources[1:] {
		if resolution(s.Quality) > resolution(best.Quality) {
			best = s
		}
	}
	return best, true
}

// DisplayTitle returns the title, falling back to the episode number
func (e Episode) DisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	return "Episode " + strconv.Itoa(e.Number)
}

// resolution extracts the vertical resolution from tags like "1080p".  Unknown tags sort last.
func resolution(quality string) int {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(quality), "p"))
	if err != nil {
		return 0
	}
	return n
}
