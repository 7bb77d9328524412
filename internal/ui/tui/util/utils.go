package util

import (
	"fmt"
	"math"

	"github.com/mattn/go-runewidth"
)

// TruncateString cuts a string to fit within maxWidth visual width
func TruncateString(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	width := 0
	for i, r := range s {
		charWidth := runewidth.RuneWidth(r)
		// Check if adding this rune would exceed maxWidth
		if width+charWidth > maxWidth-3 { // Reserve space for "..."
			return s[:i] + "..."
		}
		width += charWidth
	}
	return s
}

// PadRight pads s with spaces to the given visual width, truncating it when too wide
func PadRight(s string, width int) string {
	s = TruncateString(s, width)
	return runewidth.FillRight(s, width)
}

// FormatTime formats a playback position as m:ss, or h:mm:ss from an hour up.  Negative and NaN values show 0:00.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatRate formats a playback rate like 1x, 1.25x or 0.5x
func FormatRate(rate float64) string {
	return fmt.Sprintf("%gx", rate)
}
