package components

import (
	"strings"

	"github.com/PizzaHomicide/kagami/internal/ui/tui/styles"
)

// ProgressBar renders a seek bar of the given width with the played part highlighted.  fraction is clamped to [0, 1].
func ProgressBar(width int, fraction float64) string {
	if width <= 0 {
		return ""
	}
	if fraction < 0 || fraction != fraction {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	head := int(fraction * float64(width-1))
	played := strings.Repeat("━", head)
	rest := strings.Repeat("─", width-head-1)
	return styles.ProgressPlayed.Render(played+"●") + styles.ProgressRest.Render(rest)
}

// FractionAt maps a column inside a bar of the given width back to a fraction of the whole
func FractionAt(col, width int) float64 {
	if width <= 1 || col <= 0 {
		return 0
	}
	if col >= width-1 {
		return 1
	}
	return float64(col) / float64(width-1)
}
