package components

import (
	"strings"

	"github.com/PizzaHomicide/kagami/internal/ui/tui/styles"
	"github.com/mattn/go-runewidth"
)

// KeyBinding represents a single key and its description for the keybinding bar
type KeyBinding struct {
	Key  string
	Desc string
}

const keyBarSeparator = " • "

// KeyBindingsBar renders a centred footer of key hints.  Hints that do not fit the width are dropped from the end
// rather than wrapped, so the bar always stays on one row.
func KeyBindingsBar(width int, bindings []KeyBinding) string {
	var (
		parts []string
		used  int
	)
	for _, b := range bindings {
		plain := b.Key + ": " + b.Desc
		w := runewidth.StringWidth(plain)
		if len(parts) > 0 {
			w += runewidth.StringWidth(keyBarSeparator)
		}
		if used+w > width {
			break
		}
		used += w
		parts = append(parts, styles.Key.Render(b.Key)+": "+b.Desc)
	}

	return styles.CenteredText(width, styles.Info.Render(strings.Join(parts, keyBarSeparator)))
}
