package player

import (
	"errors"
	"strings"
)

// ErrUnterminatedQuote is returned by SplitArgs for a quote that is never closed
var ErrUnterminatedQuote = errors.New("unterminated quote in mpv arguments")

// SplitArgs splits the configured extra mpv arguments the way a shell would for the simple cases: whitespace
// separates arguments, a quote runs until the matching quote character and a backslash escapes the next rune
// outside single quotes.
func SplitArgs(s string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune // Open quote character, 0 outside quotes
		escaped bool
		started bool // current holds an argument, possibly an empty quoted one
	)

	for _, r := range s {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			started = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			started = true
		case r == ' ' || r == '\t' || r == '\n':
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}

	if quote != 0 {
		return nil, ErrUnterminatedQuote
	}
	if started {
		args = append(args, current.String())
	}
	return args, nil
}
