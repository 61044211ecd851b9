package runner

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

var (
	// DefaultMaxInputSize bounds a single trigger line.
	DefaultMaxInputSize = 1024
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "LUCKYDRAW_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Trigger is what one line of user input asks the runner to do.
type Trigger int

const (
	// TriggerSpin is any line that is not a stop word; a bare Enter spins.
	TriggerSpin Trigger = iota
	// TriggerQuit ends the run without error.
	TriggerQuit
)

var stopWords = []string{"exit", "quit"}

// SanitizeInput cleans a trigger line: it enforces the size limit, rejects
// invalid UTF-8, drops control characters (terminal escapes included) and
// trims surrounding space.
func SanitizeInput(input string) (string, error) {
	limit := getMaxInputSize()
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}
	if strings.IndexFunc(input, unicode.IsControl) >= 0 {
		input = strings.Map(func(r rune) rune {
			if unicode.IsControl(r) {
				return -1
			}
			return r
		}, input)
	}
	return strings.TrimSpace(input), nil
}

// ClassifyTrigger maps a sanitized line to a Trigger. Stop words match in any
// case and in their full-width forms, as typed from a CJK input method.
func ClassifyTrigger(input string) Trigger {
	word := strings.ToLower(width.Narrow.String(strings.TrimSpace(input)))
	if slices.Contains(stopWords, word) {
		return TriggerQuit
	}
	return TriggerSpin
}

func getMaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
