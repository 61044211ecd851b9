// Package report renders the final summary of a completed (or halted) flow.
package report

import (
	"fmt"
	"strings"

	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/mattn/go-runewidth"
)

// DefaultWidth is the display width keys are padded to.
const DefaultWidth = 14

// Config controls the layout of a report.
type Config struct {
	Title    string
	Width    int
	Sentinel string
}

// Option configures a report.
type Option func(*Config)

// WithTitle adds a heading above the entries.
func WithTitle(title string) Option {
	return func(c *Config) { c.Title = title }
}

// WithWidth sets the padded key width. Non-positive values keep the default.
func WithWidth(width int) Option {
	return func(c *Config) {
		if width > 0 {
			c.Width = width
		}
	}
}

// WithSentinel replaces the marker printed for steps without a pick.
func WithSentinel(s string) Option {
	return func(c *Config) {
		if s != "" {
			c.Sentinel = s
		}
	}
}

func newConfig(opts []Option) Config {
	c := Config{Width: DefaultWidth, Sentinel: domain.UnsetValue}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Pad right-fills key with spaces up to width display cells.
// Wide characters count as two cells; keys already wider are left untouched.
func Pad(key string, width int) string {
	return runewidth.FillRight(key, width)
}

// Line formats a single entry as "<padded key>: <value>".
func Line(e domain.Entry, opts ...Option) string {
	c := newConfig(opts)
	return fmt.Sprintf("%s: %s", Pad(e.Key, c.Width), c.value(e))
}

func (c Config) value(e domain.Entry) string {
	if !e.Picked {
		return c.Sentinel
	}
	return e.Value
}

// Plain renders one line per entry in order, framed by the title when set.
func Plain(entries []domain.Entry, opts ...Option) string {
	c := newConfig(opts)

	var sb strings.Builder
	if c.Title != "" {
		fmt.Fprintf(&sb, "--- %s ---\n", c.Title)
	}
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s: %s\n", Pad(e.Key, c.Width), c.value(e))
	}
	if c.Title != "" {
		sb.WriteString(strings.Repeat("-", runewidth.StringWidth(c.Title)+8))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Markdown renders the entries as a list with bold keys, suitable for glamour.
func Markdown(entries []domain.Entry, opts ...Option) string {
	c := newConfig(opts)

	var sb strings.Builder
	if c.Title != "" {
		fmt.Fprintf(&sb, "## %s\n\n", c.Title)
	}
	for _, e := range entries {
		fmt.Fprintf(&sb, "- **%s:** %s\n", escapeMarkdown(e.Key), escapeMarkdown(c.value(e)))
	}
	return sb.String()
}

var markdownEscaper = strings.NewReplacer("*", `\*`, "_", `\_`, "`", "\\`")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
