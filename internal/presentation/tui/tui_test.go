package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/luckydraw/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonTerminalWriter(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, tui.IsTerminal(&buf))
	assert.Equal(t, tui.DefaultWrap, tui.Width(&buf))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)

	// A buffer has no colour support, so the art is written verbatim.
	assert.Contains(t, buf.String(), "|___/")
	assert.Equal(t, 8, strings.Count(buf.String(), "\n"))
}

func TestRenderer(t *testing.T) {
	var buf bytes.Buffer
	render := tui.NewRenderer(&buf)

	out, err := render("- **Brand:** Asus\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Brand:")
	assert.Contains(t, out, "Asus")
}
