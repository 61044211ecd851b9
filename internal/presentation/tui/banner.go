package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{" _               _          ____                    ", "#fbbf24"},
	{"| |   _   _  ___| | ___   _|  _ \\ _ __ __ ___      __", "#f59e0b"},
	{"| |  | | | |/ __| |/ / | | | | | | '__/ _` \\ \\ /\\ / /", "#f97316"},
	{"| |__| |_| | (__|   <| |_| | |_| | | | (_| |\\ V  V / ", "#ef4444"},
	{"|_____\\__,_|\\___|_|\\_\\\\__, |____/|_|  \\__,_| \\_/\\_/  ", "#e11d48"},
	{"                      |___/                          ", "#be123c"},
}

// PrintBanner writes the ASCII art banner, coloured when w supports it.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Highlight colours s for emphasis (drawn values, step names).
func Highlight(w io.Writer, s string) string {
	p := termenv.NewOutput(w).ColorProfile()
	return termenv.String(s).Foreground(p.Color("#f59e0b")).Bold().String()
}
