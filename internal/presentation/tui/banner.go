package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ucflow ASCII banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"                 __ _               ", "#818cf8"},
		{"  _   _  ___ / _| | _____      __", "#a78bfa"},
		{" | | | |/ __| |_| |/ _ \\ \\ /\\ / /", "#c084fc"},
		{" | |_| | (__|  _| | (_) \\ V  V / ", "#e879f9"},
		{"  \\__,_|\\___|_| |_|\\___/ \\_/\\_/  ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  "+version).Faint())
	fmt.Fprintln(w)
}
