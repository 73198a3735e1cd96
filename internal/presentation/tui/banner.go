package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the CivicScribe banner with the version underneath.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"   ___ _      _       ___         _ _       ", "#38bdf8"},
		{"  / __(_)_ __(_)__   / __| __ _ _(_) |__  ___ ", "#22d3ee"},
		{" | (__| \\ V /| / _|  \\__ \\/ _| '_| | '_ \\/ -_)", "#2dd4bf"},
		{"  \\___|_|\\_/ |_\\__|  |___/\\__|_| |_|_.__/\\___|", "#34d399"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  benefits intake v"+version).Faint())
	fmt.Fprintln(w)
}
