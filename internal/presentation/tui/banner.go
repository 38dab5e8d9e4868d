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
	{"        _           _       _           ", "#34d399"},
	{"   ___ | |__   __ _| |_ ___(_)_ __ ___  ", "#2dd4bf"},
	{"  / __|| '_ \\ / _` | __/ __| | '_ ` _ \\ ", "#22d3ee"},
	{" | (__ | | | | (_| | |_\\__ \\ | | | | | |", "#38bdf8"},
	{"  \\___||_| |_|\\__,_|\\__|___/_|_| |_| |_|", "#60a5fa"},
}

// PrintBanner writes the chatsim banner with the flow name underneath.
func PrintBanner(w io.Writer, flow string) {
	p := termenv.EnvColorProfile()
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if flow != "" {
		fmt.Fprintln(w, termenv.String("  flow: "+flow).Faint())
	}
	fmt.Fprintln(w)
}
