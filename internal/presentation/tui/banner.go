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
	{"              _                ", "#34d399"},
	{"   __ _ _ __| |__   ___  _ __ ", "#10b981"},
	{"  / _` | '__| '_ \\ / _ \\| '__|", "#059669"},
	{" | (_| | |  | |_) | (_) | |   ", "#65a30d"},
	{"  \\__,_|_|  |_.__/ \\___/|_|   ", "#a16207"},
}

// PrintBanner writes the Arbor ASCII banner to w, coloured when w is a terminal.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
