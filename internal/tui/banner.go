package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the intake banner with the version.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	s1 := termenv.String("  _       _        _        ").Foreground(p.Color("#34d399"))
	s2 := termenv.String(" (_)_ __ | |_ __ _| | _____ ").Foreground(p.Color("#2dd4bf"))
	s3 := termenv.String(" | | '_ \\| __/ _` | |/ / _ \\").Foreground(p.Color("#22d3ee"))
	s4 := termenv.String(" | | | | | || (_| |   <  __/").Foreground(p.Color("#38bdf8"))
	s5 := termenv.String(" |_|_| |_|\\__\\__,_|_|\\_\\___|").Foreground(p.Color("#60a5fa"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(termenv.String("  v" + strings.TrimSpace(version)).Foreground(p.Color("#94a3b8")))
	fmt.Println()
}
