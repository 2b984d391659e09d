package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/setanarut/instafader/skinini"
)

const barWidth = 30

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))
)

func swatchLine(c skinini.Color) string {
	block := lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("    ")
	return block + " " + c.String() + " " + mutedStyle.Render(c.Hex())
}

func printPalette(colors []skinini.Color) {
	fmt.Println(labelStyle.Render("Palette"))
	for i, c := range colors {
		fmt.Printf("  %d %s\n", i+1, swatchLine(c))
	}
}

// progress draws a single-line bar on stderr.
type progress struct {
	label string
	last  int
}

func newProgress(label string) *progress {
	return &progress{label: label, last: -1}
}

func (p *progress) update(f float64) {
	n := int(f * barWidth)
	if n == p.last {
		return
	}
	p.last = n
	bar := barStyle.Render(strings.Repeat("█", n)) + mutedStyle.Render(strings.Repeat("░", barWidth-n))
	fmt.Fprintf(os.Stderr, "\r%s %s %3.0f%%", p.label, bar, f*100)
}

func (p *progress) done() {
	if p.last >= 0 {
		fmt.Fprintln(os.Stderr)
	}
}
