// Package render turns a solved (or in-progress) puzzle.State into
// human-facing text: a plain ASCII grid for logs and pipes, and a
// lipgloss-styled grid with one background color per flow for a
// terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/flowfree/solver/internal/puzzle"
)

// palette assigns a terminal color per color id, cycling if there are
// more colors than swatches.
var palette = []lipgloss.Color{
	lipgloss.Color("196"), // red
	lipgloss.Color("39"),  // blue
	lipgloss.Color("46"),  // green
	lipgloss.Color("226"), // yellow
	lipgloss.Color("201"), // magenta
	lipgloss.Color("51"),  // cyan
	lipgloss.Color("208"), // orange
	lipgloss.Color("129"), // purple
}

// ASCII renders s as a plain-text grid: '.' for FREE, an uppercase
// letter per color, cycling past 'Z' isn't supported — the puzzle
// domain caps out well below 26 colors in practice.
func ASCII(s *puzzle.State) string {
	var b strings.Builder
	for r := 0; r < s.N; r++ {
		for c := 0; c < s.N; c++ {
			v := s.At(r, c)
			if v == puzzle.Free {
				b.WriteByte('.')
			} else {
				b.WriteByte(byte('A' + int(v)))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Styled renders s with one lipgloss background swatch per color and a
// dim glyph for FREE cells, for a terminal capable of ANSI color.
func Styled(s *puzzle.State) string {
	free := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(".")

	var b strings.Builder
	for r := 0; r < s.N; r++ {
		for c := 0; c < s.N; c++ {
			v := s.At(r, c)
			if v == puzzle.Free {
				b.WriteString(free)
				b.WriteByte(' ')
				continue
			}
			swatch := palette[int(v)%len(palette)]
			style := lipgloss.NewStyle().Background(swatch).Foreground(lipgloss.Color("0")).Bold(true)
			b.WriteString(style.Render(fmt.Sprintf("%d", int(v))))
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
