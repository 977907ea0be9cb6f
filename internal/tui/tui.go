// Package tui renders live solve progress in a terminal using
// bubbletea, with a bubbles progress bar and lipgloss styling for the
// per-color expanded-node counters.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flowfree/solver/internal/coordinator"
)

// TickMsg drives the periodic re-render; ProgressMsg carries a fresh
// reading from the coordinator.
type TickMsg time.Time
type ProgressMsg struct {
	ExpandedByColor []int64
	Solved          bool
}

// DoneMsg signals the solve finished, successfully or not.
type DoneMsg struct {
	Report *coordinator.SolveReport
	Err    error
}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

// Model is the bubbletea model for a live solve session.
type Model struct {
	bar       progress.Model
	expanded  []int64
	total     int64
	solved    bool
	done      bool
	err       error
	pollEvery time.Duration
	Poll      func() tea.Msg
}

// New builds a Model. poll is called on every tick to fetch the latest
// progress from a running Coordinator; it must be non-blocking.
func New(poll func() tea.Msg) Model {
	return Model{
		bar:       progress.New(progress.WithDefaultGradient()),
		pollEvery: 200 * time.Millisecond,
		Poll:      poll,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), m.Poll)
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.pollEvery, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case TickMsg:
		if m.done {
			return m, nil
		}
		return m, tea.Batch(m.tickCmd(), m.Poll)
	case ProgressMsg:
		m.expanded = msg.ExpandedByColor
		m.total = 0
		for _, n := range m.expanded {
			m.total += n
		}
		m.solved = msg.Solved
		return m, nil
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		if msg.Report != nil {
			m.solved = msg.Report.Solved
		}
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("flowfree solver"))
	b.WriteString("\n\n")
	for color, n := range m.expanded {
		fmt.Fprintf(&b, "color %d: %d expanded\n", color, n)
	}
	fmt.Fprintf(&b, "\ntotal expanded: %d\n", m.total)
	if m.done {
		if m.err != nil {
			fmt.Fprintf(&b, "\nsolve failed: %v\n", m.err)
		} else if m.solved {
			b.WriteString("\nsolved.\n")
		} else {
			b.WriteString("\nno solution.\n")
		}
		return b.String()
	}
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(progressFraction(m.total)))
	b.WriteString("\n")
	return b.String()
}

// progressFraction has no ground truth for total search size, so it
// saturates toward 1 asymptotically as more nodes are expanded, giving
// a live sense of motion without pretending to know when the search
// will finish.
func progressFraction(expanded int64) float64 {
	const scale = 500.0
	f := float64(expanded) / (float64(expanded) + scale)
	if f > 0.98 {
		return 0.98
	}
	return f
}
