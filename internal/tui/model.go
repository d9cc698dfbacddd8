// Package tui renders a running transcript batch in the terminal.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CK3thou/youtube-transcripts/types"
)

// maxLogLines bounds the visible activity log.
const maxLogLines = 12

// Model is the bubbletea model for one batch.
type Model struct {
	Heading   string
	Completed int
	Total     int
	Current   string
	Logs      []string
	Summary   *types.Summary
	Results   []types.TranscriptResult

	Interrupted bool
	finished    bool

	cancel context.CancelFunc
}

// NewModel returns the initial view state. cancel is called when the user
// quits and may be nil.
func NewModel(heading string, total int, cancel context.CancelFunc) Model {
	return Model{Heading: heading, Total: total, cancel: cancel}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// AddLog appends a line, keeping only the most recent ones.
func (m Model) AddLog(line string) Model {
	m.Logs = append(m.Logs, line)
	if len(m.Logs) > maxLogLines {
		m.Logs = m.Logs[len(m.Logs)-maxLogLines:]
	}
	return m
}

// Run shows the progress of batch until the user exits. Quitting early
// cancels the batch; Run still waits for it and returns the results
// gathered so far.
func Run(ctx context.Context, heading string, total int, batch BatchFunc, opts ...tea.ProgramOption) ([]types.TranscriptResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(heading, total, cancel), opts...)
	done := make(chan []types.TranscriptResult, 1)
	go runBatch(ctx, batch, p, done)

	_, err := p.Run()
	cancel()
	return <-done, err
}
