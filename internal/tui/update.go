package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CK3thou/youtube-transcripts/downloader"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case EventMsg:
		return m.handleEvent(msg.Event), nil
	case FinishedMsg:
		m.finished = true
		m.Results = msg.Results
		return m, nil
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		if m.cancel != nil {
			m.cancel()
		}
		if !m.finished {
			m = m.AddLog("Cancelling...")
		}
		return m, tea.Quit
	case "enter":
		if m.finished {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) handleEvent(e downloader.Event) Model {
	switch e.Kind {
	case downloader.EventLog:
		m = m.AddLog(e.Message)
	case downloader.EventProgress:
		m.Completed, m.Total, m.Current = e.Completed, e.Total, e.Title
	case downloader.EventDone:
		m.Summary = e.Summary
		m.Interrupted = e.Interrupted
	}
	return m
}
