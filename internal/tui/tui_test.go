package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CK3thou/youtube-transcripts/downloader"
	"github.com/CK3thou/youtube-transcripts/types"
)

func newTestModel() Model {
	return NewModel("Transcripts", 3, nil)
}

func TestAddLogKeepsRecentLines(t *testing.T) {
	m := newTestModel()
	for i := 0; i < maxLogLines+5; i++ {
		m = m.AddLog(fmt.Sprintf("line %d", i))
	}
	if len(m.Logs) != maxLogLines {
		t.Fatalf("got %d lines, want %d", len(m.Logs), maxLogLines)
	}
	if m.Logs[0] != "line 5" {
		t.Errorf("oldest line = %q, want %q", m.Logs[0], "line 5")
	}
}

func TestUpdateEvents(t *testing.T) {
	m := newTestModel()

	next, _ := m.Update(EventMsg{Event: downloader.Event{Kind: downloader.EventLog, Message: "[1/3] Processing: A"}})
	m = next.(Model)
	if len(m.Logs) != 1 {
		t.Fatalf("logs = %v", m.Logs)
	}

	next, _ = m.Update(EventMsg{Event: downloader.Event{
		Kind:     downloader.EventProgress,
		Progress: downloader.Progress{Completed: 1, Total: 3, Title: "A"},
	}})
	m = next.(Model)
	if m.Completed != 1 || m.Total != 3 || m.Current != "A" {
		t.Errorf("progress not applied: %+v", m)
	}

	summary := types.Summarize([]types.TranscriptResult{
		types.Succeeded(types.VideoInfo{ID: "a", Title: "A"}, "x"),
	})
	next, _ = m.Update(EventMsg{Event: downloader.Event{Kind: downloader.EventDone, Summary: &summary, Interrupted: true}})
	m = next.(Model)
	if !m.Interrupted {
		t.Error("interrupted flag not applied")
	}
	if m.Summary == nil || m.Summary.SuccessCount != 1 {
		t.Errorf("summary = %+v", m.Summary)
	}
}

func TestQuitCancelsBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewModel("Transcripts", 3, cancel)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.Logs[len(m.Logs)-1] != "Cancelling..." {
		t.Errorf("logs = %v", m.Logs)
	}
	if ctx.Err() == nil {
		t.Error("batch context should be cancelled")
	}
}

func TestEnterOnlyQuitsWhenFinished(t *testing.T) {
	m := newTestModel()
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("enter should be ignored while running")
	}
	next, _ := m.Update(FinishedMsg{})
	if _, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd == nil {
		t.Error("enter should quit after the batch finished")
	}
}

type recordingSender struct {
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) { r.msgs = append(r.msgs, msg) }

func TestRunBatchForwardsEvents(t *testing.T) {
	want := []types.TranscriptResult{types.Succeeded(types.VideoInfo{ID: "a"}, "x")}
	run := func(_ context.Context, emit func(downloader.Event)) []types.TranscriptResult {
		emit(downloader.Event{Kind: downloader.EventLog, Message: "hello"})
		return want
	}
	rec := &recordingSender{}
	done := make(chan []types.TranscriptResult, 1)

	runBatch(context.Background(), run, rec, done)

	if got := <-done; len(got) != 1 {
		t.Fatalf("results = %v", got)
	}
	if len(rec.msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(rec.msgs))
	}
	if ev, ok := rec.msgs[0].(EventMsg); !ok || ev.Event.Message != "hello" {
		t.Errorf("first message = %#v", rec.msgs[0])
	}
	if fin, ok := rec.msgs[1].(FinishedMsg); !ok || len(fin.Results) != 1 {
		t.Errorf("second message = %#v", rec.msgs[1])
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		completed, total, full int
	}{
		{0, 4, 0},
		{2, 4, 4},
		{4, 4, 8},
		{9, 4, 8},
		{1, 0, 0},
	}
	for _, tt := range tests {
		bar := ProgressBar(tt.completed, tt.total, 8)
		if got := strings.Count(bar, "█"); got != tt.full {
			t.Errorf("ProgressBar(%d, %d) filled %d, want %d", tt.completed, tt.total, got, tt.full)
		}
		if got := strings.Count(bar, "░"); got != 8-tt.full {
			t.Errorf("ProgressBar(%d, %d) empty %d, want %d", tt.completed, tt.total, got, 8-tt.full)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	s := types.Summarize([]types.TranscriptResult{
		types.Succeeded(types.VideoInfo{ID: "a", Title: "Alpha"}, "x"),
		types.Failed(types.VideoInfo{ID: "b", Title: "Beta"}, errors.New("no captions")),
	})
	out := RenderSummary(s, true)
	for _, want := range []string{"Stopped early", "1 successful", "1 failed", "Beta: no captions"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestViewShowsState(t *testing.T) {
	m := newTestModel().AddLog("✓ Alpha")
	m.Completed = 1
	out := m.View()
	for _, want := range []string{"Transcripts", "1/3", "✓ Alpha", "Press q"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}
