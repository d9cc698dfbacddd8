package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CK3thou/youtube-transcripts/downloader"
	"github.com/CK3thou/youtube-transcripts/types"
)

// BatchFunc runs a download, reporting every event to emit.
type BatchFunc func(ctx context.Context, emit func(downloader.Event)) []types.TranscriptResult

// sender is the part of tea.Program the batch goroutine needs.
type sender interface {
	Send(msg tea.Msg)
}

// runBatch executes run, forwarding its events to p, and delivers the
// results both to p and to done.
func runBatch(ctx context.Context, run BatchFunc, p sender, done chan<- []types.TranscriptResult) {
	results := run(ctx, func(e downloader.Event) {
		p.Send(EventMsg{Event: e})
	})
	done <- results
	p.Send(FinishedMsg{Results: results})
}
