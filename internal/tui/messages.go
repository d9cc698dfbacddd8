package tui

import (
	"github.com/CK3thou/youtube-transcripts/downloader"
	"github.com/CK3thou/youtube-transcripts/types"
)

// EventMsg wraps one orchestrator event.
type EventMsg struct {
	Event downloader.Event
}

// FinishedMsg is sent once the batch has returned.
type FinishedMsg struct {
	Results []types.TranscriptResult
}
