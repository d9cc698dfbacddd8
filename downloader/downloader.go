// Package downloader runs the sequential, rate-limited transcript batch.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/CK3thou/youtube-transcripts/errs"
	"github.com/CK3thou/youtube-transcripts/internal/logger"
	"github.com/CK3thou/youtube-transcripts/internal/metrics"
	"github.com/CK3thou/youtube-transcripts/internal/ratelimit"
	"github.com/CK3thou/youtube-transcripts/types"
)

// TranscriptSource fetches the transcript of one video.
type TranscriptSource interface {
	GetTranscript(ctx context.Context, videoID string) (string, error)
}

// EventKind distinguishes the events emitted during a run.
type EventKind int

const (
	// EventLog carries a human-readable log line in Message.
	EventLog EventKind = iota
	// EventProgress is emitted after each item with Completed/Total/Title set.
	EventProgress
	// EventResult carries the result of one item.
	EventResult
	// EventDone is the last event of a run; Summary is set.
	EventDone
)

// Progress reports how many items of the current run are finished.
type Progress struct {
	Completed int
	Total     int
	Title     string
}

// Event is one notification from a running batch.
type Event struct {
	Kind EventKind
	Progress
	Message     string
	Result      *types.TranscriptResult
	Summary     *types.Summary
	Interrupted bool
}

// Orchestrator processes videos one at a time and never aborts the batch
// because a single video failed.
type Orchestrator struct {
	source   TranscriptSource
	limiter  ratelimit.Limiter
	handlers []func(Event)

	// StopOnBlocked ends the batch after a failure caused by errs.ErrBlocked.
	StopOnBlocked bool
}

// New returns an Orchestrator. A nil limiter means the default fixed interval.
func New(source TranscriptSource, limiter ratelimit.Limiter) *Orchestrator {
	if limiter == nil {
		limiter = ratelimit.NewFixed(ratelimit.DefaultInterval)
	}
	return &Orchestrator{source: source, limiter: limiter}
}

// OnEvent registers h. Handlers run on a dispatcher goroutine, in event order,
// and never delay the fetch loop.
func (o *Orchestrator) OnEvent(h func(Event)) *Orchestrator {
	if h != nil {
		o.handlers = append(o.handlers, h)
	}
	return o
}

// OnProgress registers a handler for progress events only.
func (o *Orchestrator) OnProgress(f func(Progress)) *Orchestrator {
	if f == nil {
		return o
	}
	return o.OnEvent(func(e Event) {
		if e.Kind == EventProgress {
			f(e.Progress)
		}
	})
}

// OnLog registers a handler for log lines only.
func (o *Orchestrator) OnLog(f func(string)) *Orchestrator {
	if f == nil {
		return o
	}
	return o.OnEvent(func(e Event) {
		if e.Kind == EventLog {
			f(e.Message)
		}
	})
}

// eventsPerItem bounds what one item can emit: processing log, outcome log,
// result, progress.
const eventsPerItem = 4

// Run processes videos[startIndex:] in order and returns one result per
// attempted video. The limiter is consulted before every fetch except the
// first. ctx is checked between items; a fetch already started is allowed to
// finish, and the results gathered so far are returned.
func (o *Orchestrator) Run(ctx context.Context, videos []types.VideoInfo, startIndex int) []types.TranscriptResult {
	log := logger.WithComponent(logger.ComponentDownloader)

	if startIndex < 0 || startIndex >= len(videos) {
		log.Debug("nothing to process", map[string]any{"start": startIndex, "videos": len(videos)})
		return []types.TranscriptResult{}
	}
	batch := videos[startIndex:]
	total := len(batch)
	metrics.IncrBatchesStarted()

	events := make(chan Event, total*eventsPerItem+4)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		o.dispatch(events)
	}()
	emitLog := func(format string, args ...any) {
		events <- Event{Kind: EventLog, Message: fmt.Sprintf(format, args...)}
	}

	results := make([]types.TranscriptResult, 0, total)
	interrupted := false
	fetchCtx := context.WithoutCancel(ctx)

	for i, v := range batch {
		if ctx.Err() != nil {
			interrupted = true
			break
		}
		emitLog("[%d/%d] Processing: %s", startIndex+i+1, len(videos), v.Title)

		if i > 0 {
			if err := o.limiter.Wait(ctx); err != nil {
				interrupted = true
				break
			}
		}

		text, err := o.source.GetTranscript(fetchCtx, v.ID)
		var r types.TranscriptResult
		if err != nil {
			r = types.Failed(v, err)
			metrics.IncrTranscriptsFailed()
			emitLog("✗ %s: %s", v.Title, r.Error)
			log.Warn("transcript failed", map[string]any{"video_id": v.ID, "error": r.Error})
		} else {
			r = types.Succeeded(v, text)
			metrics.IncrTranscriptsOK()
			emitLog("✓ %s", v.Title)
			log.Debug("transcript fetched", map[string]any{"video_id": v.ID, "chars": len(text)})
		}
		results = append(results, r)

		rc := r
		events <- Event{Kind: EventResult, Result: &rc, Progress: Progress{Completed: i + 1, Total: total, Title: v.Title}}
		events <- Event{Kind: EventProgress, Progress: Progress{Completed: i + 1, Total: total, Title: v.Title}}

		if o.StopOnBlocked && errors.Is(err, errs.ErrBlocked) {
			emitLog("Stopping: YouTube is blocking requests")
			interrupted = true
			break
		}
	}

	summary := types.Summarize(results)
	if interrupted {
		metrics.IncrBatchesInterrupted()
		emitLog("Stopped after %d of %d videos", len(results), total)
	}
	emitLog("Completed! %d successful, %d failed", summary.SuccessCount, summary.ErrorCount)
	events <- Event{
		Kind:        EventDone,
		Progress:    Progress{Completed: len(results), Total: total},
		Summary:     &summary,
		Interrupted: interrupted,
	}
	close(events)
	wg.Wait()

	log.Info("batch finished", map[string]any{
		"attempted": len(results), "total": total,
		"ok": summary.SuccessCount, "failed": summary.ErrorCount, "interrupted": interrupted,
	})
	return results
}

func (o *Orchestrator) dispatch(events <-chan Event) {
	for e := range events {
		for _, h := range o.handlers {
			o.safeCall(h, e)
		}
	}
}

func (o *Orchestrator) safeCall(h func(Event), e Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithComponent(logger.ComponentDownloader).Error("event handler panicked", map[string]any{"panic": fmt.Sprint(r)})
		}
	}()
	h(e)
}
