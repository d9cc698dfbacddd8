// Package metrics keeps process-wide operational counters.
package metrics

import (
	"fmt"
	"strings"
	"sync/atomic"
)

var counters struct {
	PageFetches        atomic.Int64
	FetchErrors        atomic.Int64
	CacheHits          atomic.Int64
	CacheMisses        atomic.Int64
	PlaylistsCrawled   atomic.Int64
	TranscriptsOK      atomic.Int64
	TranscriptsFailed  atomic.Int64
	TranscriptsSaved   atomic.Int64
	BatchesStarted     atomic.Int64
	BatchesInterrupted atomic.Int64
}

func IncrPageFetches()        { counters.PageFetches.Add(1) }
func IncrFetchErrors()        { counters.FetchErrors.Add(1) }
func IncrCacheHits()          { counters.CacheHits.Add(1) }
func IncrCacheMisses()        { counters.CacheMisses.Add(1) }
func IncrPlaylistsCrawled()   { counters.PlaylistsCrawled.Add(1) }
func IncrTranscriptsOK()      { counters.TranscriptsOK.Add(1) }
func IncrTranscriptsFailed()  { counters.TranscriptsFailed.Add(1) }
func IncrTranscriptsSaved()   { counters.TranscriptsSaved.Add(1) }
func IncrBatchesStarted()     { counters.BatchesStarted.Add(1) }
func IncrBatchesInterrupted() { counters.BatchesInterrupted.Add(1) }

var order = []string{
	"page_fetches", "fetch_errors",
	"cache_hits", "cache_misses",
	"playlists_crawled",
	"transcripts_ok", "transcripts_failed", "transcripts_saved",
	"batches_started", "batches_interrupted",
}

// Snapshot returns the current counter values.
func Snapshot() map[string]int64 {
	return map[string]int64{
		"page_fetches":        counters.PageFetches.Load(),
		"fetch_errors":        counters.FetchErrors.Load(),
		"cache_hits":          counters.CacheHits.Load(),
		"cache_misses":        counters.CacheMisses.Load(),
		"playlists_crawled":   counters.PlaylistsCrawled.Load(),
		"transcripts_ok":      counters.TranscriptsOK.Load(),
		"transcripts_failed":  counters.TranscriptsFailed.Load(),
		"transcripts_saved":   counters.TranscriptsSaved.Load(),
		"batches_started":     counters.BatchesStarted.Load(),
		"batches_interrupted": counters.BatchesInterrupted.Load(),
	}
}

// Format renders the counters as "name value" lines in a stable order.
func Format() string {
	m := Snapshot()
	var sb strings.Builder
	for _, k := range order {
		fmt.Fprintf(&sb, "yttranscripts_%s %d\n", k, m[k])
	}
	return sb.String()
}
