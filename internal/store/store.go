// Package store persists successful transcripts as text documents.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CK3thou/youtube-transcripts/internal/logger"
	"github.com/CK3thou/youtube-transcripts/internal/metrics"
	"github.com/CK3thou/youtube-transcripts/internal/sanitize"
	"github.com/CK3thou/youtube-transcripts/types"
)

const separatorWidth = 80

// Persister writes one successful result. seq is its 1-based position among
// the successful results of the batch. The returned string names the artifact.
type Persister interface {
	Persist(ctx context.Context, seq int, r types.TranscriptResult) (string, error)
}

// Document renders the header block and transcript of r.
func Document(r types.TranscriptResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Video ID: %s\n", r.Video.ID)
	fmt.Fprintf(&sb, "Title: %s\n", r.Video.Title)
	fmt.Fprintf(&sb, "URL: %s\n", r.Video.URL)
	sb.WriteString(strings.Repeat("-", separatorWidth))
	sb.WriteString("\n\n")
	sb.WriteString(r.Transcript)
	return sb.String()
}

// Filename is the artifact name for the seq-th successful result.
func Filename(seq int, r types.TranscriptResult) string {
	return sanitize.TranscriptFilename(seq, r.Video.Title)
}

// SaveAll persists the successful results in order, numbering them from 1.
// A failed write does not stop the remaining ones; all errors are joined.
func SaveAll(ctx context.Context, p Persister, results []types.TranscriptResult) ([]string, error) {
	log := logger.WithComponent(logger.ComponentStore)

	var (
		artifacts []string
		errList   []error
	)
	seq := 0
	for _, r := range results {
		if !r.Success {
			continue
		}
		if err := ctx.Err(); err != nil {
			errList = append(errList, err)
			break
		}
		seq++
		name, err := p.Persist(ctx, seq, r)
		if err != nil {
			log.Warn("persist failed", map[string]any{"video_id": r.Video.ID, "error": err.Error()})
			errList = append(errList, fmt.Errorf("%s: %w", r.Video.ID, err))
			continue
		}
		metrics.IncrTranscriptsSaved()
		artifacts = append(artifacts, name)
	}
	return artifacts, errors.Join(errList...)
}

// Multi fans a result out to several persisters; the first artifact name is returned.
type Multi []Persister

// Persist implements Persister.
func (m Multi) Persist(ctx context.Context, seq int, r types.TranscriptResult) (string, error) {
	var (
		first   string
		errList []error
	)
	for _, p := range m {
		name, err := p.Persist(ctx, seq, r)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		if first == "" {
			first = name
		}
	}
	return first, errors.Join(errList...)
}
