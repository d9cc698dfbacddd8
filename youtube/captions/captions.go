// Package captions downloads the first caption track of a video and flattens it to plain text.
package captions

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/CK3thou/youtube-transcripts/client"
	"github.com/CK3thou/youtube-transcripts/errs"
	"github.com/CK3thou/youtube-transcripts/internal/extract"
	"github.com/CK3thou/youtube-transcripts/internal/logger"
	"github.com/CK3thou/youtube-transcripts/types"
	"github.com/CK3thou/youtube-transcripts/youtube/resolver"
)

const youtubeOrigin = "https://www.youtube.com"

var captionTracksRe = regexp.MustCompile(`"captionTracks":(\[.*?\])`)

// TrackList finds the captionTracks array literal and parses it leniently.
func TrackList() extract.Strategy[[]types.CaptionTrack] {
	return extract.Map(extract.Submatch(captionTracksRe), func(lit string) ([]types.CaptionTrack, bool) {
		var tracks []types.CaptionTrack
		if err := extract.ParseLiteral(lit, &tracks); err != nil {
			logger.WithComponent(logger.ComponentCaptions).Debug("caption track literal rejected", map[string]any{"error": err.Error()})
			return nil, false
		}
		return tracks, true
	})
}

// Fetcher resolves a video id to its transcript text.
type Fetcher struct {
	fetcher client.Fetcher
	tracks  extract.Strategy[[]types.CaptionTrack]
}

// New returns a Fetcher using f for both the watch page and the caption document.
func New(f client.Fetcher) *Fetcher {
	return &Fetcher{fetcher: f, tracks: TrackList()}
}

// WithTrackStrategy replaces the caption track discovery strategy.
func (f *Fetcher) WithTrackStrategy(s extract.Strategy[[]types.CaptionTrack]) *Fetcher {
	f.tracks = s
	return f
}

// GetTranscript returns the whitespace-joined text of the video's first caption
// track. Every failure is a *errs.TranscriptError.
func (f *Fetcher) GetTranscript(ctx context.Context, videoID string) (string, error) {
	text, err := f.transcript(ctx, videoID)
	if err != nil {
		return "", errs.Transcript(videoID, err)
	}
	return text, nil
}

func (f *Fetcher) transcript(ctx context.Context, videoID string) (string, error) {
	log := logger.WithComponent(logger.ComponentCaptions)

	page, err := f.fetcher.Fetch(ctx, resolver.WatchURL(videoID), nil)
	if err != nil {
		return "", err
	}

	track, err := f.firstTrack(page)
	if err != nil {
		return "", err
	}
	log.Debug("caption track selected", map[string]any{"video_id": videoID, "lang": track.LanguageCode, "kind": track.Kind})

	doc, err := f.fetcher.Fetch(ctx, absolute(track.BaseURL), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrTranscriptFetch, err)
	}
	return ParseTranscript(doc)
}

// firstTrack always picks index 0; no language or kind preference is applied.
func (f *Fetcher) firstTrack(page string) (types.CaptionTrack, error) {
	tracks, ok := f.tracks.Extract(page)
	if !ok {
		if client.IsBotCheckPage(page) {
			return types.CaptionTrack{}, fmt.Errorf("%w: %w", errs.ErrNoCaptions, errs.ErrBlocked)
		}
		return types.CaptionTrack{}, errs.ErrNoCaptions
	}
	if len(tracks) == 0 {
		return types.CaptionTrack{}, fmt.Errorf("%w: empty track list", errs.ErrNoCaptions)
	}
	track := tracks[0]
	track.BaseURL = strings.TrimSpace(track.BaseURL)
	if track.BaseURL == "" {
		return types.CaptionTrack{}, fmt.Errorf("%w: first track has no baseUrl", errs.ErrNoCaptions)
	}
	return track, nil
}

// ParseTranscript joins the decoded <text> fragments of a caption document
// with single spaces, blank fragments included. It fails only when the joined
// text is empty.
func ParseTranscript(doc string) (string, error) {
	text := strings.Join(extract.TextElements(doc), " ")
	if text == "" {
		return "", errs.ErrEmptyTranscript
	}
	return text, nil
}

func absolute(u string) string {
	if strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//") {
		return youtubeOrigin + u
	}
	return u
}
