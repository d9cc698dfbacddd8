package errs

import (
	"errors"
)

var (
	// ErrInvalidURL indicates that no video id could be extracted from a single-video URL.
	ErrInvalidURL = errors.New("invalid YouTube URL")
	// ErrFetch indicates a failed page fetch: network error, timeout, non-2xx status or empty body.
	ErrFetch = errors.New("fetch failed")
	// ErrPlaylistFetch indicates that the playlist page could not be loaded.
	ErrPlaylistFetch = errors.New("failed to load playlist")
	// ErrEmptyPlaylist indicates that no video ids were found in the playlist page.
	ErrEmptyPlaylist = errors.New("no videos found in playlist")
	// ErrNoCaptions indicates that the watch page carries no usable caption track.
	ErrNoCaptions = errors.New("no captions available for this video")
	// ErrTranscriptFetch indicates that the caption document could not be loaded.
	ErrTranscriptFetch = errors.New("failed to fetch transcript document")
	// ErrEmptyTranscript indicates a caption document whose joined text is empty.
	ErrEmptyTranscript = errors.New("no transcript text found")
	// ErrBlocked indicates throttling or a bot check by the remote service.
	ErrBlocked = errors.New("blocked by YouTube")
)

// TranscriptError is the per-video failure returned by the transcript fetcher.
type TranscriptError struct {
	VideoID string
	Err     error
}

func (e *TranscriptError) Error() string {
	if e.Err == nil {
		return "Failed to get transcript"
	}
	return "Failed to get transcript: " + e.Err.Error()
}

func (e *TranscriptError) Unwrap() error { return e.Err }

// Transcript wraps err into a *TranscriptError for videoID. A nil err stays nil.
func Transcript(videoID string, err error) error {
	if err == nil {
		return nil
	}
	var te *TranscriptError
	if errors.As(err, &te) {
		return err
	}
	return &TranscriptError{VideoID: videoID, Err: err}
}
