package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorConstants(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "ErrInvalidURL", err: ErrInvalidURL, expected: "invalid YouTube URL"},
		{name: "ErrFetch", err: ErrFetch, expected: "fetch failed"},
		{name: "ErrPlaylistFetch", err: ErrPlaylistFetch, expected: "failed to load playlist"},
		{name: "ErrEmptyPlaylist", err: ErrEmptyPlaylist, expected: "no videos found in playlist"},
		{name: "ErrNoCaptions", err: ErrNoCaptions, expected: "no captions available for this video"},
		{name: "ErrTranscriptFetch", err: ErrTranscriptFetch, expected: "failed to fetch transcript document"},
		{name: "ErrEmptyTranscript", err: ErrEmptyTranscript, expected: "no transcript text found"},
		{name: "ErrBlocked", err: ErrBlocked, expected: "blocked by YouTube"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("Expected error message '%s', got '%s'", tt.expected, tt.err.Error())
			}
		})
	}
}

func TestErrorUniqueness(t *testing.T) {
	all := []error{
		ErrInvalidURL, ErrFetch, ErrPlaylistFetch, ErrEmptyPlaylist,
		ErrNoCaptions, ErrTranscriptFetch, ErrEmptyTranscript, ErrBlocked,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("Expected %q and %q to be distinct", a, b)
			}
		}
	}
}

func TestTranscriptError(t *testing.T) {
	err := Transcript("abc", fmt.Errorf("parse: %w", ErrNoCaptions))

	if err.Error() != "Failed to get transcript: parse: no captions available for this video" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrNoCaptions) {
		t.Error("Expected error to unwrap to ErrNoCaptions")
	}

	var te *TranscriptError
	if !errors.As(err, &te) || te.VideoID != "abc" {
		t.Fatalf("Expected *TranscriptError for abc, got %#v", err)
	}

	if again := Transcript("abc", err); again != err {
		t.Error("Expected an existing TranscriptError to be returned unchanged")
	}
	if Transcript("abc", nil) != nil {
		t.Error("Expected nil for nil cause")
	}
}
