//go:build e2e

package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	transcripts "github.com/CK3thou/youtube-transcripts"
)

func TestE2E_Video(t *testing.T) {
	if os.Getenv("YTT_E2E") == "" {
		t.Skip("YTT_E2E not set")
	}
	url := os.Getenv("YTT_E2E_URL")
	if url == "" {
		url = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c := transcripts.New()
	videos, err := c.Resolve(ctx, url)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	results := c.Download(ctx, videos, 0)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].Success {
		t.Fatalf("transcript failed: %s", results[0].Error)
	}
}

func TestE2E_Playlist(t *testing.T) {
	url := os.Getenv("YTT_E2E_PLAYLIST")
	if os.Getenv("YTT_E2E") == "" || url == "" {
		t.Skip("YTT_E2E or YTT_E2E_PLAYLIST not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	videos, err := transcripts.New().WithPlaylistLimit(3).Resolve(ctx, url)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(videos) == 0 || len(videos) > 3 {
		t.Fatalf("unexpected playlist size %d", len(videos))
	}
}
