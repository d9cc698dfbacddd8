package transcripts

import (
	"context"
	"net/http"
	"time"

	"github.com/CK3thou/youtube-transcripts/client"
	"github.com/CK3thou/youtube-transcripts/downloader"
	"github.com/CK3thou/youtube-transcripts/errs"
	"github.com/CK3thou/youtube-transcripts/internal/logger"
	"github.com/CK3thou/youtube-transcripts/internal/ratelimit"
	"github.com/CK3thou/youtube-transcripts/types"
	"github.com/CK3thou/youtube-transcripts/youtube/captions"
	"github.com/CK3thou/youtube-transcripts/youtube/metadata"
	"github.com/CK3thou/youtube-transcripts/youtube/playlist"
	"github.com/CK3thou/youtube-transcripts/youtube/resolver"
)

// Options holds the configuration collected by the chainable setters.
type Options struct {
	ClientConfig  client.Config
	HTTPClient    *http.Client
	Fetcher       client.Fetcher
	Limiter       ratelimit.Limiter
	Delay         time.Duration
	PlaylistLimit int
	StopOnBlocked bool
	DisableFeed   bool
	EventFunc     func(downloader.Event)
	ProgressFunc  func(downloader.Progress)
	LogFunc       func(string)
}

// Client resolves YouTube URLs and downloads transcripts for the videos they name.
type Client struct {
	options Options
}

// New returns a Client with a 5 second pause between transcript fetches.
func New() *Client {
	return &Client{options: Options{Delay: ratelimit.DefaultInterval}}
}

// WithClientConfig sets timeouts, retries, user agent, proxy and cache of the page fetcher.
func (c *Client) WithClientConfig(cfg client.Config) *Client {
	c.options.ClientConfig = cfg
	return c
}

// WithHTTPClient sets a custom HTTP client to be used for all network calls.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.options.HTTPClient = hc
	return c
}

// WithFetcher replaces the page fetcher entirely.
func (c *Client) WithFetcher(f client.Fetcher) *Client {
	c.options.Fetcher = f
	return c
}

// WithDelay sets the fixed pause between transcript fetches. Zero disables pacing.
func (c *Client) WithDelay(d time.Duration) *Client {
	if d < 0 {
		d = 0
	}
	c.options.Delay = d
	return c
}

// WithLimiter sets a custom pacing policy; it takes precedence over WithDelay.
func (c *Client) WithLimiter(l ratelimit.Limiter) *Client {
	c.options.Limiter = l
	return c
}

// WithPlaylistLimit caps the number of playlist entries resolved. Zero means all.
func (c *Client) WithPlaylistLimit(n int) *Client {
	if n < 0 {
		n = 0
	}
	c.options.PlaylistLimit = n
	return c
}

// WithStopOnBlocked ends a batch as soon as YouTube starts refusing requests.
func (c *Client) WithStopOnBlocked(stop bool) *Client {
	c.options.StopOnBlocked = stop
	return c
}

// WithFeedFallback toggles the playlist RSS fallback (enabled by default).
func (c *Client) WithFeedFallback(enabled bool) *Client {
	c.options.DisableFeed = !enabled
	return c
}

// WithEvents registers a callback receiving every batch event.
func (c *Client) WithEvents(f func(downloader.Event)) *Client {
	c.options.EventFunc = f
	return c
}

// WithProgress registers a callback that receives progress updates.
func (c *Client) WithProgress(f func(downloader.Progress)) *Client {
	c.options.ProgressFunc = f
	return c
}

// WithLog registers a callback receiving batch log lines.
func (c *Client) WithLog(f func(string)) *Client {
	c.options.LogFunc = f
	return c
}

func (c *Client) fetcher() client.Fetcher {
	if c.options.Fetcher != nil {
		return c.options.Fetcher
	}
	hc := client.NewWith(c.options.ClientConfig)
	if c.options.HTTPClient != nil {
		hc = hc.WithHTTPClient(c.options.HTTPClient)
	}
	return hc
}

func (c *Client) limiter() ratelimit.Limiter {
	if c.options.Limiter != nil {
		return c.options.Limiter
	}
	return ratelimit.NewFixed(c.options.Delay)
}

// Resolve turns a video or playlist URL into the ordered list of videos to
// process. Playlist URLs are crawled; single-video URLs need an extractable id
// and get their title from the watch page, falling back to the id.
func (c *Client) Resolve(ctx context.Context, rawURL string) ([]types.VideoInfo, error) {
	log := logger.WithComponent(logger.ComponentResolver)
	f := c.fetcher()

	if resolver.IsPlaylist(rawURL) {
		crawler := playlist.New(f)
		crawler.Limit = c.options.PlaylistLimit
		crawler.FeedFallback = !c.options.DisableFeed
		videos, err := crawler.Crawl(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		log.Info("playlist resolved", map[string]any{"url": rawURL, "videos": len(videos)})
		return videos, nil
	}

	id, ok := resolver.ExtractVideoID(rawURL)
	if !ok {
		return nil, errs.ErrInvalidURL
	}
	watch := resolver.WatchURL(id)
	title, ok := metadata.New().FetchTitle(ctx, f, watch)
	if !ok {
		title = id
	}
	log.Debug("video resolved", map[string]any{"id": id, "title": title})
	return []types.VideoInfo{{ID: id, Title: title, URL: watch}}, nil
}

// Transcript fetches the transcript of a single video id.
func (c *Client) Transcript(ctx context.Context, videoID string) (string, error) {
	return captions.New(c.fetcher()).GetTranscript(ctx, videoID)
}

// Orchestrator builds the batch runner with the configured fetcher, pacing and callbacks.
func (c *Client) Orchestrator() *downloader.Orchestrator {
	o := downloader.New(captions.New(c.fetcher()), c.limiter()).
		OnEvent(c.options.EventFunc).
		OnProgress(c.options.ProgressFunc).
		OnLog(c.options.LogFunc)
	o.StopOnBlocked = c.options.StopOnBlocked
	return o
}

// Download fetches transcripts for videos[startIndex:], one at a time.
// See downloader.Orchestrator.Run for cancellation semantics.
func (c *Client) Download(ctx context.Context, videos []types.VideoInfo, startIndex int) []types.TranscriptResult {
	return c.Orchestrator().Run(ctx, videos, startIndex)
}
