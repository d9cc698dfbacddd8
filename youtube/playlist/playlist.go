// Package playlist turns a playlist page into an ordered, de-duplicated list of videos.
package playlist

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/CK3thou/youtube-transcripts/client"
	"github.com/CK3thou/youtube-transcripts/errs"
	"github.com/CK3thou/youtube-transcripts/internal/extract"
	"github.com/CK3thou/youtube-transcripts/internal/logger"
	"github.com/CK3thou/youtube-transcripts/internal/metrics"
	"github.com/CK3thou/youtube-transcripts/types"
	"github.com/CK3thou/youtube-transcripts/youtube/metadata"
	"github.com/CK3thou/youtube-transcripts/youtube/resolver"
)

var videoIDRe = regexp.MustCompile(`"videoId":"([a-zA-Z0-9_-]{11})"`)

// Crawler resolves playlists. Title lookups run one after another.
type Crawler struct {
	fetcher client.Fetcher
	titles  *metadata.Extractor

	// Limit caps the number of videos kept; 0 keeps all.
	Limit int
	// FeedFallback consults the playlist RSS feed when the page yields no ids.
	FeedFallback bool
}

// New returns a Crawler with the default title chain and the feed fallback enabled.
func New(f client.Fetcher) *Crawler {
	return &Crawler{fetcher: f, titles: metadata.New(), FeedFallback: true}
}

// WithTitleExtractor replaces the title extractor.
func (c *Crawler) WithTitleExtractor(e *metadata.Extractor) *Crawler {
	c.titles = e
	return c
}

// VideoIDs scans page for embedded video ids, keeping first-seen order.
func VideoIDs(page string) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, id := range extract.AllSubmatches(videoIDRe, page) {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// DefaultTitle is used when a video's own page yields no title.
func DefaultTitle(ordinal int) string {
	return "Video " + strconv.Itoa(ordinal)
}

// Crawl fetches playlistURL and resolves every distinct video on it. Each video
// page is fetched for its title, falling back to DefaultTitle.
func (c *Crawler) Crawl(ctx context.Context, playlistURL string) ([]types.VideoInfo, error) {
	log := logger.WithComponent(logger.ComponentPlaylist)

	page, err := c.fetcher.Fetch(ctx, playlistURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrPlaylistFetch, err)
	}
	metrics.IncrPlaylistsCrawled()

	ids := c.limit(VideoIDs(page))
	log.Debug("playlist scanned", map[string]any{"url": playlistURL, "videos": len(ids)})

	if len(ids) == 0 && c.FeedFallback {
		if videos := c.fromFeed(ctx, playlistURL); len(videos) > 0 {
			return videos, nil
		}
	}
	if len(ids) == 0 {
		return nil, errs.ErrEmptyPlaylist
	}

	videos := make([]types.VideoInfo, 0, len(ids))
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		watch := resolver.WatchURL(id)
		title, ok := c.titles.FetchTitle(ctx, c.fetcher, watch)
		if !ok {
			title = DefaultTitle(i + 1)
		}
		videos = append(videos, types.VideoInfo{ID: id, Title: title, URL: watch})
		log.Trace("video resolved", map[string]any{"id": id, "title": title})
	}
	return videos, nil
}

func (c *Crawler) limit(ids []string) []string {
	if c.Limit > 0 && len(ids) > c.Limit {
		return ids[:c.Limit]
	}
	return ids
}

// fromFeed reads the playlist's public RSS feed. Any failure yields nil.
func (c *Crawler) fromFeed(ctx context.Context, playlistURL string) []types.VideoInfo {
	log := logger.WithComponent(logger.ComponentPlaylist)

	listID, ok := resolver.PlaylistID(playlistURL)
	if !ok {
		return nil
	}
	body, err := c.fetcher.Fetch(ctx, resolver.FeedURL(listID), nil)
	if err != nil {
		log.Debug("playlist feed unavailable", map[string]any{"list": listID, "error": err.Error()})
		return nil
	}
	videos, err := ParseFeed(body)
	if err != nil {
		log.Debug("playlist feed unparseable", map[string]any{"list": listID, "error": err.Error()})
		return nil
	}
	log.Info("playlist resolved from feed", map[string]any{"list": listID, "videos": len(videos)})
	if c.Limit > 0 && len(videos) > c.Limit {
		videos = videos[:c.Limit]
	}
	return videos
}

// ParseFeed converts a YouTube playlist feed into videos, de-duplicated in feed order.
func ParseFeed(body string) ([]types.VideoInfo, error) {
	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var videos []types.VideoInfo
	for i, item := range feed.Items {
		id := feedVideoID(item)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = DefaultTitle(i + 1)
		}
		videos = append(videos, types.VideoInfo{ID: id, Title: title, URL: resolver.WatchURL(id)})
	}
	return videos, nil
}

func feedVideoID(item *gofeed.Item) string {
	if yt, ok := item.Extensions["yt"]; ok {
		if vals := yt["videoId"]; len(vals) > 0 && vals[0].Value != "" {
			return strings.TrimSpace(vals[0].Value)
		}
	}
	if id, ok := resolver.ExtractVideoID(item.Link); ok {
		return id
	}
	return ""
}
