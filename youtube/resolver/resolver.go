// Package resolver classifies YouTube URLs and extracts identifiers from them.
package resolver

import (
	"net/url"
	"strings"
)

const (
	watchBase    = "https://www.youtube.com/watch?v="
	playlistBase = "https://www.youtube.com/playlist?list="
	feedBase     = "https://www.youtube.com/feeds/videos.xml?playlist_id="
)

// IsPlaylist reports whether rawURL carries a playlist reference.
func IsPlaylist(rawURL string) bool {
	return strings.Contains(rawURL, "list=")
}

// ExtractVideoID returns the id from a watch?v= or youtu.be/ URL. The id is
// taken verbatim up to the next '&' (watch form) or '?' (short form) and is
// not validated further.
func ExtractVideoID(rawURL string) (string, bool) {
	if _, after, ok := strings.Cut(rawURL, "watch?v="); ok {
		id, _, _ := strings.Cut(after, "&")
		return id, id != ""
	}
	if _, after, ok := strings.Cut(rawURL, "youtu.be/"); ok {
		id, _, _ := strings.Cut(after, "?")
		return id, id != ""
	}
	return "", false
}

// WatchURL is the canonical watch page URL for id.
func WatchURL(id string) string {
	return watchBase + id
}

// PlaylistID returns the value of the list query parameter.
func PlaylistID(rawURL string) (string, bool) {
	if u, err := url.Parse(rawURL); err == nil {
		if id := u.Query().Get("list"); id != "" {
			return id, true
		}
	}
	_, after, ok := strings.Cut(rawURL, "list=")
	if !ok {
		return "", false
	}
	id, _, _ := strings.Cut(after, "&")
	return id, id != ""
}

// PlaylistURL is the canonical playlist page URL for id.
func PlaylistURL(id string) string {
	return playlistBase + url.QueryEscape(id)
}

// FeedURL is the public RSS feed of playlist id.
func FeedURL(id string) string {
	return feedBase + url.QueryEscape(id)
}
