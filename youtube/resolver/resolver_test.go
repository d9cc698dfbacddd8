package resolver

import "testing"

func TestIsPlaylist(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/playlist?list=PL123", true},
		{"https://www.youtube.com/watch?v=abc&list=PL123", true},
		{"https://www.youtube.com/watch?v=abc", false},
		{"https://youtu.be/abc", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsPlaylist(tt.url); got != tt.want {
			t.Errorf("IsPlaylist(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=ABC123&t=5", "ABC123", true},
		{"https://youtu.be/ABC123?x=1", "ABC123", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://example.com", "", false},
		{"https://www.youtube.com/watch?v=", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractVideoID(tt.url)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ExtractVideoID(%q) = (%q, %v), want (%q, %v)", tt.url, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPlaylistID(t *testing.T) {
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://www.youtube.com/playlist?list=PLabc", "PLabc", true},
		{"https://www.youtube.com/watch?v=x&list=PLdef&index=2", "PLdef", true},
		{"https://www.youtube.com/watch?v=x", "", false},
	}
	for _, tt := range tests {
		got, ok := PlaylistID(tt.url)
		if got != tt.want || ok != tt.ok {
			t.Errorf("PlaylistID(%q) = (%q, %v), want (%q, %v)", tt.url, got, ok, tt.want, tt.ok)
		}
	}
}

func TestURLBuilders(t *testing.T) {
	if got := WatchURL("abc"); got != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("Unexpected watch URL %q", got)
	}
	if got := PlaylistURL("PL1"); got != "https://www.youtube.com/playlist?list=PL1" {
		t.Errorf("Unexpected playlist URL %q", got)
	}
	if got := FeedURL("PL1"); got != "https://www.youtube.com/feeds/videos.xml?playlist_id=PL1" {
		t.Errorf("Unexpected feed URL %q", got)
	}
}
