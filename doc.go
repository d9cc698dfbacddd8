// Package transcripts extracts closed-caption text and titles from YouTube
// videos and playlists by scraping the public watch and playlist pages.
//
// A typical run resolves a URL and then downloads transcripts sequentially:
//
//	c := transcripts.New().WithLog(func(s string) { fmt.Println(s) })
//	videos, err := c.Resolve(ctx, "https://www.youtube.com/playlist?list=PL...")
//	if err != nil {
//		return err
//	}
//	results := c.Download(ctx, videos, 0)
//
// Per-video failures are reported in the results and never abort the batch.
package transcripts
