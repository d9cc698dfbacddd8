package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"

	transcripts "github.com/CK3thou/youtube-transcripts"
	"github.com/CK3thou/youtube-transcripts/downloader"
	"github.com/CK3thou/youtube-transcripts/internal/app"
	"github.com/CK3thou/youtube-transcripts/internal/config"
	"github.com/CK3thou/youtube-transcripts/internal/logger"
	"github.com/CK3thou/youtube-transcripts/internal/ratelimit"
	"github.com/CK3thou/youtube-transcripts/internal/store"
	"github.com/CK3thou/youtube-transcripts/internal/tui"
	"github.com/CK3thou/youtube-transcripts/types"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(2)
	}
	if l, err := logger.FromEnvironment(); err == nil {
		logger.SetGlobalLogger(l)
	} else {
		fmt.Fprintf(os.Stderr, "Logger config error: %v\n", err)
	}

	var (
		flagStart   int
		flagTUI     bool
		flagNoFiles bool
		flagPacing  string
	)

	flag.IntVar(&flagStart, "start", 1, "1-based position of the first video to process")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Directory for transcript files")
	flag.BoolVar(&flagNoFiles, "no-files", false, "Do not write transcript files")
	flag.DurationVar(&cfg.Delay, "delay", cfg.Delay, "Pause between transcript fetches (e.g., 5s)")
	flag.StringVar(&flagPacing, "pacing", string(cfg.Pacing), "Pacing policy: fixed (pause -delay between videos) or token (-delay between fetch starts)")
	flag.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout (e.g., 30s, 1m)")
	flag.IntVar(&cfg.Retries, "retries", cfg.Retries, "Attempts per page fetch")
	flag.StringVar(&cfg.UserAgent, "ua", cfg.UserAgent, "Override User-Agent header")
	flag.StringVar(&cfg.Proxy, "proxy", cfg.Proxy, "Proxy URL (http/https/socks5)")
	flag.IntVar(&cfg.PlaylistLimit, "limit", cfg.PlaylistLimit, "Max playlist videos (0 means all)")
	flag.BoolVar(&flagTUI, "tui", false, "Show an interactive progress view")
	flag.StringVar(&cfg.SQLitePath, "sqlite", cfg.SQLitePath, "Also archive transcripts in this SQLite database")
	flag.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "Also upload transcripts to this S3 bucket")
	flag.StringVar(&cfg.S3Prefix, "s3-prefix", cfg.S3Prefix, "Key prefix for S3 uploads")
	flag.BoolVar(&cfg.StopOnBlocked, "stop-on-blocked", cfg.StopOnBlocked, "Stop the batch when YouTube blocks requests")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <video_or_playlist_url>\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
	}

	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(2)
	}
	if flagNoFiles {
		cfg.OutputDir = ""
	}
	if cfg.Pacing, err = ratelimit.ParsePacing(flagPacing); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -pacing: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, cfg, strings.TrimSpace(args[0]), flagStart-1, flagTUI))
}

func run(ctx context.Context, cfg config.Config, input string, start int, useTUI bool) int {
	c, closeClient := app.NewClient(ctx, cfg)
	defer func() { _ = closeClient() }()

	_, _ = fmt.Fprintf(os.Stdout, "Loading %s...\n", input)
	videos, err := c.Resolve(ctx, input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(os.Stdout, "Found %d video(s)\n", len(videos))
	if start < 0 || start >= len(videos) {
		fmt.Fprintf(os.Stderr, "Start position must be between 1 and %d\n", len(videos))
		return 2
	}

	archive, closeArchive, err := app.OpenArchive(ctx, cfg, app.TargetsFor(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Storage error: %v\n", err)
		return 1
	}
	defer func() { _ = closeArchive() }()

	began := time.Now()
	var results []types.TranscriptResult
	if useTUI {
		results, err = runTUI(ctx, c, videos, start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			return 1
		}
	} else {
		results = c.WithLog(printLine).Download(ctx, videos, start)
	}

	summary := types.Summarize(results)
	if !useTUI {
		printSummary(summary, time.Since(began))
	}

	if archive != nil {
		// The batch context may already be cancelled; finished work is still saved.
		names, err := store.SaveAll(context.WithoutCancel(ctx), archive, results)
		for _, n := range names {
			_, _ = fmt.Fprintln(os.Stdout, dimStyle.Render("Saved: "+n))
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Save error: %v\n", err)
			return 1
		}
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		return 130
	}
	if summary.SuccessCount == 0 && summary.ErrorCount > 0 {
		return 1
	}
	return 0
}

func runTUI(ctx context.Context, c *transcripts.Client, videos []types.VideoInfo, start int) ([]types.TranscriptResult, error) {
	heading := fmt.Sprintf("YouTube transcripts (%d videos)", len(videos)-start)
	batch := func(ctx context.Context, emit func(downloader.Event)) []types.TranscriptResult {
		return c.WithEvents(emit).Download(ctx, videos, start)
	}
	return tui.Run(ctx, heading, len(videos)-start, batch)
}

func printLine(line string) {
	switch {
	case strings.HasPrefix(line, "✓"):
		line = okStyle.Render(line)
	case strings.HasPrefix(line, "✗"):
		line = failStyle.Render(line)
	}
	_, _ = fmt.Fprintln(os.Stdout, line)
}

func printSummary(s types.Summary, elapsed time.Duration) {
	_, _ = fmt.Fprintln(os.Stdout)
	_, _ = fmt.Fprintln(os.Stdout, tui.RenderSummary(s, false))
	_, _ = fmt.Fprintln(os.Stdout, dimStyle.Render("Elapsed: "+elapsed.Round(time.Second).String()))
}
