// Package app wires configuration into the transcript client and the
// configured persistence targets. Both commands build on it.
package app

import (
	"context"
	"errors"

	transcripts "github.com/CK3thou/youtube-transcripts"
	"github.com/CK3thou/youtube-transcripts/client"
	"github.com/CK3thou/youtube-transcripts/internal/cache"
	"github.com/CK3thou/youtube-transcripts/internal/config"
	"github.com/CK3thou/youtube-transcripts/internal/logger"
	"github.com/CK3thou/youtube-transcripts/internal/ratelimit"
	"github.com/CK3thou/youtube-transcripts/internal/store"
)

// Closer releases resources acquired while wiring.
type Closer func() error

func (c Closer) chain(next func() error) Closer {
	return func() error {
		return errors.Join(next(), c())
	}
}

func noop() error { return nil }

// NewClient returns a transcripts client for cfg, paced by cfg.Pacing. The
// page cache is always enabled; Redis backs it when cfg.RedisURL is set.
func NewClient(ctx context.Context, cfg config.Config) (*transcripts.Client, Closer) {
	pages := cache.New(ctx, cache.Options{TTL: cfg.CacheTTL, RedisURL: cfg.RedisURL})

	c := transcripts.New().
		WithClientConfig(client.Config{
			Timeout:   cfg.HTTPTimeout,
			Retries:   cfg.Retries,
			UserAgent: cfg.UserAgent,
			ProxyURL:  cfg.Proxy,
			Cache:     pages,
		}).
		WithLimiter(ratelimit.ForPacing(cfg.Pacing, cfg.Delay)).
		WithPlaylistLimit(cfg.PlaylistLimit).
		WithStopOnBlocked(cfg.StopOnBlocked)
	return c, pages.Close
}

// Targets selects which persisters OpenArchive builds.
type Targets struct {
	Files  bool
	SQLite bool
	S3     bool
}

// TargetsFor enables every target that cfg has settings for.
func TargetsFor(cfg config.Config) Targets {
	return Targets{
		Files:  cfg.OutputDir != "",
		SQLite: cfg.SQLitePath != "",
		S3:     cfg.S3Bucket != "",
	}
}

// OpenArchive builds the persisters selected by t. It returns a nil Persister
// when nothing is selected.
func OpenArchive(ctx context.Context, cfg config.Config, t Targets) (store.Persister, Closer, error) {
	log := logger.WithComponent(logger.ComponentApp)
	var (
		targets store.Multi
		closer  Closer = noop
	)

	if t.Files && cfg.OutputDir != "" {
		targets = append(targets, store.NewFileStore(cfg.OutputDir))
	}
	if t.SQLite && cfg.SQLitePath != "" {
		a, err := store.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		log.Info("sqlite archive opened", map[string]any{"path": cfg.SQLitePath, "batch": a.BatchID()})
		targets = append(targets, a)
		closer = closer.chain(a.Close)
	}
	if t.S3 && cfg.S3Bucket != "" {
		s, err := store.NewS3Store(ctx, store.S3Config{
			Bucket:       cfg.S3Bucket,
			Prefix:       cfg.S3Prefix,
			Region:       cfg.S3Region,
			Endpoint:     cfg.S3Endpoint,
			UsePathStyle: cfg.S3Endpoint != "",
		})
		if err != nil {
			_ = closer()
			return nil, noop, err
		}
		log.Info("s3 upload enabled", map[string]any{"bucket": cfg.S3Bucket, "batch": s.BatchID()})
		targets = append(targets, s)
	}

	switch len(targets) {
	case 0:
		return nil, closer, nil
	case 1:
		return targets[0], closer, nil
	default:
		return targets, closer, nil
	}
}
