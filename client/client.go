// Package client fetches YouTube pages over HTTPS with browser-like headers.
package client

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/CK3thou/youtube-transcripts/errs"
	"github.com/CK3thou/youtube-transcripts/internal/logger"
	"github.com/CK3thou/youtube-transcripts/internal/metrics"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultConnectTimeout = 30 * time.Second
	defaultRetries        = 1

	userAgentValue   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	initialBackoff   = 200 * time.Millisecond
	maxBackoff       = 3 * time.Second
	maxBodyBytes     = 32 << 20
	retryableMinCode = http.StatusInternalServerError
)

var botCheckPageRe = regexp.MustCompile(`(?i)confirm you.{0,8}re not a bot`)

// IsBotCheckPage reports whether body is YouTube's "confirm you're not a bot"
// interstitial, which is served with a 2xx status.
func IsBotCheckPage(body string) bool {
	return botCheckPageRe.MatchString(body)
}

// Fetcher is the page-fetching contract the scrapers depend on.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, headers map[string]string) (string, error)
}

// Cache stores page bodies keyed by URL.
type Cache interface {
	Get(ctx context.Context, rawURL string) (string, bool)
	Set(ctx context.Context, rawURL, body string)
}

func newTransport(connectTimeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
		// Encodings are negotiated and decoded by Fetch itself.
		DisableCompression: true,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
}

// defaultTransport is shared by clients built with New so sequential fetches reuse connections.
var defaultTransport = newTransport(defaultConnectTimeout)

// Config holds optional client parameters. Zero values use defaults.
type Config struct {
	Timeout        time.Duration
	ConnectTimeout time.Duration
	// Retries is the number of attempts per fetch; values below 1 mean a single attempt.
	Retries   int
	UserAgent string
	ProxyURL  string
	Cache     Cache
}

// Client wraps http.Client with default headers, content decoding and an optional cache.
type Client struct {
	HTTPClient *http.Client
	Retries    int
	UserAgent  string
	Cache      Cache

	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Client with the shared transport and default timeouts.
func New() *Client {
	return &Client{
		HTTPClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: defaultTransport,
		},
		Retries:   defaultRetries,
		UserAgent: userAgentValue,
	}
}

// NewWith creates a new client with provided config. Zero values use defaults.
func NewWith(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := cfg.Retries
	if retries <= 0 {
		retries = defaultRetries
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = userAgentValue
	}

	tr := defaultTransport
	if cfg.ConnectTimeout > 0 || cfg.ProxyURL != "" {
		connect := cfg.ConnectTimeout
		if connect <= 0 {
			connect = defaultConnectTimeout
		}
		tr = newTransport(connect)
		if cfg.ProxyURL != "" {
			if proxyFunc, err := proxyFromURLString(cfg.ProxyURL); err == nil {
				tr.Proxy = proxyFunc
			} else {
				logger.WithComponent(logger.ComponentClient).Warn("ignoring invalid proxy URL", map[string]any{"error": err.Error()})
			}
		}
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
		Retries:   retries,
		UserAgent: ua,
		Cache:     cfg.Cache,
	}
}

// WithHTTPClient returns a copy of c that sends requests through hc.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	cp := *c
	cp.HTTPClient = hc
	return &cp
}

// Fetch GETs rawURL and returns the decoded body as text. headers override the
// browser defaults, including User-Agent. Any transport error, non-2xx status
// or empty body yields an error wrapping errs.ErrFetch; HTTP 429 and bot-check
// redirects additionally wrap errs.ErrBlocked.
func (c *Client) Fetch(ctx context.Context, rawURL string, headers map[string]string) (string, error) {
	log := logger.WithComponent(logger.ComponentClient)

	if c.Cache != nil {
		if body, ok := c.Cache.Get(ctx, rawURL); ok {
			log.Trace("cache hit", map[string]any{"url": rawURL})
			return body, nil
		}
	}

	attempts := c.Retries
	if attempts < 1 {
		attempts = 1
	}
	sleep := c.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, backoff); err != nil {
				break
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}

		body, retry, err := c.fetchOnce(ctx, rawURL, headers)
		if err == nil {
			switch {
			case c.Cache == nil:
			case IsBotCheckPage(body):
				log.Debug("bot check page not cached", map[string]any{"url": rawURL})
			default:
				c.Cache.Set(ctx, rawURL, body)
			}
			return body, nil
		}
		lastErr = err
		log.Debug("fetch failed", map[string]any{"url": rawURL, "attempt": attempt + 1, "error": err.Error()})
		if !retry {
			break
		}
	}
	metrics.IncrFetchErrors()
	return "", lastErr
}

func (c *Client) fetchOnce(ctx context.Context, rawURL string, headers map[string]string) (body string, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("%w: build request: %v", errs.ErrFetch, err)
	}
	c.setHeaders(req, headers)

	metrics.IncrPageFetches()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", ctx.Err() == nil, fmt.Errorf("%w: %v", errs.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || isBotCheck(resp) {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return "", false, fmt.Errorf("%w: %w: status %d", errs.ErrFetch, errs.ErrBlocked, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return "", resp.StatusCode >= retryableMinCode, fmt.Errorf("%w: status %d", errs.ErrFetch, resp.StatusCode)
	}

	data, err := readBody(resp)
	if err != nil {
		return "", true, fmt.Errorf("%w: read body: %v", errs.ErrFetch, err)
	}
	if len(data) == 0 {
		return "", false, fmt.Errorf("%w: empty body", errs.ErrFetch)
	}
	return string(data), false, nil
}

var browserHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Accept-Encoding": "gzip, br",
	"Cache-Control":   "no-cache",
}

func (c *Client) setHeaders(req *http.Request, headers map[string]string) {
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}
	ua := c.UserAgent
	if ua == "" {
		ua = userAgentValue
	}
	req.Header.Set("User-Agent", ua)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

// readBody decodes gzip and brotli bodies; anything else is read as is.
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	}
	return io.ReadAll(io.LimitReader(reader, maxBodyBytes))
}

// isBotCheck reports whether the request ended on Google's "unusual traffic" page.
func isBotCheck(resp *http.Response) bool {
	if resp.Request == nil || resp.Request.URL == nil {
		return false
	}
	return strings.HasPrefix(resp.Request.URL.Path, "/sorry/")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// proxyFromURLString parses a proxy URL and returns a Proxy function.
func proxyFromURLString(raw string) (func(*http.Request) (*url.URL, error), error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("proxy URL needs scheme and host")
	}
	return http.ProxyURL(u), nil
}
