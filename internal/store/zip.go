package store

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/CK3thou/youtube-transcripts/types"
)

// ZipStore collects transcript documents into an in-memory zip archive.
type ZipStore struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	zw     *zip.Writer
	closed bool
	now    func() time.Time
}

// NewZipStore returns an empty archive.
func NewZipStore() *ZipStore {
	z := &ZipStore{now: time.Now}
	z.zw = zip.NewWriter(&z.buf)
	return z
}

// Persist implements Persister.
func (z *ZipStore) Persist(_ context.Context, seq int, r types.TranscriptResult) (string, error) {
	return z.Add(Filename(seq, r), Document(r))
}

// Add stores content under name.
func (z *ZipStore) Add(name, content string) (string, error) {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.closed {
		return "", fmt.Errorf("zip archive already finalized")
	}
	w, err := z.zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: z.now()})
	if err != nil {
		return "", fmt.Errorf("zip entry %s: %w", name, err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		return "", fmt.Errorf("zip entry %s: %w", name, err)
	}
	return name, nil
}

// Bytes finalizes the archive and returns its contents. Further Adds fail.
func (z *ZipStore) Bytes() ([]byte, error) {
	z.mu.Lock()
	defer z.mu.Unlock()
	if !z.closed {
		if err := z.zw.Close(); err != nil {
			return nil, fmt.Errorf("finalize zip: %w", err)
		}
		z.closed = true
	}
	return z.buf.Bytes(), nil
}
