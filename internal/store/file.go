package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CK3thou/youtube-transcripts/types"
)

// FileStore writes one text file per transcript into Dir.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Persist implements Persister. Files are written to a temporary name and
// renamed into place.
func (s *FileStore) Persist(_ context.Context, seq int, r types.TranscriptResult) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(s.Dir, Filename(seq, r))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(Document(r)), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("rename %s: %w", tmp, err)
	}
	return path, nil
}
