package api

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CK3thou/youtube-transcripts/errs"
	"github.com/CK3thou/youtube-transcripts/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	videos    []types.VideoInfo
	err       error
	gotStart  int
	gotVideos []types.VideoInfo
}

func (f *fakeService) Resolve(_ context.Context, _ string) ([]types.VideoInfo, error) {
	return f.videos, f.err
}

func (f *fakeService) Download(_ context.Context, videos []types.VideoInfo, start int) []types.TranscriptResult {
	f.gotVideos, f.gotStart = videos, start
	var out []types.TranscriptResult
	for _, v := range videos[start:] {
		if v.ID == "bad" {
			out = append(out, types.Failed(v, fmt.Errorf("Failed to get transcript: %w", errs.ErrNoCaptions)))
			continue
		}
		out = append(out, types.Succeeded(v, "text "+v.ID))
	}
	return out
}

type memArchive struct{ n int }

func (m *memArchive) Persist(_ context.Context, seq int, _ types.TranscriptResult) (string, error) {
	m.n++
	return fmt.Sprintf("mem:%d", seq), nil
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndMetrics(t *testing.T) {
	r := NewServer(&fakeService{}, nil).NewRouter()

	w := do(t, r, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "yttranscripts_page_fetches")
}

func TestLoadURL(t *testing.T) {
	svc := &fakeService{videos: []types.VideoInfo{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}}
	r := NewServer(svc, nil).NewRouter()

	w := do(t, r, http.MethodPost, "/api/load_url", LoadURLRequest{URL: "https://www.youtube.com/playlist?list=PL1"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoadURLResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "playlist", resp.Type)
	assert.Equal(t, 2, resp.Count)

	w = do(t, r, http.MethodPost, "/api/load_url", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoadURLErrors(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{errs.ErrInvalidURL, http.StatusBadRequest},
		{errs.ErrEmptyPlaylist, http.StatusNotFound},
		{fmt.Errorf("%w: %w", errs.ErrPlaylistFetch, errs.ErrFetch), http.StatusBadGateway},
		{fmt.Errorf("%w: %w", errs.ErrFetch, errs.ErrBlocked), http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		r := NewServer(&fakeService{err: tt.err}, nil).NewRouter()
		w := do(t, r, http.MethodPost, "/api/load_url", LoadURLRequest{URL: "x"})
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
		assert.Contains(t, w.Body.String(), tt.err.Error())
	}
}

func TestDownload(t *testing.T) {
	svc := &fakeService{}
	archive := &memArchive{}
	r := NewServer(svc, archive).NewRouter()

	req := DownloadRequest{
		Videos:     []types.VideoInfo{{ID: "skip"}, {ID: "ok"}, {ID: "bad"}, {ID: "ok2"}},
		StartIndex: 1,
	}
	w := do(t, r, http.MethodPost, "/api/download", req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp DownloadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, svc.gotStart)
	assert.Len(t, resp.Results, 3)
	assert.Equal(t, 2, resp.SuccessCount)
	assert.Equal(t, 1, resp.ErrorCount)
	assert.Equal(t, []string{"mem:1", "mem:2"}, resp.Archived)
	assert.Equal(t, 2, archive.n)

	w = do(t, r, http.MethodPost, "/api/download", DownloadRequest{Videos: []types.VideoInfo{{ID: "a"}}, StartIndex: 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDownloadRejectsEmptyBatch(t *testing.T) {
	svc := &fakeService{}
	r := NewServer(svc, nil).NewRouter()

	tests := []struct {
		name string
		body any
		msg  string
	}{
		{"empty video list", map[string]any{"videos": []types.VideoInfo{}, "start_index": 0}, "No videos provided"},
		{"start at end of list", DownloadRequest{Videos: []types.VideoInfo{{ID: "a"}, {ID: "b"}}, StartIndex: 2}, "start_index out of range"},
		{"negative start", DownloadRequest{Videos: []types.VideoInfo{{ID: "a"}}, StartIndex: -1}, "start_index out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/download", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.msg)
		})
	}
	assert.Nil(t, svc.gotVideos, "service must not run for rejected requests")
}

func TestDownloadZip(t *testing.T) {
	r := NewServer(&fakeService{}, nil).NewRouter()

	body := DownloadZipRequest{
		Files: []ZipFile{{Filename: "01_a.txt", Content: "alpha"}},
		Results: []types.TranscriptResult{
			types.Succeeded(types.VideoInfo{ID: "b", Title: "Bee"}, "beta"),
		},
	}
	w := do(t, r, http.MethodPost, "/api/download_zip", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.True(t, strings.Contains(w.Header().Get("Content-Disposition"), "youtube_transcripts.zip"))

	data := w.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "01_a.txt", zr.File[0].Name)
	assert.Equal(t, "01_Bee.txt", zr.File[1].Name)

	w = do(t, r, http.MethodPost, "/api/download_zip", DownloadZipRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
