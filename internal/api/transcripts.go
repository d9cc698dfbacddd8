package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CK3thou/youtube-transcripts/errs"
	"github.com/CK3thou/youtube-transcripts/internal/logger"
	"github.com/CK3thou/youtube-transcripts/internal/store"
	"github.com/CK3thou/youtube-transcripts/types"
	"github.com/CK3thou/youtube-transcripts/youtube/resolver"
)

// RegisterTranscriptRoutes registers URL resolution and download endpoints.
func (s *Server) RegisterTranscriptRoutes(r *gin.Engine) {
	g := r.Group("/api")
	g.POST("/load_url", s.handleLoadURL)
	g.POST("/download", s.handleDownload)
	g.POST("/download_zip", s.handleDownloadZip)
}

// LoadURLRequest names the video or playlist to resolve.
type LoadURLRequest struct {
	URL string `json:"url" binding:"required"`
}

// LoadURLResponse lists the resolved videos.
type LoadURLResponse struct {
	Type   string            `json:"type"`
	Videos []types.VideoInfo `json:"videos"`
	Count  int               `json:"count"`
}

// DownloadRequest selects the videos to fetch transcripts for.
type DownloadRequest struct {
	Videos     []types.VideoInfo `json:"videos" binding:"required"`
	StartIndex int               `json:"start_index"`
}

// DownloadResponse carries per-video results in input order.
type DownloadResponse struct {
	Results      []types.TranscriptResult `json:"results"`
	SuccessCount int                      `json:"success_count"`
	ErrorCount   int                      `json:"error_count"`
	Archived     []string                 `json:"archived,omitempty"`
}

// ZipFile is a ready-made document to bundle.
type ZipFile struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// DownloadZipRequest bundles either explicit files or successful results.
type DownloadZipRequest struct {
	Files   []ZipFile                `json:"files"`
	Results []types.TranscriptResult `json:"results"`
}

func (s *Server) handleLoadURL(c *gin.Context) {
	var req LoadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	videos, err := s.svc.Resolve(c.Request.Context(), req.URL)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	kind := "video"
	if resolver.IsPlaylist(req.URL) {
		kind = "playlist"
	}
	c.JSON(http.StatusOK, LoadURLResponse{Type: kind, Videos: videos, Count: len(videos)})
}

func (s *Server) handleDownload(c *gin.Context) {
	var req DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Videos) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No videos provided"})
		return
	}
	if req.StartIndex < 0 || req.StartIndex >= len(req.Videos) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_index out of range"})
		return
	}

	ctx := c.Request.Context()
	results := s.svc.Download(ctx, req.Videos, req.StartIndex)
	summary := types.Summarize(results)
	resp := DownloadResponse{
		Results:      results,
		SuccessCount: summary.SuccessCount,
		ErrorCount:   summary.ErrorCount,
	}

	if s.archive != nil {
		names, err := store.SaveAll(ctx, s.archive, results)
		if err != nil {
			logger.WithComponent(logger.ComponentAPI).Warn("archive failed", map[string]any{"error": err.Error()})
		}
		resp.Archived = names
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDownloadZip(c *gin.Context) {
	var req DownloadZipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Files) == 0 && len(req.Results) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to bundle"})
		return
	}

	z := store.NewZipStore()
	for _, f := range req.Files {
		if f.Filename == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file without filename"})
			return
		}
		if _, err := z.Add(f.Filename, f.Content); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if len(req.Results) > 0 {
		if _, err := store.SaveAll(c.Request.Context(), z, req.Results); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	data, err := z.Bytes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="youtube_transcripts.zip"`)
	c.Data(http.StatusOK, "application/zip", data)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrEmptyPlaylist):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrBlocked):
		return http.StatusTooManyRequests
	case errors.Is(err, errs.ErrPlaylistFetch), errors.Is(err, errs.ErrFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
