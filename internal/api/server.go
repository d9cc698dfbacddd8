// Package api exposes resolution and transcript download over HTTP.
package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CK3thou/youtube-transcripts/internal/logger"
	"github.com/CK3thou/youtube-transcripts/internal/store"
	"github.com/CK3thou/youtube-transcripts/types"
)

// Service is the transcript pipeline the handlers drive.
type Service interface {
	Resolve(ctx context.Context, rawURL string) ([]types.VideoInfo, error)
	Download(ctx context.Context, videos []types.VideoInfo, startIndex int) []types.TranscriptResult
}

// Server holds handler dependencies.
type Server struct {
	svc     Service
	archive store.Persister
}

// NewServer returns a Server. archive may be nil; when set, every successful
// download is also persisted there.
func NewServer(svc Service, archive store.Persister) *Server {
	return &Server{svc: svc, archive: archive}
}

// NewRouter constructs a Gin engine with registered routes.
func (s *Server) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLog())

	RegisterHealthRoutes(r)
	s.RegisterTranscriptRoutes(r)
	return r
}

func requestLog() gin.HandlerFunc {
	log := logger.WithComponent(logger.ComponentAPI)
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request", map[string]any{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
	}
}
