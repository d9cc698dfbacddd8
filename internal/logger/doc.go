// Package logger provides component-scoped structured logging on top of log/slog.
//
// Usage:
//
//	log := logger.WithComponent(logger.ComponentDownloader)
//	log.Info("transcript saved", map[string]any{"video_id": id})
//
//	cfg := logger.DefaultConfig()
//	cfg.Level = logger.DEBUG
//	cfg.Format = logger.FormatJSON
//	logger.SetGlobalLogger(logger.New(cfg))
//
// Each component can be switched on or off independently. The YTT_LOG_LEVEL,
// YTT_LOG_FORMAT, YTT_LOG_OUTPUT, YTT_LOG_CALLER and YTT_LOG_COMPONENTS
// variables configure the logger returned by FromEnvironment.
package logger
