package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LogConfig is the string form of Config, as read from the environment.
type LogConfig struct {
	Level      string
	Format     string
	Output     string
	Components map[string]bool
	ShowCaller bool
}

// DefaultLogConfig returns default logging configuration
func DefaultLogConfig() *LogConfig {
	cfg := DefaultConfig()
	comps := make(map[string]bool, len(cfg.Components))
	for c, on := range cfg.Components {
		comps[string(c)] = on
	}
	return &LogConfig{
		Level:      "INFO",
		Format:     "text",
		Output:     "stderr",
		Components: comps,
	}
}

// ToLoggerConfig converts LogConfig to logger.Config
func (c *LogConfig) ToLoggerConfig() (*Config, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("parse level: %w", err)
	}
	format, err := parseFormat(c.Format)
	if err != nil {
		return nil, fmt.Errorf("parse format: %w", err)
	}
	output, err := parseOutput(c.Output)
	if err != nil {
		return nil, fmt.Errorf("parse output: %w", err)
	}

	components := make(map[Component]bool, len(c.Components))
	for name, enabled := range c.Components {
		components[Component(name)] = enabled
	}

	return &Config{
		Level:      level,
		Format:     format,
		Output:     output,
		Components: components,
		ShowCaller: c.ShowCaller,
	}, nil
}

func parseLevel(levelStr string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "TRACE":
		return TRACE, nil
	case "DEBUG":
		return DEBUG, nil
	case "INFO", "":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("unknown level: %s", levelStr)
	}
}

func parseFormat(formatStr string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(formatStr)) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unknown format: %s", formatStr)
	}
}

// parseOutput accepts stdout, stderr, null/none or file:<path>.
func parseOutput(outputStr string) (io.Writer, error) {
	switch strings.ToLower(outputStr) {
	case "stdout":
		return os.Stdout, nil
	case "stderr", "":
		return os.Stderr, nil
	case "null", "none":
		return io.Discard, nil
	}
	if strings.HasPrefix(outputStr, "file:") {
		filePath := strings.TrimPrefix(outputStr, "file:")
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		return file, nil
	}
	return nil, fmt.Errorf("unknown output: %s", outputStr)
}

// EnvironmentConfig loads configuration from YTT_LOG_* environment variables.
// YTT_LOG_COMPONENTS replaces the default component set; "all" enables every
// known component.
func EnvironmentConfig() *LogConfig {
	config := DefaultLogConfig()

	if level := os.Getenv("YTT_LOG_LEVEL"); level != "" {
		config.Level = level
	}
	if format := os.Getenv("YTT_LOG_FORMAT"); format != "" {
		config.Format = format
	}
	if output := os.Getenv("YTT_LOG_OUTPUT"); output != "" {
		config.Output = output
	}
	if caller := os.Getenv("YTT_LOG_CALLER"); caller != "" {
		config.ShowCaller = caller == "true" || caller == "1"
	}

	if components := os.Getenv("YTT_LOG_COMPONENTS"); components != "" {
		if strings.TrimSpace(components) == "all" {
			for name := range config.Components {
				config.Components[name] = true
			}
			return config
		}
		config.Components = make(map[string]bool)
		for _, comp := range strings.Split(components, ",") {
			comp = strings.TrimSpace(comp)
			if comp != "" {
				config.Components[comp] = true
			}
		}
	}

	return config
}

// FromEnvironment builds a Logger from YTT_LOG_* variables.
func FromEnvironment() (*Logger, error) {
	cfg, err := EnvironmentConfig().ToLoggerConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}
