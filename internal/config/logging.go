package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// NewLogger builds the process logger. Output is JSON on stdout, teed into
// a timestamped file under cfg.LogDir when set. The returned closer must be
// called on shutdown.
func NewLogger(cfg *Config) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if cfg.Environment == "dev" {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if cfg.LogDir != "" {
		f, err := SetupLogFile(cfg.LogDir, MaxLogFiles)
		if err != nil {
			return nil, nil, err
		}
		out = io.MultiWriter(os.Stdout, f)
		closer = f
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	return logger, closer, nil
}

// SetupLogFile creates a new timestamped log file and removes the oldest
// ones beyond maxFiles. The caller owns the returned file.
func SetupLogFile(dir string, maxFiles int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("userledger-%s.log",
		time.Now().Format("2006-01-02T15-04-05.000")))

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	// Logging still works if pruning fails
	if err := pruneLogs(dir, maxFiles); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to prune old logs: %v\n", err)
	}

	return f, nil
}

// pruneLogs keeps the maxFiles most recent logs; names sort chronologically.
func pruneLogs(dir string, maxFiles int) error {
	files, err := filepath.Glob(filepath.Join(dir, "userledger-*.log"))
	if err != nil {
		return err
	}
	if len(files) <= maxFiles {
		return nil
	}

	sort.Strings(files)
	for _, name := range files[:len(files)-maxFiles] {
		if err := os.Remove(name); err != nil {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
