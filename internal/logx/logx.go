package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"phpswitcher/internal/paths"
)

// New creates a logger that writes to a timestamped file inside the switcher
// logs directory. When verbose is set, entries are mirrored to stderr at
// debug level. The returned closer should be closed when logging is no longer
// needed.
func New(l paths.Layout, verbose bool, stderr io.Writer) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(l.LogsDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure logs directory: %w", err)
	}

	filename := time.Now().Format("20060102-150405") + ".log"
	filePath := filepath.Join(l.LogsDir, filename)
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	var w io.Writer = file
	level := log.InfoLevel
	if verbose && stderr != nil {
		w = io.MultiWriter(file, stderr)
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05.000000",
		Level:           level,
	})
	return logger, file, nil
}

