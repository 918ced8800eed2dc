// Package logging points the standard logger at the console and a rotating file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Setup tees the standard logger to console and a rotating file at path.
// An empty path leaves the logger writing to console only.
// The returned closer flushes the file and is never nil.
func Setup(path string, console io.Writer) (io.Closer, error) {
	if path == "" {
		log.SetOutput(console)
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return io.NopCloser(nil), fmt.Errorf("create log directory: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(console, file))
	return file, nil
}
