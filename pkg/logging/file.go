package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileLoggerConfig holds configuration for file logging
type FileLoggerConfig struct {
	// Path is the log file path
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSize is the maximum size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the number of rotated files kept as Path.1 .. Path.N
	MaxBackups int
}

// FileLogger is a WriterLogger backed by a size-rotated log file
type FileLogger struct {
	*WriterLogger

	config FileLoggerConfig
	file   *os.File
	size   int64
}

// NewFileLogger opens (or creates) the log file in append mode
func NewFileLogger(config FileLoggerConfig) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := openLogFile(config.Path)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	l := &FileLogger{
		config: config,
		file:   file,
		size:   info.Size(),
	}
	l.WriterLogger = &WriterLogger{
		sink: &sink{
			w:           file,
			beforeWrite: l.rotateIfNeeded,
			afterWrite:  func(n int) { l.size += int64(n) },
			closeFn:     l.closeFile,
		},
		level:  config.Level,
		format: config.Format,
	}
	return l, nil
}

func openLogFile(path string) (*os.File, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// rotateIfNeeded shifts Path -> Path.1 -> ... -> Path.MaxBackups once the
// current file reaches MaxSize. Called with the sink lock held.
func (l *FileLogger) rotateIfNeeded() {
	if l.config.MaxSize <= 0 || l.size < l.config.MaxSize || l.file == nil {
		return
	}

	l.file.Close()

	if l.config.MaxBackups > 0 {
		os.Remove(backupName(l.config.Path, l.config.MaxBackups))
		for i := l.config.MaxBackups - 1; i >= 1; i-- {
			os.Rename(backupName(l.config.Path, i), backupName(l.config.Path, i+1))
		}
		os.Rename(l.config.Path, backupName(l.config.Path, 1))
	} else {
		os.Remove(l.config.Path)
	}

	file, err := openLogFile(l.config.Path)
	if err != nil {
		l.file = nil
		l.sink.w = io.Discard
		return
	}
	l.file = file
	l.sink.w = file
	l.size = 0
}

func (l *FileLogger) closeFile() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func backupName(path string, n int) string {
	return fmt.Sprintf("%s.%d", path, n)
}
