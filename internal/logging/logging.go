package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultMaxLogFiles is the rotation limit used when nothing else is configured
const DefaultMaxLogFiles = 1000

// Logger is the public logger instance accessible from all packages.
// It discards everything until Initialize is called.
var Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// Options controls where debug logs go
type Options struct {
	Debug       bool
	DebugFile   string
	MaxLogFiles int
	Stdout      io.Writer
}

// Initialize sets up the logger based on the debug flag and configuration
func Initialize(opts Options) error {
	// Inherited settings from a parent prcache process
	if os.Getenv("PRCACHE_DEBUG") == "1" {
		opts.Debug = true
	}
	if envDebugFile := os.Getenv("PRCACHE_DEBUG_FILE"); envDebugFile != "" && opts.DebugFile == "" {
		opts.DebugFile = envDebugFile
	}
	if opts.MaxLogFiles == 0 {
		opts.MaxLogFiles = DefaultMaxLogFiles
	}
	if envMaxLogFiles := os.Getenv("PRCACHE_MAX_LOG_FILES"); envMaxLogFiles != "" && opts.MaxLogFiles == DefaultMaxLogFiles {
		if parsed, err := strconv.Atoi(envMaxLogFiles); err == nil {
			opts.MaxLogFiles = parsed
		}
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	if !opts.Debug && opts.DebugFile == "" {
		Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
		return nil
	}

	var out io.Writer
	var logFilePath string

	if opts.DebugFile != "" {
		// Custom file, size-rotated in place
		logFilePath = opts.DebugFile
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		out = &lumberjack.Logger{
			Filename:   logFilePath,
			MaxSize:    10,
			MaxBackups: 3,
		}
	} else {
		logDir, err := LogDir()
		if err != nil {
			return fmt.Errorf("failed to get log directory: %w", err)
		}
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		if opts.MaxLogFiles > 0 {
			if err := rotateLogs(logDir, opts.MaxLogFiles); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: log rotation failed: %v\n", err)
			}
		}

		logFilePath = filepath.Join(logDir, fmt.Sprintf("%s.log", uuid.New().String()))
		logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		out = logFile
	}

	Logger = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// Only announce when debug was requested on this process
	if os.Getenv("PRCACHE_DEBUG") == "" {
		Logger.Info("Debug logging initialized", "log_file", logFilePath)
		fmt.Fprintf(opts.Stdout, "Debug mode enabled. Logs: %s\n", logFilePath)
	}

	return nil
}

// rotateLogs removes old log files if there are more than maxLogFiles
func rotateLogs(logDir string, maxLogFiles int) error {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	type logFileInfo struct {
		path    string
		modTime time.Time
	}
	var logFiles []logFileInfo

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".log" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		logFiles = append(logFiles, logFileInfo{
			path:    filepath.Join(logDir, entry.Name()),
			modTime: info.ModTime(),
		})
	}

	if len(logFiles) < maxLogFiles {
		return nil
	}

	sort.Slice(logFiles, func(i, j int) bool {
		return logFiles[i].modTime.Before(logFiles[j].modTime)
	})

	// +1 to make room for the new log
	numToDelete := len(logFiles) - maxLogFiles + 1
	for i := 0; i < numToDelete && i < len(logFiles); i++ {
		if err := os.Remove(logFiles[i].path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to delete old log file %s: %v\n", logFiles[i].path, err)
		}
	}

	return nil
}

// LogDir returns the OS-specific log directory
func LogDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, "Library", "Logs", "prcache"), nil
	case "linux":
		stateHome := os.Getenv("XDG_STATE_HOME")
		if stateHome == "" {
			stateHome = filepath.Join(homeDir, ".local", "state")
		}
		return filepath.Join(stateHome, "prcache"), nil
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, "prcache", "logs"), nil
	default:
		return filepath.Join(homeDir, ".prcache", "logs"), nil
	}
}
