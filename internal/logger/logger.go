package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

var (
	warnLabel  = color.New(color.FgYellow, color.Bold).SprintFunc()
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	debugLabel = color.New(color.FgHiBlack).SprintFunc()
)

// Logger handles dual-output logging (console + file)
type Logger struct {
	consoleLogger *log.Logger
	fileLogger    *log.Logger
	logFile       *os.File
	verbose       bool
	minLevel      Level
}

var (
	mu           sync.RWMutex
	globalLogger *Logger
)

// Init initializes the global logger
// consoleOutput: where to write INFO logs (typically os.Stdout)
// logFilePath: path to the log file for DEBUG/ERROR logs; empty keeps everything on the console
// verbose: if true, show DEBUG logs on console as well
func Init(consoleOutput io.Writer, logFilePath string, verbose bool) error {
	fileOutput := io.Discard
	var logFile *os.File

	if logFilePath != "" {
		// Create log directory if it doesn't exist
		logDir := filepath.Dir(logFilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		fileOutput = f
	}

	minLevel := LevelInfo
	if verbose {
		minLevel = LevelDebug
	}

	l := &Logger{
		consoleLogger: log.New(consoleOutput, "", 0), // No prefix for clean console output
		fileLogger:    log.New(fileOutput, "", log.LstdFlags),
		logFile:       logFile,
		verbose:       verbose,
		minLevel:      minLevel,
	}

	mu.Lock()
	previous := globalLogger
	globalLogger = l
	mu.Unlock()

	if previous != nil && previous.logFile != nil {
		previous.logFile.Close()
	}
	return nil
}

// Close closes the log file and detaches the global logger
func Close() {
	mu.Lock()
	l := globalLogger
	globalLogger = nil
	mu.Unlock()

	if l != nil && l.logFile != nil {
		l.logFile.Close()
	}
}

func current() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Debug logs a debug message (file only, unless verbose)
func Debug(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.log(LevelDebug, format, args...)
	}
}

// Info logs an info message (console + file)
func Info(format string, args ...interface{}) {
	l := current()
	if l == nil {
		fmt.Printf(format+"\n", args...)
		return
	}
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message (console + file)
func Warn(format string, args ...interface{}) {
	l := current()
	if l == nil {
		fmt.Printf("WARN: "+format+"\n", args...)
		return
	}
	l.log(LevelWarn, format, args...)
}

// Error logs an error message (console + file)
func Error(format string, args ...interface{}) {
	l := current()
	if l == nil {
		fmt.Printf("ERROR: "+format+"\n", args...)
		return
	}
	l.log(LevelError, format, args...)
}

// log handles the actual logging logic
func (l *Logger) log(level Level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	// Always log to file with timestamp and level (regardless of minLevel)
	l.fileLogger.Printf("[%s] %s", level.String(), message)

	// Only log to console if level >= minLevel
	if level < l.minLevel {
		return
	}

	switch level {
	case LevelDebug:
		if l.verbose {
			l.consoleLogger.Printf("%s %s", debugLabel("[DEBUG]"), message)
		}
	case LevelInfo:
		l.consoleLogger.Printf("%s", message) // Clean output for INFO
	case LevelWarn:
		l.consoleLogger.Printf("%s %s", warnLabel("WARN"), message)
	case LevelError:
		l.consoleLogger.Printf("%s %s", errorLabel("ERROR"), message)
	}
}

// InfoClean logs an info message without any prefix (console only)
// Useful for progress updates that shouldn't go to log file
func InfoClean(format string, args ...interface{}) {
	l := current()
	if l == nil {
		fmt.Printf(format+"\n", args...)
		return
	}
	l.consoleLogger.Printf(format, args...)
}

// LogParseError logs a file that could not be read or parsed (file only, not console)
// stage names the pass that hit it, e.g. "fastapi routes" or "django views"
func LogParseError(filePath string, err error, stage string) {
	l := current()
	if l == nil {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	l.fileLogger.Printf("[%s] [PARSE_ERROR] File: %s, Stage: %s, Error: %v", timestamp, filePath, stage, err)

	Debug("Parse error in %s: %v", filePath, err)
}

// Writer returns an io.Writer that logs each written line at the given level.
// The HTTP server routes its framework output through it.
func Writer(level Level) io.Writer {
	return levelWriter(level)
}

type levelWriter Level

func (w levelWriter) Write(p []byte) (int, error) {
	l := current()
	if l == nil {
		return len(p), nil
	}
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line != "" {
			l.log(Level(w), "%s", line)
		}
	}
	return len(p), nil
}

// GetLogFilePath returns the path to the current log file
func GetLogFilePath() string {
	if l := current(); l != nil && l.logFile != nil {
		return l.logFile.Name()
	}
	return ""
}

// IsVerbose returns whether verbose logging is enabled
func IsVerbose() bool {
	l := current()
	if l == nil {
		return false
	}
	return l.verbose
}
