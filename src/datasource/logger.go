package datasource

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Level is the shared logger's severity threshold.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var prefixes = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

var currentLevel atomic.Int32

var baseLogger = log.New(os.Stderr, "", log.Ldate|log.Ltime)

func init() {
	currentLevel.Store(int32(LevelInfo))
	if s := os.Getenv("JSD_LOG_LEVEL"); s != "" {
		SetLogLevel(s)
	}
}

// SetLogLevel parses and sets the global level; unknown names are ignored.
func SetLogLevel(s string) {
	if l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		currentLevel.Store(int32(l))
	}
}

// CurrentLevel returns the active threshold.
func CurrentLevel() Level { return Level(currentLevel.Load()) }

// SetLogOutput redirects log writes, mainly for tests.
func SetLogOutput(w io.Writer) { baseLogger = log.New(w, "", 0) }

func logf(l Level, format string, args ...any) {
	if CurrentLevel() > l {
		return
	}
	// Format only when args are present so pre-formatted messages with
	// literal % signs pass through untouched.
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	baseLogger.Printf("%s %s", prefixes[l], msg)
}

func Debugf(format string, a ...any) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...any)  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...any)  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...any) { logf(LevelError, format, a...) }

// TimeTrack logs the elapsed time of a phase at debug level.
// Use as: defer TimeTrack(time.Now(), "rebuild").
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
