package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
)

type Level logging.Level

// The levels that can be passed to the SetLevel function.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

// The logger format
var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

// The internal leveled logger backend
var leveledBackend logging.LeveledBackend

// The logger interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// Create a new named logger.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// Backend levels indexed by Level.
var backendLevels = [...]logging.Level{
	Debug:   logging.DEBUG,
	Info:    logging.INFO,
	Notice:  logging.NOTICE,
	Warning: logging.WARNING,
	Error:   logging.ERROR,
}

// Accepted level names; "warn" is an alias.
var levelNames = map[string]Level{
	"debug":   Debug,
	"info":    Info,
	"notice":  Notice,
	"warning": Warning,
	"warn":    Warning,
	"error":   Error,
}

// Override the backend output sink. The current verbosity is preserved.
func SetSink(sink io.Writer) {
	current := Notice
	if leveledBackend != nil {
		current = GetLevel()
	}

	leveledBackend = logging.AddModuleLevel(
		logging.NewBackendFormatter(logging.NewLogBackend(sink, "", 0), format),
	)
	logging.SetBackend(leveledBackend)
	SetLevel(current)
}

// Set logger verbosity. Unknown levels are ignored.
func SetLevel(level Level) {
	if int(level) >= len(backendLevels) {
		return
	}
	leveledBackend.SetLevel(backendLevels[level], "")
}

// Returns the current logger verbosity.
func GetLevel() Level {
	backendLevel := leveledBackend.GetLevel("")
	for level, l := range backendLevels {
		if l == backendLevel {
			return Level(level)
		}
	}
	return Notice
}

// Map a level name (debug, info, notice, warning, error) to a Level.
func ParseLevel(name string) (Level, error) {
	if level, ok := levelNames[strings.ToLower(name)]; ok {
		return level, nil
	}
	return Notice, fmt.Errorf("log: unknown level %q", name)
}

func init() {
	SetSink(os.Stderr)
}
