// Package logging builds the charmbracelet logger used across macpilot and
// adapts it to the accessibility walker's diagnostic events.
//
// Logs always go to stderr (or the writer given): stdout carries the MCP
// stdio stream.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mj1618/macpilot/internal/axtree"
)

const timeFormat = "15:04:05"

// ParseLevel maps a config level name to a charmbracelet level.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("unknown log level: %q", s)
}

// New returns a logger writing to w at the named level.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Prefix:          "macpilot",
		Level:           lvl,
	})
	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// eventLevels assigns a level per event kind. Per-attribute failures are
// routine (most elements lack most attributes) and stay at debug.
var eventLevels = map[axtree.EventKind]log.Level{
	axtree.EventAttributeNamesFailed: log.DebugLevel,
	axtree.EventAttributeValueFailed: log.DebugLevel,
	axtree.EventRoleLookupFailed:     log.DebugLevel,
	axtree.EventOpaqueValue:          log.DebugLevel,
	axtree.EventResolveFailed:        log.InfoLevel,
	axtree.EventChildrenUnreadable:   log.WarnLevel,
	axtree.EventCycleCut:             log.WarnLevel,
	axtree.EventWindowNumberIgnored:  log.WarnLevel,
	axtree.EventWindowListFailed:     log.ErrorLevel,
}

// Observer adapts a logger to axtree.Observer.
type Observer struct {
	logger *log.Logger
}

// NewObserver returns an Observer logging through logger.
func NewObserver(logger *log.Logger) *Observer {
	return &Observer{logger: logger}
}

func (o *Observer) Observe(e axtree.Event) {
	lvl, ok := eventLevels[e.Kind]
	if !ok {
		lvl = log.InfoLevel
	}
	o.logger.Log(lvl, string(e.Kind), eventFields(e)...)
}

func eventFields(e axtree.Event) []any {
	var kv []any
	if e.Attribute != "" {
		kv = append(kv, "attribute", e.Attribute)
	}
	if e.Depth != 0 {
		kv = append(kv, "depth", e.Depth)
	}
	if e.PID != 0 {
		kv = append(kv, "pid", e.PID)
	}
	if e.Detail != "" {
		kv = append(kv, "detail", e.Detail)
	}
	if e.Err != nil {
		kv = append(kv, "err", e.Err)
	}
	return kv
}
