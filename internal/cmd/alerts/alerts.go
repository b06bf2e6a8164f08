// Package alerts provides a structured system for status notifications.
package alerts

import (
	"fmt"
	"io"
	"strings"
)

// Level represents the severity of an alert.
type Level int

const (
	// LevelError indicates a failure or error condition.
	LevelError Level = iota
	// LevelWarning indicates a potential issue or important notice.
	LevelWarning
	// LevelInfo indicates general informational messages.
	LevelInfo
	// LevelSuccess indicates successful completion of an operation.
	LevelSuccess
)

// String returns the string representation of the alert level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}

// Icon returns the symbol printed in front of an alert.
func (l Level) Icon() string {
	switch l {
	case LevelError:
		return "✗"
	case LevelWarning:
		return "!"
	case LevelInfo:
		return "i"
	case LevelSuccess:
		return "✓"
	default:
		return "?"
	}
}

// Color returns ANSI color codes for terminal output.
func (l Level) Color() string {
	switch l {
	case LevelError:
		return "\033[31m" // Red
	case LevelWarning:
		return "\033[33m" // Yellow
	case LevelInfo:
		return "\033[36m" // Cyan
	case LevelSuccess:
		return "\033[32m" // Green
	default:
		return resetColor
	}
}

const resetColor = "\033[0m"

// Alert represents a status notification.
type Alert struct {
	Level   Level
	Message string
	Details []string
	Err     error
}

// New creates a new alert with the given level and message.
func New(level Level, message string) *Alert {
	return &Alert{Level: level, Message: message}
}

// NewWarning creates a new warning alert.
func NewWarning(message string) *Alert {
	return New(LevelWarning, message)
}

// NewSuccess creates a new success alert.
func NewSuccess(message string) *Alert {
	return New(LevelSuccess, message)
}

// WithError adds an underlying error to the alert.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails adds additional context details to the alert.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String returns a string representation of the alert.
func (a *Alert) String() string {
	message := fmt.Sprintf("%s %s", a.Level.Icon(), a.Message)
	if a.Err != nil {
		message += fmt.Sprintf(": %v", a.Err)
	}
	return message
}

// Writer writes alerts to a destination.
type Writer struct {
	w     io.Writer
	color bool
}

// NewWriter creates a Writer. color enables ANSI colors on the first line.
func NewWriter(w io.Writer, color bool) *Writer {
	return &Writer{w: w, color: color}
}

// Write prints the alert and its details, one per indented line.
func (w *Writer) Write(a *Alert) error {
	var b strings.Builder
	if w.color {
		b.WriteString(a.Level.Color())
		b.WriteString(a.String())
		b.WriteString(resetColor)
	} else {
		b.WriteString(a.String())
	}
	b.WriteByte('\n')
	for _, d := range a.Details {
		b.WriteString("  ")
		b.WriteString(d)
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w.w, b.String())
	return err
}
