package tic

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/risor-io/tic/host"
)

// Severity is a hint about how a reported message should be presented.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Reporter receives script failures. Report is called synchronously and
// exactly once per failure.
type Reporter interface {
	Report(message string, severity Severity)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(message string, severity Severity)

func (f ReporterFunc) Report(message string, severity Severity) {
	f(message, severity)
}

type friendlyError interface {
	FriendlyErrorMessage() string
}

// ErrorMessage returns the message shown for a guest failure, preferring the
// interpreter's friendly formatting when it has one.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var friendly friendlyError
	if errors.As(err, &friendly) {
		if msg := friendly.FriendlyErrorMessage(); msg != "" {
			return msg
		}
	}
	return err.Error()
}

// sinkReporter forwards to a host that surfaces errors itself.
func sinkReporter(sink host.ErrorSink) Reporter {
	return ReporterFunc(func(message string, _ Severity) {
		sink.Error(message)
	})
}

// logReporter writes messages to a zerolog logger.
func logReporter(logger zerolog.Logger) Reporter {
	return ReporterFunc(func(message string, severity Severity) {
		if severity == SeverityWarning {
			logger.Warn().Msg(message)
			return
		}
		logger.Error().Msg(message)
	})
}

func defaultReporter(h host.API, logger zerolog.Logger) Reporter {
	if sink, ok := h.(host.ErrorSink); ok {
		return sinkReporter(sink)
	}
	return logReporter(logger)
}
