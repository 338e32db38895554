package entity

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable, caller-visible category of a failure.
type ErrorKind string

const (
	KindSourceUnavailable ErrorKind = "source_unavailable"
	KindNotFound          ErrorKind = "not_found"
	KindNotConfigured     ErrorKind = "not_configured"
	KindUnknownNetwork    ErrorKind = "unknown_network"
	KindInvalidInput      ErrorKind = "invalid_input"
)

var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrNotFound          = errors.New("not found")
	ErrNotConfigured     = errors.New("source not configured")
	ErrUnknownNetwork    = errors.New("unknown network")
	ErrInvalidInput      = errors.New("invalid input")
)

var kindSentinels = map[ErrorKind]error{
	KindSourceUnavailable: ErrSourceUnavailable,
	KindNotFound:          ErrNotFound,
	KindNotConfigured:     ErrNotConfigured,
	KindUnknownNetwork:    ErrUnknownNetwork,
	KindInvalidInput:      ErrInvalidInput,
}

// SourceError is a typed failure reported by an upstream source client.
// Message carries the upstream-derived text where one was available.
type SourceError struct {
	Kind    ErrorKind
	Source  string
	Message string
	Err     error
}

// NewSourceError builds a SourceError.
func NewSourceError(kind ErrorKind, source, message string, err error) *SourceError {
	return &SourceError{Kind: kind, Source: source, Message: message, Err: err}
}

func (e *SourceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Source, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Kind, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match a SourceError against the sentinel of its kind.
func (e *SourceError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// KindOf reports the ErrorKind of err. Errors outside the taxonomy count as source_unavailable.
func KindOf(err error) ErrorKind {
	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		return srcErr.Kind
	}
	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindSourceUnavailable
}
