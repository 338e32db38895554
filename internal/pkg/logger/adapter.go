package logger

import "chain_insight/internal/app/port"

// slogAdapter implements port.Logger on top of the package-level functions,
// tagging every record with the component it was created for.
type slogAdapter struct {
	component string
}

// NewComponentLogger returns a port.Logger whose records carry component=name.
func NewComponentLogger(name string) port.Logger {
	return &slogAdapter{component: name}
}

func (a *slogAdapter) with(args []any) []any {
	if a.component == "" {
		return args
	}
	return append([]any{"component", a.component}, args...)
}

func (a *slogAdapter) Info(msg string, args ...any) {
	Info(msg, a.with(args)...)
}

func (a *slogAdapter) Debug(msg string, args ...any) {
	Debug(msg, a.with(args)...)
}

func (a *slogAdapter) Warn(msg string, args ...any) {
	Warn(msg, a.with(args)...)
}

func (a *slogAdapter) Error(msg string, args ...any) {
	Error(msg, a.with(args)...)
}
