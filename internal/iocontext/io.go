// Package iocontext threads injectable I/O streams through context so
// command output can be captured in tests.
package iocontext

import (
	"context"
	"io"
	"os"
)

// IO holds the input/output streams for commands.
type IO struct {
	Out    io.Writer // stdout
	ErrOut io.Writer // stderr
	In     io.Reader // stdin
}

// DefaultIO returns the process's standard streams.
func DefaultIO() *IO {
	return &IO{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		In:     os.Stdin,
	}
}

// NewIO builds an IO with the given writers and no stdin; handy in tests.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{Out: out, ErrOut: errOut}
}

type ioKey struct{}

// WithIO adds IO streams to a context.
func WithIO(ctx context.Context, streams *IO) context.Context {
	return context.WithValue(ctx, ioKey{}, streams)
}

// GetIO retrieves IO streams from context, defaulting to standard streams.
func GetIO(ctx context.Context) *IO {
	if streams, ok := ctx.Value(ioKey{}).(*IO); ok && streams != nil {
		return streams
	}
	return DefaultIO()
}
