// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"
	"time"

	"go.uber.org/zap"

	"tasknest/internal/config"
	"tasknest/internal/service"
	"tasknest/internal/session"
	"tasknest/internal/storage"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command talks to the task store and
	// therefore requires a logged-in session.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with positional args and returns the exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}

// Env is everything a command may touch. The dispatcher builds it once per
// invocation; tests build it directly.
type Env struct {
	Config  *config.Config
	Store   storage.Store
	Session *session.Gate

	// Service is the task store client. It carries the session token when
	// logged in and none otherwise.
	Service service.Service

	Logger *zap.Logger

	// Now is the clock used for date filters and the calendar.
	Now func() time.Time

	// In is read for interactive prompts and the Pomodoro program.
	In io.Reader
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func (e *Env) quiet() bool {
	return e.Config != nil && e.Config.Quiet
}
