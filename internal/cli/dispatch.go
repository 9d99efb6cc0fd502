// Package cli parses the command line and runs the selected command.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"tasknest/internal/commands"
	"tasknest/internal/config"
	"tasknest/internal/exitcode"
	"tasknest/internal/logging"
	"tasknest/internal/service"
	"tasknest/internal/session"
	"tasknest/internal/storage"
)

// ServiceFactory creates a Service from config. tok is the stored session
// token, or nil when logged out.
type ServiceFactory func(ctx context.Context, cfg *config.Config, tok *oauth2.Token, logger *zap.Logger) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory

	// In is handed to commands for prompts. Defaults to os.Stdin.
	In io.Reader

	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		In:       os.Stdin,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		args = []string{"list"}
	}

	cmdName := args[0]
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var configDir string
	var quiet, debug bool
	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return flagError(errOut, err)
	}

	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: config: %v\n", err)
		return exitcode.AuthError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: config: %v\n", err)
		return exitcode.AuthError
	}

	logger, closeLog, err := logging.New(logging.Options{
		Path:   cfg.LogPath(),
		Level:  cfg.Log.Level,
		Debug:  debug,
		Stderr: errOut,
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: log: %v\n", err)
		return exitcode.AuthError
	}
	defer closeLog()
	logger = logger.With(zap.String("command", cmd.Name()))

	store, err := storage.Open(cfg.Storage.Backend, cfg.Dir)
	if err != nil {
		fmt.Fprintf(errOut, "error: storage: %v\n", err)
		return exitcode.AuthError
	}
	defer func() {
		if err := storage.Close(store); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}()

	gate, err := session.Open(store, logger)
	if err != nil {
		fmt.Fprintf(errOut, "error: session: %v\n", err)
		return exitcode.AuthError
	}
	if cmd.NeedsAuth() && gate.State() == session.LoggedOut {
		fmt.Fprintln(errOut, "error: not logged in (run: tasknest login)")
		return exitcode.AuthError
	}

	var svc service.Service
	if d.factory != nil {
		svc, err = d.factory(ctx, cfg, gate.Token(), logger)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			return exitcode.BackendError
		}
	}

	env := &commands.Env{
		Config:  cfg,
		Store:   store,
		Session: gate,
		Service: svc,
		Logger:  logger,
		Now:     d.Now,
		In:      d.In,
	}
	logger.Debug("dispatch", zap.Strings("args", positionalArgs), zap.String("session", gate.State().String()))
	return cmd.Run(ctx, env, positionalArgs, out, errOut)
}

// flagError reports a flag parse failure the way the rest of the CLI reports
// user errors.
func flagError(errOut io.Writer, err error) int {
	errStr := err.Error()

	if strings.HasPrefix(errStr, "flag needs an argument:") {
		flagPart := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
		return exitcode.UserError
	}

	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}
