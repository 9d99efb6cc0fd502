package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasknest/internal/exitcode"
	"tasknest/internal/session"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Remove stored credentials" }
func (c *LogoutCmd) Usage() string     { return "tasknest logout" }
func (c *LogoutCmd) NeedsAuth() bool   { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if env.Session.State() == session.LoggedOut {
		if !env.quiet() {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}
	if err := env.Session.Logout(); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
		return exitcode.AuthError
	}
	ok(env, out)
	return exitcode.Success
}
