package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"tasknest/internal/exitcode"
	"tasknest/internal/session"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	username string
	password string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in to the task store" }
func (c *LoginCmd) Usage() string     { return "tasknest login [--username <u>] [--password <p>]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.username, "u", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, "unexpected argument: %s", args[0])
	}
	if env.Session.State() == session.LoggedIn {
		if !env.quiet() {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	in := bufio.NewReader(orEmpty(env.In))
	username := c.username
	if username == "" {
		fmt.Fprint(errOut, "Username: ")
		line, err := readLine(in)
		if err != nil {
			return usageError(errOut, "%v", session.ErrMissingCredentials)
		}
		username = line
	}
	password := c.password
	if password == "" {
		fmt.Fprint(errOut, "Password: ")
		pw, err := readPassword(env.In, in)
		fmt.Fprintln(errOut)
		if err != nil {
			return usageError(errOut, "%v", session.ErrMissingCredentials)
		}
		password = pw
	}

	if err := env.Session.Login(ctx, env.Service, username, password); err != nil {
		return report(errOut, err)
	}
	env.logger().Debug("login succeeded", zap.String("username", username))
	ok(env, out)
	return exitcode.Success
}

// readPassword reads without echo from a terminal, else a line from buffered.
func readPassword(raw io.Reader, buffered *bufio.Reader) (string, error) {
	if f, isFile := raw.(*os.File); isFile && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		return string(b), err
	}
	return readLine(buffered)
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func orEmpty(r io.Reader) io.Reader {
	if r == nil {
		return strings.NewReader("")
	}
	return r
}
