package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasknest/internal/exitcode"
	"tasknest/internal/prefs"
)

func init() {
	Register(&ThemeCmd{})
}

// ThemeCmd shows or changes the dark mode preference.
type ThemeCmd struct{}

func (c *ThemeCmd) Name() string      { return "theme" }
func (c *ThemeCmd) Aliases() []string { return nil }
func (c *ThemeCmd) Synopsis() string  { return "Show or set the colour theme" }
func (c *ThemeCmd) Usage() string     { return "tasknest theme [dark|light|toggle]" }
func (c *ThemeCmd) NeedsAuth() bool   { return false }

func (c *ThemeCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ThemeCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 1 {
		return usageError(errOut, "unexpected argument: %s", args[1])
	}

	var dark bool
	var err error
	switch {
	case len(args) == 0:
		dark, err = prefs.DarkMode(env.Store)
	case args[0] == prefs.ThemeDark, args[0] == prefs.ThemeLight:
		dark = args[0] == prefs.ThemeDark
		err = prefs.SetDarkMode(env.Store, dark)
	case args[0] == "toggle":
		dark, err = prefs.ToggleDarkMode(env.Store)
	default:
		return usageError(errOut, "invalid theme: %s", args[0])
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	fmt.Fprintln(out, prefs.ThemeName(dark))
	return exitcode.Success
}
