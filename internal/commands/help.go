package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasknest/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tasknest help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  tasknest                                   List all tasks
  tasknest list [--filter <filter>]          List tasks matching a filter
  tasknest add [--priority <p>] [--remind <time>] <title...>
  tasknest edit [--title <t>] [--priority <p>] [--remind <time> | --clear-remind] <id>
  tasknest done <id>                         Toggle completion
  tasknest rm <id>
  tasknest week                              This week's reminders, Monday first
  tasknest note [add <text...> | ls | edit [--keep-position] <ref> <text...> | rm <ref>]
  tasknest journal [add <text...> | ls | edit [--keep-position] <ref> <text...> | rm <ref>]
  tasknest pomodoro [--minutes <n>]
  tasknest theme [dark|light|toggle]
  tasknest login [--username <u>] [--password <p>]
  tasknest logout
  tasknest help
  tasknest version

Filters:
  all, completed, incomplete, high, medium, low, today, week, month

Times:
  2025-01-10T09:00, 2025-01-10 09:00 or RFC 3339; read in local time

Entry refs:
  an ID prefix as shown by "ls", or #N for the N-th entry

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
