package commands

import (
	"context"
	"flag"
	"io"

	"tasknest/internal/exitcode"
	"tasknest/internal/output"
)

func init() {
	Register(&WeekCmd{})
}

// WeekCmd prints this week's reminders by day, Monday first.
type WeekCmd struct{}

func (c *WeekCmd) Name() string      { return "week" }
func (c *WeekCmd) Aliases() []string { return []string{"calendar"} }
func (c *WeekCmd) Synopsis() string  { return "Show this week's calendar" }
func (c *WeekCmd) Usage() string     { return "tasknest week" }
func (c *WeekCmd) NeedsAuth() bool   { return true }

func (c *WeekCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WeekCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, "unexpected argument: %s", args[0])
	}
	st, code := loadTasks(ctx, env, errOut)
	if code != exitcode.Success {
		return code
	}
	now := env.now()
	output.FormatWeek(out, theme(env, out), st.Week(now), now)
	return exitcode.Success
}
