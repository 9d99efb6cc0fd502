package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasknest/internal/exitcode"
	"tasknest/internal/output"
	"tasknest/internal/tasks"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `tasknest` (no args) and `tasknest list --filter <f>`.
type ListCmd struct {
	filter string
}

// SetFilter sets the filter name (for testing).
func (c *ListCmd) SetFilter(f string) {
	c.filter = f
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "tasknest list [--filter <filter>]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.filter, "f", "", "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, "unexpected argument: %s", args[0])
	}
	filter, err := tasks.ParseFilter(c.filter)
	if err != nil {
		return usageError(errOut, "%v (want one of %s)", err, tasks.FilterNames())
	}

	st, code := loadTasks(ctx, env, errOut)
	if code != exitcode.Success {
		return code
	}

	visible := st.Visible(filter, env.now())
	if len(visible) == 0 {
		if !env.quiet() {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}
	th := theme(env, out)
	for _, task := range visible {
		output.FormatTask(out, th, task)
	}
	return exitcode.Success
}
