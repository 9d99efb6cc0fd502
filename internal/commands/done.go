package commands

import (
	"context"
	"flag"
	"io"

	"tasknest/internal/exitcode"
	"tasknest/internal/output"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd flips a task's completion flag.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's completion" }
func (c *DoneCmd) Usage() string     { return "tasknest done <id>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	id, rest, err := ParseTaskID(args)
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	if len(rest) > 0 {
		return usageError(errOut, "unexpected argument: %s", rest[0])
	}

	st, code := loadTasks(ctx, env, errOut)
	if code != exitcode.Success {
		return code
	}
	task, err := st.Toggle(ctx, id)
	if err != nil {
		return report(errOut, err)
	}
	if !env.quiet() {
		output.FormatTask(out, theme(env, out), task)
	}
	return exitcode.Success
}
