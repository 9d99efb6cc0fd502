package commands

import (
	"context"
	"flag"
	"io"
	"time"

	"tasknest/internal/exitcode"
	"tasknest/internal/output"
	"tasknest/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Only the given fields are sent.
type EditCmd struct {
	title       optString
	priority    string
	remind      string
	clearRemind bool
}

// optString is a string flag that records whether it was set.
type optString struct {
	value string
	set   bool
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(s string) error {
	o.value, o.set = s, true
	return nil
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's title, priority or reminder" }
func (c *EditCmd) Usage() string {
	return "tasknest edit [--title <t>] [--priority <p>] [--remind <time> | --clear-remind] <id>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title = optString{}
	fs.Var(&c.title, "title", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.remind, "remind", "", "")
	fs.StringVar(&c.remind, "r", "", "")
	fs.BoolVar(&c.clearRemind, "clear-remind", false, "")
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	id, rest, err := ParseTaskID(args)
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	if len(rest) > 0 {
		return usageError(errOut, "unexpected argument: %s", rest[0])
	}
	if c.remind != "" && c.clearRemind {
		return usageError(errOut, "--remind and --clear-remind are mutually exclusive")
	}

	var patch service.TaskPatch
	if c.title.set {
		t := c.title.value
		patch.Title = &t
	}
	if c.priority != "" {
		p, err := service.ParsePriority(c.priority)
		if err != nil {
			return usageError(errOut, "%v", err)
		}
		patch.Priority = &p
	}
	if c.remind != "" {
		r, err := service.ParseReminder(c.remind, time.Local)
		if err != nil {
			return usageError(errOut, "%v", err)
		}
		patch.Reminder = &r
	}
	patch.ClearReminder = c.clearRemind
	if patch.IsEmpty() {
		return usageError(errOut, "nothing to update")
	}

	st, code := loadTasks(ctx, env, errOut)
	if code != exitcode.Success {
		return code
	}
	task, err := st.Update(ctx, id, patch)
	if err != nil {
		return report(errOut, err)
	}
	if !env.quiet() {
		output.FormatTask(out, theme(env, out), task)
	}
	return exitcode.Success
}
