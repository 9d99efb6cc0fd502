package commands

import (
	"context"
	"flag"
	"io"
	"strings"
	"time"

	"tasknest/internal/exitcode"
	"tasknest/internal/output"
	"tasknest/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	priority string
	remind   string
}

// SetOptions sets the flag values (for testing).
func (c *AddCmd) SetOptions(priority, remind string) {
	c.priority = priority
	c.remind = remind
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "tasknest add [--priority <high|medium|low>] [--remind <time>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.remind, "remind", "", "")
	fs.StringVar(&c.remind, "r", "", "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		return usageError(errOut, "title required")
	}

	in := service.NewTask{Title: title, Priority: service.PriorityMedium}
	if c.priority != "" {
		p, err := service.ParsePriority(c.priority)
		if err != nil {
			return usageError(errOut, "%v", err)
		}
		in.Priority = p
	}
	if c.remind != "" {
		r, err := service.ParseReminder(c.remind, time.Local)
		if err != nil {
			return usageError(errOut, "%v", err)
		}
		in.Reminder = &r
	}

	task, err := newState(env).Add(ctx, in)
	if err != nil {
		return report(errOut, err)
	}
	if !env.quiet() {
		output.FormatTask(out, theme(env, out), task)
	}
	return exitcode.Success
}
