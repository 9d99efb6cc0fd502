package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tasknest/internal/exitcode"
	"tasknest/internal/pomodoro"
)

func init() {
	Register(&PomodoroCmd{})
}

// runProgram runs an interactive bubbletea program. Replaced in tests.
var runProgram = func(ctx context.Context, m tea.Model, in io.Reader, out io.Writer) (tea.Model, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(out)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	return tea.NewProgram(m, opts...).Run()
}

// PomodoroCmd runs the focus timer.
type PomodoroCmd struct {
	minutes int
}

func (c *PomodoroCmd) Name() string      { return "pomodoro" }
func (c *PomodoroCmd) Aliases() []string { return []string{"timer"} }
func (c *PomodoroCmd) Synopsis() string  { return "Run a Pomodoro timer" }
func (c *PomodoroCmd) Usage() string     { return "tasknest pomodoro [--minutes <n>]" }
func (c *PomodoroCmd) NeedsAuth() bool   { return false }

func (c *PomodoroCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.minutes, "minutes", 0, "")
	fs.IntVar(&c.minutes, "m", 0, "")
}

func (c *PomodoroCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, "unexpected argument: %s", args[0])
	}
	if c.minutes < 0 {
		return usageError(errOut, "invalid minutes: %d", c.minutes)
	}
	d := pomodoro.DefaultDuration
	if env.Config != nil {
		d = env.Config.PomodoroDuration()
	}
	if c.minutes > 0 {
		d = time.Duration(c.minutes) * time.Minute
	}

	final, err := runProgram(ctx, pomodoro.NewModel(d, pomodoro.DefaultStyles(darkMode(env))), env.In, out)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if m, ok := final.(pomodoro.Model); ok && m.Timer().Done() && !env.quiet() {
		fmt.Fprintln(out, pomodoro.BreakMessage)
	}
	return exitcode.Success
}
