package commands

import (
	"context"
	"io"

	"go.uber.org/zap"

	"tasknest/internal/exitcode"
	"tasknest/internal/output"
	"tasknest/internal/prefs"
	"tasknest/internal/tasks"
)

// newState builds a state layer wired to the session, so a rejected token
// ends it.
func newState(env *Env) *tasks.State {
	var inv tasks.Invalidator
	if env.Session != nil {
		inv = env.Session
	}
	return tasks.NewState(env.Service, inv, env.logger())
}

// loadTasks fetches the collection into a fresh state layer.
func loadTasks(ctx context.Context, env *Env, errOut io.Writer) (*tasks.State, int) {
	st := newState(env)
	if err := st.Load(ctx); err != nil {
		return nil, report(errOut, err)
	}
	return st, exitcode.Success
}

// theme builds output styles for w from the stored dark mode preference.
func theme(env *Env, w io.Writer) output.Theme {
	return output.NewTheme(w, darkMode(env))
}

// darkMode reads the preference. A read failure is logged and means light.
func darkMode(env *Env) bool {
	if env.Store == nil {
		return false
	}
	dark, err := prefs.DarkMode(env.Store)
	if err != nil {
		env.logger().Warn("failed to read dark mode", zap.Error(err))
		return false
	}
	return dark
}
