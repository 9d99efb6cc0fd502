package commands

import (
	"errors"
	"fmt"
	"io"

	"tasknest/internal/exitcode"
	"tasknest/internal/notes"
	"tasknest/internal/service"
	"tasknest/internal/session"
	"tasknest/internal/tasks"
)

// report prints err and maps it to an exit code.
func report(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		fmt.Fprintln(errOut, "error: session expired (run: tasknest login)")
		return exitcode.AuthError
	case errors.Is(err, service.ErrInvalidCredentials):
		fmt.Fprintln(errOut, "error: login failed")
		return exitcode.AuthError
	case errors.Is(err, service.ErrNotFound), errors.Is(err, tasks.ErrNotLoaded):
		fmt.Fprintln(errOut, "error: task not found")
		return exitcode.UserError
	case isUserError(err):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

func isUserError(err error) bool {
	for _, target := range []error{
		tasks.ErrEmptyTitle,
		tasks.ErrNoChanges,
		notes.ErrNotFound,
		notes.ErrEmptyText,
		notes.ErrAmbiguous,
		session.ErrMissingCredentials,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// usageError prints a user error.
func usageError(errOut io.Writer, format string, args ...any) int {
	fmt.Fprintf(errOut, "error: "+format+"\n", args...)
	return exitcode.UserError
}

// ok prints the confirmation line unless quiet.
func ok(env *Env, out io.Writer) {
	if !env.quiet() {
		fmt.Fprintln(out, "ok")
	}
}
