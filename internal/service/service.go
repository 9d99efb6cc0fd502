// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
)

var (
	// ErrUnauthorized is returned when the remote store rejects the bearer token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned when login is refused.
	ErrInvalidCredentials = errors.New("login failed")

	// ErrNotFound is returned when a task does not exist on the remote store.
	ErrNotFound = errors.New("not found")
)

// Service defines the interface for remote task store operations.
// All HTTP calls go through this interface.
// Commands never talk to the REST API directly.
type Service interface {
	// Login exchanges credentials for an opaque access token.
	// Returns ErrInvalidCredentials if the store refuses them.
	Login(ctx context.Context, username, password string) (string, error)

	// ListTasks returns the full task collection in store order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns it with its assigned ID.
	CreateTask(ctx context.Context, in NewTask) (Task, error)

	// UpdateTask applies a partial patch and returns the updated task.
	UpdateTask(ctx context.Context, id int64, patch TaskPatch) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id int64) error
}
