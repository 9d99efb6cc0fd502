package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tasknest/internal/service"
)

var (
	// ErrEmptyTitle is returned when a task title is blank. No request is sent.
	ErrEmptyTitle = errors.New("title required")

	// ErrNotLoaded is returned when a mutation targets a task not in the cache.
	ErrNotLoaded = errors.New("task not found")

	// ErrNoChanges is returned by Update for an empty patch.
	ErrNoChanges = errors.New("nothing to update")
)

// Invalidator is told when the remote store rejects the session.
type Invalidator interface {
	Invalidate() error
}

// State is the client's cached copy of the task collection.
// Every mutation goes to the remote store first; the cache only changes when
// the store accepts it, and then only the affected task is reconciled.
type State struct {
	svc     service.Service
	session Invalidator
	logger  *zap.Logger
	all     []service.Task
	loaded  bool
}

// NewState creates an empty state. session may be nil.
func NewState(svc service.Service, session Invalidator, logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{svc: svc, session: session, logger: logger.Named("tasks")}
}

// Load fetches the full collection, replacing the cache.
func (s *State) Load(ctx context.Context) error {
	all, err := s.svc.ListTasks(ctx)
	if err != nil {
		return s.fail("load tasks", err)
	}
	for _, t := range all {
		if !t.Priority.Known() {
			s.logger.Warn("unknown task priority", zap.Int64("id", t.ID), zap.String("priority", string(t.Priority)))
		}
	}
	s.all = all
	s.loaded = true
	s.logger.Debug("tasks loaded", zap.Int("count", len(all)))
	return nil
}

// Loaded reports whether Load has succeeded.
func (s *State) Loaded() bool {
	return s.loaded
}

// All returns a copy of the cached collection.
func (s *State) All() []service.Task {
	out := make([]service.Task, len(s.all))
	copy(out, s.all)
	return out
}

// Visible returns the cached tasks matching f at now.
func (s *State) Visible(f Filter, now time.Time) []service.Task {
	return Apply(s.all, f, now)
}

// Week returns the weekly calendar for now.
func (s *State) Week(now time.Time) []Day {
	return Week(s.all, now)
}

// Find returns the cached task with id.
func (s *State) Find(id int64) (service.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return service.Task{}, false
	}
	return s.all[i], true
}

// Add creates a task on the store and appends the store's copy to the cache.
func (s *State) Add(ctx context.Context, in service.NewTask) (service.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return service.Task{}, ErrEmptyTitle
	}
	if in.Priority == "" {
		in.Priority = service.PriorityMedium
	}
	created, err := s.svc.CreateTask(ctx, in)
	if err != nil {
		return service.Task{}, s.fail("add task", err)
	}
	s.all = append(s.all, created)
	s.logger.Debug("task added", zap.Int64("id", created.ID))
	return created, nil
}

// Update sends a partial patch and reconciles the returned task.
func (s *State) Update(ctx context.Context, id int64, patch service.TaskPatch) (service.Task, error) {
	if patch.IsEmpty() {
		return service.Task{}, ErrNoChanges
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return service.Task{}, ErrEmptyTitle
	}
	if s.index(id) < 0 {
		return service.Task{}, fmt.Errorf("%w: %d", ErrNotLoaded, id)
	}
	updated, err := s.svc.UpdateTask(ctx, id, patch)
	if err != nil {
		return service.Task{}, s.fail("update task", err, zap.Int64("id", id))
	}
	s.reconcile(id, updated)
	return updated, nil
}

// Toggle flips the completed flag of a cached task.
func (s *State) Toggle(ctx context.Context, id int64) (service.Task, error) {
	t, ok := s.Find(id)
	if !ok {
		return service.Task{}, fmt.Errorf("%w: %d", ErrNotLoaded, id)
	}
	completed := !t.Completed
	return s.Update(ctx, id, service.TaskPatch{Completed: &completed})
}

// Delete removes a task from the store, then from the cache.
func (s *State) Delete(ctx context.Context, id int64) error {
	if s.index(id) < 0 {
		return fmt.Errorf("%w: %d", ErrNotLoaded, id)
	}
	if err := s.svc.DeleteTask(ctx, id); err != nil {
		return s.fail("delete task", err, zap.Int64("id", id))
	}
	i := s.index(id)
	s.all = append(s.all[:i:i], s.all[i+1:]...)
	s.logger.Debug("task deleted", zap.Int64("id", id))
	return nil
}

func (s *State) reconcile(id int64, updated service.Task) {
	if i := s.index(id); i >= 0 {
		s.all[i] = updated
	}
}

func (s *State) index(id int64) int {
	for i, t := range s.all {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// fail logs a rejected call and ends the session on ErrUnauthorized.
// The cache is left untouched.
func (s *State) fail(op string, err error, fields ...zap.Field) error {
	fields = append(fields, zap.String("op", op), zap.Error(err))
	s.logger.Warn("remote call failed", fields...)
	if errors.Is(err, service.ErrUnauthorized) && s.session != nil {
		if ierr := s.session.Invalidate(); ierr != nil {
			s.logger.Error("failed to clear session", zap.Error(ierr))
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
