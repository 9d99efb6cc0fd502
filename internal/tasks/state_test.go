package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"tasknest/internal/service"
	"tasknest/internal/testutil"
)

type fakeSession struct{ invalidated int }

func (f *fakeSession) Invalidate() error {
	f.invalidated++
	return nil
}

func newState(t *testing.T, svc *testutil.FakeService) (*State, *fakeSession, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	sess := &fakeSession{}
	s := NewState(svc, sess, zap.New(core))
	require.NoError(t, s.Load(context.Background()))
	return s, sess, logs
}

func TestState_AddBuyMilk(t *testing.T) {
	svc := testutil.NewFakeService()
	s, _, _ := newState(t, svc)

	reminder, err := service.ParseReminder("2025-01-10T09:00", time.Local)
	require.NoError(t, err)

	task, err := s.Add(context.Background(), service.NewTask{
		Title:    "Buy milk",
		Priority: service.PriorityHigh,
		Reminder: &reminder,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), task.ID)

	assert.Equal(t, []int64{1}, ids(s.Visible(FilterAll, now)))
	assert.Equal(t, []int64{1}, ids(s.Visible(FilterHigh, now)))
	assert.Empty(t, s.Visible(FilterLow, now))
}

func TestState_AddDefaultsToMedium(t *testing.T) {
	svc := testutil.NewFakeService()
	s, _, _ := newState(t, svc)

	task, err := s.Add(context.Background(), service.NewTask{Title: "Water plants"})
	require.NoError(t, err)
	assert.Equal(t, service.PriorityMedium, task.Priority)
	assert.False(t, task.Completed)
}

func TestState_AddEmptyTitleSendsNothing(t *testing.T) {
	svc := testutil.NewFakeService()
	s, _, _ := newState(t, svc)

	_, err := s.Add(context.Background(), service.NewTask{Title: "   "})
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Equal(t, 0, svc.Calls["CreateTask"])
	assert.Empty(t, s.All())
}

func TestState_ToggleTwiceRoundTrips(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "a"})
	s, _, _ := newState(t, svc)

	first, err := s.Toggle(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, first.Completed)

	second, err := s.Toggle(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, second.Completed)

	got, _ := s.Find(1)
	assert.False(t, got.Completed)
	assert.Equal(t, 2, svc.Calls["UpdateTask"])
}

func TestState_UpdateReconcilesOnlyTarget(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "a"})
	svc.AddTask(service.Task{Title: "b"})
	s, _, _ := newState(t, svc)

	title := "b2"
	prio := service.PriorityLow
	_, err := s.Update(context.Background(), 2, service.TaskPatch{Title: &title, Priority: &prio})
	require.NoError(t, err)

	all := s.All()
	assert.Equal(t, "a", all[0].Title)
	assert.Equal(t, "b2", all[1].Title)
	assert.Equal(t, service.PriorityLow, all[1].Priority)
}

func TestState_UpdateValidation(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "a"})
	s, _, _ := newState(t, svc)

	_, err := s.Update(context.Background(), 1, service.TaskPatch{})
	assert.ErrorIs(t, err, ErrNoChanges)

	blank := " "
	_, err = s.Update(context.Background(), 1, service.TaskPatch{Title: &blank})
	assert.ErrorIs(t, err, ErrEmptyTitle)

	done := true
	_, err = s.Update(context.Background(), 42, service.TaskPatch{Completed: &done})
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.Equal(t, 0, svc.Calls["UpdateTask"])
}

func TestState_FailedMutationLeavesCache(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "a"})
	s, sess, logs := newState(t, svc)

	backendErr := errors.New("connection refused")
	svc.UpdateTaskErr = backendErr
	svc.DeleteTaskErr = backendErr
	svc.CreateTaskErr = backendErr

	_, err := s.Toggle(context.Background(), 1)
	assert.ErrorIs(t, err, backendErr)
	err = s.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, backendErr)
	_, err = s.Add(context.Background(), service.NewTask{Title: "b"})
	assert.ErrorIs(t, err, backendErr)

	all := s.All()
	require.Len(t, all, 1)
	assert.False(t, all[0].Completed)
	assert.Equal(t, 0, sess.invalidated)
	assert.Equal(t, 3, logs.FilterMessage("remote call failed").Len())
}

func TestState_UnauthorizedInvalidatesSession(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = service.ErrUnauthorized

	sess := &fakeSession{}
	s := NewState(svc, sess, nil)

	err := s.Load(context.Background())
	assert.ErrorIs(t, err, service.ErrUnauthorized)
	assert.Equal(t, 1, sess.invalidated)
	assert.False(t, s.Loaded())
}

func TestState_UnauthorizedOnMutation(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "a"})
	s, sess, _ := newState(t, svc)

	svc.DeleteTaskErr = service.ErrUnauthorized
	err := s.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
	assert.Equal(t, 1, sess.invalidated)
	assert.Len(t, s.All(), 1)
}

func TestState_Delete(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "a"})
	svc.AddTask(service.Task{Title: "b"})
	svc.AddTask(service.Task{Title: "c"})
	s, _, _ := newState(t, svc)

	snapshot := s.All()
	require.NoError(t, s.Delete(context.Background(), 2))

	assert.Equal(t, []int64{1, 3}, ids(s.All()))
	assert.Equal(t, []int64{1, 2, 3}, ids(snapshot), "earlier snapshots are unaffected")
	assert.ErrorIs(t, s.Delete(context.Background(), 2), ErrNotLoaded)
}

func TestState_LoadKeepsUnknownPriority(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "known", Priority: service.PriorityLow})
	svc.AddTask(service.Task{Title: "odd", Priority: service.Priority("Urgent")})
	s, _, logs := newState(t, svc)

	require.Len(t, s.All(), 2)
	assert.Equal(t, []int64{1}, ids(s.Visible(FilterLow, now)))

	warned := logs.FilterMessage("unknown task priority").All()
	require.Len(t, warned, 1)
	assert.Equal(t, int64(2), warned[0].ContextMap()["id"])

	task, err := s.Toggle(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, task.Completed)
}
