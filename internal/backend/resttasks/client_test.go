package resttasks

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"tasknest/internal/config"
	"tasknest/internal/service"
	"tasknest/internal/testutil"
)

func newClient(t *testing.T, srv *testutil.FakeServer, token string) *Client {
	t.Helper()
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)
	cfg.API.URL = srv.URL

	var tok *oauth2.Token
	if token != "" {
		tok = &oauth2.Token{AccessToken: token, TokenType: "Bearer"}
	}
	c, err := New(context.Background(), cfg, tok, nil)
	require.NoError(t, err)
	return c
}

func TestClient_Login(t *testing.T) {
	srv := testutil.NewFakeServer()
	defer srv.Close()
	srv.AddUser("alice", "s3cret")

	c := newClient(t, srv, "")
	tok, err := c.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	_, err = c.Login(context.Background(), "alice", "nope")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestClient_CRUD(t *testing.T) {
	srv := testutil.NewFakeServer()
	defer srv.Close()
	c := newClient(t, srv, srv.IssueToken("alice"))
	ctx := context.Background()

	reminder := time.Date(2025, 1, 10, 9, 0, 0, 0, time.Local)
	created, err := c.CreateTask(ctx, service.NewTask{Title: "Buy milk", Priority: service.PriorityHigh, Reminder: &reminder})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, service.PriorityHigh, created.Priority)
	require.True(t, created.HasReminder())
	assert.True(t, created.Reminder.Equal(reminder))

	done := true
	updated, err := c.UpdateTask(ctx, created.ID, service.TaskPatch{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, service.PriorityHigh, updated.Priority, "untouched fields survive a partial patch")
	assert.True(t, updated.HasReminder())

	updated, err = c.UpdateTask(ctx, created.ID, service.TaskPatch{ClearReminder: true})
	require.NoError(t, err)
	assert.False(t, updated.HasReminder())

	list, err := c.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Buy milk", list[0].Title)

	require.NoError(t, c.DeleteTask(ctx, created.ID))
	list, err = c.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClient_ListKeepsUnknownPriority(t *testing.T) {
	srv := testutil.NewFakeServer()
	defer srv.Close()
	srv.AddTask(service.Task{Title: "a", Priority: service.PriorityMedium})
	srv.AddTask(service.Task{Title: "b", Priority: service.Priority("Urgent")})
	c := newClient(t, srv, srv.IssueToken("alice"))

	list, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, service.Priority("Urgent"), list[1].Priority)
}

func TestClient_PatchSendsOnlyChangedFields(t *testing.T) {
	srv := testutil.NewFakeServer()
	defer srv.Close()
	srv.AddTask(service.Task{Title: "a", Priority: service.PriorityLow})
	c := newClient(t, srv, srv.IssueToken("alice"))

	done := true
	_, err := c.UpdateTask(context.Background(), 1, service.TaskPatch{Completed: &done})
	require.NoError(t, err)

	reqs := srv.Requests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, http.MethodPut, last.Method)
	assert.Equal(t, "/tasks/1", last.Path)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(last.Body), &body))
	assert.Equal(t, map[string]any{"completed": true}, body)
}

func TestClient_RequestIDs(t *testing.T) {
	srv := testutil.NewFakeServer()
	defer srv.Close()
	c := newClient(t, srv, srv.IssueToken("alice"))

	for i := 0; i < 2; i++ {
		_, err := c.ListTasks(context.Background())
		require.NoError(t, err)
	}
	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.NotEmpty(t, reqs[0].RequestID)
	assert.NotEqual(t, reqs[0].RequestID, reqs[1].RequestID)
}

func TestClient_ErrorMapping(t *testing.T) {
	srv := testutil.NewFakeServer()
	defer srv.Close()
	ctx := context.Background()

	t.Run("no token", func(t *testing.T) {
		_, err := newClient(t, srv, "").ListTasks(ctx)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("revoked token", func(t *testing.T) {
		c := newClient(t, srv, srv.IssueToken("alice"))
		srv.RevokeAll()
		_, err := c.ListTasks(ctx)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("missing task", func(t *testing.T) {
		c := newClient(t, srv, srv.IssueToken("alice"))
		assert.ErrorIs(t, c.DeleteTask(ctx, 99), service.ErrNotFound)
		done := true
		_, err := c.UpdateTask(ctx, 99, service.TaskPatch{Completed: &done})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("server error", func(t *testing.T) {
		c := newClient(t, srv, srv.IssueToken("alice"))
		srv.FailWith(http.StatusInternalServerError)
		defer srv.FailWith(0)

		_, err := c.ListTasks(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
		assert.NotErrorIs(t, err, service.ErrUnauthorized)
	})
}

func TestClient_Timeout(t *testing.T) {
	srv := testutil.NewFakeServer()
	defer srv.Close()
	srv.SetDelay(500 * time.Millisecond)

	tok := &oauth2.Token{AccessToken: srv.IssueToken("alice")}
	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(tok))
	c := NewWithHTTPClient(srv.URL, httpClient, 20*time.Millisecond, nil)
	_, err := c.ListTasks(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_Unreachable(t *testing.T) {
	srv := testutil.NewFakeServer()
	url := srv.URL
	srv.Close()

	c := NewWithHTTPClient(url, http.DefaultClient, time.Second, nil)
	_, err := c.ListTasks(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrTimeout)
}
