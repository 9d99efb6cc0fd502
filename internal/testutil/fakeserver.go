package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tasknest/internal/service"
)

// Request is one call observed by FakeServer.
type Request struct {
	Method    string
	Path      string
	Body      string
	RequestID string
}

// FakeServer is an in-process implementation of the TaskNest REST API.
type FakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]string
	sessions map[string]string
	tasks    map[int64]service.Task
	nextID   int64
	requests []Request

	failStatus int
	delay      time.Duration
}

// NewFakeServer starts a server. Close it with Close.
func NewFakeServer() *FakeServer {
	fs := &FakeServer{
		users:    make(map[string]string),
		sessions: make(map[string]string),
		tasks:    make(map[int64]service.Task),
		nextID:   1,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(fs.record)

	e.POST("/login", fs.login)
	g := e.Group("/tasks", fs.requireToken)
	g.GET("", fs.listTasks)
	g.POST("", fs.createTask)
	g.PUT("/:id", fs.updateTask)
	g.DELETE("/:id", fs.deleteTask)

	fs.Server = httptest.NewServer(e)
	return fs
}

// AddUser registers credentials accepted by /login.
func (fs *FakeServer) AddUser(username, password string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.users[username] = password
}

// IssueToken returns a valid token for username without calling /login.
func (fs *FakeServer) IssueToken(username string) string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	tok := uuid.NewString()
	fs.sessions[tok] = username
	return tok
}

// RevokeAll invalidates every issued token.
func (fs *FakeServer) RevokeAll() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.sessions = make(map[string]string)
}

// FailWith makes every /tasks call fail with status. Zero restores normal
// behaviour.
func (fs *FakeServer) FailWith(status int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.failStatus = status
}

// SetDelay makes every /tasks call wait d before responding.
func (fs *FakeServer) SetDelay(d time.Duration) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.delay = d
}

// AddTask stores a task directly and returns it with its ID.
func (fs *FakeServer) AddTask(t service.Task) service.Task {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	t.ID = fs.nextID
	fs.nextID++
	if t.Priority == "" {
		t.Priority = service.PriorityMedium
	}
	fs.tasks[t.ID] = t
	return t
}

// Tasks returns the stored tasks ordered by ID.
func (fs *FakeServer) Tasks() []service.Task {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.sortedLocked()
}

// Requests returns the calls seen so far.
func (fs *FakeServer) Requests() []Request {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]Request(nil), fs.requests...)
}

func (fs *FakeServer) sortedLocked() []service.Task {
	out := make([]service.Task, 0, len(fs.tasks))
	for _, t := range fs.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (fs *FakeServer) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		var body []byte
		if req.Body != nil {
			b, err := io.ReadAll(req.Body)
			if err != nil {
				return err
			}
			body = b
			req.Body = io.NopCloser(bytes.NewReader(b))
		}
		fs.mu.Lock()
		fs.requests = append(fs.requests, Request{
			Method:    req.Method,
			Path:      req.URL.Path,
			Body:      string(body),
			RequestID: req.Header.Get("X-Request-ID"),
		})
		fs.mu.Unlock()
		return next(c)
	}
}

func (fs *FakeServer) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get(echo.HeaderAuthorization)
		tok, ok := strings.CutPrefix(auth, "Bearer ")
		fs.mu.Lock()
		_, valid := fs.sessions[tok]
		fail, delay := fs.failStatus, fs.delay
		fs.mu.Unlock()
		if !ok || !valid {
			return apiError(c, http.StatusUnauthorized, "Missing or invalid token")
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-c.Request().Context().Done():
				return c.Request().Context().Err()
			}
		}
		if fail != 0 {
			return apiError(c, fail, http.StatusText(fail))
		}
		return next(c)
	}
}

func (fs *FakeServer) login(c echo.Context) error {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid body")
	}
	fs.mu.Lock()
	pw, ok := fs.users[in.Username]
	fs.mu.Unlock()
	if !ok || pw != in.Password {
		return apiError(c, http.StatusUnauthorized, "Bad credentials")
	}
	return c.JSON(http.StatusOK, map[string]string{"access_token": fs.IssueToken(in.Username)})
}

func (fs *FakeServer) listTasks(c echo.Context) error {
	return c.JSON(http.StatusOK, fs.Tasks())
}

func (fs *FakeServer) createTask(c echo.Context) error {
	var in struct {
		Title        string  `json:"title"`
		Completed    bool    `json:"completed"`
		Priority     string  `json:"priority"`
		ReminderTime *string `json:"reminder_time"`
	}
	if err := c.Bind(&in); err != nil || in.Title == "" {
		return apiError(c, http.StatusBadRequest, "title required")
	}
	t := service.Task{Title: in.Title, Completed: in.Completed, Priority: service.PriorityMedium}
	if in.Priority != "" {
		p, err := service.ParsePriority(in.Priority)
		if err != nil {
			return apiError(c, http.StatusBadRequest, err.Error())
		}
		t.Priority = p
	}
	if in.ReminderTime != nil && *in.ReminderTime != "" {
		r, err := service.ParseReminder(*in.ReminderTime, time.Local)
		if err != nil {
			return apiError(c, http.StatusBadRequest, err.Error())
		}
		t.Reminder = &r
	}
	return c.JSON(http.StatusCreated, fs.AddTask(t))
}

func (fs *FakeServer) updateTask(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusNotFound, "Task not found")
	}
	var in map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&in); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid body")
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	t, ok := fs.tasks[id]
	if !ok {
		return apiError(c, http.StatusNotFound, "Task not found")
	}
	if raw, ok := in["title"]; ok {
		_ = json.Unmarshal(raw, &t.Title)
	}
	if raw, ok := in["completed"]; ok {
		_ = json.Unmarshal(raw, &t.Completed)
	}
	if raw, ok := in["priority"]; ok {
		var s string
		_ = json.Unmarshal(raw, &s)
		p, err := service.ParsePriority(s)
		if err != nil {
			return apiError(c, http.StatusBadRequest, err.Error())
		}
		t.Priority = p
	}
	if raw, ok := in["reminder_time"]; ok {
		var s *string
		_ = json.Unmarshal(raw, &s)
		switch {
		case s == nil:
		case *s == "":
			t.Reminder = nil
		default:
			r, err := service.ParseReminder(*s, time.Local)
			if err != nil {
				return apiError(c, http.StatusBadRequest, err.Error())
			}
			t.Reminder = &r
		}
	}
	fs.tasks[id] = t
	return c.JSON(http.StatusOK, t)
}

func (fs *FakeServer) deleteTask(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apiError(c, http.StatusNotFound, "Task not found")
	}
	fs.mu.Lock()
	_, ok := fs.tasks[id]
	delete(fs.tasks, id)
	fs.mu.Unlock()
	if !ok {
		return apiError(c, http.StatusNotFound, "Task not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Task deleted"})
}

func apiError(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]any{
		"error": map[string]any{"code": code, "message": msg},
	})
}
