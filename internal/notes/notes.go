// Package notes manages the notes and journal collections: ordered entries
// keyed by a stable ULID and persisted through a storage.Store.
package notes

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"tasknest/internal/storage"
)

var (
	ErrNotFound  = errors.New("entry not found")
	ErrEmptyText = errors.New("text required")
	timeNow      = time.Now
)

// AmbiguousError is returned when a reference prefix matches several entries.
// It satisfies errors.Is(err, ErrAmbiguous).
type AmbiguousError struct {
	Ref     string
	Matches []Entry
}

// ErrAmbiguous matches any *AmbiguousError.
var ErrAmbiguous = errors.New("ambiguous reference")

func (e *AmbiguousError) Error() string {
	ids := make([]string, len(e.Matches))
	for i, m := range e.Matches {
		ids[i] = m.ID
	}
	return fmt.Sprintf("ambiguous reference: %s (matches %s)", e.Ref, strings.Join(ids, ", "))
}

func (e *AmbiguousError) Is(target error) bool {
	return target == ErrAmbiguous
}

// Entry is one note or journal entry.
type Entry struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Collection is an ordered list of entries stored under one key.
// The in-memory order is the persisted order.
type Collection struct {
	store   storage.Store
	key     string
	logger  *zap.Logger
	entries []Entry
}

// Open loads the collection stored under key.
func Open(store storage.Store, key string, logger *zap.Logger) (*Collection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collection{store: store, key: key, logger: logger.With(zap.String("collection", key))}

	raw, ok, err := store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if ok && strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &c.entries); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
	}
	return c, nil
}

// OpenNotes opens the notes collection.
func OpenNotes(store storage.Store, logger *zap.Logger) (*Collection, error) {
	return Open(store, storage.KeyNotes, logger)
}

// OpenJournal opens the journal collection.
func OpenJournal(store storage.Store, logger *zap.Logger) (*Collection, error) {
	return Open(store, storage.KeyJournal, logger)
}

// Entries returns a copy of the entries in order.
func (c *Collection) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Collection) Len() int {
	return len(c.entries)
}

// Get returns the entry with the given ID.
func (c *Collection) Get(id string) (Entry, bool) {
	i := c.index(id)
	if i < 0 {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Add appends a new entry and persists the collection.
func (c *Collection) Add(text string) (Entry, error) {
	if strings.TrimSpace(text) == "" {
		return Entry{}, ErrEmptyText
	}
	e := Entry{ID: newULID(), Text: text}
	next := append(c.Entries(), e)
	if err := c.commit(next); err != nil {
		return Entry{}, err
	}
	c.logger.Debug("entry added", zap.String("id", e.ID))
	return e, nil
}

// Delete removes the entry with the given ID and persists the collection.
func (c *Collection) Delete(id string) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next := make([]Entry, 0, len(c.entries)-1)
	next = append(next, c.entries[:i]...)
	next = append(next, c.entries[i+1:]...)
	if err := c.commit(next); err != nil {
		return err
	}
	c.logger.Debug("entry deleted", zap.String("id", id))
	return nil
}

// BeginEdit removes the entry and returns its text as the draft.
// The edit becomes durable again only through Save, which appends at the end.
func (c *Collection) BeginEdit(id string) (string, error) {
	e, ok := c.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := c.Delete(id); err != nil {
		return "", err
	}
	return e.Text, nil
}

// Save appends draft as a new entry. It is Add under the edit workflow's name.
func (c *Collection) Save(draft string) (Entry, error) {
	return c.Add(draft)
}

// Replace changes an entry's text in place, keeping its ID and position.
func (c *Collection) Replace(id, text string) (Entry, error) {
	if strings.TrimSpace(text) == "" {
		return Entry{}, ErrEmptyText
	}
	i := c.index(id)
	if i < 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next := c.Entries()
	next[i].Text = text
	if err := c.commit(next); err != nil {
		return Entry{}, err
	}
	return next[i], nil
}

// Resolve finds the entry whose ID starts with ref (case-insensitive).
// An exact match wins over prefix matches.
func (c *Collection) Resolve(ref string) (Entry, error) {
	norm := strings.ToUpper(strings.TrimSpace(ref))
	if norm == "" {
		return Entry{}, fmt.Errorf("%w: empty reference", ErrNotFound)
	}
	var matches []Entry
	for _, e := range c.entries {
		if e.ID == norm {
			return e, nil
		}
		if strings.HasPrefix(e.ID, norm) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return Entry{}, &AmbiguousError{Ref: ref, Matches: matches}
	}
}

func (c *Collection) index(id string) int {
	for i, e := range c.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// commit persists next and swaps it in only when the write succeeds.
func (c *Collection) commit(next []Entry) error {
	b, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := c.store.Set(c.key, string(b)); err != nil {
		c.logger.Warn("persist failed", zap.Error(err))
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	c.entries = next
	return nil
}

func newULID() string {
	id := ulid.MustNew(ulid.Timestamp(timeNow()), ulid.Monotonic(rand.Reader, 0))
	return strings.ToUpper(id.String())
}
