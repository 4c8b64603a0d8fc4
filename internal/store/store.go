// Package store owns the authoritative ordered list of todo items and keeps
// its persistence slot in step with every mutation.
package store

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/store/kv"
)

// DefaultKey is the slot key the list lives under.
const DefaultKey = "todos"

// Store is not safe for concurrent use; callers run it from one event loop.
// A mutation whose save fails is rolled back, so memory never runs ahead of
// the slot.
type Store struct {
	slot   kv.Slot
	key    string
	items  []model.Item
	logger *log.Logger
	newID  func() string
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDFunc replaces the ULID generator.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func newULID() string { return ulid.Make().String() }

// Open reads the slot once. Unreadable contents are logged and replaced by an
// empty list; only a failing slot read is returned as an error.
func Open(slot kv.Slot, key string, opts ...Option) (*Store, error) {
	if slot == nil {
		return nil, errors.New("store: nil slot")
	}
	if key == "" {
		key = DefaultKey
	}
	s := &Store{
		slot:   slot,
		key:    key,
		items:  []model.Item{},
		logger: log.New(io.Discard),
		newID:  newULID,
	}
	for _, opt := range opts {
		opt(s)
	}

	b, ok, err := slot.Get(key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		s.logger.Debug("no saved todos", "key", key)
		return s, nil
	}
	items, err := deserialize(b, s.newID)
	if err != nil {
		s.logger.Warn("discarding unreadable todos", "key", key, "err", err)
		return s, nil
	}
	s.items = items
	s.logger.Debug("loaded todos", "key", key, "count", len(items))
	return s, nil
}

// Add appends a new item. Blank text is rejected without touching the slot.
func (s *Store) Add(text, dueDate string, priority model.Priority) (model.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Item{}, &ValidationError{Field: "text", Message: "Please enter a to-do item."}
	}
	if priority == "" {
		priority = model.Medium
	}
	if !priority.Valid() {
		return model.Item{}, &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", priority)}
	}
	it := model.Item{
		ID:       s.newID(),
		Text:     text,
		DueDate:  model.DuePtr(dueDate),
		Priority: priority,
	}
	prev := s.snapshot()
	s.items = append(s.items, it)
	if err := s.save(prev); err != nil {
		return model.Item{}, err
	}
	return clone(it), nil
}

// Remove deletes the item with id. A missing id leaves the list as it was.
func (s *Store) Remove(id string) error {
	prev := s.snapshot()
	if i := s.index(id); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	return s.save(prev)
}

func (s *Store) FindByID(id string) (model.Item, bool) {
	if i := s.index(id); i >= 0 {
		return clone(s.items[i]), true
	}
	return model.Item{}, false
}

func (s *Store) ToggleComplete(id string) error {
	prev := s.snapshot()
	if i := s.index(id); i >= 0 {
		s.items[i].Completed = !s.items[i].Completed
	}
	return s.save(prev)
}

func (s *Store) UpdateText(id, newText string) error {
	newText = strings.TrimSpace(newText)
	if newText == "" {
		return &ValidationError{Field: "text", Message: "Please enter a to-do item."}
	}
	prev := s.snapshot()
	if i := s.index(id); i >= 0 {
		s.items[i].Text = newText
	}
	return s.save(prev)
}

// UpdateDueDate sets the due date; blank clears it.
func (s *Store) UpdateDueDate(id, dueDate string) error {
	prev := s.snapshot()
	if i := s.index(id); i >= 0 {
		s.items[i].DueDate = model.DuePtr(dueDate)
	}
	return s.save(prev)
}

func (s *Store) UpdatePriority(id string, p model.Priority) error {
	if p == "" {
		p = model.Medium
	}
	if !p.Valid() {
		return &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", p)}
	}
	prev := s.snapshot()
	if i := s.index(id); i >= 0 {
		s.items[i].Priority = p
	}
	return s.save(prev)
}

// Items returns a deep copy in store order.
func (s *Store) Items() []model.Item { return s.snapshot() }

func (s *Store) Len() int { return len(s.items) }

// Stats counts completed and open items.
func (s *Store) Stats() (done, pending int) {
	for _, it := range s.items {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

// Serialize encodes the full list as a JSON array.
func (s *Store) Serialize() ([]byte, error) {
	return serialize(s.items)
}

func (s *Store) index(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshot() []model.Item {
	out := make([]model.Item, len(s.items))
	for i, it := range s.items {
		out[i] = clone(it)
	}
	return out
}

func clone(it model.Item) model.Item {
	if it.DueDate != nil {
		d := *it.DueDate
		it.DueDate = &d
	}
	return it
}

// save persists the list, restoring prev if the slot rejects the write.
func (s *Store) save(prev []model.Item) error {
	if err := s.persist(); err != nil {
		s.items = prev
		s.logger.Warn("save failed, change reverted", "key", s.key, "err", err)
		return err
	}
	return nil
}

func (s *Store) persist() error {
	b, err := s.Serialize()
	if err != nil {
		return err
	}
	if err := s.slot.Set(s.key, b); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	s.logger.Debug("saved todos", "key", s.key, "count", len(s.items))
	return nil
}
