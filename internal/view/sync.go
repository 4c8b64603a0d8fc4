// Package view projects the store into a renderable list and routes UI
// action events back into store mutations.
package view

import (
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/store"
)

// Store is the part of *store.Store the synchronizer drives.
type Store interface {
	Add(text, dueDate string, priority model.Priority) (model.Item, error)
	Remove(id string) error
	FindByID(id string) (model.Item, bool)
	ToggleComplete(id string) error
	UpdateText(id, newText string) error
	Items() []model.Item
}

// EditState is the per-row inline edit state.
type EditState int

const (
	Idle EditState = iota
	Editing
)

func (e EditState) String() string {
	if e == Editing {
		return "editing"
	}
	return "idle"
}

type editSession struct {
	state      EditState
	original   string
	committing bool
}

// Synchronizer owns the row-state map; rows absent from it are Idle.
type Synchronizer struct {
	store    Store
	rows     map[string]*editSession
	display  Display
	notifier Notifier
	logger   *log.Logger
}

type Option func(*Synchronizer)

func WithDisplay(d Display) Option { return func(s *Synchronizer) { s.display = d } }
func WithNotifier(n Notifier) Option { return func(s *Synchronizer) { s.notifier = n } }
func WithLogger(l *log.Logger) Option { return func(s *Synchronizer) { s.logger = l } }

func New(st Store, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store: st,
		rows:  map[string]*editSession{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Render rebuilds the whole list from the store and hands it to the display.
func (s *Synchronizer) Render() List {
	items := s.store.Items()
	list := List{Rows: make([]Row, 0, len(items))}
	live := make(map[string]struct{}, len(items))
	for _, it := range items {
		live[it.ID] = struct{}{}
		r := rowFor(it)
		if sess := s.rows[it.ID]; sess != nil && sess.state == Editing {
			r.Editing = true
			r.EditText = sess.original
		}
		if it.Completed {
			list.Done++
		} else {
			list.Pending++
		}
		list.Rows = append(list.Rows, r)
	}
	for id := range s.rows {
		if _, ok := live[id]; !ok {
			delete(s.rows, id)
		}
	}
	if s.display != nil {
		s.display.Show(list)
	}
	return list
}

// Attach sets the display and notifier a host subscribes at startup.
// A nil argument leaves the current one in place.
func (s *Synchronizer) Attach(d Display, n Notifier) {
	if d != nil {
		s.display = d
	}
	if n != nil {
		s.notifier = n
	}
}

// EditState reports the edit state of the row with id.
func (s *Synchronizer) EditState(id string) EditState {
	if sess := s.rows[id]; sess != nil {
		return sess.state
	}
	return Idle
}

// ActiveEdit returns a row currently in the Editing state, if any.
func (s *Synchronizer) ActiveEdit() (string, bool) {
	for id, sess := range s.rows {
		if sess.state == Editing {
			return id, true
		}
	}
	return "", false
}

// HandleAction applies one UI event. Validation failures on add are returned
// and sent to the notifier; stale ids are ignored.
func (s *Synchronizer) HandleAction(ev Event) error {
	s.logger.Debug("action", "target", ev.Target, "kind", ev.Kind, "id", ev.ID)

	switch ev.Target {
	case AddButton:
		if ev.Kind != Click {
			return nil
		}
		return s.add(ev)
	case NewItemInput:
		if ev.Kind != ConfirmKey {
			return nil
		}
		return s.add(ev)
	case EditField:
		if ev.Kind != ConfirmKey && ev.Kind != FocusLoss {
			return nil
		}
		return s.commit(ev.ID, ev.Text)
	}

	// Everything else arrives through the list container.
	if ev.Kind != Click {
		return nil
	}
	it, ok := s.store.FindByID(ev.ID)
	if !ok {
		delete(s.rows, ev.ID)
		return nil
	}

	switch ev.Target {
	case DeleteButton:
		delete(s.rows, ev.ID)
		err := s.store.Remove(ev.ID)
		s.Render()
		return err
	case ItemText:
		if s.EditState(ev.ID) == Editing {
			return nil
		}
		s.rows[ev.ID] = &editSession{state: Editing, original: it.Text}
		s.Render()
		return nil
	case ListRow:
		if s.EditState(ev.ID) == Editing {
			return nil
		}
		err := s.store.ToggleComplete(ev.ID)
		s.Render()
		return err
	}
	return nil
}

func (s *Synchronizer) add(ev Event) error {
	_, err := s.store.Add(ev.Text, ev.DueDate, ev.Priority)
	if err != nil {
		var ve *store.ValidationError
		if errors.As(err, &ve) && s.notifier != nil {
			s.notifier.Notify(ve.Message)
		}
		return err
	}
	s.Render()
	return nil
}

// commit finalizes an edit once; further triggers for the same interaction
// find the row Idle (or mid-commit) and are dropped.
func (s *Synchronizer) commit(id, text string) error {
	sess := s.rows[id]
	if sess == nil || sess.state != Editing || sess.committing {
		s.logger.Debug("commit ignored", "id", id)
		return nil
	}
	sess.committing = true
	defer func() { sess.committing = false }()

	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Debug("empty edit reverted", "id", id)
		delete(s.rows, id)
		s.Render()
		return nil
	}
	if _, ok := s.store.FindByID(id); !ok {
		delete(s.rows, id)
		return nil
	}
	err := s.store.UpdateText(id, text)
	delete(s.rows, id)
	s.Render()
	return err
}

var _ Store = (*store.Store)(nil)
