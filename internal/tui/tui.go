// Package tui hosts the list in a Bubble Tea program. Key presses, mouse
// clicks and terminal focus changes become view events; every event is
// followed by a redraw of the synchronizer's latest list.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todolist/internal/app"
	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/store"
	"github.com/idilsaglam/todolist/internal/ui"
	"github.com/idilsaglam/todolist/internal/view"
)

type mode int

const (
	browsing mode = iota
	adding
	editing
)

type addField int

const (
	fieldText addField = iota
	fieldDue
	fieldPriority
	numFields
)

// screen is the display and notifier the synchronizer pushes into.
type screen struct {
	list   view.List
	notice string
}

func (s *screen) Show(l view.List)  { s.list = l }
func (s *screen) Notify(msg string) { s.notice = msg }

// Model implements tea.Model.
type Model struct {
	sync   *view.Synchronizer
	scr    *screen
	logger *log.Logger

	mode          mode
	cursor        int
	offset        int
	width, height int

	// add form
	text, due textinput.Model
	priority  model.Priority
	field     addField

	// inline edit
	edit   textinput.Model
	editID string

	keys keyMap
	help help.Model
}

// New attaches a fresh screen to a.Sync and renders once.
func New(a *app.App) Model {
	scr := &screen{}
	a.Sync.Attach(scr, scr)

	logger := a.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := Model{
		sync:     a.Sync,
		scr:      scr,
		logger:   logger.WithPrefix("tui"),
		priority: model.Medium,
		keys:     defaultKeys(),
		help:     help.New(),
	}

	m.text = textinput.New()
	m.text.Prompt = ""
	m.text.Placeholder = "New item title..."
	m.text.CharLimit = 200
	m.text.Width = 40

	m.due = textinput.New()
	m.due.Prompt = ""
	m.due.Placeholder = "YYYY-MM-DD"
	m.due.CharLimit = 32
	m.due.Width = 12

	m.edit = textinput.New()
	m.edit.Prompt = ""
	m.edit.CharLimit = 200

	a.Sync.Render()
	return m
}

// Run starts the program on the alt screen with mouse and focus reporting.
// Every mutation is already persisted, so nothing is saved on exit.
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.clamp()
		return m, nil

	case tea.BlurMsg:
		if m.mode == editing {
			m.commit(view.FocusLoss)
		}
		return m, nil

	case tea.MouseMsg:
		return m.mouse(msg)

	case tea.KeyMsg:
		m.scr.notice = ""
		switch m.mode {
		case adding:
			return m.addKey(msg)
		case editing:
			return m.editKey(msg)
		}
		return m.browseKey(msg)
	}

	// cursor blink and friends go to whichever input has focus
	var cmd tea.Cmd
	switch {
	case m.mode == editing:
		m.edit, cmd = m.edit.Update(msg)
	case m.mode == adding && m.field == fieldText:
		m.text, cmd = m.text.Update(msg)
	case m.mode == adding && m.field == fieldDue:
		m.due, cmd = m.due.Update(msg)
	}
	return m, cmd
}

func (m Model) browseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.cursor--
		m.clamp()
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clamp()
	case key.Matches(msg, m.keys.Toggle):
		if r, ok := m.current(); ok {
			m.dispatch(view.Event{Target: view.ListRow, Kind: view.Click, ID: r.ID})
		}
	case key.Matches(msg, m.keys.Edit):
		if r, ok := m.current(); ok {
			return m, m.startEdit(r.ID)
		}
	case key.Matches(msg, m.keys.Delete):
		if r, ok := m.current(); ok {
			m.dispatch(view.Event{Target: view.DeleteButton, Kind: view.Click, ID: r.ID})
		}
	case key.Matches(msg, m.keys.Add):
		return m, m.focusAdd(fieldText)
	}
	return m, nil
}

func (m Model) addKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Confirm):
		return m, m.submitAdd(view.NewItemInput, view.ConfirmKey)
	case key.Matches(msg, m.keys.Leave):
		m.blurAdd()
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		return m, m.focusAdd((m.field + 1) % numFields)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.focusAdd((m.field + numFields - 1) % numFields)
	}

	var cmd tea.Cmd
	switch m.field {
	case fieldText:
		m.text, cmd = m.text.Update(msg)
	case fieldDue:
		m.due, cmd = m.due.Update(msg)
	case fieldPriority:
		switch msg.String() {
		case "left", "h":
			m.priority = m.priority.Prev()
		case "right", "l", " ":
			m.priority = m.priority.Next()
		}
	}
	return m, cmd
}

// editKey has no cancel: esc leaves the field, which commits like focus loss.
func (m Model) editKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		m.commit(view.FocusLoss)
		return m, tea.Quit
	case key.Matches(msg, m.keys.Confirm):
		m.commit(view.ConfirmKey)
		return m, nil
	case key.Matches(msg, m.keys.Leave):
		m.commit(view.FocusLoss)
		return m, nil
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

func (m Model) mouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.cursor--
		m.clamp()
		return m, nil
	case tea.MouseButtonWheelDown:
		m.cursor++
		m.clamp()
		return m, nil
	case tea.MouseButtonLeft:
	default:
		return m, nil
	}

	m.scr.notice = ""
	p := m.hitTest(msg.X, msg.Y)

	// The field loses focus before the click lands anywhere else.
	if m.mode == editing && !(p.zone == zoneRow && p.target == view.EditField) {
		m.commit(view.FocusLoss)
	}
	if m.mode == adding && p.zone != zoneForm && p.zone != zoneAddButton {
		m.blurAdd()
	}

	switch p.zone {
	case zoneForm:
		return m, m.focusAdd(p.field)
	case zoneAddButton:
		return m, m.submitAdd(view.AddButton, view.Click)
	case zoneRow:
		rows := m.scr.list.Rows
		if p.row < 0 || p.row >= len(rows) {
			return m, nil
		}
		m.cursor = p.row
		id := rows[p.row].ID
		switch p.target {
		case view.EditField:
			return m, nil
		case view.ItemText:
			return m, m.startEdit(id)
		}
		m.dispatch(view.Event{Target: p.target, Kind: view.Click, ID: id})
	}
	return m, nil
}

// dispatch hands ev to the synchronizer. Validation notices reach the screen
// through the notifier; anything else is shown and logged here.
func (m *Model) dispatch(ev view.Event) error {
	err := m.sync.HandleAction(ev)
	if err != nil && !errors.Is(err, store.ErrValidation) {
		m.scr.notice = err.Error()
		m.logger.Error("action failed", "target", ev.Target, "err", err)
	}
	m.clamp()
	return err
}

func (m *Model) startEdit(id string) tea.Cmd {
	m.dispatch(view.Event{Target: view.ItemText, Kind: view.Click, ID: id})
	if m.sync.EditState(id) != view.Editing {
		return nil
	}
	for _, r := range m.scr.list.Rows {
		if r.ID == id {
			m.edit.SetValue(r.EditText)
		}
	}
	m.edit.CursorEnd()
	m.mode = editing
	m.editID = id
	return m.edit.Focus()
}

func (m *Model) commit(kind view.Kind) {
	id, text := m.editID, m.edit.Value()
	m.mode = browsing
	m.editID = ""
	m.edit.Blur()
	m.edit.SetValue("")
	m.dispatch(view.Event{Target: view.EditField, Kind: kind, ID: id, Text: text})
}

func (m *Model) focusAdd(f addField) tea.Cmd {
	m.mode = adding
	m.field = f
	m.text.Blur()
	m.due.Blur()
	switch f {
	case fieldText:
		return m.text.Focus()
	case fieldDue:
		return m.due.Focus()
	}
	return nil
}

func (m *Model) blurAdd() {
	m.mode = browsing
	m.text.Blur()
	m.due.Blur()
}

// submitAdd keeps the form focused; on success it is reset and the cursor
// moves to the new last row.
func (m *Model) submitAdd(target view.Affordance, kind view.Kind) tea.Cmd {
	err := m.dispatch(view.Event{
		Target:   target,
		Kind:     kind,
		Text:     m.text.Value(),
		DueDate:  m.due.Value(),
		Priority: m.priority,
	})
	if err != nil {
		return m.focusAdd(fieldText)
	}
	m.text.SetValue("")
	m.due.SetValue("")
	m.priority = model.Medium
	m.cursor = len(m.scr.list.Rows) - 1
	m.clamp()
	return m.focusAdd(fieldText)
}

func (m Model) current() (view.Row, bool) {
	rows := m.scr.list.Rows
	if m.cursor < 0 || m.cursor >= len(rows) {
		return view.Row{}, false
	}
	return rows[m.cursor], true
}

// chromeLines is everything but the rows: border, header, progress, two
// blanks, the two form lines, notice and help.
const chromeLines = 10

func (m Model) visibleRows() int {
	h := m.height
	if h <= 0 {
		h = 24
	}
	if v := h - chromeLines; v > 1 {
		return v
	}
	return 1
}

func (m *Model) clamp() {
	n := len(m.scr.list.Rows)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	v := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+v {
		m.offset = m.cursor - v + 1
	}
	if maxOff := n - v; m.offset > maxOff {
		m.offset = maxOff
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) View() string {
	var b strings.Builder
	for i, ln := range m.lines() {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, p := range ln {
			b.WriteString(p.out)
		}
	}
	return panelString(b.String())
}

func (m Model) header() string {
	l := m.scr.list
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), l.Done,
		pendingStyle.Render("•"), l.Pending,
		accentStyle.Render("Total"), l.Total(),
	)
}

func (m Model) helpLine() string {
	switch m.mode {
	case adding:
		return m.help.ShortHelpView(m.keys.addHelp())
	case editing:
		return m.help.ShortHelpView(m.keys.editHelp())
	}
	return m.help.ShortHelpView(m.keys.browseHelp())
}

func (m Model) progress() string {
	l := m.scr.list
	return mutedStyle.Render(ui.ProgressBar(l.Done, l.Total(), 28))
}
