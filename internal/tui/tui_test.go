package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/go-playground/assert/v2"

	"github.com/idilsaglam/todolist/internal/app"
	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/store/kv"
	"github.com/idilsaglam/todolist/internal/view"
)

func newTestApp(t *testing.T) (*app.App, *kv.MemoryKV) {
	t.Helper()
	slot := kv.NewMemoryKV()
	a, err := app.NewWithSlot(&config.Config{Key: "todos"}, log.New(io.Discard), slot)
	assert.Equal(t, err, nil)
	return a, slot
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	right = tea.KeyMsg{Type: tea.KeyRight}
	ctrlU = tea.KeyMsg{Type: tea.KeyCtrlU}
	size  = tea.WindowSizeMsg{Width: 100, Height: 30}
)

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

// locate finds the screen cell of the first part matching pred.
func locate(t *testing.T, m Model, pred func(part) bool) (int, int) {
	t.Helper()
	for y, ln := range m.lines() {
		col := 0
		for _, p := range ln {
			if pred(p) {
				return col + frameX, y + frameY
			}
			col += lipgloss.Width(p.out)
		}
	}
	t.Fatalf("part not found")
	return 0, 0
}

func rowTarget(row int, target view.Affordance) func(part) bool {
	return func(p part) bool { return p.zone == zoneRow && p.row == row && p.target == target }
}

func TestAddThroughForm(t *testing.T) {
	a, slot := newTestApp(t)
	m := send(New(a), size, runes("a"))
	assert.Equal(t, m.mode, adding)

	m = send(m, runes("Buy milk"), tab, runes("2024-01-01"), tab, right, enter)
	items := a.Store.Items()
	assert.Equal(t, len(items), 1)
	assert.Equal(t, items[0].Text, "Buy milk")
	assert.Equal(t, items[0].Due(), "2024-01-01")
	assert.Equal(t, items[0].Priority, model.High)
	assert.Equal(t, slot.Writes("todos"), 1)

	// form reset and still focused
	assert.Equal(t, m.mode, adding)
	assert.Equal(t, m.field, fieldText)
	assert.Equal(t, m.text.Value(), "")
	assert.Equal(t, m.priority, model.Medium)
	assert.Equal(t, len(m.scr.list.Rows), 1)
}

func TestAddEmptyShowsNotice(t *testing.T) {
	a, slot := newTestApp(t)
	m := send(New(a), size, runes("a"), runes("   "), enter)
	assert.Equal(t, a.Store.Len(), 0)
	assert.Equal(t, slot.Writes("todos"), 0)
	assert.Equal(t, m.scr.notice, "Please enter a to-do item.")
	assert.Equal(t, strings.Contains(m.View(), "Please enter a to-do item."), true)

	m = send(m, esc)
	assert.Equal(t, m.mode, browsing)
	assert.Equal(t, m.scr.notice, "")
}

func TestToggleAndDeleteKeys(t *testing.T) {
	a, _ := newTestApp(t)
	_, _ = a.Store.Add("one", "", "")
	_, _ = a.Store.Add("two", "", "")
	m := send(New(a), size, down, space)
	items := a.Store.Items()
	assert.Equal(t, items[0].Completed, false)
	assert.Equal(t, items[1].Completed, true)
	assert.Equal(t, m.scr.list.Done, 1)

	m = send(m, runes("d"))
	assert.Equal(t, a.Store.Len(), 1)
	assert.Equal(t, m.cursor, 0)
	assert.Equal(t, strings.Contains(m.View(), "one"), true)
}

func TestEditConfirmThenBlurCommitsOnce(t *testing.T) {
	a, slot := newTestApp(t)
	_, _ = a.Store.Add("Buy milk", "", "")
	m := send(New(a), size, runes("e"))
	assert.Equal(t, m.mode, editing)
	assert.Equal(t, m.edit.Value(), "Buy milk")
	writes := slot.Writes("todos")

	m = send(m, ctrlU, runes("Buy oat milk"), enter, tea.BlurMsg{})
	assert.Equal(t, m.mode, browsing)
	assert.Equal(t, a.Store.Items()[0].Text, "Buy oat milk")
	assert.Equal(t, slot.Writes("todos"), writes+1)
}

func TestEditFocusLossCommits(t *testing.T) {
	a, _ := newTestApp(t)
	_, _ = a.Store.Add("draft", "", "")
	m := send(New(a), size, runes("e"), runes("!"), tea.BlurMsg{})
	assert.Equal(t, m.mode, browsing)
	assert.Equal(t, a.Store.Items()[0].Text, "draft!")
	assert.Equal(t, a.Sync.EditState(a.Store.Items()[0].ID), view.Idle)
}

func TestEditEmptyReverts(t *testing.T) {
	a, slot := newTestApp(t)
	_, _ = a.Store.Add("keep", "", "")
	writes := slot.Writes("todos")
	m := send(New(a), size, runes("e"), ctrlU, esc)
	assert.Equal(t, m.mode, browsing)
	assert.Equal(t, a.Store.Items()[0].Text, "keep")
	assert.Equal(t, slot.Writes("todos"), writes)
}

func TestMouseRowTargets(t *testing.T) {
	a, _ := newTestApp(t)
	_, _ = a.Store.Add("one", "2024-01-01", model.High)
	_, _ = a.Store.Add("two", "", "")
	m := send(New(a), size)

	// label clicks never toggle
	x, y := locate(t, m, rowTarget(0, view.DueLabel))
	m = send(m, click(x, y))
	x, y = locate(t, m, rowTarget(0, view.PriorityLabel))
	m = send(m, click(x, y))
	assert.Equal(t, a.Store.Items()[0].Completed, false)

	// background toggles, including past the end of the line
	x, y = locate(t, m, rowTarget(1, view.ListRow))
	m = send(m, click(x, y))
	assert.Equal(t, a.Store.Items()[1].Completed, true)
	m = send(m, click(90, y))
	assert.Equal(t, a.Store.Items()[1].Completed, false)
	assert.Equal(t, m.cursor, 1)

	x, y = locate(t, m, rowTarget(0, view.DeleteButton))
	m = send(m, click(x, y))
	assert.Equal(t, a.Store.Len(), 1)
	assert.Equal(t, a.Store.Items()[0].Text, "two")
}

func TestMouseEditThenClickElsewhere(t *testing.T) {
	a, _ := newTestApp(t)
	_, _ = a.Store.Add("one", "", "")
	_, _ = a.Store.Add("two", "", "")
	m := send(New(a), size)

	x, y := locate(t, m, rowTarget(0, view.ItemText))
	m = send(m, click(x, y))
	assert.Equal(t, m.mode, editing)

	// clicking inside the field keeps editing
	x, y = locate(t, m, rowTarget(0, view.EditField))
	m = send(m, click(x, y), runes("!"))
	assert.Equal(t, m.mode, editing)

	// clicking another row's background commits first, then toggles it
	x, y = locate(t, m, rowTarget(1, view.ListRow))
	m = send(m, click(x, y))
	assert.Equal(t, m.mode, browsing)
	items := a.Store.Items()
	assert.Equal(t, items[0].Text, "one!")
	assert.Equal(t, items[1].Completed, true)
}

func TestMouseAddButton(t *testing.T) {
	a, _ := newTestApp(t)
	m := send(New(a), size)

	x, y := locate(t, m, func(p part) bool { return p.zone == zoneForm && p.field == fieldText })
	m = send(m, click(x, y), runes("from mouse"))
	assert.Equal(t, m.mode, adding)

	x, y = locate(t, m, func(p part) bool { return p.zone == zoneAddButton })
	m = send(m, click(x, y))
	assert.Equal(t, a.Store.Len(), 1)
	assert.Equal(t, a.Store.Items()[0].Text, "from mouse")
}

func TestScrollKeepsCursorVisible(t *testing.T) {
	a, _ := newTestApp(t)
	for i := 0; i < 20; i++ {
		_, _ = a.Store.Add(strings.Repeat("x", i+1), "", "")
	}
	m := send(New(a), tea.WindowSizeMsg{Width: 80, Height: 15})
	assert.Equal(t, m.visibleRows(), 5)
	for i := 0; i < 12; i++ {
		m = send(m, down)
	}
	assert.Equal(t, m.cursor, 12)
	assert.Equal(t, m.offset, 8)
	assert.Equal(t, strings.Contains(m.View(), strings.Repeat("x", 13)), true)

	m = send(m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.Equal(t, m.cursor, 11)
}

func TestQuit(t *testing.T) {
	a, _ := newTestApp(t)
	_, cmd := New(a).Update(runes("q"))
	assert.Equal(t, cmd == nil, false)
	assert.Equal(t, cmd(), tea.Quit())
}
