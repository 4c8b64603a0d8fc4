package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todolist/internal/view"
)

// Offset of the content inside panelString: border plus one column of padding.
const (
	frameX = 2
	frameY = 1
)

type zone int

const (
	zoneNone zone = iota
	zoneRow
	zoneForm
	zoneAddButton
)

// part is one rendered span of a line together with what a click on it hits.
type part struct {
	out    string
	zone   zone
	target view.Affordance // zoneRow
	row    int             // zoneRow
	field  addField        // zoneForm
}

type line []part

func chrome(s string) line { return line{{out: s}} }

// lines lays out the whole screen. View draws it and hitTest walks it, so
// both always agree on where things are.
func (m Model) lines() []line {
	rows := m.scr.list.Rows
	ls := []line{chrome(m.header()), chrome(m.progress()), nil}

	if len(rows) == 0 {
		ls = append(ls, chrome(mutedStyle.Render("No items yet. Press a to add one.")))
	} else {
		end := m.offset + m.visibleRows()
		if end > len(rows) {
			end = len(rows)
		}
		for i := m.offset; i < end; i++ {
			ls = append(ls, m.rowLine(i, rows[i]))
		}
	}

	ls = append(ls, nil, m.formText(), m.formRest())
	if m.scr.notice != "" {
		ls = append(ls, chrome(errorStyle.Render(m.scr.notice)))
	} else {
		ls = append(ls, nil)
	}
	ls = append(ls, chrome(m.helpLine()))
	return ls
}

func (m Model) rowLine(i int, r view.Row) line {
	rowPart := func(s string, target view.Affordance) part {
		return part{out: s, zone: zoneRow, target: target, row: i}
	}

	prefix := "  "
	if i == m.cursor {
		prefix = selectedStyle.Render("> ")
	}
	box := mutedStyle.Render(boxUnchecked)
	text := r.Text
	if r.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(r.Text)
	}

	ln := line{rowPart(prefix+box+" ", view.ListRow)}
	if r.Editing && r.ID == m.editID {
		ln = append(ln, rowPart(m.edit.View(), view.EditField))
	} else {
		ln = append(ln, rowPart(text, view.ItemText))
	}
	if r.HasDue() {
		ln = append(ln, rowPart("  ", view.ListRow), rowPart(dueStyle.Render("Due: "+r.DueDate), view.DueLabel))
	}
	if r.HasPriority() {
		ln = append(ln, rowPart("  ", view.ListRow), rowPart(priorityStyle(r.Priority).Render("["+r.Priority.String()+"]"), view.PriorityLabel))
	}
	ln = append(ln, rowPart("  ", view.ListRow), rowPart(deleteStyle.Render(symDelete), view.DeleteButton))
	return ln
}

func (m Model) formText() line {
	label := mutedStyle.Render("New  ")
	if m.mode == adding {
		label = accentStyle.Render("New  ")
	}
	return line{{out: label}, {out: m.text.View(), zone: zoneForm, field: fieldText}}
}

func (m Model) formRest() line {
	prio := "‹ " + m.priority.String() + " ›"
	if m.mode == adding && m.field == fieldPriority {
		prio = selectedStyle.Render(prio)
	} else {
		prio = priorityStyle(m.priority).Render(prio)
	}
	return line{
		{out: mutedStyle.Render("Due  ")},
		{out: m.due.View(), zone: zoneForm, field: fieldDue},
		{out: mutedStyle.Render("  Priority ")},
		{out: prio, zone: zoneForm, field: fieldPriority},
		{out: "  "},
		{out: buttonStyle.Render("[ Add ]"), zone: zoneAddButton},
	}
}

// hitTest maps a terminal cell to the part under it. Past the end of a row
// line is still the row background.
func (m Model) hitTest(x, y int) part {
	cx, cy := x-frameX, y-frameY
	ls := m.lines()
	if cx < 0 || cy < 0 || cy >= len(ls) {
		return part{}
	}
	ln := ls[cy]
	col := 0
	for _, p := range ln {
		w := lipgloss.Width(p.out)
		if cx >= col && cx < col+w {
			return p
		}
		col += w
	}
	if len(ln) > 0 && ln[0].zone == zoneRow {
		return part{zone: zoneRow, target: view.ListRow, row: ln[0].row}
	}
	return part{}
}
