package view

import "github.com/idilsaglam/todolist/internal/model"

// Row is the rendered projection of one item.
type Row struct {
	ID        string
	Text      string
	DueDate   string // empty hides the due label
	Priority  model.Priority
	Completed bool

	Editing  bool
	EditText string // pre-filled field value while Editing
}

// HasDue reports whether the due label is shown.
func (r Row) HasDue() bool { return r.DueDate != "" }

// HasPriority reports whether the priority label is shown.
func (r Row) HasPriority() bool { return r.Priority != "" }

// List is the full rendered tree, rows in store order.
type List struct {
	Rows    []Row
	Done    int
	Pending int
}

func (l List) Total() int { return len(l.Rows) }

// Display receives every rendered list.
type Display interface {
	Show(List)
}

// Notifier receives blocking user notices such as validation failures.
type Notifier interface {
	Notify(msg string)
}

func rowFor(it model.Item) Row {
	return Row{
		ID:        it.ID,
		Text:      it.Text,
		DueDate:   it.Due(),
		Priority:  it.Priority,
		Completed: it.Completed,
	}
}
