package view

import "github.com/idilsaglam/todolist/internal/model"

// Affordance identifies what an event landed on.
type Affordance int

const (
	AddButton Affordance = iota + 1
	NewItemInput
	ListRow // the row background
	ItemText
	DueLabel
	PriorityLabel
	DeleteButton
	EditField
)

func (a Affordance) String() string {
	switch a {
	case AddButton:
		return "add-button"
	case NewItemInput:
		return "new-item-input"
	case ListRow:
		return "row"
	case ItemText:
		return "text"
	case DueLabel:
		return "due-label"
	case PriorityLabel:
		return "priority-label"
	case DeleteButton:
		return "delete-button"
	case EditField:
		return "edit-field"
	}
	return "unknown"
}

// Kind is the interaction that produced an event.
type Kind int

const (
	Click Kind = iota + 1
	ConfirmKey
	FocusLoss
)

func (k Kind) String() string {
	switch k {
	case Click:
		return "click"
	case ConfirmKey:
		return "confirm-key"
	case FocusLoss:
		return "focus-loss"
	}
	return "unknown"
}

// Event is one discrete UI action. ID names the row for row-level targets;
// Text carries the input value for add and edit-field events, DueDate and
// Priority the rest of the add form.
type Event struct {
	Target   Affordance
	Kind     Kind
	ID       string
	Text     string
	DueDate  string
	Priority model.Priority
}
