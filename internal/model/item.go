package model

import (
	"fmt"
	"strings"
)

// Item is the domain model for a todo entry.
// Field order is the serialized order.
type Item struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	DueDate   *string  `json:"dueDate"`
	Priority  Priority `json:"priority"`
}

// Due returns the due date or "" when unset.
func (it Item) Due() string {
	if it.DueDate == nil {
		return ""
	}
	return *it.DueDate
}

// DuePtr normalizes a user-supplied due date: blank means no due date.
func DuePtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Priority is the string-valued priority label of an item.
type Priority string

const (
	Low    Priority = "Low"
	Medium Priority = "Medium"
	High   Priority = "High"
)

// Priorities lists the labels in cycling order.
var Priorities = []Priority{Low, Medium, High}

// ParsePriority accepts any casing; empty input means Medium.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Medium, nil
	case "low", "l":
		return Low, nil
	case "medium", "med", "m":
		return Medium, nil
	case "high", "h":
		return High, nil
	}
	return "", fmt.Errorf("unknown priority %q (want Low, Medium or High)", s)
}

func (p Priority) Valid() bool {
	switch p {
	case Low, Medium, High:
		return true
	}
	return false
}

// Next cycles Low -> Medium -> High -> Low.
func (p Priority) Next() Priority {
	for i, q := range Priorities {
		if q == p {
			return Priorities[(i+1)%len(Priorities)]
		}
	}
	return Medium
}

// Prev cycles in the opposite direction.
func (p Priority) Prev() Priority {
	for i, q := range Priorities {
		if q == p {
			return Priorities[(i+len(Priorities)-1)%len(Priorities)]
		}
	}
	return Medium
}

func (p Priority) String() string { return string(p) }
