package ui

import (
	"strings"

	"github.com/fatih/color"

	"github.com/idilsaglam/todolist/internal/model"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                          string
	Title, Muted, Accent, Success, Error, Pending *color.Color
	Low, Medium, High                             *color.Color
	BoxUnchecked, BoxChecked                      string
	CornerTL, CornerTR, CornerBL, CornerBR        string
	H, V                                          string
	SymDone, SymPending                           string
}

var current Theme

func init() { SetTheme("classic") }

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Name:  "neon",
			Title: color.New(color.FgHiMagenta, color.Bold),
			Muted: color.New(color.FgHiBlack), Accent: color.New(color.FgHiCyan),
			Success: color.New(color.FgHiGreen), Error: color.New(color.FgHiRed), Pending: color.New(color.FgHiYellow),
			Low: color.New(color.FgHiBlue), Medium: color.New(color.FgHiYellow), High: color.New(color.FgHiRed, color.Bold),
			BoxUnchecked: "◻", BoxChecked: "◼",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymDone: "✔", SymPending: "•",
		}
	case "mono":
		color.NoColor = true
		current = Theme{
			Name:         "mono",
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymDone: "x", SymPending: "-",
		}
	default: // classic
		current = Theme{
			Name:  "classic",
			Title: color.New(color.Bold), Muted: color.New(color.FgHiBlack), Accent: color.New(color.FgBlue),
			Success: color.New(color.FgGreen), Error: color.New(color.FgRed), Pending: color.New(color.FgYellow),
			Low: color.New(color.FgCyan), Medium: color.New(color.FgYellow), High: color.New(color.FgRed, color.Bold),
			BoxUnchecked: "☐", BoxChecked: "☑",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			SymDone: "✔", SymPending: "•",
		}
	}
}

// Expose what renderers need
func Current() Theme { return current }

// PriorityColor picks the tag color for p.
func (t Theme) PriorityColor(p model.Priority) *color.Color {
	switch p {
	case model.Low:
		return t.Low
	case model.High:
		return t.High
	}
	return t.Medium
}
