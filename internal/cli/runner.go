package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/idilsaglam/todolist/internal/app"
	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/store"
	"github.com/idilsaglam/todolist/internal/ui"
	"github.com/idilsaglam/todolist/internal/view"
)

// Options tune output behavior from root flags.
type Options struct {
	Group bool // list grouped by pending/done
	// Interactive runs the full-screen list; nil disables the ui subcommand.
	Interactive func(*app.App) error
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(a *app.App, args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return doList(a, opt)

	case "add":
		return doAdd(a, rest)

	case "done":
		return withIndex(a, "done", rest, 1, func(it model.Item, _ []string) int {
			return save(a.Store.ToggleComplete(it.ID), "toggled")
		})

	case "rm":
		return withIndex(a, "rm", rest, 1, func(it model.Item, _ []string) int {
			return save(a.Store.Remove(it.ID), "removed")
		})

	case "edit":
		return withIndex(a, "edit", rest, 2, func(it model.Item, more []string) int {
			return save(a.Store.UpdateText(it.ID, strings.Join(more, " ")), "updated")
		})

	case "due":
		return withIndex(a, "due", rest, 1, func(it model.Item, more []string) int {
			msg := "due date set"
			if len(more) == 0 {
				msg = "due date cleared"
			}
			return save(a.Store.UpdateDueDate(it.ID, strings.Join(more, " ")), msg)
		})

	case "priority":
		return withIndex(a, "priority", rest, 2, func(it model.Item, more []string) int {
			p, err := model.ParsePriority(more[0])
			if err != nil {
				ui.Fail("priority: " + err.Error())
				return 2
			}
			return save(a.Store.UpdatePriority(it.ID, p), "priority set")
		})

	case "ui":
		if opt.Interactive == nil {
			ui.Fail("ui: not available")
			return 1
		}
		if err := opt.Interactive(a); err != nil {
			ui.Fail("ui: " + err.Error())
			return 1
		}
		return 0
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(ui.Err)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Fprint(ui.Out, `todo - a tiny to-do list

Usage:
  todo [flags] <subcommand> [args]

Subcommands:
  add [-due DATE] [-priority P] <text...>   Add a new item
  ls                                        List items
  done <index>                              Toggle done for item at 1-based index
  rm <index>                                Remove item at 1-based index
  edit <index> <text...>                    Replace the text of an item
  due <index> [DATE]                        Set or clear the due date
  priority <index> <Low|Medium|High>        Set the priority
  ui                                        Interactive list

Flags:
  -data DIR  -key NAME  -theme classic|neon|mono  -color auto|always|never
  -group  -log-level LEVEL  -log-file PATH

Examples:
  todo add -due 2024-01-01 -priority High "Buy milk"
  todo ls
  todo done 2
  todo rm 3
`)
}

// -------------- subcommand impls ----------------

func doList(a *app.App, opt Options) int {
	list := a.Sync.Render()
	t := ui.Current()

	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Todos"),
		ui.C(t.Success, t.SymDone), list.Done,
		ui.C(t.Pending, t.SymPending), list.Pending,
		ui.C(t.Accent, "Total"), list.Total(),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(list.Done, list.Total(), 28)))
	lines = append(lines, "")

	if opt.Group {
		lines = append(lines, groupLines(list.Rows)...)
	} else {
		lines = append(lines, flatLines(list.Rows, nil)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(lines)
	return 0
}

func doAdd(a *app.App, args []string) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	due := fs.String("due", "", "due date")
	prio := fs.String("priority", "", "Low, Medium or High")
	if err := fs.Parse(args); err != nil {
		ui.Fail("usage: todo add [-due DATE] [-priority P] <text...>")
		return 2
	}
	p, err := model.ParsePriority(*prio)
	if err != nil {
		ui.Fail("add: " + err.Error())
		return 2
	}
	_, err = a.Store.Add(strings.Join(fs.Args(), " "), *due, p)
	if errors.Is(err, store.ErrValidation) {
		ui.Fail("add: " + err.Error())
		return 2
	}
	return save(err, "added")
}

// withIndex resolves the 1-based index in args[0] and hands the item and the
// remaining args to fn. need is the minimum arg count.
func withIndex(a *app.App, name string, args []string, need int, fn func(model.Item, []string) int) int {
	if len(args) < need {
		ui.Fail(fmt.Sprintf("usage: %s", usage(name)))
		return 2
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		ui.Fail(name + ": not a number: " + args[0])
		return 2
	}
	items := a.Store.Items()
	if n < 1 || n > len(items) {
		ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(items), n))
		ui.Hint("run `todo ls` to see valid indexes")
		return 2
	}
	return fn(items[n-1], args[1:])
}

func usage(name string) string {
	switch name {
	case "edit":
		return "todo edit <index> <text...>"
	case "due":
		return "todo due <index> [DATE]"
	case "priority":
		return "todo priority <index> <Low|Medium|High>"
	}
	return "todo " + name + " <index>"
}

func save(err error, msg string) int {
	switch {
	case err == nil:
		ui.OK(msg)
		return 0
	case errors.Is(err, store.ErrValidation):
		ui.Fail(err.Error())
		return 2
	}
	ui.Fail("save: " + err.Error())
	return 1
}

// -------------- rendering helpers --------------

// flatLines numbers rows by their store position; pos maps a row id to that
// position when rows is a subset.
func flatLines(rows []view.Row, pos map[string]int) []string {
	t := ui.Current()
	if len(rows) == 0 {
		return []string{ui.C(t.Muted, "no items")}
	}
	out := make([]string, 0, len(rows))
	for i, r := range rows {
		n := i + 1
		if p, ok := pos[r.ID]; ok {
			n = p
		}
		box, c := t.BoxUnchecked, t.Muted
		if r.Completed {
			box, c = t.BoxChecked, t.Success
		}
		text := r.Text
		if len([]rune(text)) > 80 {
			text = string([]rune(text)[:77]) + "..."
		}
		line := fmt.Sprintf("%s %s %s", ui.C(t.Muted, fmt.Sprintf("%2d.", n)), ui.C(c, box), text)
		if r.HasDue() {
			line += "  " + ui.C(t.Accent, "Due: "+r.DueDate)
		}
		if r.HasPriority() {
			line += "  " + ui.C(t.PriorityColor(r.Priority), "["+r.Priority.String()+"]")
		}
		out = append(out, line)
	}
	return out
}

func groupLines(rows []view.Row) []string {
	t := ui.Current()
	pos := make(map[string]int, len(rows))
	var pend, done []view.Row
	for i, r := range rows {
		pos[r.ID] = i + 1
		if r.Completed {
			done = append(done, r)
		} else {
			pend = append(pend, r)
		}
	}
	var lines []string
	lines = append(lines, ui.C(t.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend, pos)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done, pos)...)
	}
	return lines
}
