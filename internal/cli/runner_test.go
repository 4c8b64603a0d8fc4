package cli

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/go-playground/assert/v2"

	"github.com/idilsaglam/todolist/internal/app"
	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/store/kv"
	"github.com/idilsaglam/todolist/internal/ui"
)

type harness struct {
	app  *app.App
	slot *kv.MemoryKV
	out  *bytes.Buffer
	err  *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{slot: kv.NewMemoryKV(), out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	a, err := app.NewWithSlot(&config.Config{Key: "todos"}, log.New(io.Discard), h.slot)
	assert.Equal(t, err, nil)
	h.app = a

	prevOut, prevErr, prevNoColor := ui.Out, ui.Err, color.NoColor
	ui.Out, ui.Err = h.out, h.err
	ui.SetTheme("mono")
	t.Cleanup(func() {
		ui.Out, ui.Err, color.NoColor = prevOut, prevErr, prevNoColor
		ui.SetTheme("classic")
	})
	return h
}

func (h *harness) run(args ...string) int {
	h.out.Reset()
	h.err.Reset()
	return Run(h.app, args, Options{})
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, h.run("add", "-due", "2024-01-01", "-priority", "high", "Buy", "milk"), 0)
	assert.Equal(t, h.out.String(), "x added\n")
	assert.Equal(t, h.run("add", "Walk dog"), 0)

	assert.Equal(t, h.run("ls"), 0)
	out := h.out.String()
	assert.Equal(t, strings.Contains(out, " 1. [ ] Buy milk  Due: 2024-01-01  [High]"), true)
	assert.Equal(t, strings.Contains(out, " 2. [ ] Walk dog  [Medium]"), true)
	assert.Equal(t, strings.Contains(out, "Total 2"), true)
}

func TestAddRejectsBlank(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, h.run("add", "   "), 2)
	assert.Equal(t, strings.Contains(h.err.String(), "Please enter a to-do item."), true)
	assert.Equal(t, h.slot.Writes("todos"), 0)

	assert.Equal(t, h.run("add", "-priority", "urgent", "x"), 2)
	assert.Equal(t, h.app.Store.Len(), 0)
}

func TestDoneEditRm(t *testing.T) {
	h := newHarness(t)
	h.run("add", "a")
	h.run("add", "b")

	assert.Equal(t, h.run("done", "2"), 0)
	items := h.app.Store.Items()
	assert.Equal(t, items[1].Completed, true)

	assert.Equal(t, h.run("edit", "1", "alpha", "beta"), 0)
	assert.Equal(t, h.app.Store.Items()[0].Text, "alpha beta")

	assert.Equal(t, h.run("edit", "1", " "), 2)
	assert.Equal(t, h.app.Store.Items()[0].Text, "alpha beta")

	assert.Equal(t, h.run("due", "1", "2030-12-31"), 0)
	assert.Equal(t, h.app.Store.Items()[0].Due(), "2030-12-31")
	assert.Equal(t, h.run("due", "1"), 0)
	assert.Equal(t, h.out.String(), "x due date cleared\n")

	assert.Equal(t, h.run("priority", "1", "low"), 0)
	assert.Equal(t, h.app.Store.Items()[0].Priority, model.Low)
	assert.Equal(t, h.run("priority", "1", "whenever"), 2)

	assert.Equal(t, h.run("rm", "1"), 0)
	assert.Equal(t, h.app.Store.Len(), 1)
	assert.Equal(t, h.app.Store.Items()[0].Text, "b")
}

func TestIndexErrors(t *testing.T) {
	h := newHarness(t)
	h.run("add", "a")

	assert.Equal(t, h.run("done"), 2)
	assert.Equal(t, strings.Contains(h.err.String(), "usage: todo done <index>"), true)
	assert.Equal(t, h.run("rm", "x"), 2)
	assert.Equal(t, strings.Contains(h.err.String(), "rm: not a number: x"), true)
	assert.Equal(t, h.run("done", "5"), 2)
	assert.Equal(t, strings.Contains(h.err.String(), "index out of range: have 1, got 5"), true)
	assert.Equal(t, strings.Contains(h.err.String(), "Hint:"), true)
	assert.Equal(t, h.run("edit", "1"), 2)
}

func TestGroupedList(t *testing.T) {
	h := newHarness(t)
	h.run("add", "a")
	h.run("add", "b")
	h.run("done", "1")

	h.out.Reset()
	assert.Equal(t, Run(h.app, []string{"ls"}, Options{Group: true}), 0)
	out := h.out.String()
	pend := strings.Index(out, "Pending")
	done := strings.Index(out, "Done")
	assert.Equal(t, pend >= 0 && done > pend, true)
	// numbering follows store order, not group order
	assert.Equal(t, strings.Index(out, " 2. [ ] b") < done, true)
	assert.Equal(t, strings.Index(out, " 1. [x] a") > done, true)
}

func TestEmptyList(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, h.run("ls"), 0)
	assert.Equal(t, strings.Contains(h.out.String(), "no items"), true)
}

func TestUnknownAndHelp(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, h.run("frobnicate"), 2)
	assert.Equal(t, strings.Contains(h.err.String(), "unknown subcommand: frobnicate"), true)
	assert.Equal(t, h.run("help"), 0)
	assert.Equal(t, strings.Contains(h.out.String(), "Subcommands:"), true)
	assert.Equal(t, h.run(), 2)
}

func TestInteractive(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, h.run("ui"), 1)

	called := false
	code := Run(h.app, []string{"ui"}, Options{Interactive: func(a *app.App) error {
		called = a == h.app
		return nil
	}})
	assert.Equal(t, code, 0)
	assert.Equal(t, called, true)

	code = Run(h.app, []string{"ui"}, Options{Interactive: func(*app.App) error { return errors.New("no tty") }})
	assert.Equal(t, code, 1)
}
