package app

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-playground/assert/v2"

	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/store/kv"
	"github.com/idilsaglam/todolist/internal/view"
)

func TestNewPersistsAcrossSessions(t *testing.T) {
	cfg := &config.Config{DataDir: t.TempDir(), Key: "list"}
	logger := log.New(io.Discard)

	a, err := New(cfg, logger)
	assert.Equal(t, err, nil)
	assert.Equal(t, a.Sync.HandleAction(view.Event{Target: view.AddButton, Kind: view.Click, Text: "one"}), nil)

	b, err := New(cfg, logger)
	assert.Equal(t, err, nil)
	l := b.Sync.Render()
	assert.Equal(t, l.Total(), 1)
	assert.Equal(t, l.Rows[0].Text, "one")
}

func TestNewWithSlotUsesKey(t *testing.T) {
	slot := kv.NewMemoryKV()
	a, err := NewWithSlot(&config.Config{Key: "k"}, log.New(io.Discard), slot)
	assert.Equal(t, err, nil)
	_, err = a.Store.Add("x", "", "")
	assert.Equal(t, err, nil)
	assert.Equal(t, slot.Writes("k"), 1)
}

func TestNewWithSlotNilLogger(t *testing.T) {
	a, err := NewWithSlot(&config.Config{Key: "k"}, nil, kv.NewMemoryKV())
	assert.Equal(t, err, nil)
	assert.NotEqual(t, a.Logger, nil)
	_, err = a.Store.Add("x", "", "")
	assert.Equal(t, err, nil)
}
