// Package app wires one session's store, synchronizer and logger together.
package app

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/store"
	"github.com/idilsaglam/todolist/internal/store/kv"
	"github.com/idilsaglam/todolist/internal/view"
)

// App is the application context handed to a host.
type App struct {
	Config *config.Config
	Logger *log.Logger
	Store  *store.Store
	Sync   *view.Synchronizer
}

// New opens the list in cfg.DataDir under cfg.Key. Extra view options (the
// host's display and notifier) are applied to the synchronizer.
func New(cfg *config.Config, logger *log.Logger, opts ...view.Option) (*App, error) {
	slot, err := kv.NewFileKV(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open data dir: %w", err)
	}
	return NewWithSlot(cfg, logger, slot, opts...)
}

// NewWithSlot is New over an arbitrary persistence slot.
func NewWithSlot(cfg *config.Config, logger *log.Logger, slot kv.Slot, opts ...view.Option) (*App, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	st, err := store.Open(slot, cfg.Key, store.WithLogger(logger.WithPrefix("store")))
	if err != nil {
		return nil, err
	}
	opts = append([]view.Option{view.WithLogger(logger.WithPrefix("view"))}, opts...)
	return &App{
		Config: cfg,
		Logger: logger,
		Store:  st,
		Sync:   view.New(st, opts...),
	}, nil
}
