package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/liffevent/viewrouter/rgen"
)

const debounceDelay = 100 * time.Millisecond

// watchConfigs regenerates a directory's routes whenever its config file
// is written.  It blocks until ctx is done.
func watchConfigs(ctx context.Context, logger *zap.Logger, gens []*rgen.Generator) error {

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	byConfig := make(map[string]*rgen.Generator, len(gens))
	for _, g := range gens {
		p, err := g.ConfigPath()
		if err != nil {
			return err
		}
		byConfig[filepath.Clean(p)] = g
		// watch the directory so editors that replace the file are seen
		if err := w.Add(filepath.Dir(p)); err != nil {
			return err
		}
		logger.Info("watching route config", zap.String("config", p))
	}

	pending := make(map[string]*rgen.Generator)
	var debounce <-chan time.Time

	for {
		select {

		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			g, ok := byConfig[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			logger.Debug("route config changed", zap.String("config", ev.Name), zap.String("op", ev.Op.String()))
			pending[ev.Name] = g
			debounce = time.After(debounceDelay)

		case <-debounce:
			debounce = nil
			for name, g := range pending {
				_ = generate(logger, g)
				delete(pending, name)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", zap.Error(err))
		}
	}
}
