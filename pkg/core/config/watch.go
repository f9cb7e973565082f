// ============================================================================
// meinAFFE (mAF) - Monkey-Sprachwerkzeuge
// ============================================================================
//
// Package:     config
// Description: Hot reload of the configuration file via fsnotify
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/msto63/mAF/foundation/core/error"
)

// ChangeHandler receives the freshly loaded configuration
type ChangeHandler func(cfg *Config)

// ErrorHandler receives watcher and reload errors
type ErrorHandler func(err error)

// debounceDelay collapses the burst of events editors emit on save
const debounceDelay = 200 * time.Millisecond

// Watch reloads path whenever it is written, created or renamed into place
// and passes the result to onChange. The parent directory is watched
// because many editors replace the file instead of writing it. Watch
// returns once the watcher is set up; it stops when ctx is done.
func Watch(ctx context.Context, path string, onChange ChangeHandler, onError ErrorHandler) error {
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "failed to create config watcher").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Watch")
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return mdwerror.Wrap(err, "failed to watch config directory").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.Watch").
			WithDetail("path", path)
	}

	if onError == nil {
		onError = func(error) {}
	}

	go watchLoop(ctx, watcher, path, onChange, onError)

	return nil
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, onChange ChangeHandler, onError ErrorHandler) {
	defer watcher.Close()

	var lastReload time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if time.Since(lastReload) < debounceDelay {
				continue
			}
			lastReload = time.Now()

			cfg, err := Load(path)
			if err != nil {
				onError(err)
				continue
			}
			if onChange != nil {
				onChange(cfg)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			onError(mdwerror.Wrap(err, "config watcher error").
				WithCode(mdwerror.CodeConfigError).
				WithOperation("config.Watch"))
		}
	}
}
