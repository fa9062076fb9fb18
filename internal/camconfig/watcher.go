// Frontline Perception System
// Copyright (C) 2020-2025 TurbineOne LLC
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package camconfig hot-reloads the demo host's camera list from a YAML
// file, so cameras can be added, retargeted, or removed without a process
// restart.
package camconfig

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher watches path and calls loader fresh on every debounced change,
// fanning the result out to every registered handler.
type Watcher[T any] struct {
	path     string
	debounce time.Duration
	loader   func(path string) (T, error)

	mu       sync.RWMutex
	handlers []func(T)

	watcher *fsnotify.Watcher
	log     zerolog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

// New constructs a Watcher for path with a 1.5s change-debounce.
func New[T any](path string, loader func(string) (T, error), log zerolog.Logger) *Watcher[T] {
	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher[T]{
		path:     path,
		debounce: 1500 * time.Millisecond,
		loader:   loader,
		log:      log.With().Str("component", "camconfig").Str("path", path).Logger(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// OnReload registers handler to run with every freshly loaded value.
func (w *Watcher[T]) OnReload(handler func(T)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.handlers = append(w.handlers, handler)
}

// Start begins watching the file in the background.
func (w *Watcher[T]) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := fw.Add(w.path); err != nil {
		fw.Close()

		return err
	}

	w.watcher = fw

	w.log.Info().Dur("debounce", w.debounce).Msg("watching config file")

	go w.watch()

	return nil
}

// Stop stops the watcher and releases its file handle.
func (w *Watcher[T]) Stop() error {
	w.cancel()

	if w.watcher != nil {
		return w.watcher.Close()
	}

	return nil
}

func (w *Watcher[T]) watch() {
	var timer *time.Timer

	var timerC <-chan time.Time

	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}

			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if timer != nil {
					timer.Stop()
				}

				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			}

		case <-timerC:
			w.loadAndNotify()
			timerC = nil

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			w.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher[T]) loadAndNotify() {
	value, err := w.loader(w.path)
	if err != nil {
		w.log.Warn().Err(err).Msg("reload failed, keeping previous config")

		return
	}

	w.mu.RLock()
	handlers := make([]func(T), len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.RUnlock()

	for _, h := range handlers {
		h(value)
	}
}
