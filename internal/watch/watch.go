/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package watch calls back whenever a single file changes on disk.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	applog "visen/internal/log"
)

// PollInterval is the mod-time polling period used when fsnotify is unavailable.
var PollInterval = time.Second

// Run watches path and calls fn after each change, coalescing changes that
// arrive within debounce of each other. It blocks until ctx is done and then
// returns ctx.Err().
//
// The parent directory is watched rather than the file itself so that editors
// which save by renaming a temp file over the original keep triggering.
func Run(ctx context.Context, path string, debounce time.Duration, fn func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	l := applog.WithComponent("watch").With(slog.String("path", abs))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		l.Warn("fsnotify not available, falling back to polling", slog.Any("err", err))
		return poll(ctx, abs, debounce, fn)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			l.Error("close watcher failed", slog.Any("err", err))
		}
	}()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		l.Warn("watch directory failed, falling back to polling", slog.Any("err", err))
		return poll(ctx, abs, debounce, fn)
	}
	l.Debug("watcher started")

	timer := time.NewTimer(debounce)
	stopTimer(timer)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				l.Info("fsnotify watcher closed, switching to polling")
				return poll(ctx, abs, debounce, fn)
			}
			if filepath.Clean(ev.Name) != abs || !relevant(ev.Op) {
				continue
			}
			l.Debug("change detected", slog.String("op", ev.Op.String()))
			stopTimer(timer)
			timer.Reset(debounce)

		case <-timer.C:
			fn()

		case err, ok := <-watcher.Errors:
			if !ok {
				l.Info("fsnotify error channel closed, switching to polling")
				return poll(ctx, abs, debounce, fn)
			}
			l.Error("watcher error", slog.Any("err", err))
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

type stamp struct {
	mod  time.Time
	size int64
	ok   bool
}

func statStamp(path string) stamp {
	fi, err := os.Stat(path)
	if err != nil {
		return stamp{}
	}
	return stamp{mod: fi.ModTime(), size: fi.Size(), ok: true}
}

// poll is the fallback when fsnotify cannot be used. A change is a differing
// mod time or size; a missing file is not a change.
func poll(ctx context.Context, path string, debounce time.Duration, fn func()) error {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	last := statStamp(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cur := statStamp(path)
			if !cur.ok || cur == last {
				continue
			}
			last = cur
			if debounce > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(debounce):
				}
				last = statStamp(path)
			}
			fn()
		}
	}
}

// IsStopped reports whether err is the normal result of a cancelled Run.
func IsStopped(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
