package main

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 200 * time.Millisecond

// watch generates once, then again after every burst of source changes in
// the loaded package directories, until ctx is done.
func (r *runner) watch(ctx context.Context) int {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		r.log.Error("starting watcher", "error", err)
		return exitFail
	}
	defer watcher.Close()

	watched := make(map[string]bool)

	regenerate := func() {
		if err := r.generate(ctx); err != nil {
			r.log.Error("generation failed", "error", err)
		}

		for _, dir := range r.loader.Dirs() {
			if watched[dir] {
				continue
			}

			if err := watcher.Add(dir); err != nil {
				r.log.Warn("cannot watch directory", "dir", dir, "error", err)
				continue
			}

			watched[dir] = true
		}
	}

	regenerate()
	r.log.Info("watching for changes", "dirs", len(watched))

	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			r.log.Info("stopped watching")
			return exitOK

		case ev, ok := <-watcher.Events:
			if !ok {
				return exitOK
			}

			if r.relevant(ev) {
				r.log.Debug("source changed", "path", ev.Name, "op", ev.Op.String())
				debounce = time.After(debounceDelay)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return exitOK
			}

			r.log.Warn("watch error", "error", err)

		case <-debounce:
			debounce = nil
			regenerate()
		}
	}
}

// relevant reports whether ev touches a Go source file that is not one of
// the generated artifacts.
func (r *runner) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Base(ev.Name)
	if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
		return false
	}

	for _, suffix := range r.cfg.SkipSuffixes() {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}

	return true
}
