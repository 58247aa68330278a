// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/sksc"
)

// settleDelay batches the burst of events an editor save produces.
const settleDelay = 100 * time.Millisecond

// watchDirs returns the directories to watch for the given inputs.
func watchDirs(files []string, patterns []pattern) []string {
	seen := map[string]bool{}
	var dirs []string
	add := func(d string) {
		d = filepath.Clean(d)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	for _, f := range files {
		add(filepath.Dir(f))
	}
	for _, p := range patterns {
		if p.g != nil {
			add(p.root)
		}
	}
	sort.Strings(dirs)
	return dirs
}

// watch rebuilds inputs as they change until ctx is done. Files created
// later that match a glob are picked up too.
func (b *builder) watch(ctx context.Context, files []string, patterns []pattern) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, d := range watchDirs(files, patterns) {
		if err := w.Add(d); err != nil {
			return err
		}
	}
	sksc.Logger().Info("skshaderc: watching", "dirs", w.WatchList())

	pending := map[string]bool{}
	timer := time.NewTimer(settleDelay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			b.printf("watch error: %v\n", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if info, err := os.Stat(ev.Name); err != nil || info.IsDir() {
				continue
			}
			if matchAny(patterns, ev.Name) {
				pending[filepath.Clean(ev.Name)] = true
				timer.Reset(settleDelay)
			}
		case <-timer.C:
			batch := make([]string, 0, len(pending))
			for f := range pending {
				batch = append(batch, f)
			}
			sort.Strings(batch)
			clear(pending)
			if _, err := b.buildAll(ctx, batch); err != nil {
				return err
			}
		}
	}
}
