/*
Copyright © 2025 cbman contributors
*/
package cmd

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
)

// ----------------------- Filename search across roots -----------------------

// findFilePath searches every root in parallel for a file with the given
// base name. The first hit wins and cancels the remaining walks. The stop
// channel aborts the whole search (user quit).
func findFilePath(name string, roots []string, stop <-chan struct{}) (string, bool) {
	found := make(chan string, len(roots))
	done := make(chan struct{})

	var wg sync.WaitGroup
	for _, root := range roots {
		wg.Add(1)
		go func(root string) {
			defer wg.Done()
			if p := findInRoot(name, root, stop, done); p != "" {
				found <- p
			}
		}(root)
	}
	go func() {
		wg.Wait()
		close(found)
	}()

	p, ok := <-found
	close(done) // release the walkers still running
	return p, ok
}

// findInRoot walks one root looking for the name; empty string on a miss.
// Unreadable directories are skipped, not fatal (network mounts drop out).
func findInRoot(name, root string, stop, done <-chan struct{}) string {
	var hit string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Debug("skipping during search", "path", path, "err", err)
			return nil
		}
		select {
		case <-stop:
			return fs.SkipAll
		case <-done:
			return fs.SkipAll
		default:
		}
		if !d.IsDir() && d.Name() == name {
			hit = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		slog.Debug("search failed", "root", root, "err", err)
	}
	return hit
}
