/*
Copyright © 2025 cbman contributors
*/
package cmd

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
)

// ----------------------- Archive discovery -----------------------

// The scan queue is channel based: a producer recurses the tree and
// serves the path of each regular file. Symlinks are ignored; unreadable
// directories are reported and skipped.

func walkTreeToChannel(startpath string, c chan string) {
	entries, err := os.ReadDir(startpath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Skipping directory: %s\n", startpath)
		return
	}

	// step through contents of this dir
	for _, entry := range entries {
		if !entry.IsDir() {
			if !entry.Type().IsRegular() {
				// we ignore symlinks
				continue
			}

			c <- path.Join(startpath, entry.Name())
		} else {
			// it's a directory - dig down
			walkTreeToChannel(path.Join(startpath, entry.Name()), c)
		}
	}
}

// findArchives collects the supported archives under dir, sorted. With
// recurse false only the top level is considered, matching how a person
// points the tool at one folder of a collection.
func findArchives(dir string, recurse bool) []string {
	var archives []string

	if recurse {
		fileQueue := make(chan string, 4096)
		go func() {
			defer close(fileQueue)
			walkTreeToChannel(dir, fileQueue)
		}()
		for fn := range fileQueue {
			if isSupportedArchive(fn) {
				archives = append(archives, fn)
			}
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			abort(4, "Can't read directory "+dir)
		}
		for _, entry := range entries {
			if entry.IsDir() || !entry.Type().IsRegular() {
				continue
			}
			if isSupportedArchive(entry.Name()) {
				archives = append(archives, path.Join(dir, entry.Name()))
			}
		}
	}

	sort.Strings(archives)
	return archives
}

// isSupportedArchive reports whether fn names a container we can open.
func isSupportedArchive(fn string) bool {
	switch strings.ToLower(path.Ext(fn)) {
	case extCBZ, extZIP, extCBR, extRAR:
		return true
	}
	return false
}

func isRarArchive(fn string) bool {
	ext := strings.ToLower(path.Ext(fn))
	return ext == extCBR || ext == extRAR
}
