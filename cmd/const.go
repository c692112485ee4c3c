/*
Copyright © 2025 cbman contributors
*/
package cmd

// Archive containers
const (
	extCBZ string = ".cbz" // zip container (native)
	extZIP string = ".zip"
	extCBR string = ".cbr" // rar container (read-only - rewritten as .cbz)
	extRAR string = ".rar"
)

// Page-number width conventions. Historical scans disagree: pages joined
// by a separator ("GL57-020+021.jpg") use 3-digit numbers, while
// concatenated runs ("023-1213.jpg") are two 2-digit numbers back to back.
// Both are adjustable per run (see 'fix' flags).
const (
	defaultConnectedWidth int = 3
	defaultMergedWidth    int = 2
)

// Default name of the deletion list produced by 'cleanup'
const defaultDeleteList = "todelete.txt"
