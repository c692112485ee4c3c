/*
Copyright © 2025 cbman contributors
*/
package cmd

import (
	"fmt"
	"regexp"
	"strings"
)

// ----------------------- Double-page filename detection -----------------------

// Scanners sometimes merge two consecutive pages into one image, and the
// resulting filename carries both page numbers: either joined by a
// separator ("GL57-020+021.jpg") or concatenated outright ("023-1213.jpg").
// The splitter recognises both shapes and proposes a corrected name where
// word separators become underscores and only the page boundary keeps
// a hyphen ("GL57_020-021.jpg").

// pageMatch holds the pieces of a filename that encodes a merged double
// page number. prefix is everything before the separator that introduced
// the numbers; ext keeps the original case of the extension.
type pageMatch struct {
	prefix string
	first  string
	second string
	ext    string
}

// splitter detects double-page numbers in archive entry names. It holds
// no mutable state once built, so one instance may serve any number of
// goroutines.
type splitter struct {
	connected *regexp.Regexp // [-+&]NNN[-+&]NNN.ext at end of name
	merged    *regexp.Regexp // [-+&]NNNN.ext at end of name
	half      int            // digits per page in the merged run
}

// newSplitter compiles the two detection patterns. connectedWidth is the
// digits per number in the joined form; mergedWidth is the digits per
// number in the concatenated form (the run is twice that long).
func newSplitter(connectedWidth, mergedWidth int) *splitter {
	return &splitter{
		connected: regexp.MustCompile(fmt.Sprintf(
			`[-+&](\d{%d})[-+&](\d{%d})(\.(?i:jpe?g|png))$`, connectedWidth, connectedWidth)),
		merged: regexp.MustCompile(fmt.Sprintf(
			`[-+&](\d{%d})(\.(?i:jpe?g|png))$`, mergedWidth*2)),
		half: mergedWidth,
	}
}

// detect classifies name as carrying a merged double page number, or not.
// Joined pairs take priority over concatenated runs; the first rule to hit
// wins outright. Both patterns are anchored so the extension must end the
// name. Returns nil when neither rule applies - any string is acceptable
// input.
func (sp *splitter) detect(name string) *pageMatch {
	if m := sp.connected.FindStringSubmatchIndex(name); m != nil {
		return &pageMatch{
			prefix: name[:m[0]],
			first:  name[m[2]:m[3]],
			second: name[m[4]:m[5]],
			ext:    name[m[6]:m[7]],
		}
	}
	if m := sp.merged.FindStringSubmatchIndex(name); m != nil {
		run := name[m[2]:m[3]]
		return &pageMatch{
			prefix: name[:m[0]],
			first:  run[:sp.half],
			second: run[sp.half:],
			ext:    name[m[4]:m[5]],
		}
	}
	return nil
}

// suggestName builds the corrected entry name from a match: hyphens in the
// prefix become underscores (they are word separators), while the boundary
// between the two page numbers is always a hyphen, so a reader can tell
// "this hyphen means two pages" from "this hyphen means word break". The
// digits and the extension case pass through untouched.
func (sp *splitter) suggestName(m *pageMatch) string {
	return strings.ReplaceAll(m.prefix, "-", "_") + "_" + m.first + "-" + m.second + m.ext
}
