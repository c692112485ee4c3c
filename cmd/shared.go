/*
Copyright © 2025 cbman contributors
*/
package cmd

import (
	"fmt"
	"os"
	"strings"
)

// ----------------------- Global variables (shared across 'cmd' package)

var cli_config string = ""     // Path to viper config file [cobra persistent]
var cli_output string = ""     // Change log file written by fix
var cli_outputdir string = ""  // Output directory for converted filelists
var cli_auto bool = false      // Accept all suggested renames without prompting
var cli_dryrun bool = false    // Report what would change, touch nothing
var cli_recursive bool = false // Descend into subdirectories when scanning for archives
var cli_watch bool = false     // Keep watching the directory for newly added archives
var cli_verbose bool = false   // Provide verbose output (may have no effect)
var cli_inctth bool = false    // Include the TTH on dupe listings
var cli_roots []string         // Library roots to search during cleanup (over-rides config)
var cli_workers int = 16       // Parallel lookups during cleanup locate phase
var cli_conwidth int = defaultConnectedWidth
var cli_mergewidth int = defaultMergedWidth

// Deletion list written by cleanup. Kept separate from cli_output: each
// command registers its own --output and the defaults differ.
var cli_deletelist string = defaultDeleteList

// ----------------------- General

// Abnormal termination - break out of app, all internal fails are 10+
// All os.Exits across the app are centralised here
func abort(rc int, reason string) {
	if rc < 10 {
		if reason != "" {
			fmt.Println(reason)
		}
	} else {
		fmt.Println("Internal error: " + reason)
		fmt.Println("(Please report to help us improve this tool)")
	}
	os.Exit(rc)
}

// shellEscape makes a path safe to paste into a bash deletion list: any
// stale escapes are stripped first so characters never end up escaped twice.
func shellEscape(path string) string {
	cleaned := strings.ReplaceAll(path, `\`, "")
	for _, ch := range " []()!&;'\"`<>?|" {
		cleaned = strings.ReplaceAll(cleaned, string(ch), `\`+string(ch))
	}
	return cleaned
}

func intAsStringWithCommas(i int64) string {
	s := fmt.Sprintf("%d", i)
	switch true {
	case i < 1e3:
		return s
	case i < 1e6:
		x := len(s)
		return s[0:x-3] + "," + s[x-3:]
	case i < 1e9:
		x := len(s)
		return s[0:x-6] + "," + s[x-6:x-3] + "," + s[x-3:]
	case i < 1e12:
		x := len(s)
		return s[0:x-9] + "," + s[x-9:x-6] + "," + s[x-6:x-3] + "," + s[x-3:]
	case i < 1e15:
		return "X" + s
	}
	return s
}

// ----------------------- CLI file arguments

// Return a list of named .json filelists, with existence flags
func getJSONs(flist []string) (int, []string, []bool) {
	var jsonlist []string
	var jsonexists []bool

	for _, fn := range flist {
		// named file - check it's a valid name
		if len(fn) < 6 || !strings.EqualFold(fn[len(fn)-5:], ".json") {
			abort(6, "file '"+fn+"' does not end with '.json'")
		}
		jsonlist = append(jsonlist, fn)

		// do file read test
		fd, err := os.Open(fn)
		jsonexists = append(jsonexists, err == nil)
		fd.Close()
	}

	return len(jsonlist), jsonlist, jsonexists
}
