/*
Copyright © 2025 cbman contributors
*/
package cmd

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"
)

// dupesCmd represents the dupes command
var dupesCmd = &cobra.Command{
	Use:   "dupes mine.json",
	Short: "Detect multiple copies of same file / generate 'rm' declutter list",
	Long: `Scans a filelist looking for repeated TTHs, and generates a list of the duplicates
as commented-out bash instructions to delete the files.  Edit this to decide which
to delete as appropriate.`,
	Aliases: []string{"dup"},
	GroupID: "G2",
	Args:    cobra.MaximumNArgs(99), // handle in code
	Run: func(cmd *cobra.Command, args []string) {
		dup(args)
	},
}

func init() {
	rootCmd.AddCommand(dupesCmd)

	dupesCmd.Flags().BoolVarP(&cli_inctth, "include-tth", "", false, "Include TTH on any output")
}

// ----------------------- Dupes function below this line -----------------------

func dup(args []string) {
	// Make sure we have a single input file that exists / error appropriately
	num, files, found := getJSONs(args)
	slog.Debug("cli handler", "num", num, "files", files, "found", found)
	switch true {
	case num > 1:
		abort(8, "Too many .json files specified - expected one")
	case num < 1:
		abort(9, "Need a filelist to perform dupe-check")
	case !found[0]:
		abort(6, "Input filelist '"+files[0]+"' does not exist")
	}

	entries, err := loadFilelist(files[0])
	if err != nil {
		abort(4, "Cannot load "+files[0]+": "+err.Error())
	}
	fmt.Printf("Valid filelist with %d records\n", len(entries))

	blocks := collectDupeBlocks(entries)
	fmt.Printf("Filelist %s has %d duplicate TTHs\n", files[0], len(blocks))

	if len(blocks) == 0 {
		abort(0, fmt.Sprintf("There are no duplicated files in '%s'", files[0]))
	}

	// pretty print the commands
	for _, b := range blocks {
		if cli_inctth {
			fmt.Println("# " + b.tth)
		}
		for _, name := range b.names {
			fmt.Println("#rm \"" + shellEscape(name) + "\"")
		}
		fmt.Println("")
	}
}

// dupeBlock is one repeated TTH with every name that carries it, in
// filelist order.
type dupeBlock struct {
	tth   string
	names []string
}

// collectDupeBlocks buckets entries by TTH and keeps the repeated ones,
// ordered by lead name then TTH. Distinct TTHs sharing a lead name each
// keep their own block.
func collectDupeBlocks(entries []fileEntry) []dupeBlock {
	byTTH := map[string][]string{}
	for _, entry := range entries {
		byTTH[entry.TTH] = append(byTTH[entry.TTH], entry.Name)
	}

	var blocks []dupeBlock
	for tth, names := range byTTH {
		if len(names) < 2 {
			continue
		}
		blocks = append(blocks, dupeBlock{tth: tth, names: names})
	}
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].names[0] != blocks[j].names[0] {
			return blocks[i].names[0] < blocks[j].names[0]
		}
		return blocks[i].tth < blocks[j].tth
	})
	return blocks
}
