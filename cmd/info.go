/*
Copyright © 2025 cbman contributors
*/
package cmd

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info list.json ...",
	Short: "Basic information about filelist(s)",
	Long: `Produces a one-line summary per filelist: number of entries and total bytes
shared.  Rejects files that are not valid converted filelists.  Works with up
to 99 files - e.g. use 'cbman info *.json'.`,
	Aliases: []string{"inf"},
	Args:    cobra.MaximumNArgs(99),
	GroupID: "G1",
	Run: func(cmd *cobra.Command, args []string) {
		inf(args)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// ----------------------- Info function below this line -----------------------

func inf(args []string) {
	// Process CLI and perform sanity checks
	num, files, found := getJSONs(args)
	slog.Debug("cli handler", "num", num, "files", files, "found", found)
	switch true {
	case num > 99:
		abort(8, "Too many filelists")
	case num < 1:
		abort(9, "You need to give at least one filelist")
	}

	// Calculate longest filename (for reporting), and issue missing file rejections
	longestFileName := 0
	for i := range num {
		if !found[i] {
			fmt.Printf("File '%s' not found\n", files[i])
			continue
		}
		if len(files[i]) > longestFileName {
			longestFileName = len(files[i])
		}
	}

	for i := range num {
		if !found[i] {
			// dead files reported earlier
			continue
		}

		entries, err := loadFilelist(files[i])
		if err != nil {
			slog.Debug("file reject", "fn", files[i], "reason", err)
			fmt.Printf("File %s: invalid format\n", files[i])
			continue
		}

		var numBytes int64
		badSizes := 0
		for _, entry := range entries {
			n, err := strconv.ParseInt(entry.Size, 10, 64)
			if err != nil {
				badSizes++
				continue
			}
			numBytes += n
		}
		if badSizes > 0 {
			slog.Debug("unparseable sizes", "fn", files[i], "count", badSizes)
		}

		fmt.Printf("%-"+strconv.Itoa(longestFileName)+"s  ", files[i])
		fmt.Printf("%9sx  ", intAsStringWithCommas(int64(len(entries))))
		fmt.Printf("%19s\n", intAsStringWithCommas(numBytes))
	}
}
