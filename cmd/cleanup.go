/*
Copyright © 2025 cbman contributors
*/
package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// -------------------------------- Cobra management -------------------------------

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup mine.json first.json second.json third.json",
	Short: "Diff four filelists by TTH / build deletion list for unique files",
	Long: `cbman cleanup
Compares your filelist against three larger collections by content hash (TTH).
Files only you hold are located on disk across the configured library roots
(config key 'roots', or repeated --root flags) and their escaped paths are
written to a deletion list for review.  Press Enter during the search to stop
gracefully with a partial list.`,
	Aliases: []string{"cln"},
	Args:    cobra.MaximumNArgs(99), // handle in code
	GroupID: "G2",
	Run: func(cmd *cobra.Command, args []string) {
		cln(args)
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().StringVarP(&cli_deletelist, "output", "o", defaultDeleteList, "File to write the deletion list to")
	cleanupCmd.Flags().StringArrayVarP(&cli_roots, "root", "", nil, "Library root to search (repeatable; over-rides config)")
	cleanupCmd.Flags().IntVarP(&cli_workers, "workers", "", 16, "Parallel filename lookups")
}

// ----------------------- Comparison -----------------------

// comparison buckets the entries of 'mine' against the other three lists.
// Entries shared with more than one (but not all) land in the first list
// that holds them, in first/second/third order.
type comparison struct {
	uniqueToMine []fileEntry
	inFirst      []fileEntry
	inSecond     []fileEntry
	inThird      []fileEntry
	inAll        []fileEntry
}

// tthSet is the scoreboard for one collection: key is the TTH.
type tthSet map[string]bool

func indexByTTH(entries []fileEntry) tthSet {
	m := make(tthSet, len(entries))
	for _, e := range entries {
		m[e.TTH] = true
	}
	return m
}

// categorize walks mine (duplicate TTHs folded) and buckets every entry.
func categorize(mine []fileEntry, first, second, third tthSet) comparison {
	var result comparison
	seen := make(tthSet, len(mine))

	for _, entry := range mine {
		if seen[entry.TTH] {
			continue
		}
		seen[entry.TTH] = true

		inFirst := first[entry.TTH]
		inSecond := second[entry.TTH]
		inThird := third[entry.TTH]

		switch {
		case inFirst && inSecond && inThird:
			result.inAll = append(result.inAll, entry)
		case inFirst:
			result.inFirst = append(result.inFirst, entry)
		case inSecond:
			result.inSecond = append(result.inSecond, entry)
		case inThird:
			result.inThird = append(result.inThird, entry)
		default:
			result.uniqueToMine = append(result.uniqueToMine, entry)
		}
	}
	return result
}

// ----------------------- Cleanup function below this line -----------------------

func cln(args []string) {
	// Make sure we have four input files that exist / error appropriately
	num, files, found := getJSONs(args)
	slog.Debug("cli handler", "num", num, "files", files, "found", found)
	switch true {
	case num > 4:
		abort(8, "Too many .json files specified - expected four")
	case num < 4:
		abort(9, "Four filelists are needed: yours plus the three to compare against")
	}
	for i := range num {
		if !found[i] {
			abort(6, "Filelist '"+files[i]+"' does not exist")
		}
	}

	// Roots: flags beat config
	roots := cli_roots
	if len(roots) == 0 {
		roots = viper.GetStringSlice("roots")
	}
	if len(roots) == 0 {
		abort(9, "No library roots configured - set 'roots' in cbman.yaml or pass --root")
	}

	mine, err := loadFilelist(files[0])
	if err != nil {
		abort(4, "Cannot load "+files[0]+": "+err.Error())
	}
	sets := make([]tthSet, 3)
	for i, fn := range files[1:] {
		entries, err := loadFilelist(fn)
		if err != nil {
			abort(4, "Cannot load "+fn+": "+err.Error())
		}
		sets[i] = indexByTTH(entries)
	}

	result := categorize(mine, sets[0], sets[1], sets[2])
	fmt.Printf("Found %d unique entries\n", len(result.uniqueToMine))
	fmt.Printf("Found %d matches in first file\n", len(result.inFirst))
	fmt.Printf("Found %d matches in second file\n", len(result.inSecond))
	fmt.Printf("Found %d matches in third file\n", len(result.inThird))
	fmt.Printf("Found %d matches in all files\n", len(result.inAll))

	if len(result.uniqueToMine) == 0 {
		abort(0, "Nothing unique to your collection - no deletion list needed")
	}

	locateAndWrite(result.uniqueToMine, roots, cli_deletelist)
}

// locateAndWrite resolves each unique entry to an on-disk path and writes
// the escaped paths to the deletion list. Lookups run on a worker pool;
// a stdin goroutine lets the user stop a long search gracefully.
func locateAndWrite(entries []fileEntry, roots []string, outPath string) {
	fwh, err := os.Create(outPath)
	if err != nil {
		abort(4, "Cannot create file "+outPath)
	}
	defer fwh.Close()
	w := bufio.NewWriterSize(fwh, 64*1024)

	// graceful quit on Enter
	stop := make(chan struct{})
	go func() {
		fmt.Println("\nPress Enter to quit gracefully...")
		r := bufio.NewReader(os.Stdin)
		_, _ = r.ReadString('\n')
		fmt.Println("Quit requested. Finishing current operations...")
		close(stop)
	}()

	jobs := make(chan fileEntry)
	results := make(chan string)

	var wg sync.WaitGroup
	for range cli_workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for entry := range jobs {
				// filelist names can carry stale escapes
				name := strings.ReplaceAll(entry.Name, `\`, "")
				if p, ok := findFilePath(name, roots, stop); ok {
					results <- shellEscape(p)
				} else {
					results <- ""
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, entry := range entries {
			select {
			case jobs <- entry:
			case <-stop:
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	var processed, foundCount int64
	total := int64(len(entries))
	for path := range results {
		processed++
		if path != "" {
			fmt.Fprintln(w, path)
			foundCount++
		}
		if processed%100 == 0 {
			fmt.Printf("Processed %d out of %d entries. Found %d matching files so far...\n",
				processed, total, foundCount)
			w.Flush()
		}
	}
	w.Flush()

	fmt.Printf("Successfully wrote %d file paths out of %d processed entries to %s\n",
		foundCount, processed, outPath)
}
