/*
Copyright © 2025 cbman contributors
*/
package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// -------------------------------- Cobra management -------------------------------

// fixCmd represents the fix command
var fixCmd = &cobra.Command{
	Use:   "fix [path]",
	Short: "Repair double-page filenames inside CBZ/CBR archives",
	Long: `cbman fix
Scans comic archives for filenames where two page numbers were merged during
scanning (e.g. "023-1213.jpg" or "GL57-020+021.jpg"), suggests corrected names
("023_12-13.jpg"), and lets you rename or delete entries before the archive is
rewritten.  CBR archives are rewritten as CBZ.  With no path the current
directory is processed.`,
	Aliases: []string{"f"},
	Args:    cobra.MaximumNArgs(1),
	GroupID: "G3",
	Run: func(cmd *cobra.Command, args []string) {
		fix(args)
	},
}

func init() {
	rootCmd.AddCommand(fixCmd)

	fixCmd.Flags().BoolVarP(&cli_auto, "auto", "a", false, "Accept all suggested renames without prompting")
	fixCmd.Flags().BoolVarP(&cli_dryrun, "dry-run", "d", false, "Show what would change without touching archives")
	fixCmd.Flags().BoolVarP(&cli_recursive, "recursive", "r", false, "Descend into subdirectories")
	fixCmd.Flags().StringVarP(&cli_output, "output", "o", "", "Append a change log to the named file")
	fixCmd.Flags().BoolVarP(&cli_watch, "watch", "w", false, "Keep watching the directory for new archives (implies --auto)")
	fixCmd.Flags().IntVarP(&cli_conwidth, "connected-width", "", defaultConnectedWidth, "Digits per page number in joined pairs (e.g. 020+021)")
	fixCmd.Flags().IntVarP(&cli_mergewidth, "merged-width", "", defaultMergedWidth, "Digits per page number in concatenated runs (e.g. 1213)")
}

// ----------------------- Fix function below this line -----------------------

// stdin is shared so buffered input survives across prompts
var stdin = bufio.NewScanner(os.Stdin)

func fix(args []string) {
	if cli_auto && cli_dryrun {
		abort(7, "Cannot use --auto and --dry-run at the same time")
	}
	if cli_watch {
		// unattended by definition
		cli_auto = true
		cli_dryrun = false
	}

	sp := newSplitter(cli_conwidth, cli_mergewidth)

	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	st, err := os.Stat(target)
	if err != nil {
		abort(6, "Path not found: "+target)
	}

	var changes []string

	if !st.IsDir() {
		if !isSupportedArchive(target) {
			abort(6, "Unsupported file format: "+target)
		}
		if err := processArchive(sp, target, &changes); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to process %s: %v\n", target, err)
			writeChanges(changes)
			os.Exit(1)
		}
		writeChanges(changes)
		return
	}

	archives := findArchives(target, cli_recursive)
	if len(archives) == 0 && !cli_watch {
		abort(9, "No CBZ or CBR files found in directory: "+target)
	}
	fmt.Printf("Found %d archive files in %s\n", len(archives), target)

	for _, fn := range archives {
		if !cli_dryrun {
			fmt.Println("\nProcessing: " + fn)
		}
		if err := processArchive(sp, fn, &changes); err != nil {
			// report and carry on with the next archive
			fmt.Fprintf(os.Stderr, "Failed to process %s: %v\n", fn, err)
			continue
		}
	}

	if cli_watch {
		flushChanges(&changes)
		watchDir(sp, target, &changes)
	}
	writeChanges(changes)
}

// processArchive runs one archive through detection, the decision layer
// and (unless nothing changed) the rewrite.
func processArchive(sp *splitter, fn string, changes *[]string) error {
	names, err := listArchive(fn)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No files found in archive: " + fn)
		return nil
	}

	// 1-based indices over the sorted entries, for display and commands
	suggested := map[string]string{}

	if cli_dryrun {
		fmt.Println("\n" + strings.Repeat("=", 50))
		fmt.Println("Archive: " + fn)
		fmt.Println(strings.Repeat("=", 50))
		fmt.Println("The following changes would be made:")
		fmt.Println(strings.Repeat("-", 50))
	} else if !cli_auto {
		fmt.Println("\n" + strings.Repeat("=", 50))
		fmt.Println("Archive: " + fn)
		fmt.Println(strings.Repeat("=", 50))
		fmt.Println("Commands: <number> M to modify, <number> D to delete")
		fmt.Println("Example: '17 D' to delete file 17, '20 M' to modify file 20")
		fmt.Println("Type 'A' to accept all suggested changes")
		fmt.Println("Press Enter without input to finish current archive")
		fmt.Println("Type 'X' to exit program completely")
		fmt.Println(strings.Repeat("-", 50))
	}

	for i, name := range names {
		m := sp.detect(name)
		if m != nil {
			newName := sp.suggestName(m)
			suggested[name] = newName
			switch {
			case cli_dryrun:
				msg := fmt.Sprintf("Would rename: %s\n          to: %s", name, newName)
				fmt.Println(msg)
				*changes = append(*changes, msg)
			case !cli_auto:
				fmt.Printf("%3d. %s -> %s (suggested)\n", i+1, name, newName)
			}
		} else if !cli_auto && !cli_dryrun {
			fmt.Printf("%3d. %s\n", i+1, name)
		}
	}

	if cli_dryrun {
		if len(suggested) == 0 {
			fmt.Println("No changes would be made to this archive.")
		}
		fmt.Println(strings.Repeat("-", 50))
		return nil
	}
	if !cli_auto {
		fmt.Println(strings.Repeat("-", 50))
	}

	renames := map[string]string{}
	deletes := map[string]bool{}

	if cli_auto {
		if len(suggested) > 0 {
			for k, v := range suggested {
				renames[k] = v
			}
			fmt.Printf("Auto-accepted %d suggested changes for %s\n", len(suggested), fn)
		}
	} else {
		commandLoop(sp, names, suggested, renames, deletes)
	}

	if len(renames) == 0 && len(deletes) == 0 {
		slog.Debug("no changes requested", "archive", fn)
		return nil
	}

	out, err := rewriteArchive(fn, renames, deletes)
	if err != nil {
		return err
	}
	fmt.Println("Successfully updated archive: " + out)

	*changes = append(*changes, "", fn+":")
	for name, newName := range renames {
		*changes = append(*changes, name+" -> "+newName)
	}
	for name := range deletes {
		*changes = append(*changes, "Marked for deletion: "+name)
	}
	return nil
}

// commandLoop reads decisions until an empty line finishes the archive.
// Bad input is reported and the loop continues without state change.
func commandLoop(sp *splitter, names []string, suggested, renames map[string]string, deletes map[string]bool) {
	for {
		fmt.Print("\nEnter command (or press Enter to finish): ")
		if !stdin.Scan() {
			return
		}
		command := strings.ToUpper(strings.TrimSpace(stdin.Text()))
		if command == "" {
			return
		}

		if command == "X" {
			abort(0, "Exiting program...")
		}

		if command == "A" {
			if len(suggested) == 0 {
				fmt.Println("No suggested changes available")
				continue
			}
			for k, v := range suggested {
				renames[k] = v
			}
			fmt.Printf("Added %d suggested changes\n", len(suggested))
			continue
		}

		parts := strings.Fields(command)
		if len(parts) != 2 || (parts[1] != "M" && parts[1] != "D") {
			fmt.Println("Invalid command. Use format: '<number> M' or '<number> D'")
			continue
		}
		num, err := strconv.Atoi(parts[0])
		if err != nil {
			fmt.Println("Please enter a valid number.")
			continue
		}
		if num < 1 || num > len(names) {
			fmt.Println("Invalid file number. Please try again.")
			continue
		}
		name := names[num-1]

		if parts[1] == "D" {
			deletes[name] = true
			fmt.Println("Marked for deletion: " + name)
			continue
		}

		// modify
		if m := sp.detect(name); m != nil {
			suggestion := sp.suggestName(m)
			fmt.Println("Suggested new name: " + suggestion)
			fmt.Print("Use suggested name? (y/n): ")
			if stdin.Scan() && strings.EqualFold(strings.TrimSpace(stdin.Text()), "y") {
				renames[name] = suggestion
				continue
			}
		}
		fmt.Print("Enter new name: ")
		if stdin.Scan() {
			if newName := strings.TrimSpace(stdin.Text()); newName != "" {
				renames[name] = newName
			}
		}
	}
}

// writeChanges appends the collected change log to the --output file.
func writeChanges(changes []string) {
	if cli_output == "" || len(changes) == 0 {
		return
	}
	f, err := os.OpenFile(cli_output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write changes to %s: %v\n", cli_output, err)
		return
	}
	defer f.Close()
	for _, line := range changes {
		fmt.Fprintln(f, line)
	}
	fmt.Println("Changes written to: " + cli_output)
}

// flushChanges writes the collected entries out and resets the slice.
// Watch mode runs until interrupted, so the log is flushed per archive
// rather than once on exit.
func flushChanges(changes *[]string) {
	writeChanges(*changes)
	*changes = nil
}

// ----------------------- Watch mode -----------------------

// watchDir keeps processing archives as they appear in dir. Runs until
// interrupted. New files get a settle delay so a copy in progress is not
// opened half-written.
func watchDir(sp *splitter, dir string, changes *[]string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		abort(12, "cannot create filesystem watcher: "+err.Error())
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		abort(4, "Cannot watch directory "+dir)
	}
	fmt.Println("Watching " + dir + " for new archives (interrupt to stop)")

	for {
		select {
		// Read from Errors.
		case err, ok := <-watcher.Errors:
			if !ok { // Channel was closed (i.e. Watcher.Close() was called).
				return
			}
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)

		// Read from Events.
		case e, ok := <-watcher.Events:
			if !ok {
				abort(1, "Encountered monitoring failure")
			}
			if e.Op.String() != "CREATE" || !isSupportedArchive(e.Name) {
				continue
			}

			time.Sleep(2 * time.Second) // settle delay for the writer
			fmt.Println("\nProcessing: " + e.Name)
			if err := processArchive(sp, e.Name, changes); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to process %s: %v\n", e.Name, err)
			}
			flushChanges(changes)
		}
	}
}
