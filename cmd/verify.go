/*
Copyright © 2025 cbman contributors
*/
package cmd

import (
	"archive/zip"
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"strings"

	"github.com/nwaples/rardecode"
	"github.com/spf13/cobra"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// -------------------------------- Cobra management -------------------------------

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [path]",
	Short: "Check that archive pages decode as images",
	Long: `cbman verify
Opens every page image inside CBZ/CBR archives and checks the image header
decodes (jpeg, png, gif, webp).  Catches truncated or corrupt pages before
they surprise you mid-read.  With no path the current directory is processed.`,
	Aliases: []string{"ver"},
	Args:    cobra.MaximumNArgs(1),
	GroupID: "G3",
	Run: func(cmd *cobra.Command, args []string) {
		ver(args)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().BoolVarP(&cli_recursive, "recursive", "r", false, "Descend into subdirectories")
	verifyCmd.Flags().BoolVarP(&cli_verbose, "verbose", "v", false, "Report archives that are fully intact too")
}

// ----------------------- Verify function below this line -----------------------

func ver(args []string) {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	st, err := os.Stat(target)
	if err != nil {
		abort(6, "Path not found: "+target)
	}

	var archives []string
	if st.IsDir() {
		archives = findArchives(target, cli_recursive)
		if len(archives) == 0 {
			abort(9, "No CBZ or CBR files found in directory: "+target)
		}
	} else {
		if !isSupportedArchive(target) {
			abort(6, "Unsupported file format: "+target)
		}
		archives = []string{target}
	}

	var totalBad int
	for _, fn := range archives {
		pages, bad, err := verifyArchive(fn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to verify %s: %v\n", fn, err)
			continue
		}
		if len(bad) == 0 {
			if cli_verbose {
				fmt.Printf("%s: %d pages ok\n", fn, pages)
			}
			continue
		}
		totalBad += len(bad)
		fmt.Printf("%s: %d of %d pages unreadable\n", fn, len(bad), pages)
		for _, name := range bad {
			fmt.Println("  " + name)
		}
	}

	if totalBad > 0 {
		abort(1, fmt.Sprintf("%d unreadable pages found", totalBad))
	}
}

func isImageName(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}

// verifyArchive decode-checks every page image; returns the page count and
// the names that failed.
func verifyArchive(fn string) (int, []string, error) {
	if isRarArchive(fn) {
		return verifyRar(fn)
	}
	return verifyZip(fn)
}

func verifyZip(fn string) (int, []string, error) {
	r, err := zip.OpenReader(fn)
	if err != nil {
		return 0, nil, fmt.Errorf("open %s: %w", fn, err)
	}
	defer r.Close()

	var pages int
	var bad []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isImageName(f.Name) {
			continue
		}
		pages++

		rc, err := f.Open()
		if err != nil {
			bad = append(bad, f.Name)
			continue
		}
		if _, _, err := image.DecodeConfig(rc); err != nil {
			bad = append(bad, f.Name)
		}
		rc.Close()
	}
	return pages, bad, nil
}

func verifyRar(fn string) (int, []string, error) {
	r, err := rardecode.OpenReader(fn, "")
	if err != nil {
		return 0, nil, fmt.Errorf("open %s: %w", fn, err)
	}
	defer r.Close()

	var pages int
	var bad []string
	for {
		hdr, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return pages, bad, fmt.Errorf("read %s: %w", fn, err)
		}
		if hdr.IsDir || !isImageName(hdr.Name) {
			continue
		}
		pages++
		if _, _, err := image.DecodeConfig(r); err != nil {
			bad = append(bad, hdr.Name)
		}
	}
	return pages, bad, nil
}
