/*
Copyright © 2025 cbman contributors
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/spf13/cobra"
)

// -------------------------------- Cobra management -------------------------------

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert list.xml ...",
	Short: "Convert DC++ filelist XML exports to JSON",
	Long: `cbman convert
Converts one or more DC++ filelist exports (XML with File elements carrying
Name/Size/TTH attributes) into the JSON form used by 'cleanup', 'dupes' and
'info'.  Output lands next to the input ("list.xml" -> "list.json") unless
--output-dir is given.`,
	Aliases: []string{"con"},
	Args:    cobra.MinimumNArgs(1),
	GroupID: "G1",
	Run: func(cmd *cobra.Command, args []string) {
		conv(args)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&cli_outputdir, "output-dir", "", "", "Directory to write .json files to (default is beside each input)")
}

// ----------------------- Filelist data model -----------------------

// fileEntry is one shared file in a filelist. Size stays a string: the
// exports carry it as a decimal attribute and round-tripping it untouched
// avoids 32/64-bit surprises in downstream tooling.
type fileEntry struct {
	Name string `json:"Name"`
	Size string `json:"Size"`
	TTH  string `json:"TTH"`
}

type filelist struct {
	Files []fileEntry `json:"files"`
}

// ----------------------- Convert function below this line -----------------------

func conv(args []string) {
	if cli_outputdir != "" {
		if err := os.MkdirAll(cli_outputdir, 0755); err != nil {
			abort(4, "Cannot create output directory "+cli_outputdir)
		}
	}

	for _, xmlPath := range args {
		if _, err := os.Stat(xmlPath); err != nil {
			fmt.Fprintf(os.Stderr, "XML file not found: %s\n", xmlPath)
			continue
		}

		base := strings.TrimSuffix(filepath.Base(xmlPath), filepath.Ext(xmlPath))
		jsonPath := filepath.Join(filepath.Dir(xmlPath), base+".json")
		if cli_outputdir != "" {
			jsonPath = filepath.Join(cli_outputdir, base+".json")
		}

		fmt.Printf("Converting %s to JSON...\n", xmlPath)
		n, err := convertFilelist(xmlPath, jsonPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error converting %s: %v\n", xmlPath, err)
			continue
		}
		fmt.Printf("Successfully converted %s to %s (%s files)\n",
			xmlPath, jsonPath, intAsStringWithCommas(int64(n)))
	}
}

// convertFilelist parses one XML filelist and writes the JSON equivalent,
// returning the number of File entries converted.
func convertFilelist(xmlPath, jsonPath string) (int, error) {
	data, err := os.ReadFile(xmlPath)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", xmlPath, err)
	}

	data, err = decodeFilelist(data)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", xmlPath, err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return 0, fmt.Errorf("parse %s: %w", xmlPath, err)
	}

	fl := filelist{Files: []fileEntry{}}
	for _, el := range doc.FindElements("//File") {
		fl.Files = append(fl.Files, fileEntry{
			Name: el.SelectAttrValue("Name", ""),
			Size: el.SelectAttrValue("Size", ""),
			TTH:  el.SelectAttrValue("TTH", ""),
		})

		// keep the user company through the big exports
		if len(fl.Files)%10000 == 0 {
			fmt.Printf("  processed %s files...\n", intAsStringWithCommas(int64(len(fl.Files))))
		}
	}

	buf, err := json.Marshal(&fl)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", jsonPath, err)
	}
	if err := os.WriteFile(jsonPath, buf, 0644); err != nil {
		return 0, fmt.Errorf("write %s: %w", jsonPath, err)
	}
	return len(fl.Files), nil
}

// loadFilelist reads a converted JSON filelist back into memory.
func loadFilelist(jsonPath string) ([]fileEntry, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", jsonPath, err)
	}
	var fl filelist
	if err := json.Unmarshal(data, &fl); err != nil {
		return nil, fmt.Errorf("parse %s: %w", jsonPath, err)
	}
	return fl.Files, nil
}
