/*
Copyright © 2025 cbman contributors
*/
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cbman",
	Short: "comic-book collection manager",
	Long: `Utility belt for keeping a shared comic-book collection tidy.
Converts DC++ filelist exports to JSON, diffs collections by content hash (TTH) to build
deletion lists, and repairs double-page filenames inside CBZ/CBR archives.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cli_config, "config", "", "config file (default is ./cbman.yaml, then $HOME/.cbman.yaml)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "G1", Title: "Filelist commands:"},
		&cobra.Group{ID: "G2", Title: "Collection commands:"},
		&cobra.Group{ID: "G3", Title: "Archive commands:"},
	)
}

// initConfig reads in the config file and ENV variables if set.
func initConfig() {
	if cli_config != "" {
		viper.SetConfigFile(cli_config)
	} else {
		viper.SetConfigName("cbman")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("CBMAN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("config loaded", "file", viper.ConfigFileUsed())
	}
}
