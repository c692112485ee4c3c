/*
Copyright © 2025 cbman contributors
*/
package main

import (
	"log/slog"
	"os"

	"cbman/cmd"
)

func main() {
	// init structured logging (hidden)
	lvl := new(slog.LevelVar) // leveller as variable
	lvl.Set(slog.LevelError)

	logger := slog.New(slog.NewJSONHandler(
		os.Stderr,
		&slog.HandlerOptions{Level: lvl},
	))
	slog.SetDefault(logger)
	slog.Info("cbman v0.1.4")

	// use cobra to run cli
	//lvl.Set(slog.LevelDebug) // switch on debug (uncomment to enable)
	cmd.Execute()
}
