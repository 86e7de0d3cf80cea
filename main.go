package main

import (
	"os"

	"kakeibo/cmd/autoassign"
	"kakeibo/cmd/detect"
	"kakeibo/cmd/migrate"
	"kakeibo/cmd/root"
	"kakeibo/cmd/serve"
	"kakeibo/cmd/upload"
	"kakeibo/internal/config"
)

func init() {
	// Load .env before cobra parses flags so env-backed defaults apply.
	config.LoadEnv()

	root.Init()

	root.Cmd.AddCommand(upload.Cmd)
	root.Cmd.AddCommand(autoassign.Cmd)
	root.Cmd.AddCommand(detect.Cmd)
	root.Cmd.AddCommand(migrate.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
