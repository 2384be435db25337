package main

import (
	"os"

	"alert-risk/pkg/commands"
	"alert-risk/pkg/config"
)

func main() {
	// .env is optional
	_ = config.LoadDotEnv()

	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
