package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/cleared-dev/pocketbook/internal/commands"
)

func main() {
	// A .env file is optional; it may set POCKETBOOK_HOME.
	_ = godotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
