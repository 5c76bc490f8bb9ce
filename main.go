package main

import (
	"os"

	"github.com/shry/gitcha-action/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional and mostly useful for local runs.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
