package main

import (
	"os"

	"github.com/pgagi/screener/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional; deployments usually set the environment
	// directly.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
