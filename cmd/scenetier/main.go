package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/quellen/scene-tier-pipeline/internal/cli"
)

func main() {
	// Load .env if present (silently ignore if not found)
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
