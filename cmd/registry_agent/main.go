// Package main provides the entry point for the Agent Registration HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "registry_agent",
	Short: "Athlete Agent Registration HTTP API Server",
	Long:  "Athlete Agent Registration fills state registration PDF forms from stored agent profiles, classifying form fields and merging addendum documents via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
