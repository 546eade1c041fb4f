// Package main is the entry point for the combat engine server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "adnd-engine",
	Short: "AD&D combat rules engine",
	Long:  `adnd-engine resolves tabletop combat commands (attacks, initiative, mounted charges) through ordered rule pipelines, backed by Redis session storage.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(simulateCmd)
}
