package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ucflow",
	Short: "ucflow turns use-case descriptions into activity diagrams",
	Long: `ucflow reads structured use cases (steps, checks, branches, loops, parallel
blocks, includes and resumes) and lowers them into UML-style activity diagrams,
exported as JSON, Mermaid or Graphviz DOT.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the use cases")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ucflow.yaml)")
	rootCmd.PersistentFlags().String("loader", "loam", "Use case source: loam (markdown frontmatter) or file (yaml/json)")
	rootCmd.PersistentFlags().String("mode", "", "Lowering mode: detailed or overview")
	rootCmd.PersistentFlags().String("resume", "", "Forward resume policy: strict, drop or deferred")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
}
