package main

import (
	"fmt"
	"strings"

	"github.com/CodeQwQ/ucflow"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ucflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ucflow version %s\n", strings.TrimSpace(ucflow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
