package main

import (
	"fmt"
	"os"

	"github.com/CodeQwQ/ucflow"
	"github.com/CodeQwQ/ucflow/internal/presentation/report"
	"github.com/CodeQwQ/ucflow/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain <use-case>",
	Short: "Describe the activity diagram of a use case",
	Long:  `Prints a markdown report of the transformation: node counts per kind, the node and edge tables, and the pre/postconditions. Rendered for the terminal when stdout is one.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSetup(cmd)
		if err != nil {
			return err
		}
		eng, err := s.engine()
		if err != nil {
			return err
		}
		res, err := eng.Transform(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout, ucflow.Version)
		}
		out, err := tui.NewRenderer(os.Stdout)(report.Markdown(res.Document))
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}
