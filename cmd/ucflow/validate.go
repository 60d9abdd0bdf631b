package main

import (
	"fmt"

	"github.com/CodeQwQ/ucflow/internal/validator"
	"github.com/CodeQwQ/ucflow/pkg/usecase"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [use-case...]",
	Short: "Check use cases and their diagrams for consistency",
	Long: `Validates each use case (all of them when none is named), transforms it and
crawls the resulting diagram for dangling edges, unreachable nodes and unbalanced
decisions or forks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSetup(cmd)
		if err != nil {
			return err
		}
		eng, err := s.engine()
		if err != nil {
			return err
		}
		list, err := names(cmd, eng, args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, name := range list {
			res, err := eng.Transform(cmd.Context(), name)
			if err != nil {
				failed++
				fmt.Fprintf(out, "✗ %s\n", name)
				if errs := usecase.ValidationErrors(err); len(errs) > 0 {
					for _, e := range errs {
						fmt.Fprintf(out, "    - %v\n", e)
					}
				} else {
					fmt.Fprintf(out, "    - %v\n", err)
				}
				continue
			}

			report := validator.Validate(res.Document)
			if !report.OK() {
				failed++
				fmt.Fprintf(out, "✗ %s\n", name)
			} else {
				fmt.Fprintf(out, "✓ %s (%d nodes, %d edges)\n", name, len(res.Document.Nodes), len(res.Document.Edges))
			}
			for _, issue := range report.Errors {
				fmt.Fprintf(out, "    error: %s\n", issue)
			}
			for _, issue := range report.Warnings {
				fmt.Fprintf(out, "    warning: %s\n", issue)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d use cases failed validation", failed, len(list))
		}
		fmt.Fprintln(out, "All use cases are valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
