package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/CodeQwQ/ucflow"
	"github.com/CodeQwQ/ucflow/internal/presentation/graph"
	"github.com/CodeQwQ/ucflow/internal/validator"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <use-case>",
	Short: "Export the activity diagram visualization",
	Long: `Transforms the use case and outputs a Mermaid flowchart (graph TD) or a Graphviz
DOT digraph. With --watch the diagram is printed again whenever the use case changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSetup(cmd)
		if err != nil {
			return err
		}
		eng, err := s.engine()
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		if format != "mermaid" && format != "dot" {
			return fmt.Errorf("unknown format %q (want mermaid or dot)", format)
		}

		watch, _ := cmd.Flags().GetBool("watch")
		if !watch {
			return printGraph(cmd.Context(), eng, args[0], format)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		changes, err := eng.Watch(ctx)
		if err != nil {
			return fmt.Errorf("--watch needs the loam loader: %w", err)
		}
		if err := printGraph(ctx, eng, args[0], format); err != nil {
			s.logger.Error("Render failed", "error", err)
		}
		for {
			select {
			case <-ctx.Done():
				return nil
			case changed, ok := <-changes:
				if !ok {
					return nil
				}
				s.logger.Info("Use case changed, re-rendering", "document", changed)
				if err := printGraph(ctx, eng, args[0], format); err != nil {
					s.logger.Error("Render failed", "error", err)
				}
			}
		}
	},
}

func printGraph(ctx context.Context, eng *ucflow.Engine, name, format string) error {
	res, err := eng.Transform(ctx, name)
	if err != nil {
		return err
	}
	if format == "dot" {
		fmt.Print(graph.GenerateDOT(res.Document))
		return nil
	}
	report := validator.Validate(res.Document)
	var overlay *graph.GraphOverlay
	if flagged := report.Unreachable(); len(flagged) > 0 {
		overlay = &graph.GraphOverlay{Flagged: flagged}
	}
	fmt.Print(graph.GenerateMermaid(res.Document, overlay))
	return nil
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("format", "f", "mermaid", "Output format: mermaid or dot")
	graphCmd.Flags().BoolP("watch", "w", false, "Re-render when the use case changes")
}
