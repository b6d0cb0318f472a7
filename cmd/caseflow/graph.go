package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/scrypster/caseflow/internal/graph"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Read-only reports on the stored connection graph",
	}

	var depth int
	related := &cobra.Command{
		Use:   "related <entity-id>",
		Short: "List entities reachable from an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if depth < 0 {
				return fmt.Errorf("--depth must not be negative, got %d", depth)
			}
			return withGraph(cmd, func(g *graph.Graph, out io.Writer) error {
				for _, e := range g.GetRelatedEntities(args[0], depth) {
					fmt.Fprintf(out, "%s\t%s\t%s\n", e.ID, e.Type, e.Title)
				}
				return nil
			})
		},
	}
	related.Flags().IntVarP(&depth, "depth", "d", graph.DefaultMaxDepth, "Maximum hops to follow")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "clusters",
			Short: "List groups of connected entities",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withGraph(cmd, func(g *graph.Graph, out io.Writer) error {
					for _, c := range g.GetConnectionClusters() {
						fmt.Fprintf(out, "%s %s [%s] strength=%.2f\n",
							color.New(color.Bold).Sprint(c.Name), c.ID, c.Type, c.Strength)
						for _, id := range c.EntityIDs {
							fmt.Fprintf(out, "  %s\n", id)
						}
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "suggest <entity-id>",
			Short: "Suggest connections for an entity",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withGraph(cmd, func(g *graph.Graph, out io.Writer) error {
					suggestions, err := g.DetectPotentialConnections(args[0])
					if err != nil {
						return err
					}
					for _, s := range suggestions {
						marker := ""
						if s.AutoApply {
							marker = color.New(color.FgGreen).Sprint(" [auto]")
						}
						fmt.Fprintf(out, "%s -> %s %s %.2f%s  %s\n",
							s.SourceID, s.TargetID, s.ConnectionType, s.Confidence, marker, s.Reason)
					}
					return nil
				})
			},
		},
		related,
	)
	return cmd
}

// withGraph loads the configured snapshot into a graph and runs fn against it.
func withGraph(cmd *cobra.Command, fn func(g *graph.Graph, out io.Writer) error) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	g := graph.New(graph.Options{Store: store, Logger: logger})
	g.Load(cmd.Context())
	return fn(g, cmd.OutOrStdout())
}
