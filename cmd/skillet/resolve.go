package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillet-sh/skillet/pkg/grant"
	"github.com/skillet-sh/skillet/pkg/presenter"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <team> <skill-id>...",
	Short: "Resolve skills into their ordered activation set",
	Long: `Resolve computes the transitive closure over requires edges and prints the
deterministic activation order (dependencies first, ties by id) together with
the aggregated tool and subagent grants.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		eng, err := loadEngine()
		if err != nil {
			presenter.Error(err, "load failed")
			os.Exit(1)
		}
		team, ids := args[0], args[1:]
		activation, err := eng.Resolve(eng.Current(), team, ids)
		if err != nil {
			presenter.Error(err, "resolution failed")
			os.Exit(1)
		}

		for i, sk := range activation {
			fmt.Printf("%d. %s @ %s\n", i+1, sk.ID, sk.Version)
		}
		g := grant.Aggregate(activation)
		if len(g.Tools) > 0 {
			presenter.Info("tools: " + strings.Join(g.Tools, ", "))
		}
		if len(g.Subagents) > 0 {
			presenter.Info("subagents: " + strings.Join(g.Subagents, ", "))
		}
	},
}
