package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/skillet-sh/skillet/pkg/presenter"
	"github.com/skillet-sh/skillet/pkg/registry"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate all skill definitions without publishing",
	Long: `Validate parses every discovered definition and checks batch invariants:
uniqueness, dependency and subagent existence, trigger compilation, and
requires-graph acyclicity. All violations are reported, not just the first.`,
	Run: func(_ *cobra.Command, _ []string) {
		batch, err := discoverBatch()
		if err != nil {
			presenter.Error(err, "discovery failed")
			os.Exit(1)
		}
		snap, err := registry.Validate(batch)
		if err != nil {
			if merr, ok := err.(*multierror.Error); ok { //nolint:errorlint
				for _, violation := range merr.Errors {
					presenter.Error(violation, "")
				}
			} else {
				presenter.Error(err, "")
			}
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("validated %d skills across %d teams", snap.Len(), len(snap.Teams())))
	},
}
