package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillet-sh/skillet/pkg/presenter"
)

var activateCmd = &cobra.Command{
	Use:   "activate <team> [text]...",
	Short: "Run the full activation pipeline for a request",
	Long: `Activate matches the request text against triggers, unions the result with
any explicitly requested skills, resolves dependencies, aggregates tool and
subagent grants, and composes the bounded instruction context.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		explicit, _ := cmd.Flags().GetStringSlice("skill")
		showContext, _ := cmd.Flags().GetBool("context")

		eng, err := loadEngine()
		if err != nil {
			presenter.Error(err, "load failed")
			os.Exit(1)
		}
		team := args[0]
		text := strings.Join(args[1:], " ")
		activation, err := eng.Activate(team, text, explicit...)
		if err != nil {
			presenter.Error(err, "activation failed")
			os.Exit(1)
		}

		presenter.Section("Activation order")
		for i, sk := range activation.Skills {
			fmt.Printf("%d. %s @ %s\n", i+1, sk.ID, sk.Version)
		}
		if len(activation.Matches) > 0 {
			presenter.Section("Matched triggers")
			for _, m := range activation.Matches {
				fmt.Printf("%s\t(%s)\n", m.ID, strings.Join(m.Patterns, ", "))
			}
		}
		presenter.Section("Grants")
		presenter.Info("tools:     " + strings.Join(activation.Grant.Tools, ", "))
		presenter.Info("subagents: " + strings.Join(activation.Grant.Subagents, ", "))
		if showContext {
			presenter.Section("Composed context")
			fmt.Println(activation.Context)
		} else {
			presenter.Info(fmt.Sprintf("context: %d bytes (use --context to print)", len(activation.Context)))
		}
	},
}

func init() {
	activateCmd.Flags().StringSlice("skill", nil, "explicitly requested skill ids")
	activateCmd.Flags().Bool("context", false, "print the composed context payload")
	activateCmd.Flags().Int("context-budget", 0, "maximum composed context size in bytes")
	_ = viper.BindPFlag("context_budget", activateCmd.Flags().Lookup("context-budget"))
}
