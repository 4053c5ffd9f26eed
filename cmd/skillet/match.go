package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillet-sh/skillet/pkg/presenter"
)

var matchCmd = &cobra.Command{
	Use:   "match <team> <text>...",
	Short: "Show which skills trigger on the given text",
	Args:  cobra.MinimumNArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		eng, err := loadEngine()
		if err != nil {
			presenter.Error(err, "load failed")
			os.Exit(1)
		}
		team := args[0]
		text := strings.Join(args[1:], " ")
		matches := eng.Match(eng.Current(), team, text)
		if len(matches) == 0 {
			presenter.Info("no skills matched")
			return
		}
		for _, m := range matches {
			fmt.Printf("%s\t(%s)\n", m.ID, strings.Join(m.Patterns, ", "))
		}
	},
}
