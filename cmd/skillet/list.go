package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skillet-sh/skillet/pkg/presenter"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded skills by team",
	Run: func(_ *cobra.Command, _ []string) {
		eng, err := loadEngine()
		if err != nil {
			presenter.Error(err, "load failed")
			os.Exit(1)
		}
		snap := eng.Current()
		if snap.Len() == 0 {
			presenter.Info("no skills found")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TEAM\tSKILL\tVERSION\tTOOLS\tTRIGGERS\tDESCRIPTION")
		for _, team := range snap.Teams() {
			for _, sk := range snap.Skills(team) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
					team, sk.ID, sk.Version, len(sk.Tools), len(sk.Triggers), truncate(sk.Description, 60))
			}
		}
		w.Flush()
	},
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
