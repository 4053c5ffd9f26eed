package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skillet-sh/skillet/pkg/presenter"
)

var showCmd = &cobra.Command{
	Use:   "show <team> <skill-id>",
	Short: "Show one skill's metadata and body",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		eng, err := loadEngine()
		if err != nil {
			presenter.Error(err, "load failed")
			os.Exit(1)
		}
		team, id := args[0], args[1]
		sk, ok := eng.Current().Lookup(team, id)
		if !ok {
			presenter.Error(errors.Errorf("skill %s/%s not found", team, id), "")
			os.Exit(1)
		}

		presenter.Section(fmt.Sprintf("%s/%s @ %s", sk.Team, sk.ID, sk.Version))
		if sk.DisplayName != "" {
			presenter.Info("Display name: " + sk.DisplayName)
		}
		if sk.Description != "" {
			presenter.Info("Description:  " + sk.Description)
		}
		if len(sk.Tags) > 0 {
			presenter.Info("Tags:         " + strings.Join(sk.Tags, ", "))
		}
		if len(sk.Requires) > 0 {
			presenter.Info("Requires:     " + strings.Join(sk.Requires, ", "))
		}
		if len(sk.Subagents) > 0 {
			presenter.Info("Subagents:    " + strings.Join(sk.Subagents, ", "))
		}
		if len(sk.Tools) > 0 {
			presenter.Info("Tools:        " + strings.Join(sk.Tools, ", "))
		}
		if len(sk.Triggers) > 0 {
			presenter.Info("Triggers:     " + strings.Join(sk.TriggerPatterns(), ", "))
		}
		presenter.Info("Body digest:  " + sk.BodyDigest)
		presenter.Section("Body")
		fmt.Println(sk.Body)
	},
}
