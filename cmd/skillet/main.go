package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillet-sh/skillet/pkg/logger"
	"github.com/skillet-sh/skillet/pkg/presenter"
)

func init() {
	viper.SetEnvPrefix("SKILLET")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillet")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skillet",
	Short: "Team-scoped skill registry and activation engine",
	Long: `Skillet loads declarative skill definitions (SKILL.md files with YAML
frontmatter), validates them into an immutable registry snapshot, and decides
which skills apply to a request: trigger matching, dependency resolution,
permission aggregation, and bounded context composition.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if level := viper.GetString("log_level"); level != "" {
			if err := logger.SetLevel(level); err != nil {
				return err
			}
		}
		logger.SetFormat(viper.GetString("log_format"))
		presenter.SetQuiet(viper.GetBool("quiet"))
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func main() {
	rootCmd.PersistentFlags().StringSlice("root", nil, "definitions root directories, highest precedence first (default ./.skillet/teams, ~/.skillet/teams)")
	rootCmd.PersistentFlags().StringSlice("team", nil, "restrict loading to the given team scopes")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-error output")

	_ = viper.BindPFlag("roots", rootCmd.PersistentFlags().Lookup("root"))
	_ = viper.BindPFlag("teams", rootCmd.PersistentFlags().Lookup("team"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	rootCmd.AddCommand(
		validateCmd,
		listCmd,
		showCmd,
		resolveCmd,
		matchCmd,
		activateCmd,
		serveCmd,
		versionCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
