package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hejvi/hejvi/internal/config"
)

var rootCmd = &cobra.Command{
	Use:          "hejvi",
	Short:        "Short-form learning videos with branching challenges",
	Long:         "HejVi plays collections of short videos and challenges in the terminal, branching to a response video after every answer.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides HEJVI_DB env var)")
	rootCmd.PersistentFlags().String("api", "", "Content API base URL (overrides HEJVI_API_URL env var)")
	rootCmd.PersistentFlags().String("log", "", "Log file path (overrides HEJVI_LOG env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(fetchesCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then HEJVI_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, config.EnsureDir(p)
	}
	return config.DefaultDBPath()
}
