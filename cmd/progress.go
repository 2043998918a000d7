package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:     "progress",
	Aliases: []string{"stats"},
	Short:   "Show progress per collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		progress, err := rt.store.EventRepo().Progress(cmd.Context())
		if err != nil {
			return fmt.Errorf("query progress: %w", err)
		}
		if len(progress) == 0 {
			fmt.Println("Nothing watched yet.")
			return nil
		}

		fmt.Printf("%-24s  %8s  %8s  %7s  %8s  %6s  %s\n",
			"Collection", "Answered", "Correct", "Right", "Watched", "Failed", "Last seen")
		fmt.Println(strings.Repeat("─", 92))

		for _, p := range progress {
			right := "-"
			if p.Answered > 0 {
				right = fmt.Sprintf("%.0f%%", float64(p.Correct)/float64(p.Answered)*100)
			}
			last := "-"
			if !p.LastActivity.IsZero() {
				last = p.LastActivity.Local().Format("2006-01-02 15:04")
			}
			fmt.Printf("%-24s  %8d  %8d  %7s  %8d  %6d  %s\n",
				truncate(p.CollectionHash, 24), p.Answered, p.Correct, right,
				p.VideosCompleted, p.PlaybackFailures, last)
		}
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
