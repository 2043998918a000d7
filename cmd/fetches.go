package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hejvi/hejvi/internal/store"
)

var fetchesCmd = &cobra.Command{
	Use:   "fetches",
	Short: "Inspect recorded content API calls",
}

var fetchesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent content API calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		op, _ := cmd.Flags().GetString("op")
		failed, _ := cmd.Flags().GetBool("failed")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		events, err := rt.store.EventRepo().QueryFetchEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No API calls recorded.")
			return nil
		}

		// Header.
		fmt.Printf("%-5s  %-19s  %-18s  %-28s  %-7s  %s\n",
			"ID", "Timestamp", "Operation", "Key", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 90))

		for _, e := range events {
			if op != "" && e.Operation != op {
				continue
			}
			if failed && e.Success {
				continue
			}
			ok := "✓"
			if !e.Success {
				ok = "✗ " + e.ErrorMessage
			}
			fmt.Printf("%-5d  %-19s  %-18s  %-28s  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Operation,
				truncate(e.Key, 28),
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var fetchesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize content API calls by operation",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		events, err := rt.store.EventRepo().QueryFetchEvents(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No API calls recorded.")
			return nil
		}

		type agg struct {
			calls, failures int
			totalMs         int64
		}
		var order []string
		byOp := map[string]*agg{}
		for _, e := range events {
			a := byOp[e.Operation]
			if a == nil {
				a = &agg{}
				byOp[e.Operation] = a
				order = append(order, e.Operation)
			}
			a.calls++
			a.totalMs += e.LatencyMs
			if !e.Success {
				a.failures++
			}
		}

		fmt.Printf("%-20s  %6s  %8s  %8s\n", "Operation", "Calls", "Failures", "Avg Ms")
		fmt.Println(strings.Repeat("─", 48))
		for _, op := range order {
			a := byOp[op]
			fmt.Printf("%-20s  %6d  %8d  %8d\n", op, a.calls, a.failures, a.totalMs/int64(a.calls))
		}
		return nil
	},
}

func init() {
	fetchesListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	fetchesListCmd.Flags().StringP("op", "o", "", "Filter by operation (element_by_hash, element_by_id, collection_by_hash)")
	fetchesListCmd.Flags().Bool("failed", false, "Only show failed calls")

	fetchesCmd.AddCommand(fetchesListCmd)
	fetchesCmd.AddCommand(fetchesStatsCmd)
}
