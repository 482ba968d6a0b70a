package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/parlo-app/parlo/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show evaluation statistics per question type",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		stats, err := s.EvaluationRepo().Stats(context.Background())
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}

		if len(stats) == 0 {
			fmt.Println("No evaluations recorded yet.")
			return nil
		}

		fmt.Printf("%-24s  %-6s  %-8s  %s\n", "Type", "Count", "Avg %", "Pass rate")
		fmt.Println(strings.Repeat("─", 52))
		for _, st := range stats {
			fmt.Printf("%-24s  %-6d  %-8.1f  %.0f%%\n",
				st.QuestionType, st.Count, st.AvgPercentage, st.PassRate*100)
		}
		return nil
	},
}
