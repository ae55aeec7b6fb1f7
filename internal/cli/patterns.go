package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jdemuth17/market-analysis/internal/analysis"
)

func newPatternsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Inspect supported patterns and scan history",
	}

	cmd.AddCommand(newPatternsListCmd())
	cmd.AddCommand(newPatternsHistoryCmd(app))

	return cmd
}

func newPatternsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the supported pattern types",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, pt := range analysis.AllPatternTypes() {
				fmt.Println(string(pt))
			}
			return nil
		},
	}
}

func newPatternsHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <symbol>",
		Short: "Show previously saved pattern detections for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Store()
			if err != nil {
				return err
			}

			records, err := s.GetPatterns(args[0], limit)
			if err != nil {
				return err
			}
			printPatternHistory(os.Stdout, args[0], records)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum records to show")
	return cmd
}
