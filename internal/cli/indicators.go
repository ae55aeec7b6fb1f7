package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jdemuth17/market-analysis/internal/analysis/indicators"
	"github.com/jdemuth17/market-analysis/internal/data"
)

func newIndicatorsCmd(app *App) *cobra.Command {
	var (
		symbol   string
		nameList string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "indicators <csv-file>",
		Short: "Compute technical indicators over a daily OHLCV CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := data.LoadSeries(args[0], symbol)
			if err != nil {
				return err
			}

			engine := indicators.DefaultEngine(app.Config.Analysis.Workers)

			names := engine.List()
			if strings.TrimSpace(nameList) != "" {
				names = nil
				for _, raw := range strings.Split(nameList, ",") {
					name := strings.TrimSpace(strings.ToLower(raw))
					if name == "" {
						continue
					}
					if _, err := engine.Lookup(name); err != nil {
						return err
					}
					names = append(names, name)
				}
			}

			results := engine.Compute(cmd.Context(), series.Bars, names)

			if asJSON {
				return printIndicatorsJSON(os.Stdout, series.Symbol, results)
			}
			printIndicatorsTable(os.Stdout, series.Symbol, len(series.Bars), results)
			return nil
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "symbol name (default derived from file name)")
	cmd.Flags().StringVarP(&nameList, "names", "n", "", "comma-separated indicator names (default all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON instead of a table")

	return cmd
}

// lastValue returns the most recent non-NaN value of a series.
func lastValue(values []float64) (float64, bool) {
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) {
			return values[i], true
		}
	}
	return 0, false
}

func printIndicatorsJSON(w *os.File, symbol string, results map[string][]float64) error {
	latest := make(map[string]*float64, len(results))
	for name, values := range results {
		if v, ok := lastValue(values); ok {
			val := v
			latest[name] = &val
		} else {
			latest[name] = nil
		}
	}

	out := struct {
		Symbol     string              `json:"symbol"`
		Indicators map[string]*float64 `json:"indicators"`
	}{Symbol: symbol, Indicators: latest}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode indicators: %w", err)
	}
	return nil
}
