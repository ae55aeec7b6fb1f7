package cli

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdemuth17/market-analysis/internal/analysis"
	"github.com/jdemuth17/market-analysis/internal/analysis/patterns"
	"github.com/jdemuth17/market-analysis/internal/data"
	apperrors "github.com/jdemuth17/market-analysis/internal/errors"
	"github.com/jdemuth17/market-analysis/internal/logging"
)

func newScanCmd(app *App) *cobra.Command {
	var (
		symbol      string
		patternList string
		lookback    int
		pivotOrder  int
		asJSON      bool
		save        bool
	)

	cmd := &cobra.Command{
		Use:   "scan <csv-file>",
		Short: "Scan a daily OHLCV CSV file for chart patterns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := data.LoadSeries(args[0], symbol)
			if err != nil {
				return err
			}
			logger := logging.WithSymbol(app.Logger, series.Symbol)

			requested, err := resolvePatterns(patternList)
			if err != nil {
				return err
			}

			if lookback <= 0 {
				lookback = app.Config.Analysis.LookbackDays
			}
			if pivotOrder <= 0 {
				pivotOrder = app.Config.Analysis.PivotOrder
			}

			engine := patterns.NewEngine(patterns.Config{
				LookbackDays: lookback,
				PivotOrder:   pivotOrder,
			}, logger)

			start := time.Now()
			detected, err := engine.Detect(series.Bars, requested)
			if err != nil {
				return err
			}
			logging.LogScan(logger, series.Symbol, len(series.Bars),
				len(requested), len(detected), time.Since(start))

			if save {
				s, err := app.Store()
				if err != nil {
					return err
				}
				if err := s.SaveBars(series.Symbol, series.Bars); err != nil {
					return err
				}
				if err := s.SavePatterns(series.Symbol, detected); err != nil {
					return err
				}
			}

			if asJSON {
				return printPatternsJSON(os.Stdout, series.Symbol, detected)
			}
			printPatternsTable(os.Stdout, series.Symbol, detected)
			return nil
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "symbol name (default derived from file name)")
	cmd.Flags().StringVarP(&patternList, "patterns", "p", "", "comma-separated pattern types (default all)")
	cmd.Flags().IntVar(&lookback, "lookback", 0, "trailing bars to analyze (default from config)")
	cmd.Flags().IntVar(&pivotOrder, "pivot-order", 0, "pivot comparison half-window (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON instead of a table")
	cmd.Flags().BoolVar(&save, "save", false, "persist bars and detected patterns to the local store")

	return cmd
}

// resolvePatterns parses a comma-separated pattern list, defaulting to
// every supported type.
func resolvePatterns(list string) ([]analysis.PatternType, error) {
	if strings.TrimSpace(list) == "" {
		return analysis.AllPatternTypes(), nil
	}

	var requested []analysis.PatternType
	for _, raw := range strings.Split(list, ",") {
		name := strings.TrimSpace(strings.ToLower(raw))
		if name == "" {
			continue
		}
		pt, ok := analysis.ParsePatternType(name)
		if !ok {
			return nil, apperrors.Wrapf(apperrors.ErrUnknownPattern, "%q (see 'marketscan patterns list')", name)
		}
		requested = append(requested, pt)
	}
	if len(requested) == 0 {
		return analysis.AllPatternTypes(), nil
	}
	return requested, nil
}

type patternJSON struct {
	Type       string             `json:"pattern_type"`
	Direction  string             `json:"direction"`
	Confidence float64            `json:"confidence"`
	StartDate  string             `json:"start_date"`
	EndDate    string             `json:"end_date"`
	KeyLevels  map[string]float64 `json:"key_levels"`
	Status     string             `json:"status"`
}

func printPatternsJSON(w *os.File, symbol string, detected []analysis.DetectedPattern) error {
	out := struct {
		Symbol   string        `json:"symbol"`
		Patterns []patternJSON `json:"patterns"`
	}{Symbol: symbol, Patterns: make([]patternJSON, 0, len(detected))}

	for _, p := range detected {
		out.Patterns = append(out.Patterns, patternJSON{
			Type:       string(p.Type),
			Direction:  string(p.Direction),
			Confidence: p.Confidence,
			StartDate:  p.StartDate.Format("2006-01-02"),
			EndDate:    p.EndDate.Format("2006-01-02"),
			KeyLevels:  p.KeyLevels,
			Status:     string(p.Status),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
