package cli

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/jdemuth17/market-analysis/internal/analysis"
	"github.com/jdemuth17/market-analysis/internal/store"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// colorDirection colors pattern directions: green bullish, red bearish.
func colorDirection(d analysis.Direction) string {
	switch d {
	case analysis.Bullish:
		return green(string(d))
	case analysis.Bearish:
		return red(string(d))
	default:
		return yellow(string(d))
	}
}

// colorStatus colors confirmed green and failed red. Failed only shows
// up in stored history, never in fresh scan output.
func colorStatus(s analysis.PatternStatus) string {
	switch s {
	case analysis.StatusConfirmed:
		return green(string(s))
	case analysis.StatusFailed:
		return red(string(s))
	default:
		return string(s)
	}
}

// formatFloat renders a value, showing "-" for NaN warmup values.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

// formatKeyLevels renders key levels as name=value pairs in sorted order.
func formatKeyLevels(levels map[string]float64) string {
	if len(levels) == 0 {
		return "-"
	}
	names := make([]string, 0, len(levels))
	for name := range levels {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%.2f", name, levels[name]))
	}
	return strings.Join(parts, " ")
}

func printPatternsTable(w io.Writer, symbol string, detected []analysis.DetectedPattern) {
	fmt.Fprintf(w, "\n%s %s\n\n", bold("Patterns:"), symbol)
	if len(detected) == 0 {
		fmt.Fprintln(w, "No patterns detected.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATTERN\tDIRECTION\tCONF\tSTART\tEND\tSTATUS\tKEY LEVELS")
	for _, p := range detected {
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%s\t%s\t%s\t%s\n",
			string(p.Type),
			colorDirection(p.Direction),
			p.Confidence,
			p.StartDate.Format("2006-01-02"),
			p.EndDate.Format("2006-01-02"),
			colorStatus(p.Status),
			formatKeyLevels(p.KeyLevels),
		)
	}
	tw.Flush()
}

func printIndicatorsTable(w io.Writer, symbol string, bars int, results map[string][]float64) {
	fmt.Fprintf(w, "\n%s %s (%d bars)\n\n", bold("Indicators:"), symbol, bars)
	if len(results) == 0 {
		fmt.Fprintln(w, "No indicators computed (insufficient data?).")
		return
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDICATOR\tLATEST")
	for _, name := range names {
		v, ok := lastValue(results[name])
		if !ok {
			fmt.Fprintf(tw, "%s\t-\n", name)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", name, formatFloat(v))
	}
	tw.Flush()
}

func printPatternHistory(w io.Writer, symbol string, records []store.PatternRecord) {
	fmt.Fprintf(w, "\n%s %s\n\n", bold("Pattern history:"), symbol)
	if len(records) == 0 {
		fmt.Fprintln(w, "No saved detections.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DETECTED\tPATTERN\tDIRECTION\tCONF\tSTART\tEND\tSTATUS")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%s\t%s\t%s\n",
			rec.DetectedAt.Format("2006-01-02 15:04"),
			string(rec.Pattern.Type),
			colorDirection(rec.Pattern.Direction),
			rec.Pattern.Confidence,
			rec.Pattern.StartDate.Format("2006-01-02"),
			rec.Pattern.EndDate.Format("2006-01-02"),
			colorStatus(rec.Pattern.Status),
		)
	}
	tw.Flush()
}
