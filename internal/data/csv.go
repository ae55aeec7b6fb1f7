// Package data loads OHLCV price series from CSV files.
package data

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	apperrors "github.com/jdemuth17/market-analysis/internal/errors"
	"github.com/jdemuth17/market-analysis/internal/models"
)

// csvDate handles the YYYY-MM-DD date format used in daily bar files.
type csvDate struct {
	time.Time
}

// UnmarshalCSV implements gocsv unmarshalling for csvDate.
func (d *csvDate) UnmarshalCSV(csv string) error {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(csv))
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", csv, err)
	}
	d.Time = t
	return nil
}

// MarshalCSV implements gocsv marshalling for csvDate.
func (d csvDate) MarshalCSV() (string, error) {
	return d.Format("2006-01-02"), nil
}

type csvBar struct {
	Date   csvDate `csv:"date"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume float64 `csv:"volume"`
}

// LoadCSV reads daily bars from a CSV file with a
// date,open,high,low,close,volume header. Rows are returned sorted by
// date ascending regardless of file order; duplicate dates keep the
// last row in file order.
func LoadCSV(path string) ([]models.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrapf(apperrors.ErrDataNotFound, "file %s", path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var rows []csvBar
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrMalformedBars, "failed to parse %s: %v", path, err)
	}
	if len(rows) == 0 {
		return nil, apperrors.Wrapf(apperrors.ErrDataNotFound, "no rows in %s", path)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date.Time)
	})

	// Duplicate dates collapse to the last row seen for that date.
	bars := make([]models.Bar, 0, len(rows))
	for _, r := range rows {
		bar := models.Bar{
			Date:   r.Date.Time,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		}
		if len(bars) > 0 && bars[len(bars)-1].Date.Equal(bar.Date) {
			bars[len(bars)-1] = bar
			continue
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// LoadSeries reads a CSV file and wraps it in a PriceSeries, deriving
// the symbol from the file name when none is given.
func LoadSeries(path, symbol string) (*models.PriceSeries, error) {
	if symbol == "" {
		symbol = strings.ToUpper(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	bars, err := LoadCSV(path)
	if err != nil {
		return nil, apperrors.NewDataError("csv", symbol, path, err)
	}
	return &models.PriceSeries{
		Symbol:    symbol,
		Bars:      bars,
		FetchedAt: time.Now(),
	}, nil
}
