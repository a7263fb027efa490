package types

import (
	"time"

	"github.com/hsquant/stratbt/pkg/errors"
)

// PriceBar is a single OHLCV bar.
type PriceBar struct {
	Date   time.Time `csv:"time" yaml:"date"`
	Open   float64   `csv:"open" yaml:"open"`
	High   float64   `csv:"high" yaml:"high"`
	Low    float64   `csv:"low" yaml:"low"`
	Close  float64   `csv:"close" yaml:"close"`
	Volume float64   `csv:"volume" yaml:"volume"`
}

// Column selects which price field a computation reads.
type Column string

const (
	ColumnOpen   Column = "open"
	ColumnHigh   Column = "high"
	ColumnLow    Column = "low"
	ColumnClose  Column = "close"
	ColumnVolume Column = "volume"
)

// Value returns the bar's value for the given column.
func (b PriceBar) Value(column Column) (float64, error) {
	switch column {
	case ColumnOpen:
		return b.Open, nil
	case ColumnHigh:
		return b.High, nil
	case ColumnLow:
		return b.Low, nil
	case ColumnClose:
		return b.Close, nil
	case ColumnVolume:
		return b.Volume, nil
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidInput, "unknown column %q", column)
	}
}

// PriceSeries is an ordered sequence of bars, strictly increasing by date.
// The series is owned by the caller and never mutated by this module.
type PriceSeries []PriceBar

// Validate checks that the series is strictly increasing by date with no
// duplicate dates.
func (s PriceSeries) Validate() error {
	for i := 1; i < len(s); i++ {
		if !s[i].Date.After(s[i-1].Date) {
			return errors.Newf(errors.ErrCodeInvalidInput,
				"price series must be strictly increasing by date: bar %d (%s) does not follow bar %d (%s)",
				i, s[i].Date.Format(time.RFC3339), i-1, s[i-1].Date.Format(time.RFC3339))
		}
	}

	return nil
}

// Values extracts one column from every bar.
func (s PriceSeries) Values(column Column) ([]float64, error) {
	values := make([]float64, len(s))

	for i, bar := range s {
		v, err := bar.Value(column)
		if err != nil {
			return nil, err
		}

		values[i] = v
	}

	return values, nil
}

// Closes extracts the closing prices from every bar.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, bar := range s {
		closes[i] = bar.Close
	}

	return closes
}

// Dates extracts the dates from every bar.
func (s PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s))
	for i, bar := range s {
		dates[i] = bar.Date
	}

	return dates
}
