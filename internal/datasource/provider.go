// Package datasource loads historical price series from local CSV files,
// DuckDB databases, and the Polygon market data API.
package datasource

import (
	"context"
	"time"

	"github.com/hsquant/stratbt/internal/types"
	"github.com/hsquant/stratbt/pkg/errors"
)

// Provider fetches the historical bars of one symbol over a date range.
type Provider interface {
	// FetchHistory returns bars with dates inside [start, end], ordered by
	// date. It fails with ErrCodeDataUnavailable when the range holds no
	// data or is reversed (end before start), and ErrCodeInvalidInput when
	// the symbol is missing.
	FetchHistory(ctx context.Context, symbol string, start, end time.Time) (types.PriceSeries, error)
}

func validateRange(symbol string, start, end time.Time) error {
	if symbol == "" {
		return errors.New(errors.ErrCodeInvalidInput, "symbol is required")
	}

	// A reversed range can never hold data, so it reports the same code
	// as an empty result.
	if end.Before(start) {
		return errors.Newf(errors.ErrCodeDataUnavailable,
			"invalid range: end %s is before start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	return nil
}

func ensureNonEmpty(series types.PriceSeries, symbol string, start, end time.Time) (types.PriceSeries, error) {
	if len(series) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataUnavailable,
			"no data for %s between %s and %s",
			symbol, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	return series, nil
}

func inRange(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}
