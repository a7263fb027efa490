package datasource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/hsquant/stratbt/internal/logger"
	"github.com/hsquant/stratbt/internal/types"
	"github.com/hsquant/stratbt/pkg/errors"
)

// csvDate accepts the timestamp layouts commonly found in exported bar data.
type csvDate struct {
	time.Time
}

var csvDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (d *csvDate) UnmarshalCSV(value string) error {
	for _, layout := range csvDateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			d.Time = t

			return nil
		}
	}

	return fmt.Errorf("unrecognized time %q", value)
}

type csvBar struct {
	Time   csvDate `csv:"time"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume float64 `csv:"volume"`
}

// CSVProvider serves bars from one CSV file per symbol, named <symbol>.csv
// inside a data directory. Files need a time,open,high,low,close,volume
// header.
type CSVProvider struct {
	dir string
	log *logger.Logger
}

func NewCSVProvider(dir string, log *logger.Logger) *CSVProvider {
	return &CSVProvider{
		dir: dir,
		log: log,
	}
}

// FetchHistory implements Provider.
func (p *CSVProvider) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (types.PriceSeries, error) {
	if err := validateRange(symbol, start, end); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(p.dir, symbol+".csv")

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataUnavailable, err, "no data file for %s", symbol)
	}
	defer file.Close()

	var rows []csvBar
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataParseFailed, err, "failed to parse %s", path)
	}

	p.log.Debug("Loaded CSV data",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
	)

	series := make(types.PriceSeries, 0, len(rows))

	for _, row := range rows {
		if !inRange(row.Time.Time, start, end) {
			continue
		}

		series = append(series, types.PriceBar{
			Date:   row.Time.Time,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}

	if err := series.Validate(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataParseFailed, err, "unordered data in %s", path)
	}

	return ensureNonEmpty(series, symbol, start, end)
}
