package datasource

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"go.uber.org/zap"

	"github.com/hsquant/stratbt/internal/logger"
	"github.com/hsquant/stratbt/internal/types"
	"github.com/hsquant/stratbt/pkg/errors"
)

const polygonPageLimit = 50000

// PolygonProvider serves daily bars from the Polygon aggregates API.
type PolygonProvider struct {
	client *polygon.Client
	log    *logger.Logger
}

func NewPolygonProvider(apiKey string, log *logger.Logger) (*PolygonProvider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "polygon api key is required")
	}

	return &PolygonProvider{
		client: polygon.New(apiKey),
		log:    log,
	}, nil
}

// FetchHistory implements Provider.
func (p *PolygonProvider) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (types.PriceSeries, error) {
	if err := validateRange(symbol, start, end); err != nil {
		return nil, err
	}

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithLimit(polygonPageLimit).WithOrder(models.Asc)

	iter := p.client.ListAggs(ctx, params)

	var series types.PriceSeries

	for iter.Next() {
		agg := iter.Item()
		series = append(series, types.PriceBar{
			Date:   time.Time(agg.Timestamp),
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to fetch aggregates for %s", symbol)
	}

	p.log.Debug("Fetched polygon aggregates",
		zap.String("symbol", symbol),
		zap.Int("bars", len(series)),
	)

	return ensureNonEmpty(series, symbol, start, end)
}
