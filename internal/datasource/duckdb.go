package datasource

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/hsquant/stratbt/internal/logger"
	"github.com/hsquant/stratbt/internal/types"
	"github.com/hsquant/stratbt/pkg/errors"
)

// DuckDBProvider serves bars from a DuckDB database. An empty path opens an
// in-memory database, useful for tests and ad-hoc ingestion.
type DuckDBProvider struct {
	db  *sql.DB
	sq  squirrel.StatementBuilderType
	log *logger.Logger
}

func NewDuckDBProvider(path string, log *logger.Logger) (*DuckDBProvider, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataUnavailable, "failed to open duckdb database", err)
	}

	return &DuckDBProvider{
		db:  db,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		log: log,
	}, nil
}

// InitSchema creates the market_data table if it does not exist.
func (p *DuckDBProvider) InitSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS market_data (
			time TIMESTAMP NOT NULL,
			symbol VARCHAR NOT NULL,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		);
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to create market_data table", err)
	}

	return nil
}

// Insert stores a series for one symbol.
func (p *DuckDBProvider) Insert(ctx context.Context, symbol string, series types.PriceSeries) error {
	builder := p.sq.Insert("market_data").
		Columns("time", "symbol", "open", "high", "low", "close", "volume")

	for _, bar := range series {
		builder = builder.Values(bar.Date, symbol, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to build insert", err)
	}

	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert market data", err)
	}

	p.log.Debug("Inserted market data",
		zap.String("symbol", symbol),
		zap.Int("rows", len(series)),
	)

	return nil
}

// FetchHistory implements Provider.
func (p *DuckDBProvider) FetchHistory(ctx context.Context, symbol string, start, end time.Time) (types.PriceSeries, error) {
	if err := validateRange(symbol, start, end); err != nil {
		return nil, err
	}

	query, args, err := p.sq.Select("time", "open", "high", "low", "close", "volume").
		From("market_data").
		Where(squirrel.Eq{"symbol": symbol}).
		Where(squirrel.GtOrEq{"time": start}).
		Where(squirrel.LtOrEq{"time": end}).
		OrderBy("time ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query market data", err)
	}
	defer rows.Close()

	var series types.PriceSeries

	for rows.Next() {
		var bar types.PriceBar

		if err := rows.Scan(&bar.Date, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan market data row", err)
		}

		series = append(series, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read market data rows", err)
	}

	return ensureNonEmpty(series, symbol, start, end)
}

// Close releases the underlying database handle.
func (p *DuckDBProvider) Close() error {
	return p.db.Close()
}
