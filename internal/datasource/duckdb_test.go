package datasource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/hsquant/stratbt/internal/logger"
	"github.com/hsquant/stratbt/internal/types"
	"github.com/hsquant/stratbt/pkg/errors"
)

type DuckDBProviderTestSuite struct {
	suite.Suite
	provider *DuckDBProvider
}

func TestDuckDBProviderSuite(t *testing.T) {
	suite.Run(t, new(DuckDBProviderTestSuite))
}

func (suite *DuckDBProviderTestSuite) SetupTest() {
	provider, err := NewDuckDBProvider("", logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.provider = provider

	suite.Require().NoError(provider.InitSchema(context.Background()))

	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	series := make(types.PriceSeries, 5)

	for i := range series {
		price := 100.0 + float64(i)
		series[i] = types.PriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1000,
		}
	}

	suite.Require().NoError(provider.Insert(context.Background(), "AAPL", series))
}

func (suite *DuckDBProviderTestSuite) TearDownTest() {
	suite.Require().NoError(suite.provider.Close())
}

func (suite *DuckDBProviderTestSuite) TestFetchAll() {
	series, err := suite.provider.FetchHistory(context.Background(), "AAPL",
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)

	suite.Len(series, 5)
	suite.NoError(series.Validate())
	suite.Equal(100.0, series[0].Close)
	suite.Equal(104.0, series[4].Close)
}

func (suite *DuckDBProviderTestSuite) TestFetchWindow() {
	series, err := suite.provider.FetchHistory(context.Background(), "AAPL",
		time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	suite.Len(series, 3)
}

func (suite *DuckDBProviderTestSuite) TestUnknownSymbol() {
	_, err := suite.provider.FetchHistory(context.Background(), "MSFT",
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))
}

func (suite *DuckDBProviderTestSuite) TestEndBeforeStart() {
	_, err := suite.provider.FetchHistory(context.Background(), "AAPL",
		time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))
}
