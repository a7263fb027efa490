package datasource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/hsquant/stratbt/internal/logger"
	"github.com/hsquant/stratbt/pkg/errors"
)

type CSVProviderTestSuite struct {
	suite.Suite
	dir      string
	provider *CSVProvider
}

func TestCSVProviderSuite(t *testing.T) {
	suite.Run(t, new(CSVProviderTestSuite))
}

func (suite *CSVProviderTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.provider = NewCSVProvider(suite.dir, logger.NewNopLogger())

	content := `time,open,high,low,close,volume
2023-01-02,100,102,99,101,1000
2023-01-03,101,103,100,102,1100
2023-01-04,102,104,101,103,1200
2023-01-05,103,105,102,104,1300
`
	err := os.WriteFile(filepath.Join(suite.dir, "AAPL.csv"), []byte(content), 0644)
	suite.Require().NoError(err)
}

func (suite *CSVProviderTestSuite) TestFetchAll() {
	series, err := suite.provider.FetchHistory(context.Background(), "AAPL",
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)

	suite.Len(series, 4)
	suite.Equal(101.0, series[0].Close)
	suite.Equal(104.0, series[3].Close)
	suite.NoError(series.Validate())
}

func (suite *CSVProviderTestSuite) TestFetchWindow() {
	series, err := suite.provider.FetchHistory(context.Background(), "AAPL",
		time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 4, 0, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)

	suite.Len(series, 2)
	suite.Equal(102.0, series[0].Close)
}

func (suite *CSVProviderTestSuite) TestUnknownSymbol() {
	_, err := suite.provider.FetchHistory(context.Background(), "MSFT",
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))
}

func (suite *CSVProviderTestSuite) TestEmptyWindow() {
	_, err := suite.provider.FetchHistory(context.Background(), "AAPL",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))
}

func (suite *CSVProviderTestSuite) TestEndBeforeStart() {
	_, err := suite.provider.FetchHistory(context.Background(), "AAPL",
		time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	suite.Require().Error(err)

	// A reversed range reports the same code as an empty result.
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))
}

func (suite *CSVProviderTestSuite) TestEmptySymbol() {
	_, err := suite.provider.FetchHistory(context.Background(), "",
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidInput))
}

func (suite *CSVProviderTestSuite) TestMalformedFile() {
	err := os.WriteFile(filepath.Join(suite.dir, "BAD.csv"),
		[]byte("time,open,high,low,close,volume\nnot-a-date,1,2,3,4,5\n"), 0644)
	suite.Require().NoError(err)

	_, err = suite.provider.FetchHistory(context.Background(), "BAD",
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataParseFailed))
}

func (suite *CSVProviderTestSuite) TestTimestampLayouts() {
	content := `time,open,high,low,close,volume
2023-01-02T09:30:00Z,100,102,99,101,1000
2023-01-03 09:30:00,101,103,100,102,1100
`
	err := os.WriteFile(filepath.Join(suite.dir, "MIXED.csv"), []byte(content), 0644)
	suite.Require().NoError(err)

	series, err := suite.provider.FetchHistory(context.Background(), "MIXED",
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	suite.Len(series, 2)
}
