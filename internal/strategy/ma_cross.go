package strategy

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/hsquant/stratbt/internal/indicator"
	"github.com/hsquant/stratbt/internal/types"
	"github.com/hsquant/stratbt/pkg/errors"
)

// MAKind selects the moving average flavor used by the crossover strategy.
type MAKind string

const (
	MAKindSMA MAKind = "SMA"
	MAKindEMA MAKind = "EMA"
)

// MovingAverageCrossConfig configures a moving average crossover strategy.
type MovingAverageCrossConfig struct {
	ShortPeriod int    `yaml:"short_period" validate:"required,gt=0"`
	LongPeriod  int    `yaml:"long_period" validate:"required,gt=0,gtfield=ShortPeriod"`
	MAKind      MAKind `yaml:"ma_kind" validate:"required,oneof=SMA EMA"`
	// Column is the price field the averages read. Defaults to close.
	Column types.Column `yaml:"column"`
}

// MovingAverageCross buys on a golden cross of a short over a long moving
// average and sells on the death cross.
type MovingAverageCross struct {
	config MovingAverageCrossConfig
}

// NewMovingAverageCross validates the configuration and constructs the
// strategy. Validation failures are fatal to the configuration.
func NewMovingAverageCross(config MovingAverageCrossConfig) (*MovingAverageCross, error) {
	if config.Column == "" {
		config.Column = types.ColumnClose
	}

	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameters, "invalid moving average cross config", err)
	}

	return &MovingAverageCross{config: config}, nil
}

// Name implements Strategy.
func (s *MovingAverageCross) Name() string {
	return fmt.Sprintf("ma_cross_%s_%d_%d", s.config.MAKind, s.config.ShortPeriod, s.config.LongPeriod)
}

// GenerateSignals implements Strategy.
func (s *MovingAverageCross) GenerateSignals(series types.PriceSeries) ([]types.Signal, error) {
	var (
		short, long []float64
		err         error
	)

	switch s.config.MAKind {
	case MAKindSMA:
		short, err = indicator.SMA(series, s.config.ShortPeriod, s.config.Column)
		if err != nil {
			return nil, err
		}

		long, err = indicator.SMA(series, s.config.LongPeriod, s.config.Column)
	case MAKindEMA:
		short, err = indicator.EMA(series, s.config.ShortPeriod, s.config.Column)
		if err != nil {
			return nil, err
		}

		long, err = indicator.EMA(series, s.config.LongPeriod, s.config.Column)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameters, "unknown moving average kind %q", s.config.MAKind)
	}

	if err != nil {
		return nil, err
	}

	crossovers, err := indicator.DetectCrossovers(series.Dates(), short, long)
	if err != nil {
		return nil, err
	}

	return signalsFromCrossovers(len(series), crossovers), nil
}
