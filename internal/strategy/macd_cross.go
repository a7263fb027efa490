package strategy

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/hsquant/stratbt/internal/indicator"
	"github.com/hsquant/stratbt/internal/types"
	"github.com/hsquant/stratbt/pkg/errors"
)

// MACDCrossConfig configures a MACD line / signal line crossover strategy.
type MACDCrossConfig struct {
	FastPeriod   int `yaml:"fast_period" validate:"required,gt=0"`
	SlowPeriod   int `yaml:"slow_period" validate:"required,gt=0,gtfield=FastPeriod"`
	SignalPeriod int `yaml:"signal_period" validate:"required,gt=0"`
	// Column is the price field MACD reads. Defaults to close.
	Column types.Column `yaml:"column"`
}

// MACDCross buys when the MACD line crosses above its signal line and
// sells when it crosses below.
type MACDCross struct {
	config MACDCrossConfig
}

// NewMACDCross validates the configuration and constructs the strategy.
func NewMACDCross(config MACDCrossConfig) (*MACDCross, error) {
	if config.Column == "" {
		config.Column = types.ColumnClose
	}

	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameters, "invalid macd cross config", err)
	}

	return &MACDCross{config: config}, nil
}

// Name implements Strategy.
func (s *MACDCross) Name() string {
	return fmt.Sprintf("macd_cross_%d_%d_%d", s.config.FastPeriod, s.config.SlowPeriod, s.config.SignalPeriod)
}

// GenerateSignals implements Strategy.
func (s *MACDCross) GenerateSignals(series types.PriceSeries) ([]types.Signal, error) {
	result, err := indicator.MACD(series, s.config.FastPeriod, s.config.SlowPeriod, s.config.SignalPeriod, s.config.Column)
	if err != nil {
		return nil, err
	}

	crossovers, err := indicator.DetectCrossovers(series.Dates(), result.Line, result.Signal)
	if err != nil {
		return nil, err
	}

	return signalsFromCrossovers(len(series), crossovers), nil
}
