package backtest

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"

	"github.com/hsquant/stratbt/internal/simulator/commission"
	"github.com/hsquant/stratbt/pkg/errors"
)

// Config controls a single backtest run.
type Config struct {
	// InitialCapital is the starting cash balance for both the analytic
	// capital curve and the trade simulator.
	InitialCapital float64 `yaml:"initial_capital" validate:"required,gt=0"`
	// CommissionScheme selects the fee model for simulated trades.
	CommissionScheme commission.Scheme `yaml:"commission_scheme" validate:"oneof=zero fixed_rate per_share"`
	// CommissionRate parameterizes the fee model. For the fixed_rate scheme
	// it is a fraction of notional, for per_share a fee per share.
	CommissionRate float64 `yaml:"commission_rate" validate:"gte=0"`
	// TradeUnit is the quantity bought or sold per signal by the simulator.
	TradeUnit float64 `yaml:"trade_unit" validate:"gt=0"`
	// RiskFreeRate is the annual risk-free rate used for the Sharpe ratio.
	RiskFreeRate float64 `yaml:"risk_free_rate" validate:"gte=0,lt=1"`
	// StartTime and EndTime clip the input series to a window. None means
	// unbounded on that side.
	StartTime optional.Option[time.Time] `yaml:"start_time"`
	EndTime   optional.Option[time.Time] `yaml:"end_time"`
}

// DefaultConfig returns the configuration used when a field is omitted.
func DefaultConfig() Config {
	return Config{
		InitialCapital:   100000,
		CommissionScheme: commission.SchemeZero,
		CommissionRate:   0,
		TradeUnit:        1,
		RiskFreeRate:     0.02,
		StartTime:        optional.None[time.Time](),
		EndTime:          optional.None[time.Time](),
	}
}

// UnmarshalYAML implements custom unmarshaling so omitted fields keep their
// defaults and the optional time bounds decode from plain timestamps.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type rawConfig struct {
		InitialCapital   *float64          `yaml:"initial_capital"`
		CommissionScheme commission.Scheme `yaml:"commission_scheme"`
		CommissionRate   *float64          `yaml:"commission_rate"`
		TradeUnit        *float64          `yaml:"trade_unit"`
		RiskFreeRate     *float64          `yaml:"risk_free_rate"`
		StartTime        *time.Time        `yaml:"start_time"`
		EndTime          *time.Time        `yaml:"end_time"`
	}

	var raw rawConfig
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.InitialCapital != nil {
		c.InitialCapital = *raw.InitialCapital
	}

	if raw.CommissionScheme != "" {
		c.CommissionScheme = raw.CommissionScheme
	}

	if raw.CommissionRate != nil {
		c.CommissionRate = *raw.CommissionRate
	}

	if raw.TradeUnit != nil {
		c.TradeUnit = *raw.TradeUnit
	}

	if raw.RiskFreeRate != nil {
		c.RiskFreeRate = *raw.RiskFreeRate
	}

	if raw.StartTime != nil {
		c.StartTime = optional.Some(*raw.StartTime)
	}

	if raw.EndTime != nil {
		c.EndTime = optional.Some(*raw.EndTime)
	}

	return nil
}

// Validate checks the configuration against its constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, "invalid backtest config", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidConfig, "end_time must not be before start_time")
	}

	return nil
}

// ParseConfig parses a YAML configuration, applying defaults for omitted
// fields, and validates the result.
func ParseConfig(content []byte) (Config, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal(content, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, "failed to parse backtest config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}
