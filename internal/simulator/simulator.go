// Package simulator executes signal sequences against a cash/holdings ledger.
package simulator

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hsquant/stratbt/internal/logger"
	"github.com/hsquant/stratbt/internal/simulator/commission"
	"github.com/hsquant/stratbt/internal/types"
	"github.com/hsquant/stratbt/pkg/errors"
)

// Simulator tracks cash, holdings and an append-only trade log. One
// instance must not be driven concurrently; callers running parallel
// backtests use one simulator per run.
type Simulator struct {
	initialCash decimal.Decimal
	cash        decimal.Decimal
	holdings    map[string]decimal.Decimal
	trades      []types.TradeRecord
	fees        commission.Model
	log         *logger.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithCommission sets the fee model applied to every order.
func WithCommission(model commission.Model) Option {
	return func(s *Simulator) {
		s.fees = model
	}
}

// WithLogger sets the logger used for skipped orders during Simulate.
func WithLogger(log *logger.Logger) Option {
	return func(s *Simulator) {
		s.log = log
	}
}

// New creates a simulator holding initialCash and no positions.
func New(initialCash float64, opts ...Option) *Simulator {
	s := &Simulator{
		initialCash: decimal.NewFromFloat(initialCash),
		cash:        decimal.NewFromFloat(initialCash),
		holdings:    make(map[string]decimal.Decimal),
		trades:      nil,
		fees:        commission.NewZero(),
		log:         logger.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Reset restores the ledger to its initial state: full cash, no holdings,
// empty trade log.
func (s *Simulator) Reset() {
	s.cash = s.initialCash
	s.holdings = make(map[string]decimal.Decimal)
	s.trades = nil
}

// Buy purchases quantity units at price. It fails with InsufficientFunds
// when the total cost, fees included, exceeds available cash; cash can
// never go negative.
func (s *Simulator) Buy(symbol string, price float64, quantity float64, timestamp time.Time) (types.TradeRecord, error) {
	if price <= 0 || quantity <= 0 {
		return types.TradeRecord{}, errors.Newf(errors.ErrCodeInvalidInput,
			"buy requires positive price and quantity, got price=%f quantity=%f", price, quantity)
	}

	fee := s.fees.Calculate(price, quantity)
	cost := decimal.NewFromFloat(price).
		Mul(decimal.NewFromFloat(quantity)).
		Add(decimal.NewFromFloat(fee))

	if cost.GreaterThan(s.cash) {
		return types.TradeRecord{}, errors.Newf(errors.ErrCodeInsufficientFunds,
			"insufficient funds: need %s, have %s", cost.String(), s.cash.String())
	}

	s.cash = s.cash.Sub(cost)
	s.holdings[symbol] = s.holding(symbol).Add(decimal.NewFromFloat(quantity))

	record := types.TradeRecord{
		ID:        uuid.New().String(),
		Timestamp: timestamp,
		Symbol:    symbol,
		Side:      types.SideBuy,
		Price:     price,
		Quantity:  quantity,
		Amount:    cost.InexactFloat64(),
		Cash:      s.cash.InexactFloat64(),
	}
	s.trades = append(s.trades, record)

	return record, nil
}

// Sell liquidates quantity units at price. It fails with UnknownPosition
// when the symbol is not held and InsufficientPosition when quantity
// exceeds the held amount. A holding is removed once it reaches zero.
func (s *Simulator) Sell(symbol string, price float64, quantity float64, timestamp time.Time) (types.TradeRecord, error) {
	if price <= 0 || quantity <= 0 {
		return types.TradeRecord{}, errors.Newf(errors.ErrCodeInvalidInput,
			"sell requires positive price and quantity, got price=%f quantity=%f", price, quantity)
	}

	held, ok := s.holdings[symbol]
	if !ok {
		return types.TradeRecord{}, errors.Newf(errors.ErrCodeUnknownPosition, "no holding for symbol %s", symbol)
	}

	quantityDec := decimal.NewFromFloat(quantity)
	if quantityDec.GreaterThan(held) {
		return types.TradeRecord{}, errors.Newf(errors.ErrCodeInsufficientPosition,
			"insufficient position: selling %s, holding %s of %s", quantityDec.String(), held.String(), symbol)
	}

	fee := s.fees.Calculate(price, quantity)
	proceeds := decimal.NewFromFloat(price).
		Mul(quantityDec).
		Sub(decimal.NewFromFloat(fee))

	s.cash = s.cash.Add(proceeds)

	remaining := held.Sub(quantityDec)
	if remaining.IsZero() {
		delete(s.holdings, symbol)
	} else {
		s.holdings[symbol] = remaining
	}

	record := types.TradeRecord{
		ID:        uuid.New().String(),
		Timestamp: timestamp,
		Symbol:    symbol,
		Side:      types.SideSell,
		Price:     price,
		Quantity:  quantity,
		Amount:    proceeds.InexactFloat64(),
		Cash:      s.cash.InexactFloat64(),
	}
	s.trades = append(s.trades, record)

	return record, nil
}

// Simulate resets the ledger and executes one signal per bar in
// chronological order. Rejected orders are logged and skipped so a single
// failed order never aborts the run; Simulate only fails on malformed
// input, never on ledger state.
func (s *Simulator) Simulate(series types.PriceSeries, signals []types.Signal, symbol string, unitQuantity float64) (Result, error) {
	if len(signals) != len(series) {
		return Result{}, errors.Newf(errors.ErrCodeInvalidInput,
			"signal sequence must align with price series: %d signals, %d bars", len(signals), len(series))
	}

	if err := series.Validate(); err != nil {
		return Result{}, err
	}

	s.Reset()

	for i, bar := range series {
		switch signals[i] {
		case types.SignalBuy:
			if _, err := s.Buy(symbol, bar.Close, unitQuantity, bar.Date); err != nil {
				s.log.Debug("skipping rejected buy",
					zap.String("symbol", symbol),
					zap.Time("date", bar.Date),
					zap.Error(err),
				)
			}
		case types.SignalSell:
			held, ok := s.holdings[symbol]
			if !ok {
				continue
			}

			quantity := unitQuantity
			if heldFloat := held.InexactFloat64(); heldFloat < quantity {
				quantity = heldFloat
			}

			if _, err := s.Sell(symbol, bar.Close, quantity, bar.Date); err != nil {
				s.log.Debug("skipping rejected sell",
					zap.String("symbol", symbol),
					zap.Time("date", bar.Date),
					zap.Error(err),
				)
			}
		}
	}

	return Result{
		FinalCash:     s.Cash(),
		FinalHoldings: s.Holdings(),
		Trades:        s.Trades(),
	}, nil
}

// Result is the outcome of one Simulate run.
type Result struct {
	FinalCash     float64
	FinalHoldings map[string]float64
	Trades        []types.TradeRecord
}

// Cash returns the current cash balance.
func (s *Simulator) Cash() float64 {
	return s.cash.InexactFloat64()
}

// InitialCash returns the cash the simulator was constructed with.
func (s *Simulator) InitialCash() float64 {
	return s.initialCash.InexactFloat64()
}

// Holdings returns a copy of the current holdings.
func (s *Simulator) Holdings() map[string]float64 {
	holdings := make(map[string]float64, len(s.holdings))
	for symbol, quantity := range s.holdings {
		holdings[symbol] = quantity.InexactFloat64()
	}

	return holdings
}

// Trades returns a copy of the trade log in execution order.
func (s *Simulator) Trades() []types.TradeRecord {
	trades := make([]types.TradeRecord, len(s.trades))
	copy(trades, s.trades)

	return trades
}

func (s *Simulator) holding(symbol string) decimal.Decimal {
	if held, ok := s.holdings[symbol]; ok {
		return held
	}

	return decimal.Zero
}
