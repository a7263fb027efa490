package simulator

import (
	"github.com/moznion/go-optional"

	"github.com/hsquant/stratbt/internal/types"
)

// HoldingValue prices one holding. Price and Value are None when the
// caller did not supply a current price for the symbol; the position is
// reported as unresolved rather than valued at zero.
type HoldingValue struct {
	Quantity float64                 `yaml:"quantity"`
	Price    optional.Option[float64] `yaml:"price"`
	Value    optional.Option[float64] `yaml:"value"`
}

// PortfolioValue is a point-in-time valuation of the ledger.
type PortfolioValue struct {
	Cash float64 `yaml:"cash"`
	// HoldingsValue sums the resolved holdings only.
	HoldingsValue float64 `yaml:"holdings_value"`
	// TotalValue is cash plus the resolved holdings value.
	TotalValue float64                 `yaml:"total_value"`
	Detail     map[string]HoldingValue `yaml:"detail"`
}

// PortfolioValue prices the current holdings with the supplied prices.
func (s *Simulator) PortfolioValue(currentPrices map[string]float64) PortfolioValue {
	detail := make(map[string]HoldingValue, len(s.holdings))

	var holdingsValue float64

	for symbol, quantity := range s.Holdings() {
		price, ok := currentPrices[symbol]
		if !ok {
			detail[symbol] = HoldingValue{
				Quantity: quantity,
				Price:    optional.None[float64](),
				Value:    optional.None[float64](),
			}

			continue
		}

		value := quantity * price
		holdingsValue += value
		detail[symbol] = HoldingValue{
			Quantity: quantity,
			Price:    optional.Some(price),
			Value:    optional.Some(value),
		}
	}

	return PortfolioValue{
		Cash:          s.Cash(),
		HoldingsValue: holdingsValue,
		TotalValue:    s.Cash() + holdingsValue,
		Detail:        detail,
	}
}

// Summary reports trade counts and the cash change versus initial cash.
type Summary struct {
	TotalTrades int     `yaml:"total_trades"`
	BuyTrades   int     `yaml:"buy_trades"`
	SellTrades  int     `yaml:"sell_trades"`
	InitialCash float64 `yaml:"initial_cash"`
	FinalCash   float64 `yaml:"final_cash"`
	CashChange  float64 `yaml:"cash_change"`
	// CashChangePct is the cash change as a fraction of initial cash,
	// 0 when initial cash is 0.
	CashChangePct float64 `yaml:"cash_change_pct"`
}

// Summary summarizes the current trade log.
func (s *Simulator) Summary() Summary {
	summary := Summary{
		TotalTrades: len(s.trades),
		InitialCash: s.InitialCash(),
		FinalCash:   s.Cash(),
	}

	for _, trade := range s.trades {
		if trade.Side == types.SideBuy {
			summary.BuyTrades++
		} else {
			summary.SellTrades++
		}
	}

	summary.CashChange = summary.FinalCash - summary.InitialCash
	if summary.InitialCash != 0 {
		summary.CashChangePct = summary.CashChange / summary.InitialCash
	}

	return summary
}
