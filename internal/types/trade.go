package types

import "time"

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// TradeRecord is one executed simulated order. Records are append-only and
// owned exclusively by the simulator run that produced them.
type TradeRecord struct {
	ID        string    `yaml:"id" csv:"id"`
	Timestamp time.Time `yaml:"timestamp" csv:"timestamp"`
	Symbol    string    `yaml:"symbol" csv:"symbol"`
	Side      Side      `yaml:"side" csv:"side"`
	Price     float64   `yaml:"price" csv:"price"`
	Quantity  float64   `yaml:"quantity" csv:"quantity"`
	// Amount is the cost for a buy or the proceeds for a sell,
	// commission included.
	Amount float64 `yaml:"amount" csv:"amount"`
	// Cash is the cash balance after this trade settled.
	Cash float64 `yaml:"cash" csv:"cash"`
}
