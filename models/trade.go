package models

// Order statuses reported per leg. "placed" means the exchange accepted the
// order; "filled" is only reported by venues that confirm execution in the
// placement response.
const (
	OrderStatusPlaced = "placed"
	OrderStatusFilled = "filled"
	OrderStatusFailed = "failed"
)

// Leg sides as submitted to the exchanges.
const (
	SideShort = "sell"
	SideLong  = "buy"
)

// TradeRequest identifies a chosen opportunity plus position sizing. The
// caller validates inputs; the orchestrator re-checks the numeric invariants
// and credentials before any network call.
type TradeRequest struct {
	Symbol        string  `json:"symbol"`
	ShortExchange string  `json:"short_exchange"`
	LongExchange  string  `json:"long_exchange"`
	ShortSymbol   string  `json:"original_symbol_short"`
	LongSymbol    string  `json:"original_symbol_long"`
	Quantity      float64 `json:"quantity"`
	Leverage      float64 `json:"leverage"`
}

// OrderResult is the outcome of one leg, mapped from the exchange-specific
// placement response.
type OrderResult struct {
	Exchange string  `json:"exchange"`
	Symbol   string  `json:"symbol"`
	Side     string  `json:"side"`
	Status   string  `json:"status"`
	OrderID  string  `json:"order_id,omitempty"`
	Price    float64 `json:"price,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// Failed reports whether the leg did not reach placed/filled.
func (o OrderResult) Failed() bool {
	return o.Status != OrderStatusPlaced && o.Status != OrderStatusFilled
}

// TradeResult reports both legs of a two-sided trade. Success is true only
// when neither leg failed; there is no rollback of a surviving leg.
type TradeResult struct {
	TradeID    string       `json:"trade_id"`
	Symbol     string       `json:"symbol"`
	ShortOrder *OrderResult `json:"short_order,omitempty"`
	LongOrder  *OrderResult `json:"long_order,omitempty"`
	Success    bool         `json:"success"`
	Error      string       `json:"error,omitempty"`
}
