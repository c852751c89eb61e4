package models

// MarketPrice is the latest quote for a symbol as reported by the
// market price gateway, in the quote's native currency.
type MarketPrice struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Currency      string  `json:"currency"`
}
