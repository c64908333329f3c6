package entity

// Quote is a current market quote, used to validate that a symbol exists
// before requesting its historical data.
type Quote struct {
	Symbol   string  // Ticker symbol as known to the provider
	Price    float64 // Regular market price
	Currency string  // Price currency (e.g., "USD", "JPY")
}
