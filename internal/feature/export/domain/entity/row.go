// Package entity defines the domain models for the export feature.
package entity

import "time"

// HistoricalRow represents one day (or week/month) of OHLCV price data
// for a stock symbol, as returned by the external market data provider.
type HistoricalRow struct {
	Symbol   string    // Stock ticker symbol (e.g., "AAPL", "7203.T")
	Date     time.Time // Start of the sampling period
	Open     float64   // Opening price
	High     float64   // Highest price during this period
	Low      float64   // Lowest price during this period
	Close    float64   // Closing price
	Volume   int64     // Trading volume
	AdjClose float64   // Closing price adjusted for dividends and splits
}
