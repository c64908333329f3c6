// Package dto defines data transfer objects for the Yahoo Finance API responses.
package dto

// APIError represents an error object embedded in a Yahoo Finance response.
type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// QuoteResponse represents the JSON response from the v7 quote endpoint.
type QuoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol             string  `json:"symbol"`
			RegularMarketPrice float64 `json:"regularMarketPrice"`
			Currency           string  `json:"currency"`
		} `json:"result"`
		Error *APIError `json:"error"`
	} `json:"quoteResponse"`
}
