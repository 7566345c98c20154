// Package dto defines data transfer objects for the Finnhub API responses.
// Every numeric field may be absent or null; it then decodes as zero.
package dto

// QuoteResponse represents the JSON response from the /quote endpoint.
type QuoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
}

// ProfileResponse represents the JSON response from the /stock/profile2 endpoint.
// MarketCapitalization is passed through unscaled.
type ProfileResponse struct {
	Name                 string  `json:"name"`
	Ticker               string  `json:"ticker"`
	MarketCapitalization float64 `json:"marketCapitalization"`
}

// MetricResponse represents the JSON response from the /stock/metric endpoint.
type MetricResponse struct {
	Symbol string `json:"symbol"`
	Metric struct {
		PEBasicExclExtraTTM float64 `json:"peBasicExclExtraTTM"`
		PETTM               float64 `json:"peTTM"`
	} `json:"metric"`
}
