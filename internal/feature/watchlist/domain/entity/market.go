package entity

// Quote is the subset of a real-time quote used for enrichment.
// Missing provider fields decode to zero.
type Quote struct {
	Current       float64 // c
	ChangePercent float64 // dp
}

// Profile carries company profile data; MarketCapitalization is in billions USD.
type Profile struct {
	MarketCapitalization float64
}

// Metrics carries trailing financial metrics.
type Metrics struct {
	PEBasicExclExtraTTM float64
	PETTM               float64
}
