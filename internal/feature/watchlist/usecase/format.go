package usecase

import (
	"fmt"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
)

// trillionThreshold is compared against the market cap expressed in billions.
const trillionThreshold = 1000

// FormatPrice renders a price as "$123.46", or N/A when not positive.
func FormatPrice(price float64) string {
	if price <= 0 {
		return entity.NotAvailable
	}
	return fmt.Sprintf("$%.2f", price)
}

// FormatChange renders a percent change with an explicit "+" for gains, or N/A when zero.
func FormatChange(changePercent float64) string {
	if changePercent == 0 {
		return entity.NotAvailable
	}
	if changePercent > 0 {
		return fmt.Sprintf("+%.2f%%", changePercent)
	}
	return fmt.Sprintf("%.2f%%", changePercent)
}

// FormatMarketCap renders a market cap given in billions as "$1.50T" or "$50.00B".
func FormatMarketCap(billions float64) string {
	if billions <= 0 {
		return entity.NotAvailable
	}
	if billions >= trillionThreshold {
		return fmt.Sprintf("$%.2fT", billions/1000)
	}
	return fmt.Sprintf("$%.2fB", billions)
}

// FormatPERatio renders a P/E ratio with two decimals, or N/A when not positive.
func FormatPERatio(pe float64) string {
	if pe <= 0 {
		return entity.NotAvailable
	}
	return fmt.Sprintf("%.2f", pe)
}

// peRatio prefers the basic-excluding-extraordinary-items P/E and falls back to the plain TTM P/E.
func peRatio(m entity.Metrics) float64 {
	if m.PEBasicExclExtraTTM != 0 {
		return m.PEBasicExclExtraTTM
	}
	return m.PETTM
}
