package models

import "github.com/shopspring/decimal"

// -----------------------------------------------------------------------------
// Query Service result structures
// -----------------------------------------------------------------------------

// MBestLocations holds the best buy/sell terminals for a commodity.
// A nil side means no terminal with a positive price was found.
type MBestLocations struct {
	CommodityName string          `json:"commodity_name"`
	BestSell      *MLocationPrice `json:"best_sell"`
	BestBuy       *MLocationPrice `json:"best_buy"`
}

// -----------------------------------------------------------------------------

// MTrendPoint is one calendar day of averaged observations.
type MTrendPoint struct {
	Day     string          `json:"day"` // UTC date, YYYY-MM-DD
	AvgBuy  decimal.Decimal `json:"avg_buy"`
	AvgSell decimal.Decimal `json:"avg_sell"`
	Samples int             `json:"samples"`
}

// -----------------------------------------------------------------------------

// MValuation is the result of pricing a cargo manifest at the best
// available sell terminal.
type MValuation struct {
	CommodityName string          `json:"commodity_name"`
	AmountSCU     int64           `json:"amount_scu"`
	PricePerSCU   decimal.Decimal `json:"price_per_scu"`
	TotalValue    decimal.Decimal `json:"total_value"`
	Location      *MLocationPrice `json:"location"`
}
