package models

import "github.com/shopspring/decimal"

// -----------------------------------------------------------------------------
// Alert Structures
// -----------------------------------------------------------------------------

// MPriceAlert is emitted when a sell price moved by at least the configured
// threshold between two detector cycles.
type MPriceAlert struct {
	CommodityName string          `json:"commodity_name"`
	PreviousPrice decimal.Decimal `json:"previous_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	Change        decimal.Decimal `json:"change"` // signed fraction, e.g. 0.06
}

// -----------------------------------------------------------------------------

// MAlertBatch is the single notification produced per detector cycle.
type MAlertBatch struct {
	Alerts    []MPriceAlert `json:"alerts"`
	Message   string        `json:"message"`
	Timestamp int64         `json:"timestamp"`
}
