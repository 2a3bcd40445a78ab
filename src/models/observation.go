package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// MPriceObservation represents one stored commodity price row.
type MPriceObservation struct {
	ID            int64               `json:"id"`
	CommodityName string              `json:"commodity_name"`
	PriceBuy      decimal.NullDecimal `json:"price_buy"`
	PriceSell     decimal.NullDecimal `json:"price_sell"`
	WeightSCU     sql.NullInt64       `json:"weight_scu"`
	ObservedAt    time.Time           `json:"observed_at"`
}
