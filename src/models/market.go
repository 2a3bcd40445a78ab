package models

import "github.com/shopspring/decimal"

// -----------------------------------------------------------------------------
// Upstream market payloads (UEX API, read-only)
// -----------------------------------------------------------------------------

// MCommodityListing is one entry of GET /commodities.
// Buy/sell prices and weight can be null upstream.
type MCommodityListing struct {
	Name      string              `json:"name"`
	PriceBuy  decimal.NullDecimal `json:"price_buy"`
	PriceSell decimal.NullDecimal `json:"price_sell"`
	WeightSCU *int64              `json:"weight_scu"`
}

// -----------------------------------------------------------------------------

// MLocationPrice is one terminal entry of GET /commodities_prices.
type MLocationPrice struct {
	TerminalName   string              `json:"terminal_name"`
	CityName       string              `json:"city_name"`
	PlanetName     string              `json:"planet_name"`
	StarSystemName string              `json:"star_system_name"`
	FactionName    string              `json:"faction_name"`
	PriceBuy       decimal.NullDecimal `json:"price_buy"`
	PriceSell      decimal.NullDecimal `json:"price_sell"`
}

// HasSell reports whether the terminal sells at a positive price.
func (l MLocationPrice) HasSell() bool {
	return l.PriceSell.Valid && l.PriceSell.Decimal.IsPositive()
}

// HasBuy reports whether the terminal buys at a positive price.
func (l MLocationPrice) HasBuy() bool {
	return l.PriceBuy.Valid && l.PriceBuy.Decimal.IsPositive()
}
