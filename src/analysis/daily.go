package analysis

import (
	"apt/src/models"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Daily trend aggregation: one point per distinct UTC calendar day present in
// the input, buy and sell prices averaged independently over the rows that
// actually carry them.
// -----------------------------------------------------------------------------

const dayFormat = "2006-01-02"

type dayAccumulator struct {
	buySum  decimal.Decimal
	buyN    int64
	sellSum decimal.Decimal
	sellN   int64
	samples int
}

// -----------------------------------------------------------------------------

// AggregateDaily groups observations by calendar day. Input must already be
// ordered by observed_at ascending (the store guarantees it); output points
// keep that order.
func AggregateDaily(observations []models.MPriceObservation) []models.MTrendPoint {
	byDay := make(map[string]*dayAccumulator)
	var order []string

	for _, obs := range observations {
		day := obs.ObservedAt.UTC().Format(dayFormat)

		acc, ok := byDay[day]
		if !ok {
			acc = &dayAccumulator{}
			byDay[day] = acc
			order = append(order, day)
		}

		if obs.PriceBuy.Valid {
			acc.buySum = acc.buySum.Add(obs.PriceBuy.Decimal)
			acc.buyN++
		}
		if obs.PriceSell.Valid {
			acc.sellSum = acc.sellSum.Add(obs.PriceSell.Decimal)
			acc.sellN++
		}
		acc.samples++
	}

	points := make([]models.MTrendPoint, 0, len(order))
	for _, day := range order {
		acc := byDay[day]

		point := models.MTrendPoint{
			Day:     day,
			Samples: acc.samples,
		}
		if acc.buyN > 0 {
			point.AvgBuy = acc.buySum.Div(decimal.NewFromInt(acc.buyN))
		}
		if acc.sellN > 0 {
			point.AvgSell = acc.sellSum.Div(decimal.NewFromInt(acc.sellN))
		}

		points = append(points, point)
	}

	return points
}

// -----------------------------------------------------------------------------

// RelativeChange computes (current - previous) / previous.
// previous must be non-zero.
func RelativeChange(previous, current decimal.Decimal) decimal.Decimal {
	return current.Sub(previous).Div(previous)
}
