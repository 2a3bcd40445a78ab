package query

import (
	"strings"
	"time"

	"apt/src/analysis"
	"apt/src/helpers"
	"apt/src/interfaces"
	"apt/src/logger"
	"apt/src/models"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Service answers on-demand commodity queries for the presentation layer.
// Point and trend queries read the local store; location queries always hit
// the live market API, since terminal prices are never persisted.
// -----------------------------------------------------------------------------

type Service struct {
	Store  interfaces.IMarketStore
	Client interfaces.IMarketClient
	Logger *logger.Logger
	Window time.Duration
}

// -----------------------------------------------------------------------------

func NewService(cfg *models.MConfig, store interfaces.IMarketStore, client interfaces.IMarketClient) *Service {
	return &Service{
		Store:  store,
		Client: client,
		Logger: logger.NewLogger(cfg.LogLevel, "QueryService"),
		Window: time.Duration(cfg.Market.RetentionDays) * 24 * time.Hour,
	}
}

// -----------------------------------------------------------------------------

// CurrentPrice returns the most recent cached observation for a commodity.
// A NotFoundError is a normal negative result, distinguishable from a
// zero-value price.
func (s *Service) CurrentPrice(commodityName string) (models.MPriceObservation, error) {
	return s.Store.Latest(commodityName)
}

// -----------------------------------------------------------------------------

// BestLocations scans the live terminal prices once, tracking the maximum
// positive sell price and the minimum positive buy price. The first strictly
// better candidate wins; an equal price never replaces the incumbent.
func (s *Service) BestLocations(commodityName string) (models.MBestLocations, error) {
	locations, err := s.Client.PricesFor(commodityName)
	if err != nil {
		return models.MBestLocations{}, err
	}

	result := models.MBestLocations{CommodityName: commodityName}

	for i := range locations {
		loc := locations[i]

		if loc.HasSell() {
			if result.BestSell == nil || loc.PriceSell.Decimal.GreaterThan(result.BestSell.PriceSell.Decimal) {
				result.BestSell = &locations[i]
			}
		}

		if loc.HasBuy() {
			if result.BestBuy == nil || loc.PriceBuy.Decimal.LessThan(result.BestBuy.PriceBuy.Decimal) {
				result.BestBuy = &locations[i]
			}
		}
	}

	return result, nil
}

// -----------------------------------------------------------------------------

// TrendSeries returns the cached observations of the retention window,
// averaged per calendar day.
func (s *Service) TrendSeries(commodityName string) ([]models.MTrendPoint, error) {
	observations, err := s.Store.Trend(commodityName, s.Window)
	if err != nil {
		return nil, err
	}

	if len(observations) == 0 {
		return nil, helpers.NewNotFoundError("no recent data for " + commodityName)
	}

	return analysis.AggregateDaily(observations), nil
}

// -----------------------------------------------------------------------------

// Valuation prices a cargo load at the best live sell terminal.
func (s *Service) Valuation(commodityName string, amountSCU int64) (models.MValuation, error) {
	if amountSCU <= 0 {
		return models.MValuation{}, helpers.NewInvalidInputError("amount of SCU must be greater than 0")
	}

	best, err := s.BestLocations(commodityName)
	if err != nil {
		return models.MValuation{}, err
	}

	if best.BestSell == nil {
		return models.MValuation{}, helpers.NewNotFoundError("no valid selling location for " + commodityName)
	}

	price := best.BestSell.PriceSell.Decimal
	return models.MValuation{
		CommodityName: commodityName,
		AmountSCU:     amountSCU,
		PricePerSCU:   price,
		TotalValue:    price.Mul(decimal.NewFromInt(amountSCU)),
		Location:      best.BestSell,
	}, nil
}

// -----------------------------------------------------------------------------

// SuggestCommodities returns known commodity names containing the fragment,
// case-insensitive. An empty fragment returns every known name.
func (s *Service) SuggestCommodities(fragment string) ([]string, error) {
	names, err := s.Store.DistinctCommodityNames()
	if err != nil {
		return nil, err
	}

	if fragment == "" {
		return names, nil
	}

	needle := strings.ToLower(fragment)
	var matches []string
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), needle) {
			matches = append(matches, name)
		}
	}
	return matches, nil
}
