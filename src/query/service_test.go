package query

import (
	"testing"
	"time"

	"apt/src/helpers"
	"apt/src/models"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------

type fakeStore struct {
	latest       models.MPriceObservation
	latestErr    error
	trend        []models.MPriceObservation
	trendErr     error
	names        []string
	namesErr     error
	trendCalls   int
	latestCalls  int
	distinctHits int
}

func (f *fakeStore) Initialize() error { return nil }

func (f *fakeStore) Record(obs models.MPriceObservation) error { return nil }

func (f *fakeStore) Latest(commodityName string) (models.MPriceObservation, error) {
	f.latestCalls++
	return f.latest, f.latestErr
}

func (f *fakeStore) Trend(commodityName string, window time.Duration) ([]models.MPriceObservation, error) {
	f.trendCalls++
	return f.trend, f.trendErr
}

func (f *fakeStore) EvictOlderThan(window time.Duration) (int64, error) { return 0, nil }

func (f *fakeStore) DistinctCommodityNames() ([]string, error) {
	f.distinctHits++
	return f.names, f.namesErr
}

func (f *fakeStore) Close() error { return nil }

type fakeClient struct {
	locations []models.MLocationPrice
	err       error
	calls     int
}

func (f *fakeClient) ListCommodities() ([]models.MCommodityListing, error) { return nil, nil }

func (f *fakeClient) PricesFor(commodityName string) ([]models.MLocationPrice, error) {
	f.calls++
	return f.locations, f.err
}

// -----------------------------------------------------------------------------

func testConfig() *models.MConfig {
	return &models.MConfig{
		Name:     "apt-test",
		LogLevel: "ERROR",
		Market:   models.MMarketConfig{RetentionDays: 7},
	}
}

func location(terminal, buy, sell string) models.MLocationPrice {
	l := models.MLocationPrice{TerminalName: terminal}
	if buy != "" {
		l.PriceBuy = decimal.NewNullDecimal(decimal.RequireFromString(buy))
	}
	if sell != "" {
		l.PriceSell = decimal.NewNullDecimal(decimal.RequireFromString(sell))
	}
	return l
}

// -----------------------------------------------------------------------------

func TestBestLocationsPicksExtremes(t *testing.T) {
	client := &fakeClient{locations: []models.MLocationPrice{
		location("Port Olisar", "11", "10"),
		location("Lorville", "9", "15"),
		location("Area18", "10", "12"),
	}}
	s := NewService(testConfig(), &fakeStore{}, client)

	best, err := s.BestLocations("Gold")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best.BestSell == nil || best.BestSell.TerminalName != "Lorville" {
		t.Errorf("expected best sell at Lorville, got %+v", best.BestSell)
	}
	if best.BestBuy == nil || best.BestBuy.TerminalName != "Lorville" {
		t.Errorf("expected best buy at Lorville, got %+v", best.BestBuy)
	}
}

// -----------------------------------------------------------------------------

func TestBestLocationsTieKeepsFirstSeen(t *testing.T) {
	client := &fakeClient{locations: []models.MLocationPrice{
		location("First", "", "15"),
		location("Second", "", "15"),
	}}
	s := NewService(testConfig(), &fakeStore{}, client)

	best, err := s.BestLocations("Gold")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best.BestSell.TerminalName != "First" {
		t.Errorf("an equal price must not replace the incumbent, got %s", best.BestSell.TerminalName)
	}
}

// -----------------------------------------------------------------------------

func TestBestLocationsIgnoresNonPositivePrices(t *testing.T) {
	client := &fakeClient{locations: []models.MLocationPrice{
		location("NullSell", "5", ""),
		location("ZeroBoth", "0", "0"),
	}}
	s := NewService(testConfig(), &fakeStore{}, client)

	best, err := s.BestLocations("Gold")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if best.BestSell != nil {
		t.Errorf("expected no sell location, got %+v", best.BestSell)
	}
	if best.BestBuy == nil || best.BestBuy.TerminalName != "NullSell" {
		t.Errorf("expected buy location NullSell, got %+v", best.BestBuy)
	}
}

// -----------------------------------------------------------------------------

func TestValuationRejectsNonPositiveAmountBeforeIO(t *testing.T) {
	client := &fakeClient{}
	s := NewService(testConfig(), &fakeStore{}, client)

	for _, amount := range []int64{0, -3} {
		_, err := s.Valuation("Gold", amount)
		if !helpers.IsInvalidInput(err) {
			t.Errorf("amount %d: expected invalid input error, got %v", amount, err)
		}
	}
	if client.calls != 0 {
		t.Errorf("validation must happen before any upstream call, got %d calls", client.calls)
	}
}

// -----------------------------------------------------------------------------

func TestValuationMultipliesBestSellPrice(t *testing.T) {
	client := &fakeClient{locations: []models.MLocationPrice{
		location("Lorville", "", "15.5"),
		location("Area18", "", "12"),
	}}
	s := NewService(testConfig(), &fakeStore{}, client)

	v, err := s.Valuation("Gold", 96)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.PricePerSCU.Equal(decimal.RequireFromString("15.5")) {
		t.Errorf("expected price per SCU 15.5, got %s", v.PricePerSCU)
	}
	if !v.TotalValue.Equal(decimal.RequireFromString("1488")) {
		t.Errorf("expected total 1488, got %s", v.TotalValue)
	}
	if v.Location == nil || v.Location.TerminalName != "Lorville" {
		t.Errorf("expected valuation at Lorville, got %+v", v.Location)
	}
}

// -----------------------------------------------------------------------------

func TestValuationWithoutSellLocationIsNotFound(t *testing.T) {
	client := &fakeClient{locations: []models.MLocationPrice{
		location("BuyOnly", "5", ""),
	}}
	s := NewService(testConfig(), &fakeStore{}, client)

	_, err := s.Valuation("Gold", 10)
	if !helpers.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

// -----------------------------------------------------------------------------

func TestTrendSeriesEmptyWindowIsNotFound(t *testing.T) {
	s := NewService(testConfig(), &fakeStore{}, &fakeClient{})

	_, err := s.TrendSeries("Gold")
	if !helpers.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

// -----------------------------------------------------------------------------

func TestTrendSeriesAggregatesPerDay(t *testing.T) {
	day := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{trend: []models.MPriceObservation{
		{CommodityName: "Gold", PriceSell: decimal.NewNullDecimal(decimal.RequireFromString("10")), ObservedAt: day},
		{CommodityName: "Gold", PriceSell: decimal.NewNullDecimal(decimal.RequireFromString("12")), ObservedAt: day.Add(2 * time.Hour)},
		{CommodityName: "Gold", PriceSell: decimal.NewNullDecimal(decimal.RequireFromString("20")), ObservedAt: day.Add(24 * time.Hour)},
	}}
	s := NewService(testConfig(), store, &fakeClient{})

	points, err := s.TrendSeries("Gold")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 daily points, got %d", len(points))
	}
	if !points[0].AvgSell.Equal(decimal.RequireFromString("11")) {
		t.Errorf("expected first day avg 11, got %s", points[0].AvgSell)
	}
	if !points[1].AvgSell.Equal(decimal.RequireFromString("20")) {
		t.Errorf("expected second day avg 20, got %s", points[1].AvgSell)
	}
}

// -----------------------------------------------------------------------------

func TestSuggestCommoditiesFiltersCaseInsensitive(t *testing.T) {
	store := &fakeStore{names: []string{"Agricium", "Gold", "Golden Medmon", "Laranite"}}
	s := NewService(testConfig(), store, &fakeClient{})

	matches, err := s.SuggestCommodities("gold")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 || matches[0] != "Gold" || matches[1] != "Golden Medmon" {
		t.Errorf("unexpected matches: %v", matches)
	}

	all, err := s.SuggestCommodities("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("empty fragment must return every name, got %v", all)
	}
}
