package storage

import (
	"path/filepath"
	"testing"
	"time"

	"apt/src/helpers"
	"apt/src/logger"
	"apt/src/models"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	cfg := &models.MConfig{
		Name:     "apt-test",
		LogLevel: "ERROR",
		Storage: models.MStorageConfig{
			DBType: "sqlite",
			DBPath: filepath.Join(t.TempDir(), "test.db"),
		},
	}

	store, err := NewSQLiteStore(cfg, logger.NewLogger(cfg.LogLevel, "TestStore"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := store.Initialize(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func observation(name, buy, sell string, observedAt time.Time) models.MPriceObservation {
	o := models.MPriceObservation{
		CommodityName: name,
		ObservedAt:    observedAt,
	}
	if buy != "" {
		o.PriceBuy = decimal.NewNullDecimal(decimal.RequireFromString(buy))
	}
	if sell != "" {
		o.PriceSell = decimal.NewNullDecimal(decimal.RequireFromString(sell))
	}
	return o
}

// -----------------------------------------------------------------------------

func TestRecordAndLatest(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	rows := []models.MPriceObservation{
		observation("Gold", "5800", "6000", now.Add(-2*time.Hour)),
		observation("Gold", "5900", "6100", now.Add(-1*time.Hour)),
		observation("Laranite", "28", "30", now),
	}
	for _, o := range rows {
		if err := store.Record(o); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	latest, err := store.Latest("Gold")
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if !latest.PriceSell.Valid || !latest.PriceSell.Decimal.Equal(decimal.RequireFromString("6100")) {
		t.Errorf("expected latest sell 6100, got %+v", latest.PriceSell)
	}
	if !latest.ObservedAt.Equal(now.Add(-1 * time.Hour)) {
		t.Errorf("expected newest timestamp, got %s", latest.ObservedAt)
	}
}

// -----------------------------------------------------------------------------

func TestLatestUnknownCommodityIsNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Latest("Unobtainium")
	if !helpers.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

// -----------------------------------------------------------------------------

func TestTrendWindowAndOrdering(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	rows := []models.MPriceObservation{
		observation("Gold", "10", "20", now.Add(-10*24*time.Hour)), // outside window
		observation("Gold", "11", "21", now.Add(-48*time.Hour)),
		observation("Gold", "12", "22", now.Add(-1*time.Hour)),
		observation("Laranite", "28", "30", now), // other commodity
	}
	for _, o := range rows {
		if err := store.Record(o); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	trend, err := store.Trend("Gold", 7*24*time.Hour)
	if err != nil {
		t.Fatalf("trend failed: %v", err)
	}
	if len(trend) != 2 {
		t.Fatalf("expected 2 rows inside the window, got %d", len(trend))
	}
	if !trend[0].ObservedAt.Before(trend[1].ObservedAt) {
		t.Error("trend rows must be ordered oldest first")
	}
	if !trend[0].PriceSell.Decimal.Equal(decimal.RequireFromString("21")) {
		t.Errorf("expected oldest in-window sell 21, got %s", trend[0].PriceSell.Decimal)
	}
}

// -----------------------------------------------------------------------------

func TestEvictOlderThan(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	rows := []models.MPriceObservation{
		observation("Gold", "10", "20", now.Add(-9*24*time.Hour)),
		observation("Gold", "11", "21", now.Add(-8*24*time.Hour)),
		observation("Gold", "12", "22", now.Add(-time.Hour)),
	}
	for _, o := range rows {
		if err := store.Record(o); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	removed, err := store.EvictOlderThan(7 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("evict failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 evicted rows, got %d", removed)
	}

	// A second pass finds nothing left to remove.
	removed, err = store.EvictOlderThan(7 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("second evict failed: %v", err)
	}
	if removed != 0 {
		t.Errorf("expected idempotent eviction, got %d", removed)
	}

	trend, err := store.Trend("Gold", 7*24*time.Hour)
	if err != nil {
		t.Fatalf("trend failed: %v", err)
	}
	if len(trend) != 1 {
		t.Errorf("expected the recent row to survive, got %d rows", len(trend))
	}
}

// -----------------------------------------------------------------------------

func TestNullPricesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	if err := store.Record(observation("Gold", "", "6000", now)); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	latest, err := store.Latest("Gold")
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if latest.PriceBuy.Valid {
		t.Errorf("expected null buy price, got %s", latest.PriceBuy.Decimal)
	}
	if !latest.PriceSell.Valid || !latest.PriceSell.Decimal.Equal(decimal.RequireFromString("6000")) {
		t.Errorf("expected sell 6000, got %+v", latest.PriceSell)
	}
	if latest.WeightSCU.Valid {
		t.Errorf("expected null weight, got %d", latest.WeightSCU.Int64)
	}
}

// -----------------------------------------------------------------------------

func TestDistinctCommodityNames(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC()

	rows := []models.MPriceObservation{
		observation("Laranite", "28", "30", now),
		observation("Gold", "5800", "6000", now),
		observation("Gold", "5900", "6100", now.Add(time.Minute)),
	}
	for _, o := range rows {
		if err := store.Record(o); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	names, err := store.DistinctCommodityNames()
	if err != nil {
		t.Fatalf("distinct names failed: %v", err)
	}
	if len(names) != 2 || names[0] != "Gold" || names[1] != "Laranite" {
		t.Errorf("expected sorted unique names, got %v", names)
	}
}
