package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"apt/src/interfaces"
	"apt/src/logger"
	"apt/src/models"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Scheduler runs the fetch-and-persist loop: every interval it pulls the
// current commodity listings, appends one observation per complete listing
// and prunes rows past the retention window. It shares nothing with the
// price-change detector beyond the upstream API.
// -----------------------------------------------------------------------------

type Scheduler struct {
	Config *models.MConfig
	Store  interfaces.IMarketStore
	Client interfaces.IMarketClient
	Logger *logger.Logger

	interval   time.Duration
	retention  time.Duration
	cancelFunc context.CancelFunc
	isRunning  atomic.Bool
	mu         sync.Mutex
}

// -----------------------------------------------------------------------------

func NewScheduler(cfg *models.MConfig, store interfaces.IMarketStore, client interfaces.IMarketClient) *Scheduler {
	return &Scheduler{
		Config:    cfg,
		Store:     store,
		Client:    client,
		Logger:    logger.NewLogger(cfg.LogLevel, "IngestScheduler"),
		interval:  time.Duration(cfg.Market.FetchIntervalMinutes) * time.Minute,
		retention: time.Duration(cfg.Market.RetentionDays) * 24 * time.Hour,
	}
}

// -----------------------------------------------------------------------------

func (s *Scheduler) Name() string {
	return "market-ingest"
}

// -----------------------------------------------------------------------------

// Start begins the ingestion loop
func (s *Scheduler) Start(parentCtx context.Context, wg *sync.WaitGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning.Load() {
		return fmt.Errorf("task %s is already running", s.Name())
	}

	ctx, cancel := context.WithCancel(parentCtx)
	s.cancelFunc = cancel
	s.isRunning.Store(true)

	wg.Add(1)
	go s.runLoop(ctx, wg)
	s.Logger.Info("Started %s (every %s, retention %s)", s.Name(), s.interval, s.retention)
	return nil
}

// -----------------------------------------------------------------------------

// Stop signals the run loop to exit
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning.Load() {
		return fmt.Errorf("task %s is not running", s.Name())
	}

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning.Store(false)
	s.Logger.Info("Stopped %s", s.Name())
	return nil
}

// -----------------------------------------------------------------------------

func (s *Scheduler) runLoop(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	if s.Config.Market.FetchOnStart {
		s.runCycle()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCycle()
		}
	}
}

// -----------------------------------------------------------------------------

// runCycle performs one fetch-persist-evict pass. An upstream failure ends
// the cycle before anything is written; a single failed insert is logged and
// skipped so the rest of the batch still lands.
func (s *Scheduler) runCycle() {
	listings, err := s.Client.ListCommodities()
	if err != nil {
		s.Logger.Error("Ingestion cycle skipped: %v", err)
		return
	}

	saved, skipped, failed := 0, 0, 0
	for _, listing := range listings {
		// A listing missing either side of the price would persist an
		// incomplete row. The original data feed also reports 0 for
		// commodities a terminal does not trade, so zero counts as absent.
		if !hasPrice(listing.PriceBuy) || !hasPrice(listing.PriceSell) {
			skipped++
			continue
		}

		obs := models.MPriceObservation{
			CommodityName: listing.Name,
			PriceBuy:      listing.PriceBuy,
			PriceSell:     listing.PriceSell,
			// Each row carries its own timestamp so eviction can never
			// race a batch written around the cutoff.
			ObservedAt: time.Now().UTC(),
		}
		if listing.WeightSCU != nil {
			obs.WeightSCU = sql.NullInt64{Int64: *listing.WeightSCU, Valid: true}
		}

		if err := s.Store.Record(obs); err != nil {
			s.Logger.Error("Failed to record %s: %v", listing.Name, err)
			failed++
			continue
		}
		saved++
	}

	// Eviction runs even when some inserts failed, to bound store growth.
	removed, err := s.Store.EvictOlderThan(s.retention)
	if err != nil {
		s.Logger.Error("Retention eviction failed: %v", err)
	}

	s.Logger.Info("Ingestion cycle: %d saved, %d skipped, %d failed, %d evicted",
		saved, skipped, failed, removed)
}

// -----------------------------------------------------------------------------

func hasPrice(p decimal.NullDecimal) bool {
	return p.Valid && !p.Decimal.IsZero()
}
