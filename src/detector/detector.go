package detector

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"apt/src/interfaces"
	"apt/src/logger"
	"apt/src/models"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Detector polls the live commodity listings on its own interval and compares
// sell prices against the previous cycle's snapshot. The snapshot lives only
// in memory: after a restart the first cycle seeds it and cannot alert.
// -----------------------------------------------------------------------------

type Detector struct {
	Config    *models.MConfig
	Client    interfaces.IMarketClient
	Notifiers []interfaces.IAlertNotifier
	Logger    *logger.Logger

	// previous maps commodity name to the last seen positive sell price.
	// Only detector cycles touch it; cycleMu serializes overlapping cycles.
	previous map[string]decimal.Decimal
	cycleMu  sync.Mutex

	threshold  decimal.Decimal
	interval   time.Duration
	cancelFunc context.CancelFunc
	isRunning  atomic.Bool
	mu         sync.Mutex
}

// -----------------------------------------------------------------------------

func NewDetector(cfg *models.MConfig, client interfaces.IMarketClient, notifiers []interfaces.IAlertNotifier) *Detector {
	return &Detector{
		Config:    cfg,
		Client:    client,
		Notifiers: notifiers,
		Logger:    logger.NewLogger(cfg.LogLevel, "PriceChangeDetector"),
		previous:  make(map[string]decimal.Decimal),
		threshold: decimal.NewFromFloat(cfg.Market.AlertThreshold),
		interval:  time.Duration(cfg.Market.DetectIntervalMinutes) * time.Minute,
	}
}

// -----------------------------------------------------------------------------

func (d *Detector) Name() string {
	return "price-change-detector"
}

// -----------------------------------------------------------------------------

// Start begins the detection loop
func (d *Detector) Start(parentCtx context.Context, wg *sync.WaitGroup) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isRunning.Load() {
		return fmt.Errorf("task %s is already running", d.Name())
	}

	ctx, cancel := context.WithCancel(parentCtx)
	d.cancelFunc = cancel
	d.isRunning.Store(true)

	wg.Add(1)
	go d.runLoop(ctx, wg)
	d.Logger.Info("Started %s (every %s, threshold %s)", d.Name(), d.interval, d.threshold)
	return nil
}

// -----------------------------------------------------------------------------

// Stop signals the run loop to exit
func (d *Detector) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isRunning.Load() {
		return fmt.Errorf("task %s is not running", d.Name())
	}

	if d.cancelFunc != nil {
		d.cancelFunc()
	}
	d.isRunning.Store(false)
	d.Logger.Info("Stopped %s", d.Name())
	return nil
}

// -----------------------------------------------------------------------------

func (d *Detector) runLoop(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.runCycle()
		}
	}
}

// -----------------------------------------------------------------------------

// runCycle performs one detection pass. Overlapping cycles are skipped, not
// queued: a rerun against a half-updated snapshot would double-report moves.
func (d *Detector) runCycle() {
	if !d.cycleMu.TryLock() {
		d.Logger.Warning("Previous detection cycle still running, skipping")
		return
	}
	defer d.cycleMu.Unlock()

	listings, err := d.Client.ListCommodities()
	if err != nil {
		// Snapshot stays untouched so the next good cycle compares against
		// the last known prices instead of a gap.
		d.Logger.Error("Detection cycle skipped: %v", err)
		return
	}

	var alerts []models.MPriceAlert

	for _, listing := range listings {
		if !listing.PriceSell.Valid || !listing.PriceSell.Decimal.IsPositive() {
			continue // neither compared nor recorded
		}
		current := listing.PriceSell.Decimal

		if prev, ok := d.previous[listing.Name]; ok {
			change := current.Sub(prev).Div(prev)
			if change.Abs().GreaterThanOrEqual(d.threshold) {
				alerts = append(alerts, models.MPriceAlert{
					CommodityName: listing.Name,
					PreviousPrice: prev,
					CurrentPrice:  current,
					Change:        change,
				})
			}
		}

		// Always track the latest price, alert or not, so the next cycle
		// never compares against a stale value.
		d.previous[listing.Name] = current
	}

	if len(alerts) == 0 {
		d.Logger.Debug("Checked %d listings, no significant moves", len(listings))
		return
	}

	batch := models.MAlertBatch{
		Alerts:    alerts,
		Message:   FormatBatchMessage(alerts),
		Timestamp: time.Now().Unix(),
	}

	d.Logger.Info("Detected %d price moves past threshold", len(alerts))
	for _, notifier := range d.Notifiers {
		if err := notifier.Notify(batch); err != nil {
			d.Logger.Error("Alert delivery failed: %v", err)
		}
	}
}

// -----------------------------------------------------------------------------

// FormatBatchMessage renders the single notification message for one cycle.
func FormatBatchMessage(alerts []models.MPriceAlert) string {
	hundred := decimal.NewFromInt(100)

	var b strings.Builder
	b.WriteString("**Commodity Price Alerts:**\n")
	for _, a := range alerts {
		direction := "decreased"
		if a.Change.Sign() > 0 {
			direction = "increased"
		}
		percentage := a.Change.Abs().Mul(hundred).StringFixed(2)

		fmt.Fprintf(&b, "**%s** has %s by %s%%!\n", a.CommodityName, direction, percentage)
		fmt.Fprintf(&b, "Previous Price: %s UEC\n", a.PreviousPrice)
		fmt.Fprintf(&b, "New Price: %s UEC\n\n", a.CurrentPrice)
	}
	return b.String()
}
