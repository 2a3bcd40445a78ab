package interfaces

import (
	"apt/src/models"
	"time"
)

// -----------------------------------------------------------------------------
// IMarketStore defines the contract for the durable price observation store.
// -----------------------------------------------------------------------------

type IMarketStore interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and indexes. Idempotent.
	Initialize() error

	// -----------------------------------------------------------------------------

	// Record appends one price observation. Returns a PersistenceError on
	// storage I/O failure; callers treat it as non-fatal for the batch.
	Record(obs models.MPriceObservation) error

	// -----------------------------------------------------------------------------

	// Latest returns the most recent observation for the exact commodity name,
	// or a NotFoundError if none exists.
	Latest(commodityName string) (models.MPriceObservation, error)

	// -----------------------------------------------------------------------------

	// Trend returns all observations with observed_at >= now-window,
	// ordered by observed_at ascending.
	Trend(commodityName string, window time.Duration) ([]models.MPriceObservation, error)

	// -----------------------------------------------------------------------------

	// EvictOlderThan deletes observations strictly older than now-window and
	// returns the number of rows removed. Idempotent.
	EvictOlderThan(window time.Duration) (int64, error)

	// -----------------------------------------------------------------------------

	// DistinctCommodityNames returns the set of known commodity names.
	DistinctCommodityNames() ([]string, error)

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
