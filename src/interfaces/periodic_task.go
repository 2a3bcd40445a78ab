package interfaces

import (
	"context"
	"sync"
)

// -----------------------------------------------------------------------------
// IPeriodicTask is a schedulable background task with its own interval.
// The ingestion scheduler and the price-change detector both implement it;
// their intervals are independent and never synchronized.
// -----------------------------------------------------------------------------

type IPeriodicTask interface {

	// Name returns the unique identifier of the task
	Name() string

	// -----------------------------------------------------------------------------

	// Start begins the periodic loop.
	// ctx: controls the lifecycle (cancellation stops the task)
	// wg: WaitGroup to signal when the task has fully stopped
	Start(ctx context.Context, wg *sync.WaitGroup) error

	// -----------------------------------------------------------------------------

	// Stop terminates the periodic loop (manual stop).
	// Cancelling the context passed to Start is also enough.
	Stop() error
}
