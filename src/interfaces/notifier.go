package interfaces

import "apt/src/models"

// -----------------------------------------------------------------------------
// IAlertNotifier defines the contract for delivering alert batches.
// -----------------------------------------------------------------------------

type IAlertNotifier interface {

	// -----------------------------------------------------------------------------

	// Notify delivers one batched alert message. Delivery is at-most-once;
	// failures are reported but never retried by the caller.
	Notify(batch models.MAlertBatch) error
}
