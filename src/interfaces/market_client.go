package interfaces

import "apt/src/models"

// -----------------------------------------------------------------------------
// IMarketClient defines the contract for the upstream commodity market API.
// -----------------------------------------------------------------------------

type IMarketClient interface {

	// -----------------------------------------------------------------------------

	// ListCommodities returns the current commodity listings in response order.
	// Returns an UpstreamError on non-success HTTP status or malformed payload;
	// a successful response with no listings returns an empty slice, so callers
	// can tell "fetched zero" apart from "fetch failed".
	ListCommodities() ([]models.MCommodityListing, error)

	// -----------------------------------------------------------------------------

	// PricesFor returns the per-terminal prices for a commodity in response
	// order. Same failure contract as ListCommodities.
	PricesFor(commodityName string) ([]models.MLocationPrice, error)
}
