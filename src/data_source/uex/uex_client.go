package uex

import (
	"encoding/json"
	"fmt"
	"strings"

	"apt/src/helpers"
	"apt/src/interfaces"
	"apt/src/logger"
	"apt/src/models"
)

// -----------------------------------------------------------------------------
// UEXClient talks to the UEX Corp commodity market API.
//
// Every response is an envelope {status, data}; anything other than an HTTP
// 200 with status "ok" is an UpstreamError. An "ok" envelope with an empty
// data array is a valid zero-result answer, not a failure.
// -----------------------------------------------------------------------------

type UEXClient struct {
	BaseURL string
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewUEXClient(cfg *models.MConfig, netMgr interfaces.INetworkManager) *UEXClient {
	return &UEXClient{
		BaseURL: strings.TrimRight(cfg.Market.BaseURL, "/"),
		Network: netMgr,
		Logger:  logger.NewLogger(cfg.LogLevel, "UEXClient"),
	}
}

// -----------------------------------------------------------------------------

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// -----------------------------------------------------------------------------

// fetch requests an endpoint and returns the envelope's data payload once the
// status field has been checked.
func (c *UEXClient) fetch(endpoint string, params map[string]string) (json.RawMessage, error) {
	url := c.BaseURL + endpoint

	body, err := c.Network.Get(url, params)
	if err != nil {
		return nil, helpers.NewUpstreamError(fmt.Sprintf("request to %s failed", endpoint), err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, helpers.NewUpstreamError(fmt.Sprintf("malformed payload from %s", endpoint), err)
	}

	if env.Status != "ok" {
		return nil, helpers.NewUpstreamError(fmt.Sprintf("upstream status %q from %s", env.Status, endpoint), nil)
	}

	return env.Data, nil
}

// -----------------------------------------------------------------------------

// ListCommodities returns the current global commodity listings.
func (c *UEXClient) ListCommodities() ([]models.MCommodityListing, error) {
	data, err := c.fetch("/commodities", nil)
	if err != nil {
		return nil, err
	}

	var listings []models.MCommodityListing
	if len(data) > 0 {
		if err := json.Unmarshal(data, &listings); err != nil {
			return nil, helpers.NewUpstreamError("malformed commodity listings", err)
		}
	}

	c.Logger.Debug("Fetched %d commodity listings", len(listings))
	return listings, nil
}

// -----------------------------------------------------------------------------

// PricesFor returns the per-terminal prices for one commodity.
func (c *UEXClient) PricesFor(commodityName string) ([]models.MLocationPrice, error) {
	data, err := c.fetch("/commodities_prices", map[string]string{
		"commodity_name": commodityName,
	})
	if err != nil {
		return nil, err
	}

	var locations []models.MLocationPrice
	if len(data) > 0 {
		if err := json.Unmarshal(data, &locations); err != nil {
			return nil, helpers.NewUpstreamError("malformed location prices", err)
		}
	}

	c.Logger.Debug("Fetched %d terminals for %s", len(locations), commodityName)
	return locations, nil
}
