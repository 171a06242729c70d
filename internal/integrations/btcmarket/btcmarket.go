package btcmarket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mstagni/pacplan/internal/config"
)

// Client fetches BTC spot prices from the CoinGecko simple-price API
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new spot price client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.SpotPriceURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

type simplePriceResponse struct {
	Bitcoin struct {
		USD float64 `json:"usd"`
	} `json:"bitcoin"`
}

// SpotPriceUSD retrieves the current BTC price in USD
func (c *Client) SpotPriceUSD() (float64, error) {
	resp, err := c.client.Get(c.url)
	if err != nil {
		return 0, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body simplePriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode response: %v", err)
	}
	if body.Bitcoin.USD <= 0 {
		return 0, fmt.Errorf("no BTC price in response")
	}

	c.log.Infof("Retrieved BTC spot price: %.2f USD", body.Bitcoin.USD)
	return body.Bitcoin.USD, nil
}
