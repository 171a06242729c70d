package ecb

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/mstagni/pacplan/internal/config"
)

// Client fetches the ECB daily reference rates feed
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new ECB client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.ECBRatesURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// fetch downloads the daily reference rates document
func (c *Client) fetch() ([]byte, error) {
	resp, err := c.client.Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	c.log.Debugf("ECB XML response: %s", string(body))

	return body, nil
}

// parseRate extracts the reference rate for a currency from the feed.
// The document nests Cube elements: envelope, then one per date, then one
// per currency carrying currency/rate attributes.
func (c *Client) parseRate(rawBody []byte, currency string) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %v", err)
	}

	cubes := doc.FindElements(fmt.Sprintf("//Cube[@currency='%s']", currency))
	if len(cubes) == 0 {
		return 0, fmt.Errorf("no %s rate found in XML", currency)
	}

	rateAttr := cubes[0].SelectAttrValue("rate", "")
	if rateAttr == "" {
		return 0, fmt.Errorf("rate attribute not found in XML")
	}

	rate, err := strconv.ParseFloat(rateAttr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse rate: %v", err)
	}

	return rate, nil
}

// EURUSD retrieves the current EUR/USD reference rate
func (c *Client) EURUSD() (float64, error) {
	body, err := c.fetch()
	if err != nil {
		return 0, err
	}

	rate, err := c.parseRate(body, "USD")
	if err != nil {
		return 0, err
	}

	c.log.Infof("Retrieved EUR/USD reference rate: %.4f", rate)
	return rate, nil
}
