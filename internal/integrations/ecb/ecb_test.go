package ecb

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstagni/pacplan/internal/config"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<gesmes:Envelope xmlns:gesmes="http://www.gesmes.org/xml/2002-08-01" xmlns="http://www.ecb.int/vocabulary/2002-08-01/eurofxref">
	<gesmes:subject>Reference rates</gesmes:subject>
	<gesmes:Sender>
		<gesmes:name>European Central Bank</gesmes:name>
	</gesmes:Sender>
	<Cube>
		<Cube time="2026-08-28">
			<Cube currency="USD" rate="1.0876"/>
			<Cube currency="JPY" rate="162.55"/>
			<Cube currency="GBP" rate="0.8421"/>
		</Cube>
	</Cube>
</gesmes:Envelope>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := logrus.New()
	return NewClient(&config.Config{ECBRatesURL: srv.URL}, log)
}

func TestEURUSD(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte(sampleFeed))
	})

	rate, err := client.EURUSD()
	require.NoError(t, err)
	assert.InDelta(t, 1.0876, rate, 1e-9)
}

func TestEURUSDMissingCurrency(t *testing.T) {
	feed := `<?xml version="1.0"?><Envelope><Cube><Cube time="2026-08-28"><Cube currency="JPY" rate="162.55"/></Cube></Cube></Envelope>`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feed))
	})

	_, err := client.EURUSD()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no USD rate")
}

func TestEURUSDUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.EURUSD()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code")
}
