package frankfurter

import (
	"context"
	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-clipboard-converter/domain"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFrankfurter_ExchangeRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/latest", req.URL.Path)
		assert.Equal(t, "KRW", req.URL.Query().Get("from"))
		assert.Equal(t, "USD,JPY,EUR,CNY", req.URL.Query().Get("to"))
		response := `{
			"amount": 1.0,
			"base": "KRW",
			"date": "2024-03-19",
			"rates": {
				"CNY": 0.0054,
				"EUR": 0.00069,
				"JPY": 0.113,
				"USD": 0.00075
			}
		}`
		_, _ = rw.Write([]byte(response))
	}))
	defer server.Close()

	s := NewService(server.URL+"/", time.Second)

	rates, err := s.ExchangeRates(context.Background(), "KRW")

	require.Nil(t, err)
	assert.Equal(t, domain.Rate(0.00075), rates[domain.USD])
	assert.Equal(t, domain.Rate(0.113), rates[domain.JPY])
	assert.Equal(t, domain.Rate(0.00069), rates[domain.EUR])
	assert.Equal(t, domain.Rate(0.0054), rates[domain.CNY])
}

func TestFrankfurter_ExchangeRatesBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		rw.WriteHeader(http.StatusNotFound)
		_, _ = rw.Write([]byte(`{"message":"not found"}`))
	}))
	defer server.Close()

	s := NewService(server.URL, time.Second)

	_, err := s.ExchangeRates(context.Background(), "KRW")

	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestFrankfurter_ExchangeRatesMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		_, _ = rw.Write([]byte(`{"rates": {"USD": "oops"}}`))
	}))
	defer server.Close()

	s := NewService(server.URL, time.Second)

	_, err := s.ExchangeRates(context.Background(), "KRW")

	assert.NotNil(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "decoding json"))
}

func TestFrankfurter_ExchangeRatesTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_, _ = rw.Write([]byte("{}"))
	}))
	defer server.Close()

	s := NewService(server.URL, 1*time.Millisecond)

	_, err := s.ExchangeRates(context.Background(), "KRW")

	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "Client.Timeout")) // fragile :-(
}

func TestLoggingService_ExchangeRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		_, _ = rw.Write([]byte(`{"rates": {"USD": 0.5}}`))
	}))
	defer server.Close()

	var buf strings.Builder
	s := NewLoggingService(log.NewLogfmtLogger(&buf), NewService(server.URL, time.Second))

	rates, err := s.ExchangeRates(context.Background(), "KRW")

	assert.Nil(t, err)
	assert.Equal(t, domain.Rate(0.5), rates[domain.USD])
	assert.Contains(t, buf.String(), "method=exchange_rates base=KRW count=1")
}
