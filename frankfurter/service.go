package frankfurter

import (
	"context"
	"encoding/json"
	"fmt"
	"go-clipboard-converter/domain"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const ApiUrlBase = "https://api.frankfurter.app"

// Service wraps the frankfurter.app REST API
type Service interface {
	ExchangeRates(ctx context.Context, base domain.Currency) (domain.Rates, error)
}

// service frankfurter API
type service struct {
	// url base API url
	url string

	// client for HTTP requests
	client http.Client
}

// NewService constructs a valid frankfurter Service.
// An empty url selects ApiUrlBase.
func NewService(url string, timeout time.Duration) Service {
	if url == "" {
		url = ApiUrlBase
	}
	return &service{
		url: strings.TrimSuffix(url, "/"),
		client: http.Client{
			Timeout: timeout,
		},
	}
}

// ExchangeRates loads the latest rates quoted against base for the supported currencies.
// Rates are published once per working day.
func (s *service) ExchangeRates(ctx context.Context, base domain.Currency) (domain.Rates, error) {
	type Response struct {
		Base  string
		Date  string
		Rates map[string]float64 // maps currency codes to rates
	}

	codes := make([]string, 0, len(domain.Supported()))
	for _, c := range domain.Supported() {
		codes = append(codes, string(c))
	}
	query := url.Values{}
	query.Set("from", string(base))
	query.Set("to", strings.Join(codes, ","))
	u := fmt.Sprintf("%v/latest?%v", s.url, query.Encode())

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building http request: %w", err)
	}
	httpResponse, err := s.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer httpResponse.Body.Close()

	bytes, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, fmt.Errorf("reading json: %w", err)
	}
	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %v: %s", httpResponse.StatusCode, bytes)
	}

	var response Response
	err = json.Unmarshal(bytes, &response)
	if err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}

	rates := domain.Rates{}
	for k, v := range response.Rates {
		rates[domain.Currency(k)] = domain.Rate(v)
	}

	return rates, nil
}
