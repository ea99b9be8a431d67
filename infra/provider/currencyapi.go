// Package provider implements HTTP clients for the remote collaborators: the
// currency-conversion API and the bookings API.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/voyago/travelsync/pkg/config"
	"github.com/voyago/travelsync/pkg/exchange"
)

// CurrencyAPI calls the remote conversion endpoint. It is invoked only on
// cache miss; the exchange cache exists to keep these calls rare.
type CurrencyAPI struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// conversionResponse is the wire shape of a conversion result.
type conversionResponse struct {
	Result    string  `json:"result"`
	Rate      float64 `json:"rate"`
	Converted float64 `json:"converted"`
	ErrorType string  `json:"error-type,omitempty"`
}

// NewCurrencyAPI creates a conversion client from config.
func NewCurrencyAPI(cfg config.CurrencyAPI, logger *slog.Logger) *CurrencyAPI {
	if logger == nil {
		logger = slog.Default()
	}
	return &CurrencyAPI{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		logger:     logger.With(slog.String("component", "currency_api")),
	}
}

// Convert implements exchange.RateProvider.
func (p *CurrencyAPI) Convert(
	ctx context.Context,
	from, to string,
	amount float64,
) (*exchange.Conversion, error) {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	q.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	endpoint := fmt.Sprintf("%s/convert?%s", p.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build conversion request: %w", err)
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("conversion request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		p.logger.Error("conversion API error", "status", resp.StatusCode, "from", from, "to", to)
		return nil, fmt.Errorf("%w: status %d", exchange.ErrRateUnavailable, resp.StatusCode)
	}

	var payload conversionResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode conversion response: %w", err)
	}
	if payload.ErrorType != "" {
		return nil, fmt.Errorf("%w: %s", exchange.ErrRateUnavailable, payload.ErrorType)
	}
	if payload.Rate <= 0 {
		return nil, fmt.Errorf("%w: non-positive rate %f", exchange.ErrRateUnavailable, payload.Rate)
	}

	p.logger.Debug("fetched conversion", "from", from, "to", to, "amount", amount, "rate", payload.Rate)
	return &exchange.Conversion{
		FromCurrency: from,
		ToCurrency:   to,
		Amount:       amount,
		Rate:         payload.Rate,
		Converted:    payload.Converted,
	}, nil
}

var _ exchange.RateProvider = (*CurrencyAPI)(nil)
