package provider_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/travelsync/infra/provider"
	"github.com/voyago/travelsync/pkg/config"
	"github.com/voyago/travelsync/pkg/exchange"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCurrencyAPI_Convert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/convert", r.URL.Path)
		assert.Equal(t, "XOF", r.URL.Query().Get("from"))
		assert.Equal(t, "EUR", r.URL.Query().Get("to"))
		assert.Equal(t, "1000", r.URL.Query().Get("amount"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"success","rate":0.0015,"converted":1.5}`))
	}))
	defer srv.Close()

	client := provider.NewCurrencyAPI(config.CurrencyAPI{
		APIKey:      "test-key",
		BaseURL:     srv.URL,
		HTTPTimeout: 5 * time.Second,
	}, discardLogger())

	conv, err := client.Convert(context.Background(), "XOF", "EUR", 1000)
	require.NoError(t, err)
	assert.InDelta(t, 0.0015, conv.Rate, 1e-12)
	assert.InDelta(t, 1.5, conv.Converted, 1e-12)
	assert.Equal(t, "XOF", conv.FromCurrency)
	assert.Equal(t, "EUR", conv.ToCurrency)
}

func TestCurrencyAPI_ErrorType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":"error","error-type":"unsupported-code"}`))
	}))
	defer srv.Close()

	client := provider.NewCurrencyAPI(config.CurrencyAPI{
		BaseURL:     srv.URL,
		HTTPTimeout: 5 * time.Second,
	}, discardLogger())

	_, err := client.Convert(context.Background(), "EUR", "ZZZ", 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, exchange.ErrRateUnavailable))
	assert.Contains(t, err.Error(), "unsupported-code")
}

func TestCurrencyAPI_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := provider.NewCurrencyAPI(config.CurrencyAPI{
		BaseURL:     srv.URL,
		HTTPTimeout: 5 * time.Second,
	}, discardLogger())

	_, err := client.Convert(context.Background(), "EUR", "USD", 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, exchange.ErrRateUnavailable))
}
