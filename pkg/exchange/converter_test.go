package exchange_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	infrakv "github.com/voyago/travelsync/infra/kv"
	"github.com/voyago/travelsync/pkg/exchange"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Convert(
	ctx context.Context,
	from, to string,
	amount float64,
) (*exchange.Conversion, error) {
	args := m.Called(from, to, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*exchange.Conversion), args.Error(1)
}

func TestCachedConverter_SameCurrencyShortCircuits(t *testing.T) {
	provider := new(mockProvider)
	cache, _ := newTestCache(t)
	converter := exchange.NewCachedConverter(provider, cache, discardLogger())

	conv, err := converter.Convert(context.Background(), "USD", "USD", 42)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, conv.Rate, 1e-12)
	assert.InDelta(t, 42.0, conv.Converted, 1e-12)
	provider.AssertNotCalled(t, "Convert")
}

func TestCachedConverter_MissHitExpiry(t *testing.T) {
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	cache := exchange.NewCache(
		infrakv.NewMemory(),
		discardLogger(),
		exchange.WithClock(clock.Now),
	)
	provider := new(mockProvider)
	converter := exchange.NewCachedConverter(provider, cache, discardLogger())
	ctx := context.Background()

	upstream := &exchange.Conversion{
		FromCurrency: "XOF",
		ToCurrency:   "EUR",
		Amount:       1000,
		Rate:         0.0015,
		Converted:    1.5,
	}
	provider.On("Convert", "XOF", "EUR", 1000.0).Return(upstream, nil).Once()

	// Miss: the upstream API is consulted and the result cached.
	first, err := converter.Convert(ctx, "XOF", "EUR", 1000)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, first.Converted, 1e-12)

	// Hit within the hour: same numbers, zero upstream calls.
	second, err := converter.Convert(ctx, "XOF", "EUR", 1000)
	require.NoError(t, err)
	assert.InDelta(t, first.Rate, second.Rate, 1e-12)
	assert.InDelta(t, first.Converted, second.Converted, 1e-12)
	provider.AssertNumberOfCalls(t, "Convert", 1)

	// 61 minutes later the entry has expired and the upstream is called again.
	clock.Advance(61 * time.Minute)
	provider.On("Convert", "XOF", "EUR", 1000.0).Return(upstream, nil).Once()

	_, err = converter.Convert(ctx, "XOF", "EUR", 1000)
	require.NoError(t, err)
	provider.AssertNumberOfCalls(t, "Convert", 2)
	provider.AssertExpectations(t)
}

func TestCachedConverter_ProviderErrorPropagates(t *testing.T) {
	provider := new(mockProvider)
	provider.On("Convert", "EUR", "ZZZ", 10.0).
		Return(nil, exchange.ErrRateUnavailable)

	cache, _ := newTestCache(t)
	converter := exchange.NewCachedConverter(provider, cache, discardLogger())

	_, err := converter.Convert(context.Background(), "EUR", "ZZZ", 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, exchange.ErrRateUnavailable))
}
