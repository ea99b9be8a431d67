package exchange

import (
	"context"
	"errors"
)

// ErrRateUnavailable is returned when the upstream provider cannot produce a
// conversion for the requested pair.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// Conversion is one result from the upstream conversion API.
type Conversion struct {
	FromCurrency string  `json:"from_currency"`
	ToCurrency   string  `json:"to_currency"`
	Amount       float64 `json:"amount"`
	Rate         float64 `json:"rate"`
	Converted    float64 `json:"converted"`
}

// RateProvider is the upstream currency-conversion collaborator, invoked only
// on cache miss. It is fallible, slow, and rate-limited; reducing calls to it
// is the cache's entire purpose.
type RateProvider interface {
	Convert(ctx context.Context, from, to string, amount float64) (*Conversion, error)
}
