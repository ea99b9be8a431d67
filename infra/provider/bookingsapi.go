package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/voyago/travelsync/pkg/config"
	"github.com/voyago/travelsync/pkg/domain"
)

// BookingsAPI calls the remote bookings service: snapshot pulls for the
// offline store and replay of queued mutations. Replay is at-least-once, so
// every mutation carries an Idempotency-Key the server dedupes on.
type BookingsAPI struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewBookingsAPI creates a bookings client from config.
func NewBookingsAPI(cfg config.BookingsAPI, logger *slog.Logger) *BookingsAPI {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingsAPI{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		logger:     logger.With(slog.String("component", "bookings_api")),
	}
}

// FetchBookings pulls the current booking records for one user.
func (p *BookingsAPI) FetchBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	endpoint := fmt.Sprintf("%s/users/%s/bookings", p.baseURL, url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build bookings request: %w", err)
	}
	p.setHeaders(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bookings request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookings response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		p.logger.Error("bookings API error", "status", resp.StatusCode, "user_id", userID)
		return nil, fmt.Errorf("bookings API returned status %d", resp.StatusCode)
	}

	var bookings []domain.Booking
	if err := json.Unmarshal(body, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings response: %w", err)
	}

	p.logger.Debug("fetched bookings", "user_id", userID, "count", len(bookings))
	return bookings, nil
}

// Apply replays one queued mutation. The payload is forwarded verbatim; this
// client never interprets it.
func (p *BookingsAPI) Apply(ctx context.Context, item domain.SyncQueueItem) error {
	var method string
	switch item.Action {
	case domain.SyncActionCreate:
		method = http.MethodPost
	case domain.SyncActionUpdate:
		method = http.MethodPatch
	case domain.SyncActionDelete:
		method = http.MethodDelete
	default:
		return fmt.Errorf("unknown sync action %q", item.Action)
	}

	endpoint := fmt.Sprintf("%s/%s", p.baseURL, url.PathEscape(item.Table))
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(item.Data))
	if err != nil {
		return fmt.Errorf("failed to build mutation request: %w", err)
	}
	p.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey(item))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mutation request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.logger.Error("mutation rejected",
			"status", resp.StatusCode,
			"action", item.Action,
			"table", item.Table,
		)
		return fmt.Errorf("mutation %s on %s returned status %d", item.Action, item.Table, resp.StatusCode)
	}

	p.logger.Debug("mutation applied", "action", item.Action, "table", item.Table, "id", item.ID)
	return nil
}

func (p *BookingsAPI) setHeaders(req *http.Request) {
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
}

// idempotencyKey derives a stable key from the item's identity and creation
// time, so a crash between the server applying a mutation and the client
// removing it from the queue results in a deduped retry, not a duplicate.
func idempotencyKey(item domain.SyncQueueItem) string {
	seed := fmt.Sprintf("%d|%s|%s|%d", item.ID, item.Action, item.Table, item.Timestamp.UnixNano())
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
}
