// Package client is the typed data layer over the booking board HTTP API.
// It unwraps the uniform {success, data|message|error} envelope and turns
// failed envelopes into Go errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kordei/zoneboard/internal/domain"
)

const bookingsPath = "/api/bookings"

type Client struct {
	baseURL string
	httpc   *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

type actionPayload struct {
	Action           string                `json:"action"`
	ZoneID           int64                 `json:"zoneId,omitempty"`
	ZoneName         string                `json:"zoneName,omitempty"`
	Branch           string                `json:"branch,omitempty"`
	BookingID        int64                 `json:"bookingId,omitempty"`
	Status           domain.BookingStatus  `json:"status,omitempty"`
	CompletionType   domain.CompletionType `json:"completionType,omitempty"`
	SkipCleaningFlag bool                  `json:"skipCleaningFlag,omitempty"`
	Data             *domain.BookingPatch  `json:"data,omitempty"`
}

// FetchZones loads the board: every zone with its bookings, optionally
// filtered by branch.
func (c *Client) FetchZones(ctx context.Context, branch string) ([]domain.ZoneWithBookings, error) {
	const op = "client.FetchZones"

	u := c.baseURL + bookingsPath
	if branch != "" {
		u += "?branch=" + url.QueryEscape(branch)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	env, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var zones []domain.ZoneWithBookings
	if err := json.Unmarshal(env.Data, &zones); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return zones, nil
}

func (c *Client) CreateBooking(ctx context.Context, zoneID int64, zoneName, branch string, data domain.BookingPatch) (*domain.Booking, error) {
	const op = "client.CreateBooking"

	env, err := c.post(ctx, actionPayload{
		Action:   "create",
		ZoneID:   zoneID,
		ZoneName: zoneName,
		Branch:   branch,
		Data:     &data,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return decodeBooking(op, env)
}

func (c *Client) UpdateBooking(ctx context.Context, bookingID int64, data domain.BookingPatch) (*domain.Booking, error) {
	const op = "client.UpdateBooking"

	env, err := c.post(ctx, actionPayload{
		Action:    "update",
		BookingID: bookingID,
		Data:      &data,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return decodeBooking(op, env)
}

func (c *Client) UpdateBookingStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.Booking, error) {
	const op = "client.UpdateBookingStatus"

	env, err := c.post(ctx, actionPayload{
		Action:    "updateStatus",
		BookingID: bookingID,
		Status:    status,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return decodeBooking(op, env)
}

func (c *Client) DeleteBooking(ctx context.Context, bookingID int64, skipCleaningFlag bool) error {
	const op = "client.DeleteBooking"

	if _, err := c.post(ctx, actionPayload{
		Action:           "delete",
		BookingID:        bookingID,
		SkipCleaningFlag: skipCleaningFlag,
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) CompleteBooking(ctx context.Context, bookingID int64, completion domain.CompletionType) error {
	const op = "client.CompleteBooking"

	if _, err := c.post(ctx, actionPayload{
		Action:         "complete",
		BookingID:      bookingID,
		CompletionType: completion,
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) ClearAllBookings(ctx context.Context, branch string) (int64, error) {
	const op = "client.ClearAllBookings"

	env, err := c.post(ctx, actionPayload{
		Action: "clearAll",
		Branch: branch,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var res struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.Unmarshal(env.Data, &res); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return res.Deleted, nil
}

func (c *Client) MarkZoneCleaned(ctx context.Context, zoneID int64) error {
	const op = "client.MarkZoneCleaned"

	if _, err := c.post(ctx, actionPayload{
		Action: "markCleaned",
		ZoneID: zoneID,
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) post(ctx context.Context, payload actionPayload) (*envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+bookingsPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("http %d: %w", resp.StatusCode, err)
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, msg)
	}

	return &env, nil
}

func decodeBooking(op string, env *envelope) (*domain.Booking, error) {
	var b domain.Booking
	if err := json.Unmarshal(env.Data, &b); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &b, nil
}
