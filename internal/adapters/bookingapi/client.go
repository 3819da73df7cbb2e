// Package bookingapi talks to the remote booking service over HTTP/JSON.
package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sportsdesk/internal/domain/booking"
)

// DefaultBaseURL is where the booking service listens in a local setup.
const DefaultBaseURL = "http://localhost:5000/api"

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 1 << 20

var (
	// ErrUnreachable marks transport failures: refused connection, DNS, cancelled context.
	ErrUnreachable = errors.New("could not reach server")
	// ErrMalformedResponse marks a 2xx response whose body is not the expected JSON.
	ErrMalformedResponse = errors.New("malformed response from booking service")
)

// unknownError is the message used when a rejection carries no error text.
const unknownError = "unknown error"

// RemoteError is a non-2xx answer from the booking service.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("booking service returned %d: %s", e.Status, e.Message)
}

// Client calls the booking service. The zero timeout leaves deadlines to ctx.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for baseURL. An empty baseURL selects DefaultBaseURL.
// PRE: timeout >= 0
// POST: No retries are performed by the returned client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the underlying transport, for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the service root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListBookings fetches every booking the service knows about.
// PRE: none
// POST: Returns a non-nil slice on success. Errors are ErrUnreachable, *RemoteError or ErrMalformedResponse
func (c *Client) ListBookings(ctx context.Context) ([]booking.Booking, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/bookings", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var bookings []booking.Booking
	if err := json.Unmarshal(body, &bookings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if bookings == nil {
		bookings = []booking.Booking{}
	}
	return bookings, nil
}

// CreateBooking asks the service to reserve b.
// PRE: b passed Validate
// POST: Returns the service's echo of the booking. A 2xx with an unreadable body returns b itself
func (c *Client) CreateBooking(ctx context.Context, b booking.Booking) (booking.Booking, error) {
	payload, err := json.Marshal(b)
	if err != nil {
		return booking.Booking{}, fmt.Errorf("encode booking: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bookings", bytes.NewReader(payload))
	if err != nil {
		return booking.Booking{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return booking.Booking{}, err
	}

	created := b
	if len(bytes.TrimSpace(body)) > 0 {
		var echoed booking.Booking
		if json.Unmarshal(body, &echoed) == nil && echoed.Sport != "" {
			created = echoed
		}
	}
	return created, nil
}

// do sends req and returns the body of a 2xx response.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnreachable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteError{Status: resp.StatusCode, Message: errorText(body)}
	}
	return body, nil
}

// errorText extracts the "error" field of a rejection body.
func errorText(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) != nil || strings.TrimSpace(payload.Error) == "" {
		return unknownError
	}
	return payload.Error
}

// UserMessage turns a client error into text fit for the person at the desk.
func UserMessage(err error) string {
	var remote *RemoteError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &remote):
		return remote.Message
	case errors.Is(err, ErrUnreachable):
		return "Could not reach server. Please ensure the booking service is running."
	case errors.Is(err, ErrMalformedResponse):
		return "The booking service sent an unexpected response."
	default:
		return "Something went wrong. Please try again."
	}
}
