package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	// ErrTransport covers every transport-level failure of a fetch:
	// connect, timeout, TLS and non-2xx responses.
	ErrTransport = errors.New("transport failure")

	// ErrInvalidPayload reports a response body that is not valid JSON.
	ErrInvalidPayload = errors.New("invalid response payload")
)

// Client performs one authenticated GET per Fetch call. It never retries;
// retry policy, if any, belongs to the caller.
type Client struct {
	httpClient *http.Client
	login      string
	password   string
}

// NewClient creates a fetch client with HTTP Basic credentials.
func NewClient(login, password string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		login:      login,
		password:   password,
	}
}

// Fetch GETs the URL and decodes the body as JSON. Number literals are
// preserved as json.Number so the measurement codec can classify them.
func (c *Client) Fetch(ctx context.Context, url string) (any, error) {
	log.Debug().Str("url", url).Msg("Fetching measurement data")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.SetBasicAuth(c.login, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Keep the underlying error in the chain so callers can still
		// classify network failures with errors.As.
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: server returned %s", ErrTransport, resp.Status)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return body, nil
}
