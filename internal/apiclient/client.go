package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

var (
	// ErrUnexpectedStatus is returned when the endpoint answers with anything
	// other than 200 OK.
	ErrUnexpectedStatus = errors.New("unexpected status code")

	// ErrCircuitOpen is returned when the circuit breaker rejects the call
	// before a request is issued.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// Client performs GET requests against external JSON APIs. A single attempt is
// made per call; failures surface as errors for the caller to act on.
type Client struct {
	http    *http.Client
	circuit *gobreaker.CircuitBreaker
}

// New creates a Client with the given request timeout.
func New(timeout time.Duration) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "apiclient",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		http: &http.Client{
			Timeout: timeout,
		},
		circuit: cb,
	}
}

// Get issues a GET request to url and returns the raw JSON body on 200 OK.
// Transport failures and non-200 statuses return an error; there is no retry.
func (c *Client) Get(ctx context.Context, url string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.http.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		}

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, readErr
		}
		return body, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		log.Printf("apiclient: GET %s failed: %v", url, err)
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}

	if !json.Valid(body) {
		log.Printf("apiclient: GET %s returned invalid JSON body", url)
		return nil, errors.New("response body is not valid JSON")
	}

	log.Printf("apiclient: GET %s ok (%d bytes)", url, len(body))
	return json.RawMessage(body), nil
}
