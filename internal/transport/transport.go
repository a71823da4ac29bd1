package transport

import (
	"fmt"
	"io"
	"net/http"
)

// Doer is the seam between the orchestrator and the HTTP stack. Production
// passes *http.Client; tests pass a stub. Timeouts and cancellation belong
// to the Doer (or the request context), never to this package.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Transport sends one request and returns the raw status and body. It
// performs no retries.
type Transport struct {
	client Doer
}

func New(client Doer) *Transport {
	if client == nil {
		client = &http.Client{}
	}
	return &Transport{client: client}
}

// Send executes the request and drains the body. A network-level failure
// returns an error; any HTTP status is returned as-is for the caller to
// classify.
func (t *Transport) Send(req *http.Request) (int, []byte, error) {
	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
