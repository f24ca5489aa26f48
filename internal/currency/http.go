package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPProvider fetches rates from a JSON endpoint shaped like
// {"base": "USD", "rates": {"EUR": 0.92}}.
type HTTPProvider struct {
	Endpoint string
	Timeout  time.Duration
	Now      func() time.Time
}

// NewHTTPProvider builds a provider for endpoint. An empty endpoint uses DefaultEndpoint.
func NewHTTPProvider(endpoint string, timeout time.Duration) *HTTPProvider {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{Endpoint: endpoint, Timeout: timeout, Now: time.Now}
}

// Rates performs a single GET without retries.
func (p *HTTPProvider) Rates(ctx context.Context) (Rates, error) {
	resp, err := httpRequest(ctx, p.Endpoint, p.Timeout)
	if err != nil {
		return Rates{}, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Rates{}, fmt.Errorf("rates request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Rates{}, fmt.Errorf("failed to decode rates: %w", err)
	}
	if len(payload.Rates) == 0 {
		return Rates{}, fmt.Errorf("rates response has no rates")
	}
	base := strings.ToUpper(payload.Base)
	if base == "" {
		base = Base
	}
	if base != Base {
		return Rates{}, fmt.Errorf("unexpected rates base %q", payload.Base)
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return Rates{Base: base, Values: payload.Rates, FetchedAt: now().UTC(), Live: true}, nil
}

func httpRequest(ctx context.Context, url string, timeout time.Duration) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
