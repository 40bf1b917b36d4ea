package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RESTClient talks to the pricing service over JSON-over-HTTP.
type RESTClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *RESTClient) Price(ctx context.Context, items []string) (*Bill, error) {
	jsonData, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bill request: %w", err)
	}

	url := fmt.Sprintf("%s/api/bill", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to build bill request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach pricing service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pricing service error (%d): %s", resp.StatusCode, string(body))
	}

	var bill Bill
	if err := json.Unmarshal(body, &bill); err != nil {
		return nil, fmt.Errorf("failed to parse pricing response: %w", err)
	}
	return &bill, nil
}
