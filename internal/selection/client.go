package selection

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/davissontiago/Mateco/internal/domain"
)

// rawItem mirrors the wire format of the catalog backend, which speaks
// Portuguese field names
type rawItem struct {
	ID        int64   `json:"id"`
	Name      string  `json:"nome"`
	NCM       string  `json:"ncm"`
	UnitPrice float64 `json:"preco_unitario"`
	Quantity  float64 `json:"quantidade"`
	LineTotal float64 `json:"valor_total"`
}

type simulationResponse struct {
	Items []rawItem `json:"itens"`
	Total float64   `json:"total"`
	Error string    `json:"error,omitempty"`
}

// Client consumes the product-selection service: given a target
// amount, the remote side picks concrete products and quantities that
// approximate it
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds configuration for the selection client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new selection service client
func NewClient(config *Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// SimulateCart asks the selection service to fill targetAmount with
// concrete line items. It returns the raw (possibly duplicated) item
// list and the realized total reported by the service.
func (c *Client) SimulateCart(ctx context.Context, targetAmount float64) ([]domain.LineItem, float64, error) {
	endpoint := fmt.Sprintf("%s/api/produtos/?simular=true&valor=%s", c.baseURL, url.QueryEscape(fmt.Sprintf("%.2f", targetAmount)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to reach selection service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	var payload simulationResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, 0, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if payload.Error != "" {
			return nil, 0, fmt.Errorf("selection service error (status %d): %s", resp.StatusCode, payload.Error)
		}
		return nil, 0, fmt.Errorf("selection service error (status %d): %s", resp.StatusCode, string(body))
	}

	items := make([]domain.LineItem, len(payload.Items))
	for i, raw := range payload.Items {
		items[i] = domain.LineItem{
			ProductID: raw.ID,
			Name:      raw.Name,
			NCM:       raw.NCM,
			UnitPrice: raw.UnitPrice,
			Quantity:  raw.Quantity,
			LineTotal: raw.LineTotal,
		}
	}

	return items, payload.Total, nil
}

// HealthCheck checks if the selection service is reachable
func (c *Client) HealthCheck(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/api/produtos/?q=", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("health check failed (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}
