package fiscal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/davissontiago/Mateco/internal/cache"
	"github.com/davissontiago/Mateco/internal/domain"
)

const tokenCacheKey = "fiscal:access_token"

// RejectionError is returned when the fiscal backend validated the
// invoice and refused to authorize it. Its Error text is the backend's
// reason, suitable for showing to the operator as-is.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

// Client talks to the fiscal issuance API (Nuvem Fiscal style)
type Client struct {
	baseURL      string
	authURL      string
	clientID     string
	clientSecret string
	emitterCNPJ  string
	environment  string
	httpClient   *http.Client
	tokens       cache.TokenCache
}

// Config holds configuration for the fiscal client
type Config struct {
	BaseURL      string
	AuthURL      string
	ClientID     string
	ClientSecret string
	EmitterCNPJ  string
	Environment  string // "homologacao" or "producao"
	Timeout      time.Duration
	TokenCache   cache.TokenCache
}

// IssuedResult carries the identifiers of an authorized document
type IssuedResult struct {
	RemoteID  string
	Number    int64
	Series    int64
	AccessKey string
	PDFURL    string
	XMLURL    string
	Status    string
}

// NewClient creates a new fiscal issuance client
func NewClient(config *Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.Environment == "" {
		config.Environment = "homologacao"
	}
	tokens := config.TokenCache
	if tokens == nil {
		tokens = cache.NewMemoryTokenCache()
	}

	return &Client{
		baseURL:      config.BaseURL,
		authURL:      config.AuthURL,
		clientID:     config.ClientID,
		clientSecret: config.ClientSecret,
		emitterCNPJ:  config.EmitterCNPJ,
		environment:  config.Environment,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		tokens: tokens,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns a cached OAuth token or fetches a fresh one via
// the client-credentials grant
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if token, ok := c.tokens.Get(ctx, tokenCacheKey); ok {
		return token, nil
	}

	if c.clientID == "" || c.clientSecret == "" {
		return "", fmt.Errorf("fiscal credentials are not configured")
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "nfce")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create auth request: %w", err)
	}

	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach auth endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read auth response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth failed (status %d): %s", resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("failed to parse auth response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("auth response carried no access token")
	}

	// Expire the cached copy a minute early so a token is never used
	// right at its deadline
	ttl := time.Duration(token.ExpiresIn)*time.Second - time.Minute
	if ttl > 0 {
		c.tokens.Set(ctx, tokenCacheKey, token.AccessToken, ttl)
	}

	return token.AccessToken, nil
}

type emissionItem struct {
	Code        string  `json:"codigo"`
	Description string  `json:"descricao"`
	NCM         string  `json:"ncm"`
	CEST        string  `json:"cest"`
	Quantity    float64 `json:"quantidade"`
	Unit        string  `json:"unidade"`
	UnitPrice   float64 `json:"valor_unitario"`
	LineTotal   float64 `json:"valor_total"`
}

type paymentForm struct {
	MethodCode string  `json:"codigo_meio_pagamento"`
	Value      float64 `json:"valor"`
}

type emissionRequest struct {
	Environment string `json:"ambiente"`
	Emitter     struct {
		CNPJ string `json:"cnpj"`
	} `json:"emitente"`
	Items []emissionItem `json:"itens"`
	Payment struct {
		Forms []paymentForm `json:"formas_pagamento"`
	} `json:"pagamento"`
	CustomerID string `json:"cliente_id,omitempty"`
}

type emissionResponse struct {
	ID        string `json:"id"`
	Number    int64  `json:"numero"`
	Series    int64  `json:"serie"`
	AccessKey string `json:"chave"`
	PDFURL    string `json:"url_danfe"`
	XMLURL    string `json:"url_xml"`
	Status    string `json:"status"`

	Authorization struct {
		Reason string `json:"motivo_status"`
	} `json:"autorizacao"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// IssueInvoice submits one aggregated draft for fiscal issuance. A
// backend rejection comes back as *RejectionError; anything else is a
// transport-level failure.
func (c *Client) IssueInvoice(ctx context.Context, items []domain.LineItem, paymentMethod, customerID string) (*IssuedResult, error) {
	if len(items) == 0 {
		return nil, &RejectionError{Message: "empty cart"}
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var payload emissionRequest
	payload.Environment = c.environment
	payload.Emitter.CNPJ = c.emitterCNPJ
	payload.CustomerID = customerID

	var total float64
	payload.Items = make([]emissionItem, len(items))
	for i, item := range items {
		payload.Items[i] = emissionItem{
			Code:        strconv.FormatInt(item.ProductID, 10),
			Description: item.Name,
			NCM:         itemNCM(item),
			CEST:        "0100100",
			Quantity:    item.Quantity,
			Unit:        "UN",
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		}
		total += item.LineTotal
	}
	payload.Payment.Forms = []paymentForm{{
		MethodCode: paymentMethod,
		Value:      domain.RoundCurrency(total),
	}}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal emission payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/nfce", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach fiscal service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result emissionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("fiscal service error (status %d): %s", resp.StatusCode, string(body))
	}

	if result.Status == "rejeitado" {
		reason := result.Authorization.Reason
		if reason == "" {
			reason = "rejected without a reason"
		}
		return nil, &RejectionError{Message: reason}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if result.Error.Message != "" {
			return nil, &RejectionError{Message: result.Error.Message}
		}
		return nil, fmt.Errorf("fiscal service error (status %d): %s", resp.StatusCode, string(body))
	}

	return &IssuedResult{
		RemoteID:  result.ID,
		Number:    result.Number,
		Series:    result.Series,
		AccessKey: result.AccessKey,
		PDFURL:    result.PDFURL,
		XMLURL:    result.XMLURL,
		Status:    result.Status,
	}, nil
}

// DownloadPDF fetches the rendered DANFE for an issued document
func (c *Client) DownloadPDF(ctx context.Context, remoteID string) ([]byte, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/nfce/%s/pdf", c.baseURL, url.PathEscape(remoteID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach fiscal service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("PDF download failed (status %d): %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

func itemNCM(item domain.LineItem) string {
	if item.NCM == "" {
		return "00000000"
	}
	return item.NCM
}
