// Package vtu talks to third-party VTU fulfillment providers. Provider
// failures of any kind are folded into the Result; nothing here panics or
// propagates transport errors past the gateway boundary.
package vtu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"forbill/internal/models"
)

// DefaultTimeout bounds every provider request. A timed-out call is a
// failed call from the coordinator's point of view.
const DefaultTimeout = 30 * time.Second

// Result is the gateway's uniform response shape.
type Result struct {
	Success           bool
	ProviderReference string
	RawResponse       string
	Error             *ResultError
}

// ResultError carries a provider or transport failure message.
type ResultError struct {
	Message string
}

// ErrorMessage returns the failure message, empty on success.
func (r Result) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Message
}

// Gateway is the capability surface the transaction coordinator needs
// from the fulfillment network.
type Gateway interface {
	PurchaseAirtime(ctx context.Context, provider *models.Provider, tx *models.Transaction) Result
	PurchaseData(ctx context.Context, provider *models.Provider, tx *models.Transaction, planCode string) Result
	CheckStatus(ctx context.Context, provider *models.Provider, tx *models.Transaction) Result
}

// Client is the HTTP implementation of Gateway.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a gateway client. httpClient may be nil, in which
// case a client with the default timeout is used.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{httpClient: httpClient}
}

func (c *Client) PurchaseAirtime(ctx context.Context, provider *models.Provider, tx *models.Transaction) Result {
	payload := map[string]interface{}{
		"network":   tx.NetworkCode,
		"phone":     tx.RecipientPhone,
		"amount":    tx.ProviderAmount,
		"reference": tx.Reference,
	}
	return c.request(ctx, provider, "airtime", payload)
}

func (c *Client) PurchaseData(ctx context.Context, provider *models.Provider, tx *models.Transaction, planCode string) Result {
	if planCode == "" {
		return errorResult("data purchase requires a plan code")
	}
	payload := map[string]interface{}{
		"network":   tx.NetworkCode,
		"phone":     tx.RecipientPhone,
		"plan_code": planCode,
		"reference": tx.Reference,
	}
	return c.request(ctx, provider, "data", payload)
}

func (c *Client) CheckStatus(ctx context.Context, provider *models.Provider, tx *models.Transaction) Result {
	if tx.ProviderReference == "" {
		return errorResult("cannot check status - missing provider reference")
	}
	payload := map[string]interface{}{
		"reference": tx.ProviderReference,
	}
	return c.request(ctx, provider, "status", payload)
}

// providerResponse is the subset of the provider reply the gateway
// understands; everything else rides along in RawResponse.
type providerResponse struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Message   string `json:"message"`
	Error     string `json:"error"`
}

func (c *Client) request(ctx context.Context, provider *models.Provider, action string, payload map[string]interface{}) Result {
	endpoint := strings.TrimRight(provider.APIEndpoint, "/") + "/" + action

	// Provider credentials ride in the body but must never reach the logs.
	payload["api_key"] = provider.APIKey
	if provider.SecretKey != "" {
		payload["secret_key"] = provider.SecretKey
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errorResult(fmt.Sprintf("failed to encode provider request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return errorResult(fmt.Sprintf("failed to build provider request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ForBill/1.0")

	log.Printf("VTU request: provider=%s action=%s reference=%v", provider.Code, action, payload["reference"])

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("VTU request failed: provider=%s action=%s err=%v", provider.Code, action, err)
		return errorResult(err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorResult(fmt.Sprintf("failed to read provider response: %v", err))
	}

	var parsed providerResponse
	// A malformed body on a 2xx still counts as success; the raw payload
	// is preserved for the audit trail.
	_ = json.Unmarshal(raw, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := parsed.Error
		if msg == "" {
			msg = parsed.Message
		}
		if msg == "" {
			msg = fmt.Sprintf("provider returned HTTP %d", resp.StatusCode)
		}
		log.Printf("VTU request rejected: provider=%s action=%s status=%d", provider.Code, action, resp.StatusCode)
		return Result{
			Success:     false,
			RawResponse: string(raw),
			Error:       &ResultError{Message: msg},
		}
	}

	return Result{
		Success:           true,
		ProviderReference: parsed.Reference,
		RawResponse:       string(raw),
	}
}

func errorResult(message string) Result {
	return Result{
		Success: false,
		Error:   &ResultError{Message: message},
	}
}
