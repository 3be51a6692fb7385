// Package gateway holds HTTP clients for the serverless collaborators:
// outbound WhatsApp replies, payment-link creation and order-status
// notifications. Only the request/response contract is modeled here.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/config"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// post calls one function endpoint and decodes its JSON body into out.
// Non-2xx responses still carry a decodable {success, error} body.
func (c *Client) post(ctx context.Context, fn string, payload, out interface{}) error {
	if c.baseURL == "" {
		return fmt.Errorf("gateway base url not configured")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/functions/v1/"+fn, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", fn, err)
	}
	return nil
}
