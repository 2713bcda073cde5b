package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// gatewayClient posts protocol payloads to a running gateway's unified
// endpoint on behalf of the exec and chat commands.
type gatewayClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func newGatewayClient(baseURL, apiKey string) *gatewayClient {
	return &gatewayClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// post sends the payload and returns the raw "response" field.
func (c *gatewayClient) post(payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/message", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reaching gateway: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var fail struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &fail) == nil && fail.Error != "" {
			return nil, fmt.Errorf("gateway: %s", fail.Error)
		}
		return nil, fmt.Errorf("gateway returned %d", resp.StatusCode)
	}

	var envelope struct {
		Status   string          `json:"status"`
		Response json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return envelope.Response, nil
}
