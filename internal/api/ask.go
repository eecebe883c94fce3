package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Ask sends a free-text question and returns the server's answer text.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	data, err := c.post(ctx, "/ask", AskInput{Question: question})
	if err != nil {
		return "", err
	}

	var resp AskResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", &DecodeError{Method: http.MethodPost, Path: "/ask", Err: fmt.Errorf("decode response: %w", err)}
	}
	return resp.Answer, nil
}

// Probe issues OPTIONS /ask to check that the backend is reachable.
func (c *Client) Probe(ctx context.Context) error {
	_, _, err := c.do(ctx, http.MethodOptions, "/ask", nil)
	return err
}
