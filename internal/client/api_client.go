package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ai-chatbot/internal/domain"
)

// ChatAPI es la superficie del backend que consume el controlador de sesión.
type ChatAPI interface {
	Send(ctx context.Context, message, session string) (string, error)
	History(ctx context.Context, session string) ([]domain.Message, error)
	Sessions(ctx context.Context) ([]string, error)
	ClearSession(ctx context.Context, session string) error
	ClearAll(ctx context.Context) error
}

// APIClient implementa ChatAPI contra la superficie HTTP /api/chat.
type APIClient struct {
	baseURL string
	client  *http.Client
}

func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 90 * time.Second}
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

func (c *APIClient) Send(ctx context.Context, message, session string) (string, error) {
	reqBody := map[string]string{"message": message}
	if session != "" {
		reqBody["session"] = session
	}

	var out struct {
		Reply string `json:"reply"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/chat", reqBody, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

func (c *APIClient) History(ctx context.Context, session string) ([]domain.Message, error) {
	var out []domain.Message
	path := "/api/chat/history/" + url.PathEscape(session)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) Sessions(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodGet, "/api/chat/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) ClearSession(ctx context.Context, session string) error {
	path := "/api/chat/clear/" + url.PathEscape(session)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *APIClient) ClearAll(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/chat/clear-all", nil, nil)
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("api error: %s", apiErr.Error)
		}
		return fmt.Errorf("api http error: status=%d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
