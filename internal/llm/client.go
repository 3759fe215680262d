package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client define la interfaz para obtener una respuesta del modelo externo.
type Client interface {
	Generate(ctx context.Context, message string) (string, error)
}

type logger interface {
	Printf(format string, v ...interface{})
}

// HTTPClient implementa Client contra un endpoint de chat estilo Cohere.
// Un solo intento por llamada: el fallo se devuelve al caller, sin retry.
type HTTPClient struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	client      *http.Client
	logger      logger
}

// NewHTTPClient construye un cliente HTTP apuntando al endpoint de chat.
func NewHTTPClient(baseURL, apiKey, model string, temperature float64, log any) *HTTPClient {
	l, _ := log.(logger)
	if baseURL == "" {
		baseURL = "https://api.cohere.ai/v1"
	}
	return &HTTPClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		client:      &http.Client{Timeout: 60 * time.Second},
		logger:      l,
	}
}

func (c *HTTPClient) Generate(ctx context.Context, message string) (string, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Message:     message,
		Temperature: c.temperature,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cohere-Version", "2022-12-06")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		if c.logger != nil {
			c.logger.Printf("llm error status %d: %s", resp.StatusCode, string(respBody))
		}
		return "", fmt.Errorf("llm http error: status=%d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if cr.Message != "" && cr.Text == "" {
		return "", fmt.Errorf("llm api error: %s", cr.Message)
	}

	if cr.Text == "" {
		return "", fmt.Errorf("llm empty response")
	}

	return cr.Text, nil
}

type chatRequest struct {
	Model       string  `json:"model"`
	Message     string  `json:"message"`
	Temperature float64 `json:"temperature"`
}

type chatResponse struct {
	Text string `json:"text"`
	// Los errores de la API llegan como {message} con status >= 400.
	Message string `json:"message,omitempty"`
}
