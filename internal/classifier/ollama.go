// Package classifier talks to the generative-text backend that turns a chat
// message into either a command line or a conversational reply.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	generatePath = "/api/generate"
	probePath    = "/api/version"

	// maxBodyBytes caps how much of a backend response is read
	maxBodyBytes = 1 << 20
	// maxLoggedBody caps how much of an error body is logged
	maxLoggedBody = 512
)

// Config holds the backend connection settings
type Config struct {
	BaseURL          string
	Model            string
	RequestTimeout   time.Duration
	ProbeTimeout     time.Duration
	FailureThreshold int
	Cooldown         time.Duration
}

// OllamaClient classifies messages with an Ollama-compatible
// non-streaming generate endpoint.
type OllamaClient struct {
	baseURL        string
	model          string
	requestTimeout time.Duration
	probeTimeout   time.Duration
	http           *http.Client
	guard          *Guard
	logger         *slog.Logger
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response *string `json:"response"`
}

// NewOllamaClient creates a client; zero timeouts fall back to defaults
func NewOllamaClient(cfg *Config, logger *slog.Logger) *OllamaClient {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}

	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 60 * time.Second
	}
	probeTimeout := cfg.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = 2 * time.Second
	}

	return &OllamaClient{
		baseURL:        baseURL,
		model:          cfg.Model,
		requestTimeout: requestTimeout,
		probeTimeout:   probeTimeout,
		guard:          NewGuard(cfg.FailureThreshold, cfg.Cooldown),
		logger:         logger,
		http: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   probeTimeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:          10,
				IdleConnTimeout:       90 * time.Second,
				ResponseHeaderTimeout: requestTimeout,
			},
		},
	}
}

// Classify probes the backend, then sends the classification prompt for the
// message and returns the raw reply text. It makes no retries.
func (c *OllamaClient) Classify(ctx context.Context, message string) (string, error) {
	if !c.guard.Allow() {
		return "", fmt.Errorf("%w: disabled until %s after repeated failures",
			ErrUnavailable, c.guard.DisabledUntil().Format(time.RFC3339))
	}

	if err := c.Probe(ctx); err != nil {
		c.guard.RecordFailure()
		return "", err
	}

	reply, err := c.generate(ctx, BuildPrompt(message))
	if err != nil {
		c.guard.RecordFailure()
		return "", err
	}

	c.guard.RecordSuccess()
	return reply, nil
}

// Probe is a bounded-time reachability check of the backend
func (c *OllamaClient) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+probePath, nil)
	if err != nil {
		return fmt.Errorf("%w: create probe request: %v", ErrUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Classifier probe failed",
			slog.String("url", c.baseURL+probePath),
			slog.Any("error", err),
		)
		return fmt.Errorf("%w: probe: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Classifier probe returned non-success status",
			slog.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: probe status %d", ErrUnavailable, resp.StatusCode)
	}

	return nil
}

func (c *OllamaClient) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: create generate request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Sending classification request",
		slog.String("model", c.model),
		slog.Int("prompt_bytes", len(prompt)),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Classifier request failed",
			slog.String("model", c.model),
			slog.Any("error", err),
		)
		return "", fmt.Errorf("%w: generate: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.logger.Error("Failed to read classifier response",
			slog.Int("status", resp.StatusCode),
			slog.Any("error", err),
		)
		return "", fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Classifier returned non-success status",
			slog.Int("status", resp.StatusCode),
			slog.String("body", truncate(string(body), maxLoggedBody)),
		)
		return "", &BadResponseError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		c.logger.Error("Failed to decode classifier response",
			slog.Int("status", resp.StatusCode),
			slog.String("body", truncate(string(body), maxLoggedBody)),
			slog.Any("error", err),
		)
		return "", &BadResponseError{StatusCode: resp.StatusCode, Body: string(body), Err: err}
	}
	if decoded.Response == nil {
		c.logger.Error("Classifier response missing response field",
			slog.Int("status", resp.StatusCode),
			slog.String("body", truncate(string(body), maxLoggedBody)),
		)
		return "", &BadResponseError{StatusCode: resp.StatusCode, Body: string(body), Err: fmt.Errorf("missing response field")}
	}

	c.logger.Info("Classifier replied",
		slog.Int("status", resp.StatusCode),
		slog.String("reply", truncate(*decoded.Response, maxLoggedBody)),
	)

	return *decoded.Response, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
