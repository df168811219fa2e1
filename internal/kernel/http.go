package kernel

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vk/fogplace/internal/coordinator"
	"github.com/vk/fogplace/internal/ctxlog"
)

// HTTPConfig configures an HTTP kernel.
type HTTPConfig struct {
	URL                string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// HTTP posts each bundle manifest as JSON to a remote kernel. Any 2xx answer
// is an acceptance; other answers are rejections carrying the response body.
type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP returns an HTTP kernel with its own pooled client.
func NewHTTP(cfg HTTPConfig) *HTTP {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRemoteTimeout
	}
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &HTTP{
		url:    cfg.URL,
		client: &http.Client{Timeout: cfg.Timeout, Transport: transport},
	}
}

// Name implements coordinator.Kernel.
func (h *HTTP) Name() string { return "http" }

// SubmitApplication implements coordinator.Kernel.
func (h *HTTP) SubmitApplication(ctx context.Context, b *coordinator.Bundle) error {
	logger := ctxlog.FromContext(ctx).With("kernel", "http", "url", h.url, "bundle", b.ID)

	body, err := json.Marshal(b.Manifest())
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Info("Posting bundle manifest.")
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	logger.Info("Received HTTP response", "status", resp.Status)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := strings.TrimSpace(string(respBody))
		if reason == "" {
			reason = resp.Status
		}
		return &RejectedError{BundleID: b.ID, Reason: reason}
	}
	return nil
}

// Close releases idle connections held by the client.
func (h *HTTP) Close() {
	h.client.CloseIdleConnections()
}
