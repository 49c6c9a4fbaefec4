// Package rest writes video metadata through the backend's privileged REST
// endpoint, authenticating with the service role key.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vidshare/vidshare/internal/core/domain"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	videosPath         = "/rest/v1/videos"
	maxErrorBody       = 64 << 10
)

// Config holds the endpoint and the privileged credential.
type Config struct {
	BaseURL        string
	ServiceRoleKey string
	Timeout        time.Duration
}

// VideoWriter posts video records to {BaseURL}/rest/v1/videos. Only 201
// Created counts as success; any other status is returned as a
// *domain.InsertRejectedError carrying the response body.
type VideoWriter struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the writer.
type Option func(*VideoWriter)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(w *VideoWriter) {
		if client != nil {
			w.httpClient = client
		}
	}
}

func NewVideoWriter(cfg Config, opts ...Option) (*VideoWriter, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.ServiceRoleKey = strings.TrimSpace(cfg.ServiceRoleKey)
	if cfg.BaseURL == "" {
		return nil, errors.New("rest writer: base url required")
	}
	if cfg.ServiceRoleKey == "" {
		return nil, errors.New("rest writer: service role key required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	w := &VideoWriter{cfg: cfg, httpClient: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

type videoRow struct {
	ID          string   `json:"id,omitempty"`
	UserID      string   `json:"user_id"`
	FileName    string   `json:"file_name"`
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
}

// Insert writes one record and returns the id assigned by the backend. A 201
// whose body carries no id is a backend error.
func (w *VideoWriter) Insert(ctx context.Context, v *domain.VideoRecord) (string, error) {
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}
	payload, err := json.Marshal(videoRow{
		UserID:      v.UserID,
		FileName:    v.FileName,
		URL:         v.URL,
		Title:       v.Title,
		Description: v.Description,
		Tags:        tags,
		Category:    v.Category,
	})
	if err != nil {
		return "", fmt.Errorf("rest insert: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.BaseURL+videosPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("rest insert: build request: %w", err)
	}
	req.Header.Set("apikey", w.cfg.ServiceRoleKey)
	req.Header.Set("Authorization", "Bearer "+w.cfg.ServiceRoleKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("rest insert: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return "", fmt.Errorf("rest insert: read response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return "", &domain.InsertRejectedError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	id := decodeID(body)
	if id == "" {
		return "", fmt.Errorf("rest insert: %w: created row has no id", domain.ErrBackend)
	}
	return id, nil
}

// decodeID reads the id from a representation response, which is either a
// single row or an array of rows.
func decodeID(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	var rows []videoRow
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &rows); err != nil || len(rows) == 0 {
			return ""
		}
		return rows[0].ID
	}
	var row videoRow
	if err := json.Unmarshal(trimmed, &row); err != nil {
		return ""
	}
	return row.ID
}
