package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/offerlens/coherence-engine/pkg/apperrors"
	"github.com/offerlens/coherence-engine/pkg/logging"
	"github.com/offerlens/coherence-engine/pkg/retry"
)

// AirtableClient talks to an Airtable-compatible REST base.
// It is stateless and safe for concurrent use.
type AirtableClient struct {
	baseURL    string
	baseID     string
	apiKey     string
	httpClient *http.Client
	retryCfg   *retry.Config
	logger     *zap.Logger
}

// AirtableConfig holds connection settings for an Airtable-compatible base.
type AirtableConfig struct {
	BaseURL string
	BaseID  string
	APIKey  string
}

// NewAirtableClient creates a store client for the given base.
func NewAirtableClient(cfg AirtableConfig, logger *zap.Logger) (*AirtableClient, error) {
	if cfg.BaseID == "" {
		return nil, fmt.Errorf("store base ID is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("store API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.airtable.com/v0"
	}

	return &AirtableClient{
		baseURL:    baseURL,
		baseID:     cfg.BaseID,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retryCfg:   retry.DefaultConfig(),
		logger:     logger.Named("store"),
	}, nil
}

var _ RecordStore = (*AirtableClient)(nil)

// wire types

type airtableRecord struct {
	ID          string         `json:"id"`
	CreatedTime time.Time      `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

type airtableList struct {
	Records []airtableRecord `json:"records"`
	Offset  string           `json:"offset"`
}

func (r airtableRecord) toRecord() *Record {
	fields := r.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	return &Record{ID: r.ID, CreatedTime: r.CreatedTime, Fields: fields}
}

// Find returns a single record by ID.
func (c *AirtableClient) Find(ctx context.Context, table, id string) (*Record, error) {
	var rec airtableRecord
	if err := c.doJSON(ctx, http.MethodGet, c.recordURL(table, id), nil, &rec); err != nil {
		return nil, err
	}
	return rec.toRecord(), nil
}

// List returns all records matching the filter formula, following offset
// pagination until the collection is exhausted.
func (c *AirtableClient) List(ctx context.Context, table, filter string) ([]*Record, error) {
	var out []*Record
	offset := ""

	for {
		query := url.Values{}
		if filter != "" {
			query.Set("filterByFormula", filter)
		}
		if offset != "" {
			query.Set("offset", offset)
		}
		listURL := c.tableURL(table)
		if encoded := query.Encode(); encoded != "" {
			listURL += "?" + encoded
		}

		var page airtableList
		if err := c.doJSON(ctx, http.MethodGet, listURL, nil, &page); err != nil {
			return nil, err
		}
		for _, rec := range page.Records {
			out = append(out, rec.toRecord())
		}
		if page.Offset == "" {
			return out, nil
		}
		offset = page.Offset
	}
}

// Create inserts a record.
func (c *AirtableClient) Create(ctx context.Context, table string, fields map[string]any) (*Record, error) {
	body := map[string]any{"fields": fields}
	var rec airtableRecord
	if err := c.doJSON(ctx, http.MethodPost, c.tableURL(table), body, &rec); err != nil {
		return nil, err
	}
	return rec.toRecord(), nil
}

// Update patches fields on an existing record.
func (c *AirtableClient) Update(ctx context.Context, table, id string, fields map[string]any) error {
	body := map[string]any{"fields": fields}
	return c.doJSON(ctx, http.MethodPatch, c.recordURL(table, id), body, nil)
}

func (c *AirtableClient) tableURL(table string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(table))
}

func (c *AirtableClient) recordURL(table, id string) string {
	return fmt.Sprintf("%s/%s", c.tableURL(table), id)
}

// doJSON performs a request with auth, decodes the response into out when
// non-nil, and retries transient failures (rate limits, network errors).
func (c *AirtableClient) doJSON(ctx context.Context, method, rawURL string, body any, out any) error {
	return retry.DoIfRetryable(ctx, c.retryCfg, func() error {
		var reqBody io.Reader
		if body != nil {
			encoded, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("encode request body: %w", err)
			}
			reqBody = bytes.NewReader(encoded)
		}

		req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("store request failed",
				zap.String("method", method),
				zap.String("url", logging.SanitizeURL(rawURL)),
				zap.String("error", logging.SanitizeError(err)))
			return fmt.Errorf("store request: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return &storeError{err: apperrors.ErrNotFound, retryable: false}
		case resp.StatusCode == http.StatusTooManyRequests:
			c.logger.Debug("store rate limited, backing off",
				zap.String("url", logging.SanitizeURL(rawURL)))
			return &storeError{err: fmt.Errorf("store rate limited (HTTP 429)"), retryable: true}
		case resp.StatusCode >= 500:
			return &storeError{err: fmt.Errorf("store returned HTTP %d", resp.StatusCode), retryable: true}
		case resp.StatusCode >= 400:
			payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			return &storeError{err: fmt.Errorf("store returned HTTP %d: %s", resp.StatusCode, payload), retryable: false}
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &storeError{err: fmt.Errorf("decode store response: %w", err), retryable: false}
		}
		return nil
	})
}

// storeError carries an explicit retryability decision through retry.DoIfRetryable.
type storeError struct {
	err       error
	retryable bool
}

func (e *storeError) Error() string     { return e.err.Error() }
func (e *storeError) Unwrap() error     { return e.err }
func (e *storeError) IsRetryable() bool { return e.retryable }
