package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dkarpov/papersync/internal/common"
	"github.com/dkarpov/papersync/internal/models"
)

const defaultRequestTimeout = 10 * time.Second

// HTTPClient implements Client over REST with JSON bodies.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient returns an HTTPClient for the given base URL, e.g.
// "https://api.example.com". A zero timeout falls back to the default.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode}
	}
	return resp, nil
}

func decodeDocument(resp *http.Response) (*models.DocumentDTO, error) {
	defer resp.Body.Close()
	var dto models.DocumentDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecodingFailed, err)
	}
	return &dto, nil
}

// List fetches all remote documents via GET /documents.
func (c *HTTPClient) List(ctx context.Context) ([]models.DocumentDTO, error) {
	resp, err := c.do(ctx, http.MethodGet, "/documents", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var dtos []models.DocumentDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecodingFailed, err)
	}
	return dtos, nil
}

// Create posts the document via POST /documents.
func (c *HTTPClient) Create(ctx context.Context, doc models.DocumentDTO) (*models.DocumentDTO, error) {
	resp, err := c.do(ctx, http.MethodPost, "/documents", doc)
	if err != nil {
		return nil, err
	}
	return decodeDocument(resp)
}

// Update replaces the document via PUT /documents/{id}.
func (c *HTTPClient) Update(ctx context.Context, id string, doc models.DocumentDTO) (*models.DocumentDTO, error) {
	resp, err := c.do(ctx, http.MethodPut, "/documents/"+url.PathEscape(id), doc)
	if err != nil {
		return nil, err
	}
	return decodeDocument(resp)
}

// Delete removes the document via DELETE /documents/{id}.
func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// Ping probes the service via GET /ping.
func (c *HTTPClient) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/ping", nil)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
