package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/folio/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Folio/1.0"
)

// Client implements domain.Gateway against the library REST backend.
type Client struct {
	baseURL    string // API base, e.g. http://host:8001/api
	staticURL  string // server root for document files, API prefix stripped
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new library API client. The token is attached as a
// bearer credential on every request; an empty token sends the request
// unauthenticated (the server answers 401).
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	trimmed := strings.TrimRight(baseURL, "/")
	return &Client{
		baseURL:   trimmed,
		staticURL: strings.TrimSuffix(trimmed, "/api"),
		token:     token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated HTTP request and returns the raw body.
// notFoundErr is returned on 404 so each operation can map the status to its
// own sentinel.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, notFoundErr error) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("library request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("library request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound && notFoundErr != nil:
		return nil, notFoundErr
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.Error("library request error", "status", resp.StatusCode, "body", string(respBody))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return respBody, nil
}

// ListBooks returns the book list, optionally narrowed by search and status.
func (c *Client) ListBooks(ctx context.Context, params domain.ListParams) ([]domain.Book, error) {
	query := url.Values{}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Status != "" {
		query.Set("status", string(params.Status))
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/books", query, nil, "", nil)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return MapBooks(resp.Books), nil
}

// GetBook fetches a single book record.
func (c *Client) GetBook(ctx context.Context, id string) (domain.Book, error) {
	path := fmt.Sprintf("/books/%s", url.PathEscape(id))
	body, err := c.doRequest(ctx, http.MethodGet, path, nil, nil, "", domain.ErrBookNotFound)
	if err != nil {
		return domain.Book{}, err
	}

	var resp bookResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Book{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if !resp.Success {
		return domain.Book{}, domain.ErrBookNotFound
	}

	return MapBook(resp.Book), nil
}

// UploadBook sends a document as multipart form data and returns the
// server-created record.
func (c *Client) UploadBook(ctx context.Context, file io.Reader, filename, title string) (domain.Book, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return domain.Book{}, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return domain.Book{}, fmt.Errorf("failed to buffer upload: %w", err)
	}
	if err := w.WriteField("title", title); err != nil {
		return domain.Book{}, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := w.Close(); err != nil {
		return domain.Book{}, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/books/upload", nil, &buf, w.FormDataContentType(), nil)
	if err != nil {
		return domain.Book{}, err
	}

	var resp bookResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Book{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if !resp.Success {
		return domain.Book{}, fmt.Errorf("upload rejected: %s", resp.Error)
	}

	return MapBook(resp.Book), nil
}

// UpdateProgress persists a reading position.
func (c *Client) UpdateProgress(ctx context.Context, id string, currentPage, totalPages int) error {
	payload, err := json.Marshal(progressRequest{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
	})
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}

	path := fmt.Sprintf("/books/%s/progress", url.PathEscape(id))
	body, err := c.doRequest(ctx, http.MethodPut, path, nil, bytes.NewReader(payload), "application/json", domain.ErrBookNotFound)
	if err != nil {
		return err
	}

	var resp statusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("progress update rejected: %s", resp.Error)
	}
	return nil
}

// DeleteBook removes a book and returns the id the server confirmed deleting.
func (c *Client) DeleteBook(ctx context.Context, id string) (string, error) {
	path := fmt.Sprintf("/books/%s", url.PathEscape(id))
	body, err := c.doRequest(ctx, http.MethodDelete, path, nil, nil, "", domain.ErrBookNotFound)
	if err != nil {
		return "", err
	}

	var resp deleteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if !resp.Success {
		return "", fmt.Errorf("delete rejected: %s", resp.Error)
	}
	return resp.DeletedBookID, nil
}

// FileURL resolves the static document URL for a server-relative file path.
// Document bytes are served from the server root outside the JSON contract,
// so the API prefix is not part of the URL.
func (c *Client) FileURL(filePath string) string {
	if strings.HasPrefix(filePath, "/") {
		return c.staticURL + filePath
	}
	return c.staticURL + "/" + filePath
}
