package store

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"git.home.luguber.info/inful/megamenu/internal/errors"
)

// maxBodyBytes caps how much of a menu document we read. Menu files are a
// few KB; anything past this is a misconfigured path, not a menu.
const maxBodyBytes = 1 << 20

// Client provides common HTTP operations for the document store sources.
// It consolidates request building, auth headers, and status checking so the
// file, meta, and list sources share one shape.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string

	authHeaderPrefix string
	customHeaders    map[string]string
}

// newHTTPClient30s returns an HTTP client with a 30s timeout.
func newHTTPClient30s() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// NewClient creates a Client for the given store base URL. token may be
// empty for anonymous stores.
func NewClient(httpClient *http.Client, baseURL, token string) *Client {
	if httpClient == nil {
		httpClient = newHTTPClient30s()
	}
	return &Client{
		httpClient:       httpClient,
		baseURL:          baseURL,
		token:            token,
		authHeaderPrefix: "Bearer ",
		customHeaders:    make(map[string]string),
	}
}

// SetAuthHeaderPrefix customizes the authorization header format.
func (c *Client) SetAuthHeaderPrefix(prefix string) {
	c.authHeaderPrefix = prefix
}

// SetCustomHeader sets store-specific headers (e.g. API version pins).
func (c *Client) SetCustomHeader(key, value string) {
	c.customHeaders[key] = value
}

// NewRequest creates an HTTP request against the store. Endpoint is a
// relative path like "/files/raw"; query strings in the endpoint are
// preserved. A non-nil body is JSON-encoded.
func (c *Client) NewRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	cleanEndpoint := strings.TrimPrefix(endpoint, "/")

	var rawQuery string
	if idx := strings.Index(cleanEndpoint, "?"); idx != -1 {
		rawQuery = cleanEndpoint[idx+1:]
		cleanEndpoint = cleanEndpoint[:idx]
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityError, "failed to parse store base URL").
			WithContext("base_url", c.baseURL)
	}

	basePath := strings.TrimSuffix(u.Path, "/")
	u.Path = path.Join(basePath, cleanEndpoint)
	if rawQuery != "" {
		u.RawQuery = rawQuery
	}

	var req *http.Request
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, errors.SeverityError, "failed to marshal request body")
		}
		req, err = http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(jsonBody))
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, errors.SeverityError, "failed to create request").
				WithContext("url", u.String())
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u.String(), http.NoBody)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, errors.SeverityError, "failed to create request").
				WithContext("url", u.String())
		}
	}

	if c.token != "" {
		req.Header.Set("Authorization", c.authHeaderPrefix+c.token)
	}
	req.Header.Set("User-Agent", "MegaMenu/1.0")
	req.Header.Set("Accept", "application/json, text/plain, text/html")

	for key, value := range c.customHeaders {
		req.Header.Set(key, value)
	}

	return req, nil
}

// DoRaw executes a request and returns the response body as text. Any status
// outside 2xx is a retrieval failure; transport errors are marked retryable.
func (c *Client) DoRaw(req *http.Request) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport-level failure: the store never answered, so another
		// attempt may succeed.
		return "", errors.Wrap(err, errors.CategoryRetrieval, errors.SeverityWarning, "failed to execute store request").
			WithRetryable(true).
			WithContext("url", req.URL.String())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read limited body for diagnostics
		limitedBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		// A definite status is not retried; the next strategy handles it.
		return "", errors.New(errors.CategoryRetrieval, errors.SeverityWarning, "store returned non-success status").
			WithContext("status", resp.StatusCode).
			WithContext("url", req.URL.String()).
			WithContext("body", strings.ReplaceAll(string(limitedBody), "\n", " "))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryRetrieval, errors.SeverityWarning, "failed to read store response").
			WithRetryable(true)
	}
	return string(body), nil
}

// DoJSON executes a request and decodes a JSON response into result.
func (c *Client) DoJSON(req *http.Request, result any) error {
	body, err := c.DoRaw(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(body), result); err != nil {
		return errors.Wrap(err, errors.CategoryRetrieval, errors.SeverityWarning, "failed to decode store response").
			WithContext("url", req.URL.String())
	}
	return nil
}
