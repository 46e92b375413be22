package uuidify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// Client represents a uuidify API client.
// It is safe for concurrent use; the header set is fixed at construction.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	header      http.Header
	concurrency int
	logger      zerolog.Logger
}

// NewClient creates a new uuidify client. An empty baseURL selects DefaultBaseURL
// and an empty apiKey sends no Authorization header.
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) *Client {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	// Ensure base URL ends without slash
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
	} else if httpClient.Timeout == 0 {
		// Keep every round trip bounded without mutating the caller's client
		bounded := *httpClient
		bounded.Timeout = options.timeout
		httpClient = &bounded
	}

	header := http.Header{}
	header.Set("User-Agent", options.userAgent)
	header.Set("Accept", "application/json")
	if apiKey != "" {
		header.Set("Authorization", "Bearer "+apiKey)
	}

	return &Client{
		baseURL:     baseURL,
		httpClient:  httpClient,
		header:      header,
		concurrency: options.concurrency,
		logger:      logger,
	}
}

// BaseURL returns the normalized service address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UUIDv1 generates time-based UUIDs
func (c *Client) UUIDv1(ctx context.Context, count int) (Result, error) {
	return c.Generate(ctx, KindUUIDv1, count)
}

// UUIDv4 generates random UUIDs
func (c *Client) UUIDv4(ctx context.Context, count int) (Result, error) {
	return c.Generate(ctx, KindUUIDv4, count)
}

// UUIDv7 generates time-ordered UUIDs
func (c *Client) UUIDv7(ctx context.Context, count int) (Result, error) {
	return c.Generate(ctx, KindUUIDv7, count)
}

// ULID generates ULIDs
func (c *Client) ULID(ctx context.Context, count int) (Result, error) {
	return c.Generate(ctx, KindULID, count)
}

// Generate requests count identifiers of the given kind.
//
// When count is 1 the result carries ID read from the singular envelope key,
// otherwise IDs read from the plural key. count is sent unvalidated.
func (c *Client) Generate(ctx context.Context, kind Kind, count int) (Result, error) {
	if _, ok := kindSpecs[kind]; !ok {
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}

	body, err := c.doRequest(ctx, buildParams(kind, count))
	if err != nil {
		c.logger.Debug().Err(err).Str("kind", kind.String()).Int("count", count).Msg("uuidify request failed")
		return Result{}, err
	}

	return parseResult(body, kind, count)
}

func buildParams(kind Kind, count int) url.Values {
	return url.Values{
		"algorithm": {kind.Algorithm()},
		"version":   {kind.String()},
		"count":     {strconv.Itoa(count)},
	}
}

// doRequest performs the GET and classifies transport and status failures
func (c *Client) doRequest(ctx context.Context, params url.Values) ([]byte, error) {
	requestURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &ConnectionError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header = c.header.Clone()

	c.logger.Debug().Str("url", requestURL).Msg("Making uuidify API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.logger.Debug().Int("status", resp.StatusCode).Int("bytes", len(body)).Msg("uuidify API response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
			Body:       string(body),
		}
	}

	return body, nil
}

// errorMessage prefers the JSON error field and falls back to the raw body
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, "error"); msg.Exists() {
			return msg.String()
		}
	}
	return string(body)
}

func parseResult(body []byte, kind Kind, count int) (Result, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return Result{}, &DecodeError{Err: err}
	}

	key := kind.key(count)
	raw, ok := envelope[key]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrMissingKey, key)
	}

	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return Result{}, &DecodeError{Err: fmt.Errorf("field %q is null", key)}
	}

	result := Result{Kind: kind, Count: count}
	if count == 1 {
		if err := json.Unmarshal(raw, &result.ID); err != nil {
			return Result{}, &DecodeError{Err: fmt.Errorf("field %q: %w", key, err)}
		}
		return result, nil
	}

	if err := json.Unmarshal(raw, &result.IDs); err != nil {
		return Result{}, &DecodeError{Err: fmt.Errorf("field %q: %w", key, err)}
	}
	return result, nil
}
