package hass

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// API is the subset of host operations the dashboard depends on. It is
// implemented by *Client and can be swapped out in tests.
type API interface {
	FetchMappings(ctx context.Context) (map[string]MappingRecord, error)
	FetchShoppingList(ctx context.Context) ([]ShoppingItem, error)
	FetchState(ctx context.Context, entityID string) (*EntityState, error)
	LookupProduct(ctx context.Context, barcode string) (MappingRecord, error)
	AddMapping(ctx context.Context, barcode string, record MappingRecord) error
	RemoveMapping(ctx context.Context, barcode string) error
	AddShoppingItem(ctx context.Context, name string) error
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to the host's HTTP API.
type Client struct {
	baseURL   *url.URL
	token     string
	http      *http.Client
	userAgent string
}

const (
	defaultUserAgent = "beepbasket/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the given base URL. An empty token disables
// the Authorization header for hosts running without auth.
func NewClient(baseURL, token string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		token:   strings.TrimSpace(token),
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchMappings retrieves the full barcode mapping table.
func (c *Client) FetchMappings(ctx context.Context) (map[string]MappingRecord, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload map[string]MappingRecord
	if err := c.do(ctx, http.MethodGet, "/api/beepbasket/mappings", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchShoppingList retrieves all shopping list items, completed or not.
func (c *Client) FetchShoppingList(ctx context.Context) ([]ShoppingItem, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []ShoppingItem
	if err := c.do(ctx, http.MethodGet, "/api/shopping_list", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchState retrieves the current state of a single entity.
func (c *Client) FetchState(ctx context.Context, entityID string) (*EntityState, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(entityID) == "" {
		return nil, fmt.Errorf("entity id required")
	}
	var payload EntityState
	if err := c.do(ctx, http.MethodGet, "/api/states/"+url.PathEscape(entityID), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// LookupProduct asks the host's catalog integration for product details.
// A transport failure or an error payload both come back as an error; callers
// treat either as "no suggestion available".
func (c *Client) LookupProduct(ctx context.Context, barcode string) (MappingRecord, error) {
	if c == nil {
		return MappingRecord{}, fmt.Errorf("client is nil")
	}
	code := strings.TrimSpace(barcode)
	if code == "" {
		return MappingRecord{}, fmt.Errorf("barcode required")
	}
	var payload struct {
		MappingRecord
		Error string `json:"error"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/beepbasket/lookup/"+url.PathEscape(code), nil, &payload); err != nil {
		return MappingRecord{}, err
	}
	if payload.Error != "" {
		return MappingRecord{}, fmt.Errorf("lookup %s: %s", code, payload.Error)
	}
	return payload.MappingRecord, nil
}

// CallService invokes a host service with a JSON payload.
func (c *Client) CallService(ctx context.Context, domain, service string, payload any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	path := fmt.Sprintf("/api/services/%s/%s", url.PathEscape(domain), url.PathEscape(service))
	return c.do(ctx, http.MethodPost, path, payload, nil)
}

// AddMapping upserts one barcode mapping. The same service call covers both
// creating a new record and overwriting an existing one.
func (c *Client) AddMapping(ctx context.Context, barcode string, record MappingRecord) error {
	return c.CallService(ctx, "beepbasket", "add_mapping", map[string]string{
		"code":         barcode,
		"product_name": record.Name,
		"brands":       record.Brands,
		"quantity":     record.Quantity,
		"stores":       record.Stores,
	})
}

// RemoveMapping deletes one barcode mapping.
func (c *Client) RemoveMapping(ctx context.Context, barcode string) error {
	return c.CallService(ctx, "beepbasket", "remove_mapping", map[string]string{
		"barcode": barcode,
	})
}

// AddShoppingItem appends a product name to the host's shopping list.
func (c *Client) AddShoppingItem(ctx context.Context, name string) error {
	return c.CallService(ctx, "shopping_list", "add_item", map[string]string{
		"name": name,
	})
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	}
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	msg := payload.Error
	if msg == "" {
		msg = payload.Message
	}
	if msg == "" {
		msg = resp.Status
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

// APIError carries the status and message of a failed host call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// AsAPIError unwraps err into an *APIError when possible.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("base url required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
