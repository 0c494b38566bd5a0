// Package client talks to the Dialog regulation registry HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sutter-pierre/dialog-integrations/internal/model"
)

// APIError reports a non-success response from the registry, carrying the
// response body for per-item failure logs.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("registry returned status %d: %s", e.StatusCode, e.Body)
}

// Client is an HTTP client for the Dialog registry, authenticated with
// per-organization credentials.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	http         *http.Client
}

// New creates a registry client for one organization
func New(baseURL, clientID, clientSecret string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         &http.Client{Timeout: 30 * time.Second},
	}
}

// KnownIdentifiers fetches the full set of regulation identifiers already
// registered for this organization.
func (c *Client) KnownIdentifiers(ctx context.Context) ([]string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/regulations/identifiers", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch identifiers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var payload struct {
		Identifiers []string `json:"identifiers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode identifiers: %w", err)
	}
	return payload.Identifiers, nil
}

// SubmitRegulation posts one regulation to the registry. Any status other
// than 201 is a submission failure.
func (c *Client) SubmitRegulation(ctx context.Context, regulation model.RegulationDTO) error {
	body, err := json.Marshal(regulation)
	if err != nil {
		return fmt.Errorf("encode regulation: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/regulations/add", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit regulation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return apiError(resp)
	}
	return nil
}

// PublishRegulation invokes the remote publish action for one identifier.
// Any status other than 200 is a publish failure.
func (c *Client) PublishRegulation(ctx context.Context, identifier string) error {
	path := "/api/regulations/" + url.PathEscape(identifier) + "/publish"
	req, err := c.newRequest(ctx, http.MethodPut, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("publish regulation %s: %w", identifier, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Client-Id", c.clientID)
	req.Header.Set("X-Client-Secret", c.clientSecret)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
