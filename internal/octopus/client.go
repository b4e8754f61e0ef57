package octopus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// Default API endpoints. The REST and GraphQL sub-APIs of the same
// provider use different auth schemes: HTTP Basic (apiKey as username,
// empty password) for REST, a short-lived Kraken JWT for GraphQL.
const (
	DefaultRESTURL    = "https://api.octopus.energy/v1"
	DefaultGraphQLURL = "https://api.octopus.energy/v1/graphql/"
)

// Client talks to the Octopus Energy API. The API key is supplied per call
// rather than held on the client, since every request carries the
// credentials decoded from its own cookie.
type Client struct {
	RESTURL    string
	GraphQLURL string
	HTTPClient *http.Client

	now func() time.Time
}

// New creates a client. Empty URLs fall back to the public API.
func New(restURL, graphqlURL string) *Client {
	if restURL == "" {
		restURL = DefaultRESTURL
	}
	if graphqlURL == "" {
		graphqlURL = DefaultGraphQLURL
	}
	return &Client{
		RESTURL:    restURL,
		GraphQLURL: graphqlURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
	}
}

// get issues an authenticated REST GET and decodes the JSON response into
// out. Pass an empty apiKey for endpoints that need no auth (products).
// endpoint is the metrics label; identifiers in path would blow up label
// cardinality.
func (c *Client) get(ctx context.Context, endpoint, apiKey, path string, params url.Values, out any) error {
	u, err := url.Parse(c.RESTURL + path)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if apiKey != "" {
		req.SetBasicAuth(apiKey, "")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		observeUpstreamRequest(endpoint, 0, duration)
		log.Printf("[Octopus] Request failed: GET %s: %v (duration: %v)", path, err, duration)
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	observeUpstreamRequest(endpoint, resp.StatusCode, duration)

	log.Printf("[Octopus] Response: GET %s -> %d (duration: %v)", path, resp.StatusCode, duration)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("[Octopus] Error response body: %s", body)
		return &APIError{StatusCode: resp.StatusCode, Endpoint: path, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// graphql posts a GraphQL document and unmarshals the data field into out.
// GraphQL-level errors are returned as Go errors even on HTTP 200.
func (c *Client) graphql(ctx context.Context, operation, token, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.GraphQLURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "JWT "+token)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		observeUpstreamRequest("graphql:"+operation, 0, duration)
		log.Printf("[Octopus] Request failed: %s: %v (duration: %v)", operation, err, duration)
		return fmt.Errorf("failed to execute %s request: %w", operation, err)
	}
	defer resp.Body.Close()
	observeUpstreamRequest("graphql:"+operation, resp.StatusCode, duration)

	log.Printf("[Octopus] Response: %s -> %d (duration: %v)", operation, resp.StatusCode, duration)

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("[Octopus] Error response body: %s", raw)
		return &APIError{StatusCode: resp.StatusCode, Endpoint: operation, Body: string(raw)}
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	if len(envelope.Errors) > 0 {
		log.Printf("[Octopus] GraphQL errors from %s: %v", operation, envelope.Errors)
		return fmt.Errorf("%s failed: %s", operation, envelope.Errors[0].Message)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s data: %w", operation, err)
	}
	return nil
}
