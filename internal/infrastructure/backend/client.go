// Package backend provides the GraphQL transport to the commerce platform
// backend. The client is constructed once at application bootstrap with a
// resolved endpoint and threaded through the container; nothing in this
// package is a lazily-initialized global.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/security"
)

// Header names attached to every outbound request. X-Storefront-Host carries
// the resolved storefront hostname so the backend's tenant resolution behaves
// identically to production even on local development.
const (
	HeaderStorefrontHost = "X-Storefront-Host"
	HeaderRequestID      = "X-Request-ID"
)

// Target identifies one backend call's destination: the endpoint (possibly a
// per-store override) and the storefront hostname used for tenant resolution.
type Target struct {
	Endpoint       string
	StorefrontHost string
}

// Client executes named GraphQL operations against the commerce backend.
type Client struct {
	httpClient *http.Client
	endpoint   string
	logger     *logging.ChanneledLogger
}

// NewClient creates the backend client. The endpoint is the process default;
// a Target carrying its own endpoint wins per call.
func NewClient(endpoint string, timeout time.Duration, logger *logging.ChanneledLogger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		logger:     logger,
	}
}

type gqlRequest struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type gqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors,omitempty"`
}

// Exec runs one operation and decodes the data payload into out. Transport
// failures, non-2xx statuses, and GraphQL-level errors all surface as a
// returned error; callers convert them to absent-session or notice semantics.
func (c *Client) Exec(ctx context.Context, target Target, operationName, query string, variables map[string]any, out any) error {
	endpoint := target.Endpoint
	if endpoint == "" {
		endpoint = c.endpoint
	}

	requestID := security.GenerateULID()
	start := time.Now()

	body, err := json.Marshal(gqlRequest{
		OperationName: operationName,
		Query:         query,
		Variables:     variables,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", operationName, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", operationName, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if target.StorefrontHost != "" {
		req.Header.Set(HeaderStorefrontHost, target.StorefrontHost)
	}

	resp, err := c.httpClient.Do(req)
	if c.logger != nil {
		c.logger.LogBackendCall(operationName, target.StorefrontHost, requestID, time.Since(start), err)
	}
	if err != nil {
		return fmt.Errorf("%s transport failed: %w", operationName, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s response read failed: %w", operationName, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s returned status %d", operationName, resp.StatusCode)
	}

	var envelope gqlEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%s returned malformed response: %w", operationName, err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		if c.logger != nil {
			c.logger.LogGraphQLError(operationName, requestID, query, messages)
		}
		return fmt.Errorf("%s failed: %s", operationName, strings.Join(messages, "; "))
	}

	if out != nil {
		if envelope.Data == nil {
			return fmt.Errorf("%s returned no data", operationName)
		}
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("%s data decode failed: %w", operationName, err)
		}
	}

	return nil
}
