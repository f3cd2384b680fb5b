// Package api is the outbound HTTP client for the lestrans backend. It
// attaches the session credential to protected calls, tags every request
// with an id, and folds error responses into one taxonomy. Failed calls are
// terminal: no retry, no backoff; resubmission is the caller's decision.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/config"
)

const (
	requestIDHeader = "X-Request-Id"
	maxErrorBody    = 1 << 20
)

// CredentialSource yields the current opaque session token. The session
// store implements it; the client never caches the token itself.
type CredentialSource interface {
	Token() (string, bool)
}

type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialSource
	log     zerolog.Logger
}

func NewClient(cfg config.APIConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}
}

// SetCredentialSource wires the session store in after construction; the
// store itself needs the client for login and logout.
func (c *Client) SetCredentialSource(src CredentialSource) {
	c.creds = src
}

func (c *Client) Do(ctx context.Context, method, path string, body any, requiresAuth bool, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, requestID)

	if requiresAuth {
		token, ok := c.token()
		if !ok {
			return &Error{Kind: KindAuthorization, Detail: "Для выполнения этого действия необходимо авторизоваться на сайте."}
		}
		req.Header.Set("Authorization", "Token "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Err(err).
			Msg("api request failed")
		return &Error{Kind: KindConnection, Detail: "Ошибка подключения к серверу"}
	}
	defer resp.Body.Close()

	latency := time.Since(start)

	event := c.log.Debug()
	if resp.StatusCode >= 500 {
		event = c.log.Error()
	} else if resp.StatusCode >= 400 {
		event = c.log.Warn()
	}
	event.
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", latency).
		Str("request_id", requestID).
		Msg("api request")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Kind: KindConnection, Status: resp.StatusCode, Detail: "Ошибка подключения к серверу"}
		}
		return nil
	}

	return decodeError(resp)
}

func (c *Client) token() (string, bool) {
	if c.creds == nil {
		return "", false
	}
	return c.creds.Token()
}

// decodeError sorts a non-2xx response into the error taxonomy. The backend
// answers with {field: [msg, …]}, {detail: msg}, {non_field_errors: [msg]}
// or no body at all.
func decodeError(resp *http.Response) *Error {
	apiErr := &Error{Status: resp.StatusCode}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		apiErr.Kind = KindAuthorization
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		if apiErr.Kind != KindAuthorization {
			apiErr.Kind = KindConnection
		}
		return apiErr
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		if apiErr.Kind != KindAuthorization {
			apiErr.Kind = KindConnection
		}
		return apiErr
	}

	if detail, ok := payload["detail"]; ok {
		_ = json.Unmarshal(detail, &apiErr.Detail)
		if apiErr.Kind != KindAuthorization {
			apiErr.Kind = KindMessage
		}
		return apiErr
	}

	if nonField, ok := payload["non_field_errors"]; ok {
		var messages []string
		_ = json.Unmarshal(nonField, &messages)
		if len(messages) > 0 {
			apiErr.Detail = messages[0]
		}
		if apiErr.Kind != KindAuthorization {
			apiErr.Kind = KindMessage
		}
		return apiErr
	}

	fields := make(map[string][]string, len(payload))
	for name, value := range payload {
		var messages []string
		if err := json.Unmarshal(value, &messages); err != nil {
			var single string
			if err := json.Unmarshal(value, &single); err != nil {
				continue
			}
			messages = []string{single}
		}
		fields[name] = messages
	}

	if len(fields) == 0 {
		if apiErr.Kind != KindAuthorization {
			apiErr.Kind = KindConnection
		}
		return apiErr
	}

	apiErr.Fields = fields
	if apiErr.Kind != KindAuthorization {
		apiErr.Kind = KindField
	}
	return apiErr
}
