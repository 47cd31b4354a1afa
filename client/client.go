// Package client implements the signed-request base client shared by the
// user-datastore and submitter clients: it owns the service token, mints a
// fresh HS256 access token per outbound call, encrypts and decrypts payloads
// under caller-supplied keys, and maps every failure onto a stable error
// taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/riversafe/userdata-go/internal/cryptox"
	"github.com/riversafe/userdata-go/internal/logging"
	"github.com/riversafe/userdata-go/internal/urlx"
)

// AccessTokenHeader carries the per-request signed token.
const AccessTokenHeader = "x-access-token"

const requestIDHeader = "X-Request-Id"

// Config holds everything a base client needs. ServiceToken is the only
// field required here; domain packages validate their own required fields
// before constructing the base client.
type Config struct {
	// BaseURL prefixes every endpoint template once, at construction.
	BaseURL string

	// ServiceSlug identifies the calling service in URL templates.
	ServiceSlug string

	// ServiceToken signs outbound access tokens. Required.
	ServiceToken string

	// Endpoints maps logical operation names ("get", "submit", ...) to URL
	// path templates with :name placeholders.
	Endpoints map[string]string

	// HTTPClient dispatches requests. Defaults to a plain *http.Client;
	// timeouts, retries and TLS policy belong to it, not to this package.
	HTTPClient Doer

	// Logger receives per-request debug records. Defaults to discard.
	Logger *slog.Logger
}

// Client is safe for concurrent use: nothing is mutated after construction,
// and every send builds its own request and access token.
type Client struct {
	name         string
	serviceSlug  string
	serviceToken string
	endpoints    map[string]string
	http         Doer
	log          logging.Logger
}

// New builds a base client tagged with the given error-class name. Fails
// with ENOSERVICETOKEN when the service token is absent.
func New(name string, cfg Config) (*Client, error) {
	if cfg.ServiceToken == "" {
		return nil, &Error{Name: name, Code: CodeNoServiceToken, Message: "no service token provided"}
	}

	endpoints := make(map[string]string, len(cfg.Endpoints))
	for op, tpl := range cfg.Endpoints {
		endpoints[op] = strings.TrimRight(cfg.BaseURL, "/") + tpl
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	log := logging.Nop()
	if cfg.Logger != nil {
		log = logging.NewSlogLogger(cfg.Logger).With("client", name)
	}

	return &Client{
		name:         name,
		serviceSlug:  cfg.ServiceSlug,
		serviceToken: cfg.ServiceToken,
		endpoints:    endpoints,
		http:         httpClient,
		log:          log,
	}, nil
}

// Name returns the error-class name this client tags its errors with.
func (c *Client) Name() string { return c.name }

// ServiceSlug returns the configured service identifier.
func (c *Client) ServiceSlug() string { return c.serviceSlug }

// GenerateAccessToken signs the payload fields merged with an iat claim
// (current Unix time, set here at signing, never by callers) using HS256
// under the service token. Tokens are ephemeral: one per request, never
// cached.
func (c *Client) GenerateAccessToken(payload map[string]any) (string, error) {
	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	claims["iat"] = jwt.NewNumericDate(time.Now())

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.serviceToken))
	if err != nil {
		return "", fmt.Errorf("signing access token: %w", err)
	}
	return token, nil
}

// Encrypt seals v under the caller-supplied key — typically the end user's
// token, so stored payloads stay opaque to the far-side service.
func (c *Client) Encrypt(key string, v any) (string, error) {
	ciphertext, err := cryptox.Encrypt(key, v)
	if err != nil {
		return "", fmt.Errorf("encrypting payload: %w", err)
	}
	return ciphertext, nil
}

// Decrypt opens ciphertext under the caller-supplied key into v. A wrong
// key, corrupted ciphertext or non-JSON plaintext fail uniformly with
// 500/EINVALIDPAYLOAD; no partial content ever reaches v's final state
// visible to callers.
func (c *Client) Decrypt(key, ciphertext string, v any) error {
	if err := cryptox.Decrypt(key, ciphertext, v); err != nil {
		return &Error{Name: c.name, Code: "500", Message: CodeInvalidPayload}
	}
	return nil
}

// SendGet resolves the named endpoint with params, dispatches a GET with a
// fresh access token, and decodes the JSON response into out (skipped when
// out is nil). Failures come back normalized per the package error table.
func (c *Client) SendGet(ctx context.Context, op string, params map[string]string, out any) error {
	return c.send(ctx, http.MethodGet, op, params, nil, out)
}

// SendPost is SendGet's POST counterpart; body is JSON-encoded when non-nil.
func (c *Client) SendPost(ctx context.Context, op string, params map[string]string, body, out any) error {
	return c.send(ctx, http.MethodPost, op, params, body, out)
}

func (c *Client) send(ctx context.Context, method, op string, params map[string]string, body, out any) error {
	tpl, ok := c.endpoints[op]
	if !ok {
		return Normalize(c.name, fmt.Errorf("no endpoint configured for operation %q", op))
	}

	u, err := urlx.Resolve(tpl, params)
	if err != nil {
		return Normalize(c.name, err)
	}

	token, err := c.GenerateAccessToken(nil)
	if err != nil {
		return Normalize(c.name, err)
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return Normalize(c.name, fmt.Errorf("encoding request body: %w", err))
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return Normalize(c.name, err)
	}
	req.Header.Set(AccessTokenHeader, token)
	req.Header.Set(requestIDHeader, uuid.NewString())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug(ctx, "sending request", "method", method, "op", op, "url", u)

	resp, err := c.http.Do(req)
	if err != nil {
		return Normalize(c.name, classifyTransport(err))
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return Normalize(c.name, &TransportError{Cause: err})
	}

	c.log.Debug(ctx, "received response", "op", op, "status", resp.StatusCode, "bytes", len(respBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Normalize(c.name, &StatusError{StatusCode: resp.StatusCode})
	}

	if out != nil && len(respBytes) > 0 {
		if err := json.Unmarshal(respBytes, out); err != nil {
			return Normalize(c.name, fmt.Errorf("decoding response body: %w", err))
		}
	}

	return nil
}
