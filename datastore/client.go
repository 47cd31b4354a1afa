// Package datastore implements the user-datastore client: per-user payloads
// are encrypted under the user's own token before they leave the process, so
// the datastore service only ever relays ciphertext it cannot open.
package datastore

import (
	"context"
	"log/slog"

	"github.com/riversafe/userdata-go/client"
)

// ErrorName tags every error produced by this client.
const ErrorName = "UserDataStoreClientError"

// Construction error codes, one per missing required field.
const (
	CodeNoUserDataStoreURL = "ENOUSERDATASTOREURL"
	CodeNoServiceSlug      = "ENOSERVICESLUG"
)

const (
	opGet = "get"
	opSet = "set"
)

var endpoints = map[string]string{
	opGet: "/:serviceSlug/:userId",
	opSet: "/:serviceSlug/:userId",
}

// Config declares the client's required fields. They are validated in
// declaration order: UserDataStoreURL, ServiceSlug, ServiceToken.
type Config struct {
	UserDataStoreURL string
	ServiceSlug      string
	ServiceToken     string

	// HTTPClient and Logger are optional; see client.Config.
	HTTPClient client.Doer
	Logger     *slog.Logger
}

// Client stores and retrieves encrypted per-user payloads.
type Client struct {
	base *client.Client
}

// New validates cfg and builds the client. Each missing required field
// fails with its own code, in declaration order.
func New(cfg Config) (*Client, error) {
	if cfg.UserDataStoreURL == "" {
		return nil, &client.Error{Name: ErrorName, Code: CodeNoUserDataStoreURL, Message: "no user datastore url provided"}
	}
	if cfg.ServiceSlug == "" {
		return nil, &client.Error{Name: ErrorName, Code: CodeNoServiceSlug, Message: "no service slug provided"}
	}

	base, err := client.New(ErrorName, client.Config{
		BaseURL:      cfg.UserDataStoreURL,
		ServiceSlug:  cfg.ServiceSlug,
		ServiceToken: cfg.ServiceToken,
		Endpoints:    endpoints,
		HTTPClient:   cfg.HTTPClient,
		Logger:       cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &Client{base: base}, nil
}

type dataResponse struct {
	IssuedAt int64  `json:"iat"`
	Payload  string `json:"payload"`
}

type dataRequest struct {
	Payload string `json:"payload"`
}

// GetData fetches the user's stored payload and decrypts it under userToken
// into v. A 404 from the far side means no data is stored (or it expired);
// callers branch on Code for that. A payload that cannot be decrypted fails
// with 500/EINVALIDPAYLOAD and must be treated as unusable.
func (c *Client) GetData(ctx context.Context, userID, userToken string, v any) error {
	var resp dataResponse
	if err := c.base.SendGet(ctx, opGet, c.params(userID), &resp); err != nil {
		return err
	}
	return c.base.Decrypt(userToken, resp.Payload, v)
}

// SetData encrypts payload under userToken and stores it for the user.
// Returns nil on success; the response body is ignored.
func (c *Client) SetData(ctx context.Context, userID, userToken string, payload any) error {
	ciphertext, err := c.base.Encrypt(userToken, payload)
	if err != nil {
		return err
	}
	return c.base.SendPost(ctx, opSet, c.params(userID), dataRequest{Payload: ciphertext}, nil)
}

func (c *Client) params(userID string) map[string]string {
	return map[string]string{
		"serviceSlug": c.base.ServiceSlug(),
		"userId":      userID,
	}
}
