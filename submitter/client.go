// Package submitter implements the client for the downstream submission
// service. The user's identity bundle travels encrypted under the service
// secret: the submitter can return it unopened, and never sees the raw user
// token.
package submitter

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/riversafe/userdata-go/client"
)

// ErrorName tags every error produced by this client.
const ErrorName = "SubmitterClientError"

// Construction error codes, one per missing required field.
const (
	CodeNoSubmitterURL  = "ENOSUBMITTERURL"
	CodeNoServiceSlug   = "ENOSERVICESLUG"
	CodeNoServiceSecret = "ENOSERVICESECRET"
)

const (
	opSubmit    = "submit"
	opGetStatus = "getStatus"
)

var endpoints = map[string]string{
	opSubmit:    "/submission",
	opGetStatus: "/submission/:submissionId",
}

// Config declares the client's required fields. They are validated in
// declaration order: SubmitterURL, ServiceSlug, ServiceToken, ServiceSecret.
type Config struct {
	SubmitterURL string
	ServiceSlug  string
	ServiceToken string

	// ServiceSecret encrypts user identity bundles. Distinct from
	// ServiceToken, which only signs access tokens.
	ServiceSecret string

	// HTTPClient and Logger are optional; see client.Config.
	HTTPClient client.Doer
	Logger     *slog.Logger
}

// Client submits user data bundles and polls submission status.
type Client struct {
	base          *client.Client
	serviceSecret string
}

// New validates cfg and builds the client. Each missing required field
// fails with its own code, in declaration order.
func New(cfg Config) (*Client, error) {
	if cfg.SubmitterURL == "" {
		return nil, &client.Error{Name: ErrorName, Code: CodeNoSubmitterURL, Message: "no submitter url provided"}
	}
	if cfg.ServiceSlug == "" {
		return nil, &client.Error{Name: ErrorName, Code: CodeNoServiceSlug, Message: "no service slug provided"}
	}

	base, err := client.New(ErrorName, client.Config{
		BaseURL:      cfg.SubmitterURL,
		ServiceSlug:  cfg.ServiceSlug,
		ServiceToken: cfg.ServiceToken,
		Endpoints:    endpoints,
		HTTPClient:   cfg.HTTPClient,
		Logger:       cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	if cfg.ServiceSecret == "" {
		return nil, &client.Error{Name: ErrorName, Code: CodeNoServiceSecret, Message: "no service secret provided"}
	}

	return &Client{base: base, serviceSecret: cfg.ServiceSecret}, nil
}

type userBundle struct {
	UserID    string `json:"userId"`
	UserToken string `json:"userToken"`
}

type submitRequest struct {
	ServiceSlug             string `json:"service_slug"`
	EncryptedUserIDAndToken string `json:"encrypted_user_id_and_token"`
	Submissions             []any  `json:"submissions"`
}

// EncryptUserIDAndToken seals the user identity bundle under the service
// secret. Note the deliberate asymmetry with the datastore client: the key
// here belongs to the service, not the user.
func (c *Client) EncryptUserIDAndToken(userID, userToken string) (string, error) {
	return c.base.Encrypt(c.serviceSecret, userBundle{UserID: userID, UserToken: userToken})
}

// DecryptUserIDAndToken opens a bundle previously produced by
// EncryptUserIDAndToken.
func (c *Client) DecryptUserIDAndToken(ciphertext string) (userID, userToken string, err error) {
	var b userBundle
	if err := c.base.Decrypt(c.serviceSecret, ciphertext, &b); err != nil {
		return "", "", err
	}
	return b.UserID, b.UserToken, nil
}

// Submit posts the encrypted identity bundle together with the submission
// list. Returns nil on success; the response body is ignored.
func (c *Client) Submit(ctx context.Context, userID, userToken string, submissions []any) error {
	bundle, err := c.EncryptUserIDAndToken(userID, userToken)
	if err != nil {
		return err
	}

	return c.base.SendPost(ctx, opSubmit, nil, submitRequest{
		ServiceSlug:             c.base.ServiceSlug(),
		EncryptedUserIDAndToken: bundle,
		Submissions:             submissions,
	}, nil)
}

// GetStatus fetches the status object for a submission and returns it
// unmodified: status is not user payload and is never encrypted.
func (c *Client) GetStatus(ctx context.Context, submissionID string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.base.SendGet(ctx, opGetStatus, map[string]string{"submissionId": submissionID}, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
