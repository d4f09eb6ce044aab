// Package identity is the adapter for the hosted identity provider. The
// provider owns sign-up, credentials, email confirmation, and password
// resets; this package speaks its REST API and translates failures into
// typed error kinds.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// User is the provider's view of an account.
type User struct {
	ID               string            `json:"id"`
	Email            string            `json:"email"`
	EmailConfirmedAt *time.Time        `json:"email_confirmed_at"`
	Metadata         map[string]string `json:"user_metadata"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// EmailConfirmed reports whether the account's email address has been
// confirmed.
func (u *User) EmailConfirmed() bool {
	return u.EmailConfirmedAt != nil
}

// Session holds the tokens issued for a signed-in user.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Client is an HTTP client for the provider's auth API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New creates a provider client. baseURL is the provider's auth endpoint
// root (no trailing slash); apiKey is sent with every request.
func New(baseURL, apiKey string, client *http.Client) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
	}
}

type credentialsRequest struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type resendRequest struct {
	Type  string `json:"type"`
	Email string `json:"email"`
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	body := credentialsRequest{Email: email, Password: password}
	err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SignUp registers a new account. The provider sends the confirmation email
// itself; the returned user is unconfirmed until the link is followed.
func (c *Client) SignUp(ctx context.Context, email, password string) (*User, error) {
	var user User
	body := credentialsRequest{Email: email, Password: password}
	err := c.do(ctx, http.MethodPost, "/signup", "", body, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ResendConfirmation asks the provider to resend the sign-up confirmation
// email.
func (c *Client) ResendConfirmation(ctx context.Context, email string) error {
	body := resendRequest{Type: "signup", Email: email}
	return c.do(ctx, http.MethodPost, "/resend", "", body, nil)
}

// RefreshSession exchanges a refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	var session Session
	body := refreshRequest{RefreshToken: refreshToken}
	err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", body, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetUser retrieves the account an access token belongs to. This doubles as
// token validation: an invalid or expired token yields KindInvalidToken.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SendPasswordReset asks the provider to email a password recovery link.
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	body := credentialsRequest{Email: email}
	return c.do(ctx, http.MethodPost, "/recover", "", body, nil)
}

// SignOut revokes the session behind an access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

// do sends one request to the provider and decodes the response into dst
// (which may be nil for endpoints with no interesting body).
func (c *Client) do(ctx context.Context, method, path, accessToken string, body, dst interface{}) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1_048_576))
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		message := providerMessage(respBody)
		return &Error{
			Kind:       classify(resp.StatusCode, message),
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}
	if dst == nil {
		return nil
	}
	return json.Unmarshal(respBody, dst)
}

// providerMessage pulls the human-readable message out of a provider error
// body. The provider uses several shapes for these.
func providerMessage(body []byte) string {
	var payload struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return string(body)
	}
	for _, msg := range []string{payload.Msg, payload.Message, payload.ErrorDescription, payload.Error} {
		if msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("unrecognized error body: %s", body)
}
