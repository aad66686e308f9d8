package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Login exchanges credentials for a bearer token at the form-encoded
// token endpoint and persists the token on success. Unlike the
// authenticated transport, a 401 here means bad credentials, not an
// expired session, so it does not clear anything.
func (c *Client) Login(ctx context.Context, email, password string) error {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := detailFromBody(data)
		if detail == "" {
			detail = "Login failed"
		}
		return &StatusError{Code: resp.StatusCode, Detail: detail}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("failed to parse token response: %w", err)
	}
	if payload.AccessToken == "" {
		return fmt.Errorf("token endpoint returned no access token")
	}

	if err := c.tokens.Set(payload.AccessToken); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	c.logger.Info("login succeeded", zap.String("user", email))
	return nil
}

// Register creates a new account. It does not log the user in; callers
// prompt for a login afterwards, matching the registration flow of the
// web client.
func (c *Client) Register(ctx context.Context, email, password string) error {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/auth/register", strings.NewReader(string(body)))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("registration request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := detailFromBody(data)
		if detail == "" {
			detail = "Registration failed"
		}
		return &StatusError{Code: resp.StatusCode, Detail: detail}
	}

	c.logger.Info("registration succeeded", zap.String("user", email))
	return nil
}

// Logout drops the stored token.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}
