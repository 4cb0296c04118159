package api

import (
	"context"
	"net/http"
	"net/url"
)

// authResponse is the login/register payload. The backend answers these
// endpoints with 200 even on rejection, carrying an error field instead.
type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
	Error string `json:"error"`
}

// Register creates an account and returns its first session.
func (c *Client) Register(ctx context.Context, email, name, masterCode string) (*AuthResult, error) {
	body := map[string]string{
		"email":      email,
		"name":       name,
		"masterCode": masterCode,
	}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &RemoteError{Status: http.StatusOK, Message: resp.Error}
	}
	return &AuthResult{Token: resp.Token, User: resp.User}, nil
}

// Login exchanges credentials for a token and identity.
func (c *Client) Login(ctx context.Context, email, masterCode string) (*AuthResult, error) {
	body := map[string]string{
		"email":      email,
		"masterCode": masterCode,
	}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &RemoteError{Status: http.StatusOK, Message: resp.Error}
	}
	return &AuthResult{Token: resp.Token, User: resp.User}, nil
}

// successResponse is the generic acknowledgment payload.
type successResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// checkAck converts a 2xx body that reports failure into a RemoteError.
func checkAck(resp successResponse) error {
	if resp.Error != "" {
		return &RemoteError{Status: http.StatusOK, Message: resp.Error}
	}
	return nil
}

// ForgotMasterCode requests a reset email for the account.
func (c *Client) ForgotMasterCode(ctx context.Context, email string) error {
	var resp successResponse
	if err := c.do(ctx, http.MethodPost, "/auth/forgot-password",
		map[string]string{"email": email}, &resp); err != nil {
		return err
	}
	return checkAck(resp)
}

// ResetMasterCode sets a new master code using a reset token from email.
func (c *Client) ResetMasterCode(ctx context.Context, resetToken, newMasterCode string) error {
	var resp successResponse
	path := "/auth/reset-password/" + url.PathEscape(resetToken)
	if err := c.do(ctx, http.MethodPost, path,
		map[string]string{"newMasterCode": newMasterCode}, &resp); err != nil {
		return err
	}
	return checkAck(resp)
}
