package api

import (
	"context"
	"net/http"
)

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/users/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ProfileUpdate carries a partial profile update. Nil fields are omitted.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// UpdateProfile applies a partial update to the authenticated user.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	var resp successResponse
	if err := c.do(ctx, http.MethodPut, "/users/me", update, &resp); err != nil {
		return err
	}
	return checkAck(resp)
}

// ChangeMasterCode replaces the account's master code.
func (c *Client) ChangeMasterCode(ctx context.Context, current, next string) error {
	body := map[string]string{
		"currentPassword": current,
		"newPassword":     next,
	}
	var resp successResponse
	if err := c.do(ctx, http.MethodPut, "/users/me/password", body, &resp); err != nil {
		return err
	}
	return checkAck(resp)
}
