package api

import (
	"context"
	"net/http"
	"net/url"
)

// ProfileActivity lists the authenticated user's own activity log.
func (c *Client) ProfileActivity(ctx context.Context) ([]Activity, error) {
	var resp struct {
		Activities []Activity `json:"activities"`
	}
	if err := c.get(ctx, "/profile/activity", &resp); err != nil {
		return nil, err
	}
	return resp.Activities, nil
}

// ProfileSessions lists the user's active login sessions.
func (c *Client) ProfileSessions(ctx context.Context) ([]LoginSession, error) {
	var resp struct {
		Sessions []LoginSession `json:"sessions"`
	}
	if err := c.get(ctx, "/profile/sessions", &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// TerminateSession revokes one of the user's login sessions.
func (c *Client) TerminateSession(ctx context.Context, sessionID string) error {
	var resp successResponse
	path := "/profile/sessions/" + url.PathEscape(sessionID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &resp); err != nil {
		return err
	}
	return checkAck(resp)
}
