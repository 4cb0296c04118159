package api

import (
	"context"
	"net/http"
	"net/url"
)

// HouseholdMembers lists the members of the household.
func (c *Client) HouseholdMembers(ctx context.Context) ([]Member, error) {
	var resp struct {
		Members []Member `json:"members"`
	}
	if err := c.get(ctx, "/household/members", &resp); err != nil {
		return nil, err
	}
	return resp.Members, nil
}

// InviteMember invites a new member with the given role.
func (c *Client) InviteMember(ctx context.Context, email, role string) error {
	var resp successResponse
	body := map[string]string{"email": email, "role": role}
	if err := c.do(ctx, http.MethodPost, "/household/members/invite", body, &resp); err != nil {
		return err
	}
	return checkAck(resp)
}

// RemoveMember removes a member from the household.
func (c *Client) RemoveMember(ctx context.Context, userID string) error {
	var resp successResponse
	path := "/household/members/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &resp); err != nil {
		return err
	}
	return checkAck(resp)
}
