package api

import "context"

// DashboardSummary fetches the backend's dashboard aggregates.
func (c *Client) DashboardSummary(ctx context.Context) (*Summary, error) {
	var summary Summary
	if err := c.get(ctx, "/dashboard/summary", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// DashboardActivity fetches the recent household activity feed.
func (c *Client) DashboardActivity(ctx context.Context) ([]Activity, error) {
	var resp struct {
		Activities []Activity `json:"activities"`
	}
	if err := c.get(ctx, "/dashboard/activity", &resp); err != nil {
		return nil, err
	}
	return resp.Activities, nil
}
