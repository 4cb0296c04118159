package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListCameras fetches all cameras visible to the session.
func (c *Client) ListCameras(ctx context.Context) ([]Camera, error) {
	var resp struct {
		Cameras []Camera `json:"cameras"`
	}
	if err := c.get(ctx, "/cameras", &resp); err != nil {
		return nil, err
	}
	return resp.Cameras, nil
}

// GetCamera fetches one camera by ID.
func (c *Client) GetCamera(ctx context.Context, id string) (*Camera, error) {
	var camera Camera
	if err := c.get(ctx, "/cameras/"+url.PathEscape(id), &camera); err != nil {
		return nil, err
	}
	return &camera, nil
}

// SetRecording starts or stops recording on a camera.
func (c *Client) SetRecording(ctx context.Context, id string, start bool) error {
	action := "stop"
	if start {
		action = "start"
	}
	var resp successResponse
	path := "/cameras/" + url.PathEscape(id) + "/record"
	if err := c.do(ctx, http.MethodPost, path,
		map[string]string{"action": action}, &resp); err != nil {
		return err
	}
	return checkAck(resp)
}
