package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListDevices fetches all devices visible to the session.
func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	var resp struct {
		Devices []Device `json:"devices"`
	}
	if err := c.get(ctx, "/devices", &resp); err != nil {
		return nil, err
	}
	return resp.Devices, nil
}

// GetDevice fetches one device by ID.
func (c *Client) GetDevice(ctx context.Context, id string) (*Device, error) {
	var device Device
	if err := c.get(ctx, "/devices/"+url.PathEscape(id), &device); err != nil {
		return nil, err
	}
	return &device, nil
}

// CreateDevice provisions a new device.
func (c *Client) CreateDevice(ctx context.Context, device Device) error {
	var resp successResponse
	if err := c.do(ctx, http.MethodPost, "/devices", device, &resp); err != nil {
		return err
	}
	return checkAck(resp)
}

// UpdateDevice applies a partial update to a device.
func (c *Client) UpdateDevice(ctx context.Context, id string, update DeviceUpdate) error {
	var resp successResponse
	if err := c.do(ctx, http.MethodPut, "/devices/"+url.PathEscape(id), update, &resp); err != nil {
		return err
	}
	return checkAck(resp)
}

// DeleteDevice removes a device.
func (c *Client) DeleteDevice(ctx context.Context, id string) error {
	var resp successResponse
	if err := c.do(ctx, http.MethodDelete, "/devices/"+url.PathEscape(id), nil, &resp); err != nil {
		return err
	}
	return checkAck(resp)
}

// deviceActionRequest is the command payload for a device.
type deviceActionRequest struct {
	Action string   `json:"action"`
	Value  *float64 `json:"value,omitempty"`
}

// DeviceAction sends a command to a device: "turn_on", "turn_off" or
// "set_value" with a value.
func (c *Client) DeviceAction(ctx context.Context, id, action string, value *float64) error {
	var resp successResponse
	path := "/devices/" + url.PathEscape(id) + "/action"
	if err := c.do(ctx, http.MethodPost, path,
		deviceActionRequest{Action: action, Value: value}, &resp); err != nil {
		return err
	}
	return checkAck(resp)
}
