package api

// Wire types for the backend JSON contract. Field names follow the
// backend's camelCase convention.

// User is the backend's representation of an account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	HouseholdID string `json:"householdId"`
	AvatarURL   string `json:"avatar,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// AuthResult is the success payload of login and registration.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Device is a controllable device as reported by the backend.
type Device struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Status     string   `json:"status"`
	Active     bool     `json:"active"`
	Value      *float64 `json:"value,omitempty"`
	Room       string   `json:"room"`
	Icon       string   `json:"icon,omitempty"`
	Power      *float64 `json:"power,omitempty"`
	LastUpdate string   `json:"lastUpdate,omitempty"`
}

// DeviceUpdate carries a partial device update. Nil fields are omitted.
type DeviceUpdate struct {
	Name   *string  `json:"name,omitempty"`
	Room   *string  `json:"room,omitempty"`
	Icon   *string  `json:"icon,omitempty"`
	Active *bool    `json:"active,omitempty"`
	Value  *float64 `json:"value,omitempty"`
}

// Camera is a security camera as reported by the backend.
type Camera struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	Status       string `json:"status"`
	Recording    bool   `json:"recording"`
	StreamURL    string `json:"streamUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// Summary is the dashboard aggregate payload.
type Summary struct {
	ActiveDevices    int     `json:"activeDevices"`
	TotalPowerWatts  float64 `json:"totalPower"`
	DevicesOnline    int     `json:"devicesOnline"`
	CamerasRecording int     `json:"camerasRecording"`
}

// Activity is a single entry in the activity feed.
type Activity struct {
	ID         string `json:"id"`
	UserID     string `json:"userId,omitempty"`
	UserName   string `json:"userName,omitempty"`
	DeviceID   string `json:"deviceId,omitempty"`
	DeviceName string `json:"deviceName"`
	Action     string `json:"action"`
	Timestamp  string `json:"timestamp"`
	Icon       string `json:"icon,omitempty"`
}

// Member is a household member entry.
type Member struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// LoginSession is an active backend session on some device, as listed by
// the profile sessions endpoint.
type LoginSession struct {
	ID         string `json:"id"`
	DeviceName string `json:"deviceName"`
	Location   string `json:"location"`
	LastActive string `json:"lastActive"`
	Current    bool   `json:"current"`
}
