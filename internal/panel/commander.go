package panel

import (
	"context"
	"fmt"

	"github.com/hearthlabs/hearth-panel/internal/api"
	"github.com/hearthlabs/hearth-panel/internal/mutation"
	"github.com/hearthlabs/hearth-panel/internal/registry"
)

// EntityCommander maps mutation-engine changes onto backend commands:
// device actions for devices, the record endpoint for cameras.
type EntityCommander struct {
	Client *api.Client
}

// Send issues the remote command for a change. A change naming a value
// becomes set_value; otherwise an Active change becomes turn_on/turn_off
// (or start/stop recording for cameras).
func (c EntityCommander) Send(ctx context.Context, target registry.Entity, change mutation.Change) error {
	switch target.Kind {
	case registry.KindCamera:
		if change.Active == nil {
			return fmt.Errorf("camera %s: only recording can be changed", target.ID)
		}
		return c.Client.SetRecording(ctx, target.ID, *change.Active)

	case registry.KindDevice:
		if change.Value != nil {
			return c.Client.DeviceAction(ctx, target.ID, "set_value", change.Value)
		}
		action := "turn_off"
		if *change.Active {
			action = "turn_on"
		}
		return c.Client.DeviceAction(ctx, target.ID, action, nil)

	default:
		return fmt.Errorf("entity %s: unknown kind %q", target.ID, target.Kind)
	}
}
