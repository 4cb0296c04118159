package panel

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hearthlabs/hearth-panel/internal/api"
	"github.com/hearthlabs/hearth-panel/internal/auth"
	"github.com/hearthlabs/hearth-panel/internal/mutation"
	"github.com/hearthlabs/hearth-panel/internal/registry"
	"github.com/hearthlabs/hearth-panel/internal/session"
)

// minMasterCodeLen is the minimum accepted master code length.
const minMasterCodeLen = 6

// Logger defines the logging interface used by the Controller.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Controller exposes the panel's user-facing operations. It validates
// input before anything touches the network, gates privileged operations
// through the permission policy, and routes entity mutations through the
// optimistic engine.
type Controller struct {
	client   *api.Client
	store    session.Store
	policy   auth.Policy
	registry *registry.Registry
	engine   *mutation.Engine
	logger   Logger

	// armed is the security subsystem toggle. The backend has no arm
	// endpoint; armed mode is panel-local alert sensitivity.
	armedMu sync.RWMutex
	armed   bool
}

// NewController wires the panel's components together.
func NewController(client *api.Client, store session.Store, policy auth.Policy, reg *registry.Registry, engine *mutation.Engine, logger Logger) *Controller {
	return &Controller{
		client:   client,
		store:    store,
		policy:   policy,
		registry: reg,
		engine:   engine,
		logger:   logger,
	}
}

// gate denies with auth.ErrPermissionDenied unless the stored session's
// role satisfies the policy for the class. Runs before any network call.
func (c *Controller) gate(ctx context.Context, class auth.MutationClass) error {
	sess, err := c.store.GetSession(ctx)
	if err != nil {
		return auth.ErrPermissionDenied
	}
	if !c.policy.Allows(sess.Identity.Role, class) {
		return auth.ErrPermissionDenied
	}
	return nil
}

// --- Authentication ---

// validateEmail rejects obviously malformed addresses. Real validation is
// the backend's job; this only catches typos before a round trip.
func validateEmail(email string) error {
	if email == "" {
		return invalid("email", "is required")
	}
	if !strings.Contains(email, "@") {
		return invalid("email", "is not a valid address")
	}
	return nil
}

// Register creates an account. The confirmation code must match the
// master code exactly or no request is issued.
func (c *Controller) Register(ctx context.Context, email, name, masterCode, confirm string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if name == "" {
		return invalid("name", "is required")
	}
	if len(masterCode) < minMasterCodeLen {
		return invalid("masterCode", fmt.Sprintf("must be at least %d characters", minMasterCodeLen))
	}
	if masterCode != confirm {
		return invalid("confirm", "master codes do not match")
	}

	result, err := c.client.Register(ctx, email, name, masterCode)
	if err != nil {
		return err
	}
	return c.storeAuthResult(ctx, result)
}

// Login authenticates and persists the session.
func (c *Controller) Login(ctx context.Context, email, masterCode string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if masterCode == "" {
		return invalid("masterCode", "is required")
	}

	result, err := c.client.Login(ctx, email, masterCode)
	if err != nil {
		return err
	}
	return c.storeAuthResult(ctx, result)
}

// storeAuthResult persists the token and identity from a successful
// login or registration.
func (c *Controller) storeAuthResult(ctx context.Context, result *api.AuthResult) error {
	identity := identityFromUser(result.User)
	if err := c.store.SetSession(ctx, result.Token, identity); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	c.logger.Info("session established", "user", identity.ID, "role", identity.Role)
	return nil
}

// Logout clears the stored session. There is no remote call; the backend
// invalidates sessions through its own session management.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.store.ClearSession(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	c.logger.Info("session cleared")
	return nil
}

// ForgotMasterCode requests a reset email.
func (c *Controller) ForgotMasterCode(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	return c.client.ForgotMasterCode(ctx, email)
}

// ResetMasterCode completes a reset using the token from the email.
func (c *Controller) ResetMasterCode(ctx context.Context, resetToken, newCode, confirm string) error {
	if resetToken == "" {
		return invalid("token", "is required")
	}
	if len(newCode) < minMasterCodeLen {
		return invalid("newMasterCode", fmt.Sprintf("must be at least %d characters", minMasterCodeLen))
	}
	if newCode != confirm {
		return invalid("confirm", "master codes do not match")
	}
	return c.client.ResetMasterCode(ctx, resetToken, newCode)
}

// identityFromUser converts the wire user into a stored identity.
func identityFromUser(u api.User) session.Identity {
	identity := session.Identity{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        auth.Role(u.Role),
		HouseholdID: u.HouseholdID,
		AvatarURL:   u.AvatarURL,
	}
	if t, err := time.Parse(time.RFC3339, u.CreatedAt); err == nil {
		identity.CreatedAt = t
	}
	return identity
}

// --- Profile ---

// UpdateProfile changes the user's name and/or email. Both apply
// optimistically to the stored identity; a rejected request restores the
// previous identity exactly.
func (c *Controller) UpdateProfile(ctx context.Context, name, email *string) error {
	if name == nil && email == nil {
		return invalid("", "nothing to update")
	}
	if email != nil {
		if err := validateEmail(*email); err != nil {
			return err
		}
	}
	if name != nil && *name == "" {
		return invalid("name", "cannot be empty")
	}

	sess, err := c.store.GetSession(ctx)
	if err != nil {
		return auth.ErrPermissionDenied
	}

	previous := sess.Identity
	updated := previous
	if name != nil {
		updated.Name = *name
	}
	if email != nil {
		updated.Email = *email
	}

	// Optimistic apply: replace the identity wholesale, never field by field.
	if err := c.store.SetSession(ctx, sess.Token, updated); err != nil {
		return fmt.Errorf("persisting identity: %w", err)
	}

	if err := c.client.UpdateProfile(ctx, api.ProfileUpdate{Name: name, Email: email}); err != nil {
		if restoreErr := c.store.SetSession(ctx, sess.Token, previous); restoreErr != nil {
			c.logger.Error("failed to restore identity after rejected update",
				"error", restoreErr)
		}
		return err
	}
	return nil
}

// ChangeMasterCode replaces the account credential. Confirmation mismatch
// blocks the request entirely.
func (c *Controller) ChangeMasterCode(ctx context.Context, current, next, confirm string) error {
	if current == "" {
		return invalid("currentPassword", "is required")
	}
	if len(next) < minMasterCodeLen {
		return invalid("newPassword", fmt.Sprintf("must be at least %d characters", minMasterCodeLen))
	}
	if next != confirm {
		return invalid("confirm", "master codes do not match")
	}
	return c.client.ChangeMasterCode(ctx, current, next)
}

// CurrentSession returns the stored session along with the token's
// decoded (unverified) claims for display.
func (c *Controller) CurrentSession(ctx context.Context) (*session.Session, *session.TokenClaims, error) {
	sess, err := c.store.GetSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	claims, err := session.PeekClaims(sess.Token)
	if err != nil {
		// Opaque (non-JWT) tokens are fine; there is just nothing to show.
		return sess, nil, nil
	}
	return sess, claims, nil
}

// ProfileActivity lists the user's own activity log.
func (c *Controller) ProfileActivity(ctx context.Context) ([]api.Activity, error) {
	return c.client.ProfileActivity(ctx)
}

// Sessions lists the user's active login sessions.
func (c *Controller) Sessions(ctx context.Context) ([]api.LoginSession, error) {
	return c.client.ProfileSessions(ctx)
}

// TerminateSession revokes another login session.
func (c *Controller) TerminateSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return invalid("sessionId", "is required")
	}
	return c.client.TerminateSession(ctx, sessionID)
}

// --- Devices ---

// ToggleDevice switches a device on or off through the optimistic engine.
func (c *Controller) ToggleDevice(ctx context.Context, id string, on bool) error {
	return c.engine.Mutate(ctx, id, auth.ClassDeviceControl, mutation.Change{Active: &on})
}

// SetDeviceValue changes a device's numeric setpoint. The value is
// validated against the entity's range before anything is sent.
func (c *Controller) SetDeviceValue(ctx context.Context, id string, value float64) error {
	entity, err := c.registry.Get(id)
	if err != nil {
		return err
	}
	if entity.Range != nil && !entity.Range.Contains(value) {
		return invalid("value", fmt.Sprintf("must be between %g and %g",
			entity.Range.Min, entity.Range.Max))
	}
	return c.engine.Mutate(ctx, id, auth.ClassDeviceControl, mutation.Change{Value: &value})
}

// AddDevice provisions a new device and refreshes the registry.
func (c *Controller) AddDevice(ctx context.Context, name, deviceType, room, icon string) error {
	if err := c.gate(ctx, auth.ClassProvision); err != nil {
		return err
	}
	if name == "" {
		return invalid("name", "is required")
	}
	if deviceType == "" {
		return invalid("type", "is required")
	}
	if room == "" {
		return invalid("room", "is required")
	}

	device := api.Device{
		ID:     uuid.NewString(),
		Name:   name,
		Type:   deviceType,
		Room:   room,
		Icon:   icon,
		Status: string(registry.StatusOffline),
	}
	if err := c.client.CreateDevice(ctx, device); err != nil {
		return err
	}

	c.logger.Info("device provisioned", "id", device.ID, "name", name)
	return c.registry.LoadAll(ctx)
}

// UpdateDevice applies a metadata update to a device.
func (c *Controller) UpdateDevice(ctx context.Context, id string, update api.DeviceUpdate) error {
	if err := c.gate(ctx, auth.ClassProvision); err != nil {
		return err
	}
	if err := c.client.UpdateDevice(ctx, id, update); err != nil {
		return err
	}
	return c.registry.LoadAll(ctx)
}

// RemoveDevice deletes a device. The registry entry goes away only once
// the backend acknowledges the delete.
func (c *Controller) RemoveDevice(ctx context.Context, id string) error {
	if err := c.gate(ctx, auth.ClassProvision); err != nil {
		return err
	}
	if err := c.client.DeleteDevice(ctx, id); err != nil {
		return err
	}
	c.registry.Remove(id)
	c.logger.Info("device removed", "id", id)
	return nil
}

// --- Security ---

// SetArmed toggles armed mode. Armed mode raises the panel's alert
// sensitivity; it is admin-gated like the rest of the security surface.
func (c *Controller) SetArmed(ctx context.Context, armed bool) error {
	if err := c.gate(ctx, auth.ClassSecurity); err != nil {
		return err
	}
	c.armedMu.Lock()
	c.armed = armed
	c.armedMu.Unlock()
	c.logger.Info("armed mode changed", "armed", armed)
	return nil
}

// Armed reports whether armed mode is on.
func (c *Controller) Armed() bool {
	c.armedMu.RLock()
	defer c.armedMu.RUnlock()
	return c.armed
}

// SetRecording starts or stops camera recording through the optimistic
// engine.
func (c *Controller) SetRecording(ctx context.Context, cameraID string, recording bool) error {
	return c.engine.Mutate(ctx, cameraID, auth.ClassRecording, mutation.Change{Active: &recording})
}

// --- Household ---

// Members lists the household members.
func (c *Controller) Members(ctx context.Context) ([]api.Member, error) {
	return c.client.HouseholdMembers(ctx)
}

// InviteMember invites a new member with the given role.
func (c *Controller) InviteMember(ctx context.Context, email string, role auth.Role) error {
	if err := c.gate(ctx, auth.ClassHousehold); err != nil {
		return err
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if !auth.IsValidRole(role) {
		return invalid("role", fmt.Sprintf("%q is not a valid role", role))
	}
	return c.client.InviteMember(ctx, email, string(role))
}

// RemoveMember removes a member from the household.
func (c *Controller) RemoveMember(ctx context.Context, userID string) error {
	if err := c.gate(ctx, auth.ClassHousehold); err != nil {
		return err
	}
	if userID == "" {
		return invalid("userId", "is required")
	}
	return c.client.RemoveMember(ctx, userID)
}

// --- Dashboard ---

// Summary fetches the backend's dashboard aggregates.
func (c *Controller) Summary(ctx context.Context) (*api.Summary, error) {
	return c.client.DashboardSummary(ctx)
}

// RecentActivity fetches the household activity feed.
func (c *Controller) RecentActivity(ctx context.Context) ([]api.Activity, error) {
	return c.client.DashboardActivity(ctx)
}

// ActiveDeviceCount is the local count of active entities, computed from
// current registry state.
func (c *Controller) ActiveDeviceCount() int {
	return c.registry.CountActive()
}

// TotalPowerDraw is the local sum of entity power draw in watts.
func (c *Controller) TotalPowerDraw() float64 {
	return c.registry.TotalPower()
}

// Refresh reloads the registry from the backend.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.registry.LoadAll(ctx)
}
