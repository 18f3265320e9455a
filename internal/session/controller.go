package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/mkarlsen/adcon/internal/api"
	"github.com/mkarlsen/adcon/internal/logging"
)

// State is the process-wide authenticated pair. Session and Settings are
// either both present or both absent - the controller never stores one
// without the other.
type State struct {
	Session  *api.Session
	Settings *api.Settings
}

// Authenticated reports whether an established session is held.
func (s State) Authenticated() bool {
	return s.Session != nil && s.Settings != nil
}

// DefaultDomain returns the first configured domain, which is the
// selection default. Empty when no session is held.
func (s State) DefaultDomain() string {
	if s.Settings == nil || len(s.Settings.Domains) == 0 {
		return ""
	}
	return s.Settings.Domains[0]
}

// Controller resolves "who is the caller" and "what is the tenant
// configuration" at startup and on explicit login. Presentation policy for
// failures (silent fallback to the login screen vs. an explicit error
// screen) belongs to the caller; the establish sequence itself is
// identical for both.
type Controller struct {
	client *api.Client
	state  State
}

// NewController creates a controller over the given gateway.
func NewController(client *api.Client) *Controller {
	return &Controller{client: client}
}

// Client returns the underlying gateway.
func (c *Controller) Client() *api.Client {
	return c.client
}

// State returns the current session state.
func (c *Controller) State() State {
	return c.state
}

// Establish runs the login sequence: liveness probe, identity query,
// tenant configuration. Any failure aborts the sequence and leaves no
// partial state behind.
func (c *Controller) Establish(ctx context.Context) (State, *api.APIError) {
	c.state = State{}

	if apiErr := c.client.Healthcheck(ctx); apiErr != nil {
		logging.Warn("Liveness probe failed", zap.String("error", apiErr.Error()))
		return State{}, &api.APIError{
			Message: "Connection Error",
			Detail:  "Cannot reach the administration service: " + apiErr.DisplayText(),
		}
	}

	sess, apiErr := c.client.Me(ctx)
	if apiErr != nil {
		logging.Warn("Identity query failed", zap.String("error", apiErr.Error()))
		return State{}, apiErr
	}

	settings, apiErr := c.client.Settings(ctx)
	if apiErr != nil {
		logging.Warn("Settings query failed", zap.String("error", apiErr.Error()))
		return State{}, apiErr
	}

	c.state = State{Session: sess, Settings: settings}
	logging.Info("Session established",
		zap.String("operator", sess.Name),
		zap.Bool("high_privilege", sess.IsHighPrivilege),
		zap.Int("domains", len(settings.Domains)),
	)
	return c.state, nil
}

// End clears the session locally. No network call is involved; the server
// session cookie simply stops being presented once the process exits.
func (c *Controller) End() {
	c.state = State{}
	logging.Info("Session ended")
}
