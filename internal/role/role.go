// Package role resolves which role scopes the session's queries. Single-role
// accounts are selected automatically; multi-role accounts get a choice list;
// an account with no roles has to sign in again.
package role

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/danielsouzza/momu-go/internal/api"
	"github.com/danielsouzza/momu-go/internal/model"
)

type Outcome int

const (
	// OutcomeReauthenticate: the profile carries no roles, the session is not
	// usable and the user must sign in again.
	OutcomeReauthenticate Outcome = iota
	// OutcomeResolved: exactly one role existed and was auto-selected;
	// proceed directly to the catalog.
	OutcomeResolved
	// OutcomeChoices: more than one role; present them in server order.
	OutcomeChoices
)

// Resolution is the result of Resolve. Role is set for OutcomeResolved,
// Roles for OutcomeChoices.
type Resolution struct {
	Outcome Outcome
	Role    model.Role
	Roles   []model.Role
}

type Context struct {
	gateway api.Gateway
	logger  *zap.Logger

	mu       sync.Mutex
	activeID int
	active   bool
}

func New(gateway api.Gateway, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{gateway: gateway, logger: logger}
}

// Resolve fetches the profile's role set and derives the routing outcome. Any
// previously cached active role is discarded first, so a re-resolution after
// sign-out starts clean.
func (c *Context) Resolve(ctx context.Context) (Resolution, error) {
	c.Reset()

	profile, err := c.gateway.FetchProfile(ctx)
	if err != nil {
		return Resolution{}, err
	}

	roles := profile.Roles
	switch {
	case len(roles) == 0:
		return Resolution{Outcome: OutcomeReauthenticate}, nil
	case len(roles) == 1:
		// Switch failures are reported but do not undo the selection.
		_ = c.SwitchRole(ctx, roles[0].ID)
		return Resolution{Outcome: OutcomeResolved, Role: roles[0]}, nil
	default:
		return Resolution{Outcome: OutcomeChoices, Roles: roles}, nil
	}
}

// SwitchRole asks the server to scope the session to roleID and records the
// selection locally. The local selection sticks even when the server call
// fails; the error is logged and returned so callers can surface it.
func (c *Context) SwitchRole(ctx context.Context, roleID int) error {
	err := c.gateway.SwitchRole(ctx, roleID)

	c.mu.Lock()
	c.activeID = roleID
	c.active = true
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("role switch not acknowledged", zap.Int("role_id", roleID), zap.Error(err))
	}
	return err
}

// Active returns the currently selected role id, if one has been resolved.
func (c *Context) Active() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID, c.active
}

// Reset discards the cached active role. Called on sign-out and at the start
// of every resolution.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeID = 0
	c.active = false
}
