// Package session drives the login state machine: authenticate, persist the
// issued token, then fetch the profile. Observers see exactly one of four
// phases at any time.
package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/danielsouzza/momu-go/internal/api"
	"github.com/danielsouzza/momu-go/internal/credential"
	"github.com/danielsouzza/momu-go/internal/model"
	"github.com/danielsouzza/momu-go/internal/watch"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAuthenticating
	PhaseSuccess
	PhaseFailure
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseSuccess:
		return "success"
	case PhaseFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// State is the immutable snapshot the session publishes. Profile is set only
// in PhaseSuccess, Reason only in PhaseFailure.
type State struct {
	Phase   Phase
	Profile model.Profile
	Reason  string
}

var (
	// ErrLoginInProgress rejects a SubmitLogin while a previous one has not
	// reached a terminal phase. There is no request cancellation.
	ErrLoginInProgress = errors.New("session: login already in progress")
	// ErrAlreadyAuthenticated rejects a SubmitLogin from PhaseSuccess; sign
	// out first.
	ErrAlreadyAuthenticated = errors.New("session: already authenticated")
	// ErrNoCredential means Restore was called with an empty store.
	ErrNoCredential = errors.New("session: no stored credential")
)

type Session struct {
	gateway     api.Gateway
	creds       credential.Store
	deviceModel string
	logger      *zap.Logger
	state       *watch.Value[State]
}

func New(gateway api.Gateway, creds credential.Store, deviceModel string, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		gateway:     gateway,
		creds:       creds,
		deviceModel: deviceModel,
		logger:      logger,
		state:       watch.NewValue(State{Phase: PhaseIdle}),
	}
}

// State returns the current snapshot.
func (s *Session) State() State { return s.state.Get() }

// Subscribe registers an observer of session snapshots.
func (s *Session) Subscribe() (<-chan State, func()) { return s.state.Subscribe() }

// SubmitLogin runs the login chain. Valid only from idle or failure; a call
// while authenticating is rejected without disturbing the in-flight attempt.
// The issued token is saved before the profile fetch is dispatched, so a
// profile-fetch failure leaves the credential persisted (the session still
// reports failure).
func (s *Session) SubmitLogin(ctx context.Context, email, password string) error {
	if err := s.begin(); err != nil {
		return err
	}

	token, err := s.gateway.Authenticate(ctx, email, password, s.deviceModel)
	if err != nil {
		return s.fail("authenticate", err)
	}
	if err := s.creds.Save(token); err != nil {
		return s.fail("save credential", err)
	}

	profile, err := s.gateway.FetchProfile(ctx)
	if err != nil {
		return s.fail("fetch profile", err)
	}

	s.logger.Info("signed in", zap.Int("user_id", profile.ID))
	s.state.Set(State{Phase: PhaseSuccess, Profile: profile})
	return nil
}

// Restore moves an idle session with a persisted credential straight to
// success by re-fetching the profile, without re-authenticating.
func (s *Session) Restore(ctx context.Context) error {
	if _, ok := s.creds.Get(); !ok {
		return ErrNoCredential
	}
	if err := s.begin(); err != nil {
		return err
	}

	profile, err := s.gateway.FetchProfile(ctx)
	if err != nil {
		return s.fail("fetch profile", err)
	}
	s.state.Set(State{Phase: PhaseSuccess, Profile: profile})
	return nil
}

// SignOut clears the stored credential and resets the machine to idle. It is
// the universal reset, reachable from any phase.
func (s *Session) SignOut() error {
	err := s.creds.Clear()
	s.state.Set(State{Phase: PhaseIdle})
	return err
}

// begin atomically moves idle/failure to authenticating.
func (s *Session) begin() error {
	var rejected error
	s.state.Update(func(cur State) State {
		switch cur.Phase {
		case PhaseAuthenticating:
			rejected = ErrLoginInProgress
			return cur
		case PhaseSuccess:
			rejected = ErrAlreadyAuthenticated
			return cur
		default:
			return State{Phase: PhaseAuthenticating}
		}
	})
	return rejected
}

func (s *Session) fail(step string, err error) error {
	s.logger.Warn("login failed", zap.String("step", step), zap.Error(err))
	s.state.Set(State{Phase: PhaseFailure, Reason: api.UserMessage(err)})
	return err
}
