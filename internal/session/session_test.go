package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielsouzza/momu-go/internal/api"
	"github.com/danielsouzza/momu-go/internal/credential"
	"github.com/danielsouzza/momu-go/internal/model"
)

type fakeGateway struct {
	api.Gateway

	authenticateFn func(email, password, device string) (string, error)
	profileFn      func() (model.Profile, error)
}

func (f *fakeGateway) Authenticate(_ context.Context, email, password, device string) (string, error) {
	return f.authenticateFn(email, password, device)
}

func (f *fakeGateway) FetchProfile(context.Context) (model.Profile, error) {
	return f.profileFn()
}

var testProfile = model.Profile{
	ID:    7,
	Name:  "Ana Silva",
	Email: "ana@demo.local",
	Roles: []model.Role{{ID: 1, Name: "evaluator"}},
}

func TestLoginSuccessPersistsCredential(t *testing.T) {
	store := credential.NewMemoryStore()
	gateway := &fakeGateway{
		authenticateFn: func(email, password, device string) (string, error) {
			if device == "" {
				t.Fatalf("expected a device model")
			}
			return "issued-token", nil
		},
		profileFn: func() (model.Profile, error) {
			// The ordering guarantee: by the time the profile is fetched the
			// credential is already durably saved.
			if token, ok := store.Get(); !ok || token != "issued-token" {
				t.Fatalf("profile fetched before credential was saved")
			}
			return testProfile, nil
		},
	}
	s := New(gateway, store, "linux/test", nil)

	if err := s.SubmitLogin(context.Background(), "ana@demo.local", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	state := s.State()
	if state.Phase != PhaseSuccess {
		t.Fatalf("expected success, got %s", state.Phase)
	}
	if state.Profile.ID != 7 {
		t.Fatalf("unexpected profile %+v", state.Profile)
	}
	if token, _ := store.Get(); token != "issued-token" {
		t.Fatalf("expected issued-token persisted, got %q", token)
	}
}

func TestLoginAuthenticateFailureIsRecoverable(t *testing.T) {
	store := credential.NewMemoryStore()
	attempts := 0
	gateway := &fakeGateway{
		authenticateFn: func(string, string, string) (string, error) {
			attempts++
			if attempts == 1 {
				return "", &api.TransportError{Err: errors.New("dial tcp: timeout")}
			}
			return "token-2", nil
		},
		profileFn: func() (model.Profile, error) { return testProfile, nil },
	}
	s := New(gateway, store, "linux/test", nil)

	if err := s.SubmitLogin(context.Background(), "ana@demo.local", "pw"); err == nil {
		t.Fatalf("expected first login to fail")
	}
	state := s.State()
	if state.Phase != PhaseFailure {
		t.Fatalf("expected failure, got %s", state.Phase)
	}
	if state.Reason != "connection failed" {
		t.Fatalf("expected generic transport message, got %q", state.Reason)
	}
	if _, ok := store.Get(); ok {
		t.Fatalf("no credential should be saved on authenticate failure")
	}

	// Failure is a valid start state for another attempt.
	if err := s.SubmitLogin(context.Background(), "ana@demo.local", "pw"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if s.State().Phase != PhaseSuccess {
		t.Fatalf("expected success after retry, got %s", s.State().Phase)
	}
}

func TestLoginWithoutIssuedTokenFails(t *testing.T) {
	store := credential.NewMemoryStore()
	gateway := &fakeGateway{
		authenticateFn: func(string, string, string) (string, error) { return "", nil },
		profileFn: func() (model.Profile, error) {
			t.Fatalf("profile must not be fetched without a credential")
			return model.Profile{}, nil
		},
	}
	s := New(gateway, store, "linux/test", nil)

	if err := s.SubmitLogin(context.Background(), "ana@demo.local", "pw"); err == nil {
		t.Fatalf("expected login to fail")
	}
	if s.State().Phase != PhaseFailure {
		t.Fatalf("expected failure, got %s", s.State().Phase)
	}
	if _, ok := store.Get(); ok {
		t.Fatalf("empty token must not be persisted")
	}
}

func TestLoginProfileFailureKeepsCredential(t *testing.T) {
	store := credential.NewMemoryStore()
	gateway := &fakeGateway{
		authenticateFn: func(string, string, string) (string, error) { return "issued-token", nil },
		profileFn: func() (model.Profile, error) {
			return model.Profile{}, &api.AuthorizationError{Status: 500}
		},
	}
	s := New(gateway, store, "linux/test", nil)

	if err := s.SubmitLogin(context.Background(), "ana@demo.local", "pw"); err == nil {
		t.Fatalf("expected login to fail")
	}
	if s.State().Phase != PhaseFailure {
		t.Fatalf("expected failure, got %s", s.State().Phase)
	}
	// The token was saved before the profile fetch and is not rolled back.
	if token, ok := store.Get(); !ok || token != "issued-token" {
		t.Fatalf("expected credential to remain persisted, got %q (%v)", token, ok)
	}
}

func TestConcurrentLoginRejected(t *testing.T) {
	store := credential.NewMemoryStore()
	release := make(chan struct{})
	gateway := &fakeGateway{
		authenticateFn: func(string, string, string) (string, error) {
			<-release
			return "issued-token", nil
		},
		profileFn: func() (model.Profile, error) { return testProfile, nil },
	}
	s := New(gateway, store, "linux/test", nil)

	updates, cancel := s.Subscribe()
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.SubmitLogin(context.Background(), "ana@demo.local", "pw") }()

	waitPhase(t, updates, PhaseAuthenticating)

	if err := s.SubmitLogin(context.Background(), "ana@demo.local", "pw"); !errors.Is(err, ErrLoginInProgress) {
		t.Fatalf("expected ErrLoginInProgress, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first login: %v", err)
	}

	// From success another login is rejected too; sign out first.
	if err := s.SubmitLogin(context.Background(), "ana@demo.local", "pw"); !errors.Is(err, ErrAlreadyAuthenticated) {
		t.Fatalf("expected ErrAlreadyAuthenticated, got %v", err)
	}
}

func TestRestore(t *testing.T) {
	store := credential.NewMemoryStore()
	gateway := &fakeGateway{
		authenticateFn: func(string, string, string) (string, error) {
			t.Fatalf("restore must not re-authenticate")
			return "", nil
		},
		profileFn: func() (model.Profile, error) { return testProfile, nil },
	}
	s := New(gateway, store, "linux/test", nil)

	if err := s.Restore(context.Background()); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}

	if err := store.Save("stored-token"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if s.State().Phase != PhaseSuccess {
		t.Fatalf("expected success, got %s", s.State().Phase)
	}
}

func TestSignOutIsUniversalReset(t *testing.T) {
	store := credential.NewMemoryStore()
	gateway := &fakeGateway{
		authenticateFn: func(string, string, string) (string, error) { return "issued-token", nil },
		profileFn:      func() (model.Profile, error) { return testProfile, nil },
	}
	s := New(gateway, store, "linux/test", nil)

	if err := s.SubmitLogin(context.Background(), "ana@demo.local", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.SignOut(); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if s.State().Phase != PhaseIdle {
		t.Fatalf("expected idle, got %s", s.State().Phase)
	}
	if _, ok := store.Get(); ok {
		t.Fatalf("expected credential cleared")
	}

	// Signing out twice is harmless.
	if err := s.SignOut(); err != nil {
		t.Fatalf("second sign out: %v", err)
	}
}

func waitPhase(t *testing.T, updates <-chan State, phase Phase) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case state := <-updates:
			if state.Phase == phase {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for phase %s", phase)
		}
	}
}
