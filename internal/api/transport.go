package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/danielsouzza/momu-go/internal/credential"
)

// bearerTransport injects the current credential as a bearer token on every
// outgoing request. The gateway never builds the Authorization header itself;
// it reads whatever the store holds at send time, so a sign-out mid-session
// takes effect on the very next call.
type bearerTransport struct {
	base  http.RoundTripper
	creds credential.Store
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if token, ok := t.creds.Get(); ok {
		clone.Header.Set("Authorization", "Bearer "+token)
	}
	clone.Header.Set("Content-Type", "application/json")
	clone.Header.Set("Accept", "application/json")
	clone.Header.Set("X-Request-ID", uuid.NewString())
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}
