package api

import (
	"errors"
	"fmt"
)

// The gateway classifies every failure into one of three kinds. Components
// catch these at their boundary and fold them into their own terminal error
// states; nothing propagates past a component uncaught.

// TransportError covers network-level failures: unreachable host, timeout.
// Consumers surface it as a generic "connection failed"; no finer
// classification is attempted.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("connection failed: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// AuthorizationError is a non-success HTTP status on a call, carrying the
// server-provided message when one was present.
type AuthorizationError struct {
	Status  int
	Code    string
	Message string
}

func (e *AuthorizationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// DataContractError means the response shape violated an invariant (missing
// required field, mismatched parallel arrays). It is a defect worth reporting
// distinctly rather than folding into a generic error string.
type DataContractError struct {
	Reason string
}

func (e *DataContractError) Error() string { return "data contract violation: " + e.Reason }

// UserMessage converts any gateway error into the string a consumer-facing
// error state should carry.
func UserMessage(err error) string {
	var transport *TransportError
	if errors.As(err, &transport) {
		return "connection failed"
	}
	var contract *DataContractError
	if errors.As(err, &contract) {
		return contract.Error()
	}
	var authz *AuthorizationError
	if errors.As(err, &authz) {
		return authz.Error()
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// IsDataContract reports whether err is a data-contract violation, the one
// class callers may want to escalate instead of just displaying.
func IsDataContract(err error) bool {
	var contract *DataContractError
	return errors.As(err, &contract)
}
