package domain

import (
	"encoding/json"
	"errors"
)

var (
	ErrNoTenant       = errors.New("account has no banca assigned")
	ErrTenantMismatch = errors.New("resource does not belong to the caller's banca")
)

// RejectionError is a structured non-success outcome from the data engine.
// Its payload is sent back to the client unchanged.
type RejectionError struct {
	Payload json.RawMessage
}

func (e *RejectionError) Error() string {
	return "data engine rejected the operation: " + string(e.Payload)
}

// IsRejection extracts a RejectionError from err's chain.
func IsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
