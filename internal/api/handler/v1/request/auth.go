package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	// Trusted asks for the longer session of a registered POS terminal. It is
	// only honoured together with a valid X-Terminal-Key header.
	Trusted bool `json:"trusted"`
}

func (req *LoginRequest) Validate() error {
	return check(
		missing(func() error {
			return validation.ValidateStruct(req,
				validation.Field(&req.Username, validation.Required),
				validation.Field(&req.Password, validation.Required),
			)
		}),
	)
}
