package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/superbett/bancas-api/internal/domain"
)

var errEmptyRoundPatch = errors.New("at least one of estado, hora_inicio, hora_cierre is required")

// DateQuery is the optional ?fecha= filter.
type DateQuery struct {
	Date string `form:"fecha"`
}

func (q *DateQuery) Validate() error {
	return check(
		malformed(func() error {
			return validation.ValidateStruct(q, validation.Field(&q.Date, isDate))
		}),
	)
}

type GenerateRoundsRequest struct {
	Date string `json:"fecha"`
}

func (req *GenerateRoundsRequest) Validate() error {
	return check(
		malformed(func() error {
			return validation.ValidateStruct(req, validation.Field(&req.Date, isDate))
		}),
	)
}

type UpdateRoundRequest struct {
	Status   *string `json:"estado"`
	OpensAt  *string `json:"hora_inicio"`
	ClosesAt *string `json:"hora_cierre"`
}

func (req *UpdateRoundRequest) Validate() error {
	return check(
		missing(func() error {
			if blank(req.Status) && blank(req.OpensAt) && blank(req.ClosesAt) {
				return errEmptyRoundPatch
			}
			return nil
		}),
		enum(func() error {
			return validation.ValidateStruct(req,
				validation.Field(&req.Status, validation.In(stringsOf(domain.RoundStatusStrings()...)...)))
		}),
		malformed(func() error {
			return validation.ValidateStruct(req,
				validation.Field(&req.OpensAt, isClockTime),
				validation.Field(&req.ClosesAt, isClockTime),
			)
		}),
	)
}

// ToDomain must only be called after Validate succeeded.
func (req *UpdateRoundRequest) ToDomain() domain.RoundPatch {
	var patch domain.RoundPatch
	if !blank(req.Status) {
		status := domain.RoundStatus(*req.Status)
		patch.Status = &status
	}
	if !blank(req.OpensAt) {
		patch.OpensAt = req.OpensAt
	}
	if !blank(req.ClosesAt) {
		patch.ClosesAt = req.ClosesAt
	}
	return patch
}

func blank(s *string) bool {
	return s == nil || *s == ""
}
