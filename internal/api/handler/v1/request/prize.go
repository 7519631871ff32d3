package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type RegisterPrizeRequest struct {
	RoundID string `json:"jornada_id"`
	First   *int   `json:"q1"`
	Second  *int   `json:"q2"`
	Third   *int   `json:"q3"`
}

func (req *RegisterPrizeRequest) Validate() error {
	return check(
		missing(func() error {
			return validation.ValidateStruct(req,
				validation.Field(&req.RoundID, validation.Required),
				validation.Field(&req.First, validation.NotNil),
				validation.Field(&req.Second, validation.NotNil),
				validation.Field(&req.Third, validation.NotNil),
			)
		}),
		outOfRange(func() error {
			return validation.ValidateStruct(req,
				validation.Field(&req.First, validation.Min(0), validation.Max(99)),
				validation.Field(&req.Second, validation.Min(0), validation.Max(99)),
				validation.Field(&req.Third, validation.Min(0), validation.Max(99)),
			)
		}),
		malformed(func() error {
			return validation.ValidateStruct(req, validation.Field(&req.RoundID, isUUID))
		}),
	)
}

type ActivatePrizeRequest struct {
	RoundID string `json:"jornada_id"`
}

func (req *ActivatePrizeRequest) Validate() error {
	return check(
		missing(func() error {
			return validation.ValidateStruct(req, validation.Field(&req.RoundID, validation.Required))
		}),
		malformed(func() error {
			return validation.ValidateStruct(req, validation.Field(&req.RoundID, isUUID))
		}),
	)
}

type PrizeListQuery struct {
	Date      string `form:"fecha"`
	LotteryID string `form:"loteria_id"`
}

func (q *PrizeListQuery) Validate() error {
	return check(
		malformed(func() error {
			return validation.ValidateStruct(q,
				validation.Field(&q.Date, isDate),
				validation.Field(&q.LotteryID, isUUID),
			)
		}),
	)
}
