package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/superbett/bancas-api/internal/domain"
)

// ReportQuery carries the optional filters shared by the day reports.
type ReportQuery struct {
	Date      string `form:"fecha"`
	LotteryID string `form:"loteria_id"`
	TenantID  string `form:"banca_id"`
}

func (q *ReportQuery) Validate() error {
	return check(
		malformed(func() error {
			return validation.ValidateStruct(q,
				validation.Field(&q.Date, isDate),
				validation.Field(&q.LotteryID, isUUID),
				validation.Field(&q.TenantID, isUUID),
			)
		}),
	)
}

func (q *ReportQuery) ToDomain() domain.ReportFilter {
	return domain.ReportFilter{Date: q.Date, LotteryID: q.LotteryID, TenantID: q.TenantID}
}

type ExposureQuery struct {
	RoundID string `form:"jornada_id"`
}

func (q *ExposureQuery) Validate() error {
	return check(
		missing(func() error {
			return validation.ValidateStruct(q, validation.Field(&q.RoundID, validation.Required))
		}),
		malformed(func() error {
			return validation.ValidateStruct(q, validation.Field(&q.RoundID, isUUID))
		}),
	)
}
