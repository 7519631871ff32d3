package request

import (
	"errors"
	"strings"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/superbett/bancas-api/internal/domain"
)

// At least 6 characters, at least one of them not whitespace.
const passwordPattern = `^(?=.*\S).{6,}$`

var (
	passwordExp = regexp2.MustCompile(passwordPattern, regexp2.None)

	errWeakPassword     = errors.New("password must be at least 6 characters")
	errEmptyUserPatch   = errors.New("at least one of nombre, rol, activo, password is required")
	errEmptyTenantPatch = errors.New("at least one field is required")
	errPartialSchedule  = errors.New("hora_inicio and hora_cierre go together")
)

var strongPassword = validation.By(func(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	}
	if s == "" {
		return nil
	}
	ok, err := passwordExp.MatchString(s)
	if err != nil || !ok {
		return errWeakPassword
	}
	return nil
})

var roleValues = stringsOf(domain.AllRoles()...)

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"nombre"`
	Role     string `json:"rol"`
}

func (req *CreateUserRequest) Validate() error {
	return check(
		missing(func() error {
			return validation.ValidateStruct(req,
				validation.Field(&req.Username, validation.Required, validation.By(notBlank)),
				validation.Field(&req.Password, validation.Required),
				validation.Field(&req.Role, validation.Required),
			)
		}),
		enum(func() error {
			return validation.ValidateStruct(req, validation.Field(&req.Role, validation.In(roleValues...)))
		}),
		outOfRange(func() error {
			return validation.ValidateStruct(req,
				validation.Field(&req.Password, strongPassword),
				validation.Field(&req.Username, validation.Length(1, 50)),
			)
		}),
	)
}

func (req *CreateUserRequest) ToDomain() domain.Account {
	return domain.Account{
		Username: req.Username,
		Password: req.Password,
		Name:     strings.TrimSpace(req.Name),
		Role:     domain.Role(req.Role),
	}
}

type UpdateUserRequest struct {
	Name     *string `json:"nombre"`
	Role     *string `json:"rol"`
	Active   *bool   `json:"activo"`
	Password *string `json:"password"`
}

func (req *UpdateUserRequest) Validate() error {
	return check(
		missing(func() error {
			if blank(req.Name) && blank(req.Role) && req.Active == nil && blank(req.Password) {
				return errEmptyUserPatch
			}
			return nil
		}),
		enum(func() error {
			return validation.ValidateStruct(req, validation.Field(&req.Role, validation.In(roleValues...)))
		}),
		outOfRange(func() error {
			return validation.ValidateStruct(req, validation.Field(&req.Password, strongPassword))
		}),
	)
}

// ToDomain drops empty strings, which leave the stored value unchanged.
func (req *UpdateUserRequest) ToDomain() domain.AccountPatch {
	var patch domain.AccountPatch
	if !blank(req.Name) {
		patch.Name = req.Name
	}
	if !blank(req.Role) {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}
	patch.Active = req.Active
	if !blank(req.Password) {
		patch.Password = req.Password
	}
	return patch
}

type AssignTenantRequest struct {
	TenantID string  `json:"banca_id"`
	Modality string  `json:"modalidad"`
	GrossPct float64 `json:"porcentaje_bruto"`
	NetPct   float64 `json:"porcentaje_neto"`
}

func (req *AssignTenantRequest) Validate() error {
	return check(
		missing(func() error {
			return validation.ValidateStruct(req,
				validation.Field(&req.TenantID, validation.Required),
				validation.Field(&req.Modality, validation.Required),
			)
		}),
		enum(func() error {
			return validation.ValidateStruct(req,
				validation.Field(&req.Modality, validation.In(stringsOf(
					domain.ModalityQuiniela, domain.ModalityPale, domain.ModalityTripleta, domain.ModalitySuperPale)...)))
		}),
		outOfRange(func() error {
			return validation.ValidateStruct(req,
				validation.Field(&req.GrossPct, validation.Min(0.0), validation.Max(100.0)),
				validation.Field(&req.NetPct, validation.Min(0.0), validation.Max(100.0)),
			)
		}),
		malformed(func() error {
			return validation.ValidateStruct(req, validation.Field(&req.TenantID, isUUID))
		}),
	)
}

func (req *AssignTenantRequest) ToDomain() domain.TenantLink {
	return domain.TenantLink{
		TenantID: req.TenantID,
		Modality: req.Modality,
		GrossPct: req.GrossPct,
		NetPct:   req.NetPct,
	}
}

type tenantLimits struct {
	LimitQ  *float64 `json:"limite_q"`
	LimitP  *float64 `json:"limite_p"`
	LimitT  *float64 `json:"limite_t"`
	LimitSP *float64 `json:"limite_sp"`
}

func (l *tenantLimits) validate() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.LimitQ, validation.Min(0.0)),
		validation.Field(&l.LimitP, validation.Min(0.0)),
		validation.Field(&l.LimitT, validation.Min(0.0)),
		validation.Field(&l.LimitSP, validation.Min(0.0)),
	)
}

type CreateTenantRequest struct {
	Name           string  `json:"nombre"`
	Code           string  `json:"codigo"`
	TicketName     string  `json:"nombre_ticket"`
	PriceSchemeID  *string `json:"esquema_precio_id"`
	PayoutSchemeID *string `json:"esquema_pago_id"`
	tenantLimits
}

func (req *CreateTenantRequest) Validate() error {
	return check(
		missing(func() error {
			return validation.ValidateStruct(req,
				validation.Field(&req.Name, validation.Required),
				validation.Field(&req.Code, validation.Required),
				validation.Field(&req.TicketName, validation.Required),
			)
		}),
		outOfRange(req.tenantLimits.validate),
		malformed(func() error {
			return validation.ValidateStruct(req,
				validation.Field(&req.PriceSchemeID, isUUID),
				validation.Field(&req.PayoutSchemeID, isUUID),
			)
		}),
	)
}

func (req *CreateTenantRequest) ToDomain() domain.Tenant {
	return domain.Tenant{
		Name:           req.Name,
		Code:           req.Code,
		TicketName:     req.TicketName,
		PriceSchemeID:  emptyToNil(req.PriceSchemeID),
		PayoutSchemeID: emptyToNil(req.PayoutSchemeID),
		LimitQ:         req.LimitQ,
		LimitP:         req.LimitP,
		LimitT:         req.LimitT,
		LimitSP:        req.LimitSP,
		Active:         true,
	}
}

type UpdateTenantRequest struct {
	Name           *string `json:"nombre"`
	TicketName     *string `json:"nombre_ticket"`
	PriceSchemeID  *string `json:"esquema_precio_id"`
	PayoutSchemeID *string `json:"esquema_pago_id"`
	Active         *bool   `json:"activa"`
	tenantLimits
}

func (req *UpdateTenantRequest) Validate() error {
	return check(
		missing(func() error {
			if req.ToDomain() == (domain.TenantPatch{}) {
				return errEmptyTenantPatch
			}
			return nil
		}),
		outOfRange(req.tenantLimits.validate),
		malformed(func() error {
			return validation.ValidateStruct(req,
				validation.Field(&req.PriceSchemeID, isUUID),
				validation.Field(&req.PayoutSchemeID, isUUID),
			)
		}),
	)
}

func (req *UpdateTenantRequest) ToDomain() domain.TenantPatch {
	return domain.TenantPatch{
		Name:           emptyToNil(req.Name),
		TicketName:     emptyToNil(req.TicketName),
		PriceSchemeID:  emptyToNil(req.PriceSchemeID),
		PayoutSchemeID: emptyToNil(req.PayoutSchemeID),
		LimitQ:         req.LimitQ,
		LimitP:         req.LimitP,
		LimitT:         req.LimitT,
		LimitSP:        req.LimitSP,
		Active:         req.Active,
	}
}

type CreateLotteryRequest struct {
	Name     string  `json:"nombre"`
	Code     string  `json:"codigo"`
	Timezone string  `json:"zona_horaria"`
	Order    int     `json:"orden"`
	OpensAt  *string `json:"hora_inicio"`
	ClosesAt *string `json:"hora_cierre"`
}

func (req *CreateLotteryRequest) Validate() error {
	return check(
		missing(func() error {
			return validation.ValidateStruct(req,
				validation.Field(&req.Name, validation.Required, validation.By(notBlank)),
				validation.Field(&req.Code, validation.Required, validation.By(notBlank)),
			)
		}),
		outOfRange(func() error {
			return validation.ValidateStruct(req, validation.Field(&req.Order, validation.Min(0)))
		}),
		malformed(func() error {
			if blank(req.OpensAt) != blank(req.ClosesAt) {
				return errPartialSchedule
			}
			return validation.ValidateStruct(req,
				validation.Field(&req.Timezone, isTimezone),
				validation.Field(&req.OpensAt, isClockTime),
				validation.Field(&req.ClosesAt, isClockTime),
			)
		}),
	)
}

func (req *CreateLotteryRequest) ToDomain() domain.Lottery {
	return domain.Lottery{
		Name:     req.Name,
		Code:     req.Code,
		Timezone: req.Timezone,
		Order:    req.Order,
		OpensAt:  emptyToNil(req.OpensAt),
		ClosesAt: emptyToNil(req.ClosesAt),
	}
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errBlank
	}
	return nil
}

func emptyToNil(s *string) *string {
	if blank(s) {
		return nil
	}
	return s
}
