package request

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/superbett/bancas-api/internal/domain"
)

var (
	errNoPlays          = errors.New("jugadas is required")
	errSuperPaleRounds  = errors.New("exactly 2 jornadas are required")
	errSuperPaleRepeats = errors.New("the 2 jornadas must be different")
)

type PlayRequest struct {
	Modality string `json:"modalidad"`
	Numbers  string `json:"numeros"`
	Amount   int    `json:"cantidad"`
}

func (p PlayRequest) toDomain() domain.Play {
	return domain.Play{
		Modality: domain.Modality(p.Modality),
		Numbers:  strings.TrimSpace(p.Numbers),
		Amount:   p.Amount,
	}
}

type CreateTicketRequest struct {
	RoundID string        `json:"jornada_id"`
	Plays   []PlayRequest `json:"jugadas"`
}

func (req *CreateTicketRequest) Validate() error {
	return check(
		missing(func() error {
			if err := validation.ValidateStruct(req, validation.Field(&req.RoundID, validation.Required)); err != nil {
				return err
			}
			return requirePlays(req.Plays)
		}),
		enum(func() error {
			for i := range req.Plays {
				p := &req.Plays[i]
				err := validation.ValidateStruct(p,
					validation.Field(&p.Modality, validation.In(stringsOf(domain.TicketModalities...)...)))
				if err != nil {
					return fmt.Errorf("jugadas[%d]: %w", i, err)
				}
			}
			return nil
		}),
		outOfRange(func() error {
			return positiveAmounts(req.Plays)
		}),
		malformed(func() error {
			return validation.ValidateStruct(req, validation.Field(&req.RoundID, isUUID))
		}),
	)
}

func (req *CreateTicketRequest) ToDomain() domain.TicketOrder {
	return domain.TicketOrder{
		RoundID: req.RoundID,
		Plays:   playsToDomain(req.Plays),
	}
}

type CreateSuperPaleRequest struct {
	RoundIDs []string      `json:"jornadas"`
	Plays    []PlayRequest `json:"jugadas"`
}

func (req *CreateSuperPaleRequest) Validate() error {
	return check(
		missing(func() error {
			return requirePlays(req.Plays)
		}),
		outOfRange(func() error {
			if len(req.RoundIDs) != 2 {
				return errSuperPaleRounds
			}
			return positiveAmounts(req.Plays)
		}),
		malformed(func() error {
			for i, id := range req.RoundIDs {
				if err := validation.Validate(id, validation.Required, isUUID); err != nil {
					return fmt.Errorf("jornadas[%d]: %w", i, err)
				}
			}
			if strings.EqualFold(req.RoundIDs[0], req.RoundIDs[1]) {
				return errSuperPaleRepeats
			}
			return nil
		}),
	)
}

func (req *CreateSuperPaleRequest) ToDomain() domain.SuperPaleOrder {
	return domain.SuperPaleOrder{
		RoundIDs: [2]string{req.RoundIDs[0], req.RoundIDs[1]},
		Plays:    playsToDomain(req.Plays),
	}
}

func requirePlays(plays []PlayRequest) error {
	if len(plays) == 0 {
		return errNoPlays
	}
	for i := range plays {
		p := &plays[i]
		err := validation.ValidateStruct(p,
			validation.Field(&p.Modality, validation.Required),
			validation.Field(&p.Numbers, validation.Required),
			validation.Field(&p.Amount, validation.Required),
		)
		if err != nil {
			return fmt.Errorf("jugadas[%d]: %w", i, err)
		}
	}
	return nil
}

// positiveAmounts only sees non-zero amounts; zero is reported as missing.
func positiveAmounts(plays []PlayRequest) error {
	for i := range plays {
		p := &plays[i]
		if err := validation.ValidateStruct(p, validation.Field(&p.Amount, validation.Min(1))); err != nil {
			return fmt.Errorf("jugadas[%d]: %w", i, err)
		}
	}
	return nil
}

func playsToDomain(plays []PlayRequest) []domain.Play {
	out := make([]domain.Play, len(plays))
	for i, p := range plays {
		out[i] = p.toDomain()
	}
	return out
}

// SalesListQuery filters GET /tickets/ventas-lista.
type SalesListQuery struct {
	TenantID  string `form:"banca_id"`
	Date      string `form:"fecha"`
	LotteryID string `form:"loteria_id"`
}

func (q *SalesListQuery) Validate() error {
	return check(
		malformed(func() error {
			return validation.ValidateStruct(q,
				validation.Field(&q.TenantID, isUUID),
				validation.Field(&q.Date, isDate),
				validation.Field(&q.LotteryID, isUUID),
			)
		}),
	)
}
