package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/repository/dao"
)

var (
	ErrTicketNotFound = dao.ErrTicketNotFound
	errEmptyOutcome   = errors.New("data engine returned no result")
)

// TicketRepository runs every ticket write as one atomic unit. A non-ok
// estado from the engine aborts the unit, so a rejected ticket leaves no rows.
type TicketRepository struct {
	atomic *dao.Atomic
	dao    *dao.TicketDAO
}

func NewTicketRepository(atomic *dao.Atomic, dao *dao.TicketDAO) *TicketRepository {
	return &TicketRepository{
		atomic: atomic,
		dao:    dao,
	}
}

func (r *TicketRepository) Create(ctx context.Context, accountID, tenantID string, order domain.TicketOrder) (domain.Outcome, error) {
	plays, err := json.Marshal(order.Plays)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("json.Marshal -> %w", err)
	}

	var out domain.Outcome
	err = r.atomic.Run(ctx, func(ctx context.Context, tx *gorm.DB) error {
		raw, err := r.dao.WithTx(tx).CreateTicket(ctx, accountID, tenantID, order.RoundID, plays)
		if err != nil {
			return fmt.Errorf("r.dao.CreateTicket -> %w", err)
		}

		out, err = requireOK(raw)
		return err
	})
	if err != nil {
		return out, err
	}

	return out, nil
}

func (r *TicketRepository) CreateSuperPale(ctx context.Context, accountID, tenantID string, order domain.SuperPaleOrder) (domain.Outcome, error) {
	plays, err := json.Marshal(order.Plays)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("json.Marshal -> %w", err)
	}

	var out domain.Outcome
	err = r.atomic.Run(ctx, func(ctx context.Context, tx *gorm.DB) error {
		raw, err := r.dao.WithTx(tx).CreateSuperPale(ctx, accountID, tenantID, order.RoundIDs, plays)
		if err != nil {
			return fmt.Errorf("r.dao.CreateSuperPale -> %w", err)
		}

		out, err = requireOK(raw)
		return err
	})
	if err != nil {
		return out, err
	}

	return out, nil
}

// Void cancels a ticket. When tenantScope is set the ticket must belong to it;
// the check runs under the row lock in the same unit as the write.
func (r *TicketRepository) Void(ctx context.Context, ticketID, tenantScope string) (domain.Outcome, error) {
	return r.lockedWrite(ctx, ticketID, tenantScope, (*dao.TicketDAO).VoidTicket)
}

// Pay marks a winning ticket as paid, with the same scoping as Void.
func (r *TicketRepository) Pay(ctx context.Context, ticketID, tenantScope string) (domain.Outcome, error) {
	return r.lockedWrite(ctx, ticketID, tenantScope, (*dao.TicketDAO).PayTicket)
}

func (r *TicketRepository) lockedWrite(
	ctx context.Context,
	ticketID, tenantScope string,
	write func(d *dao.TicketDAO, ctx context.Context, ticketID string) ([]byte, error),
) (domain.Outcome, error) {
	var out domain.Outcome
	err := r.atomic.Run(ctx, func(ctx context.Context, tx *gorm.DB) error {
		d := r.dao.WithTx(tx)

		owner, err := d.LockTicket(ctx, ticketID)
		if err != nil {
			return fmt.Errorf("r.dao.LockTicket -> %w", err)
		}
		if tenantScope != "" && owner != tenantScope {
			return domain.ErrTenantMismatch
		}

		raw, err := write(d, ctx, ticketID)
		if err != nil {
			return fmt.Errorf("r.dao.write -> %w", err)
		}

		out, err = requireOK(raw)
		return err
	})
	if err != nil {
		return out, err
	}

	return out, nil
}

// Lookup returns consultar_ticket for number and the banca owning the ticket.
func (r *TicketRepository) Lookup(ctx context.Context, number string) (json.RawMessage, string, error) {
	raw, err := r.dao.Lookup(ctx, number)
	if err != nil {
		return nil, "", fmt.Errorf("r.dao.Lookup -> %w", err)
	}
	if raw == nil {
		return nil, "", ErrTicketNotFound
	}

	out, err := domain.ParseOutcome(raw)
	if err != nil {
		return nil, "", fmt.Errorf("domain.ParseOutcome -> %w", err)
	}
	if out.Status == "error" {
		return nil, "", ErrTicketNotFound
	}

	owner, err := r.dao.TenantOfNumber(ctx, number)
	if err != nil {
		return nil, "", fmt.Errorf("r.dao.TenantOfNumber -> %w", err)
	}

	return out.Payload, owner, nil
}

func (r *TicketRepository) SalesList(ctx context.Context, tenantID, date, lotteryID string) (domain.SalesList, error) {
	list, err := r.dao.SalesList(ctx, tenantID, date, lotteryID)
	if err != nil {
		return domain.SalesList{}, fmt.Errorf("r.dao.SalesList -> %w", err)
	}

	return domain.SalesList{
		Date:       date,
		Regular:    list.Regular,
		SuperPale:  list.SuperPale,
		TotalSales: list.Total,
	}, nil
}

// requireOK turns anything but estado "ok" into a RejectionError.
func requireOK(raw []byte) (domain.Outcome, error) {
	if raw == nil {
		return domain.Outcome{}, errEmptyOutcome
	}

	out, err := domain.ParseOutcome(raw)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("domain.ParseOutcome -> %w", err)
	}
	if !out.OK() {
		return out, &domain.RejectionError{Payload: out.Payload}
	}

	return out, nil
}

// rejectIfNotOK is the lenient variant for engine calls whose payload may
// carry no estado at all.
func rejectIfNotOK(raw []byte) (json.RawMessage, error) {
	out, err := domain.ParseOutcome(raw)
	if err != nil {
		return nil, fmt.Errorf("domain.ParseOutcome -> %w", err)
	}
	if out.Rejected() {
		return nil, &domain.RejectionError{Payload: out.Payload}
	}

	return out.Payload, nil
}
