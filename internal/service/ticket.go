package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/metrics"
	"github.com/superbett/bancas-api/internal/repository"
)

var (
	ErrTicketNotFound = repository.ErrTicketNotFound
	ErrNoTenant       = domain.ErrNoTenant
	ErrTenantMismatch = domain.ErrTenantMismatch
	ErrTenantRequired = errors.New("banca_id is required")
)

type TicketRepository interface {
	Create(ctx context.Context, accountID, tenantID string, order domain.TicketOrder) (domain.Outcome, error)
	CreateSuperPale(ctx context.Context, accountID, tenantID string, order domain.SuperPaleOrder) (domain.Outcome, error)
	Void(ctx context.Context, ticketID, tenantScope string) (domain.Outcome, error)
	Pay(ctx context.Context, ticketID, tenantScope string) (domain.Outcome, error)
	Lookup(ctx context.Context, number string) (json.RawMessage, string, error)
	SalesList(ctx context.Context, tenantID, date, lotteryID string) (domain.SalesList, error)
}

// TicketService stamps every write with the caller's account and banca taken
// from the verified token. Client-supplied banca ids never reach a write.
type TicketService struct {
	repo  TicketRepository
	clock *Clock
}

func NewTicketService(repo TicketRepository, clock *Clock) *TicketService {
	return &TicketService{
		repo:  repo,
		clock: clock,
	}
}

func (s *TicketService) CreateTicket(ctx context.Context, caller domain.Identity, order domain.TicketOrder) (domain.Outcome, error) {
	tenant := caller.Tenant()
	if tenant == "" {
		return domain.Outcome{}, ErrNoTenant
	}

	out, err := s.repo.Create(ctx, caller.AccountID, tenant, order)
	observe(metrics.OpCreate, out, err)
	if err != nil {
		return out, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return out, nil
}

func (s *TicketService) CreateSuperPale(ctx context.Context, caller domain.Identity, order domain.SuperPaleOrder) (domain.Outcome, error) {
	tenant := caller.Tenant()
	if tenant == "" {
		return domain.Outcome{}, ErrNoTenant
	}

	out, err := s.repo.CreateSuperPale(ctx, caller.AccountID, tenant, order)
	observe(metrics.OpSuperPale, out, err)
	if err != nil {
		return out, fmt.Errorf("s.repo.CreateSuperPale -> %w", err)
	}

	return out, nil
}

func (s *TicketService) VoidTicket(ctx context.Context, caller domain.Identity, ticketID string) (domain.Outcome, error) {
	scope, err := tenantScope(caller)
	if err != nil {
		return domain.Outcome{}, err
	}

	out, err := s.repo.Void(ctx, ticketID, scope)
	observe(metrics.OpVoid, out, err)
	if err != nil {
		return out, fmt.Errorf("s.repo.Void -> %w", err)
	}

	return out, nil
}

func (s *TicketService) PayTicket(ctx context.Context, caller domain.Identity, ticketID string) (domain.Outcome, error) {
	scope, err := tenantScope(caller)
	if err != nil {
		return domain.Outcome{}, err
	}

	out, err := s.repo.Pay(ctx, ticketID, scope)
	observe(metrics.OpPay, out, err)
	if err != nil {
		return out, fmt.Errorf("s.repo.Pay -> %w", err)
	}

	return out, nil
}

// LookupTicket returns the engine's view of a ticket. A vendedor only sees
// tickets of its own banca.
func (s *TicketService) LookupTicket(ctx context.Context, caller domain.Identity, number string) (json.RawMessage, error) {
	payload, owner, err := s.repo.Lookup(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Lookup -> %w", err)
	}
	if !caller.OwnsTenant(owner) {
		return nil, ErrTenantMismatch
	}

	return payload, nil
}

// SalesList aggregates the day's plays for one banca. requestedTenant is
// ignored for tenant-scoped callers.
func (s *TicketService) SalesList(ctx context.Context, caller domain.Identity, requestedTenant, date, lotteryID string) (domain.SalesList, error) {
	tenant, err := resolveTenant(caller, requestedTenant)
	if err != nil {
		return domain.SalesList{}, err
	}

	list, err := s.repo.SalesList(ctx, tenant, s.clock.orToday(date), lotteryID)
	if err != nil {
		return domain.SalesList{}, fmt.Errorf("s.repo.SalesList -> %w", err)
	}

	return list, nil
}

// tenantScope is the banca a write must belong to, or "" for office roles.
func tenantScope(caller domain.Identity) (string, error) {
	if !caller.Role.TenantScoped() {
		return "", nil
	}

	tenant := caller.Tenant()
	if tenant == "" {
		return "", ErrNoTenant
	}
	return tenant, nil
}

func resolveTenant(caller domain.Identity, requested string) (string, error) {
	tenant := caller.EffectiveTenant(requested)
	if tenant != "" {
		return tenant, nil
	}
	if caller.Role.TenantScoped() {
		return "", ErrNoTenant
	}
	return "", ErrTenantRequired
}

func observe(op string, out domain.Outcome, err error) {
	switch {
	case err == nil:
		metrics.ObserveTicket(op, out.Status)
	case out.Status != "":
		metrics.ObserveTicket(op, out.Status)
	default:
		if _, ok := domain.IsRejection(err); ok {
			metrics.ObserveTicket(op, "rechazado")
			return
		}
		metrics.ObserveTicket(op, "error")
	}
}
