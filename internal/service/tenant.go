package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/repository"
)

var (
	ErrTenantCodeExists = repository.ErrTenantCodeExists
	ErrTenantNotFound   = repository.ErrTenantNotFound
)

type TenantRepository interface {
	Config(ctx context.Context, id string) (domain.TenantConfig, error)
	List(ctx context.Context) ([]domain.Tenant, error)
	Create(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error)
	Update(ctx context.Context, id string, patch domain.TenantPatch) error
	PriceSchemes(ctx context.Context) (json.RawMessage, error)
	PayoutSchemes(ctx context.Context) (json.RawMessage, error)
}

type TenantService struct {
	repo TenantRepository
}

func NewTenantService(repo TenantRepository) *TenantService {
	return &TenantService{
		repo: repo,
	}
}

// Config returns the caller's own banca. Only the token's banca is consulted.
func (s *TenantService) Config(ctx context.Context, caller domain.Identity) (domain.TenantConfig, error) {
	tenant := caller.Tenant()
	if tenant == "" {
		return domain.TenantConfig{}, ErrNoTenant
	}

	conf, err := s.repo.Config(ctx, tenant)
	if err != nil {
		return domain.TenantConfig{}, fmt.Errorf("s.repo.Config -> %w", err)
	}

	return conf, nil
}

func (s *TenantService) List(ctx context.Context) ([]domain.Tenant, error) {
	tenants, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return tenants, nil
}

// Create stores a new banca. Codes are kept upper-case.
func (s *TenantService) Create(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error) {
	tenant.Code = strings.ToUpper(strings.TrimSpace(tenant.Code))

	created, err := s.repo.Create(ctx, tenant)
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *TenantService) Update(ctx context.Context, id string, patch domain.TenantPatch) error {
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	return nil
}

func (s *TenantService) PriceSchemes(ctx context.Context) (json.RawMessage, error) {
	schemes, err := s.repo.PriceSchemes(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.PriceSchemes -> %w", err)
	}

	return schemes, nil
}

func (s *TenantService) PayoutSchemes(ctx context.Context) (json.RawMessage, error) {
	schemes, err := s.repo.PayoutSchemes(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.PayoutSchemes -> %w", err)
	}

	return schemes, nil
}
