package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/repository/dao"
)

var (
	ErrTenantCodeExists = dao.ErrTenantCodeExists
	ErrTenantNotFound   = dao.ErrTenantNotFound
)

type TenantDAO interface {
	FindByID(ctx context.Context, id string) (dao.Tenant, error)
	ListPrices(ctx context.Context, schemeID string) ([]dao.Price, error)
	List(ctx context.Context) ([]dao.TenantWithSchemes, error)
	Insert(ctx context.Context, tenant dao.Tenant) (dao.Tenant, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	PriceSchemes(ctx context.Context) ([]byte, error)
	PayoutSchemes(ctx context.Context) ([]byte, error)
}

type TenantRepository struct {
	dao TenantDAO
}

func NewTenantRepository(dao TenantDAO) *TenantRepository {
	return &TenantRepository{
		dao: dao,
	}
}

// Config loads a banca and its price schedule.
func (r *TenantRepository) Config(ctx context.Context, id string) (domain.TenantConfig, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.TenantConfig{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	prices := []domain.Price{}
	if found.EsquemaPrecioID != nil {
		rows, err := r.dao.ListPrices(ctx, *found.EsquemaPrecioID)
		if err != nil {
			return domain.TenantConfig{}, fmt.Errorf("r.dao.ListPrices -> %w", err)
		}
		for _, p := range rows {
			prices = append(prices, domain.Price{Modality: p.Modalidad, LotteryID: p.LoteriaID, Price: p.Precio})
		}
	}

	return domain.TenantConfig{
		Tenant: r.daoToDomain(found),
		Prices: prices,
	}, nil
}

func (r *TenantRepository) List(ctx context.Context) ([]domain.Tenant, error) {
	rows, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	tenants := make([]domain.Tenant, 0, len(rows))
	for _, row := range rows {
		t := r.daoToDomain(row.Tenant)
		t.PriceScheme = row.EsquemaPrecio
		t.PayoutScheme = row.EsquemaPago
		tenants = append(tenants, t)
	}

	return tenants, nil
}

func (r *TenantRepository) Create(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error) {
	created, err := r.dao.Insert(ctx, dao.Tenant{
		Nombre:          tenant.Name,
		Codigo:          tenant.Code,
		NombreTicket:    tenant.TicketName,
		EsquemaPrecioID: tenant.PriceSchemeID,
		EsquemaPagoID:   tenant.PayoutSchemeID,
		LimiteQ:         tenant.LimitQ,
		LimiteP:         tenant.LimitP,
		LimiteT:         tenant.LimitT,
		LimiteSP:        tenant.LimitSP,
		Activa:          true,
	})
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *TenantRepository) Update(ctx context.Context, id string, patch domain.TenantPatch) error {
	fields := map[string]any{}
	setString := func(col string, v *string) {
		if v != nil {
			fields[col] = *v
		}
	}
	setFloat := func(col string, v *float64) {
		if v != nil {
			fields[col] = *v
		}
	}

	setString("nombre", patch.Name)
	setString("nombre_ticket", patch.TicketName)
	setString("esquema_precio_id", patch.PriceSchemeID)
	setString("esquema_pago_id", patch.PayoutSchemeID)
	setFloat("limite_q", patch.LimitQ)
	setFloat("limite_p", patch.LimitP)
	setFloat("limite_t", patch.LimitT)
	setFloat("limite_sp", patch.LimitSP)
	if patch.Active != nil {
		fields["activa"] = *patch.Active
	}

	if err := r.dao.Update(ctx, id, fields); err != nil {
		return fmt.Errorf("r.dao.Update -> %w", err)
	}

	return nil
}

func (r *TenantRepository) daoToDomain(t dao.Tenant) domain.Tenant {
	return domain.Tenant{
		ID:             t.ID,
		Name:           t.Nombre,
		Code:           t.Codigo,
		TicketName:     t.NombreTicket,
		PriceSchemeID:  t.EsquemaPrecioID,
		PayoutSchemeID: t.EsquemaPagoID,
		LimitQ:         t.LimiteQ,
		LimitP:         t.LimiteP,
		LimitT:         t.LimiteT,
		LimitSP:        t.LimiteSP,
		Active:         t.Activa,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func (r *TenantRepository) PriceSchemes(ctx context.Context) (json.RawMessage, error) {
	raw, err := r.dao.PriceSchemes(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.PriceSchemes -> %w", err)
	}

	return raw, nil
}

func (r *TenantRepository) PayoutSchemes(ctx context.Context) (json.RawMessage, error) {
	raw, err := r.dao.PayoutSchemes(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.PayoutSchemes -> %w", err)
	}

	return raw, nil
}
