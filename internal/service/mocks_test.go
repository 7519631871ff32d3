package service

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/superbett/bancas-api/internal/domain"
)

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) FindByUsername(ctx context.Context, username string) (domain.Account, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(domain.Account), args.Error(1)
}

type mockTicketRepo struct {
	mock.Mock
}

func (m *mockTicketRepo) Create(ctx context.Context, accountID, tenantID string, order domain.TicketOrder) (domain.Outcome, error) {
	args := m.Called(ctx, accountID, tenantID, order)
	return args.Get(0).(domain.Outcome), args.Error(1)
}

func (m *mockTicketRepo) CreateSuperPale(ctx context.Context, accountID, tenantID string, order domain.SuperPaleOrder) (domain.Outcome, error) {
	args := m.Called(ctx, accountID, tenantID, order)
	return args.Get(0).(domain.Outcome), args.Error(1)
}

func (m *mockTicketRepo) Void(ctx context.Context, ticketID, tenantScope string) (domain.Outcome, error) {
	args := m.Called(ctx, ticketID, tenantScope)
	return args.Get(0).(domain.Outcome), args.Error(1)
}

func (m *mockTicketRepo) Pay(ctx context.Context, ticketID, tenantScope string) (domain.Outcome, error) {
	args := m.Called(ctx, ticketID, tenantScope)
	return args.Get(0).(domain.Outcome), args.Error(1)
}

func (m *mockTicketRepo) Lookup(ctx context.Context, number string) (json.RawMessage, string, error) {
	args := m.Called(ctx, number)
	return args.Get(0).(json.RawMessage), args.String(1), args.Error(2)
}

func (m *mockTicketRepo) SalesList(ctx context.Context, tenantID, date, lotteryID string) (domain.SalesList, error) {
	args := m.Called(ctx, tenantID, date, lotteryID)
	return args.Get(0).(domain.SalesList), args.Error(1)
}

type mockRoundRepo struct {
	mock.Mock
}

func (m *mockRoundRepo) Generate(ctx context.Context, date string) (domain.GenerationReport, json.RawMessage, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(domain.GenerationReport), args.Get(1).(json.RawMessage), args.Error(2)
}

func (m *mockRoundRepo) Open(ctx context.Context, date string) (json.RawMessage, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *mockRoundRepo) Incomplete(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *mockRoundRepo) List(ctx context.Context, date string) (json.RawMessage, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *mockRoundRepo) Close(ctx context.Context, id string) (json.RawMessage, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *mockRoundRepo) Reopen(ctx context.Context, id string) (json.RawMessage, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *mockRoundRepo) Update(ctx context.Context, id string, patch domain.RoundPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

type mockReportRepo struct {
	mock.Mock
}

func (m *mockReportRepo) Winners(ctx context.Context, date, lotteryID string) (json.RawMessage, error) {
	args := m.Called(ctx, date, lotteryID)
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *mockReportRepo) DailySummary(ctx context.Context, date string) (json.RawMessage, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *mockReportRepo) TenantReport(ctx context.Context, tenantID, date string) (domain.TenantReport, error) {
	args := m.Called(ctx, tenantID, date)
	return args.Get(0).(domain.TenantReport), args.Error(1)
}

func (m *mockReportRepo) Exposure(ctx context.Context, roundID string) (domain.Exposure, error) {
	args := m.Called(ctx, roundID)
	return args.Get(0).(domain.Exposure), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (domain.Account, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Account), args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(domain.Account), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, id string, patch domain.AccountPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *mockUserRepo) AssignTenant(ctx context.Context, accountID string, link domain.TenantLink) error {
	return m.Called(ctx, accountID, link).Error(0)
}

func strPtr(s string) *string {
	return &s
}

func vendedor(tenant *string) domain.Identity {
	return domain.Identity{AccountID: "u-1", Username: "ana", Role: domain.RoleVendedor, TenantID: tenant}
}

func office(role domain.Role) domain.Identity {
	return domain.Identity{AccountID: "u-9", Username: "jefe", Role: role}
}

type mockTenantRepo struct {
	mock.Mock
}

func (m *mockTenantRepo) Config(ctx context.Context, id string) (domain.TenantConfig, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.TenantConfig), args.Error(1)
}

func (m *mockTenantRepo) List(ctx context.Context) ([]domain.Tenant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Tenant), args.Error(1)
}

func (m *mockTenantRepo) Create(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error) {
	args := m.Called(ctx, tenant)
	return args.Get(0).(domain.Tenant), args.Error(1)
}

func (m *mockTenantRepo) Update(ctx context.Context, id string, patch domain.TenantPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *mockTenantRepo) PriceSchemes(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *mockTenantRepo) PayoutSchemes(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	return args.Get(0).(json.RawMessage), args.Error(1)
}

type mockPrizeRepo struct {
	mock.Mock
}

func (m *mockPrizeRepo) Register(ctx context.Context, roundID string, q1, q2, q3 int) (json.RawMessage, error) {
	args := m.Called(ctx, roundID, q1, q2, q3)
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *mockPrizeRepo) Activate(ctx context.Context, roundID string) (json.RawMessage, error) {
	args := m.Called(ctx, roundID)
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *mockPrizeRepo) List(ctx context.Context, date, lotteryID string) (json.RawMessage, error) {
	args := m.Called(ctx, date, lotteryID)
	return args.Get(0).(json.RawMessage), args.Error(1)
}
