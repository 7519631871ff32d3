package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/superbett/bancas-api/internal/api/middleware"
	"github.com/superbett/bancas-api/internal/domain"
)

const (
	tenantA  = "6a1f7c2e-0d4b-4e8a-9c3f-2b5d7e9f1a30"
	tenantB  = "c3d4e5f6-a7b8-4c9d-8e0f-1a2b3c4d5e6f"
	roundOne = "0b6c3f0e-8f3a-4c43-9d0a-6f7b8a1c2d3e"
	roundTwo = "5d1e2f3a-4b5c-4d6e-8f70-8192a3b4c5d6"
	ticketID = "9e8d7c6b-5a49-4382-a716-5f4e3d2c1b0a"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// staticParser accepts any token and returns the configured identity.
type staticParser struct {
	id domain.Identity
}

func (p staticParser) Parse(string) (domain.Identity, error) {
	return p.id, nil
}

func vendedor(tenant string) domain.Identity {
	return domain.Identity{AccountID: "u-vend", Username: "vend", Role: domain.RoleVendedor, TenantID: &tenant}
}

func office(role domain.Role) domain.Identity {
	return domain.Identity{AccountID: "u-" + string(role), Username: string(role), Role: role}
}

func authed(id domain.Identity) gin.HandlerFunc {
	return middleware.NewAuthenticator(staticParser{id: id}).VerifyJWT()
}

func call(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer token")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

type mockTicketService struct {
	mock.Mock
}

func (m *mockTicketService) CreateTicket(ctx context.Context, caller domain.Identity, order domain.TicketOrder) (domain.Outcome, error) {
	args := m.Called(ctx, caller, order)
	return args.Get(0).(domain.Outcome), args.Error(1)
}

func (m *mockTicketService) CreateSuperPale(ctx context.Context, caller domain.Identity, order domain.SuperPaleOrder) (domain.Outcome, error) {
	args := m.Called(ctx, caller, order)
	return args.Get(0).(domain.Outcome), args.Error(1)
}

func (m *mockTicketService) VoidTicket(ctx context.Context, caller domain.Identity, id string) (domain.Outcome, error) {
	args := m.Called(ctx, caller, id)
	return args.Get(0).(domain.Outcome), args.Error(1)
}

func (m *mockTicketService) PayTicket(ctx context.Context, caller domain.Identity, id string) (domain.Outcome, error) {
	args := m.Called(ctx, caller, id)
	return args.Get(0).(domain.Outcome), args.Error(1)
}

func (m *mockTicketService) LookupTicket(ctx context.Context, caller domain.Identity, number string) (json.RawMessage, error) {
	args := m.Called(ctx, caller, number)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *mockTicketService) SalesList(ctx context.Context, caller domain.Identity, tenant, date, lotteryID string) (domain.SalesList, error) {
	args := m.Called(ctx, caller, tenant, date, lotteryID)
	return args.Get(0).(domain.SalesList), args.Error(1)
}

type mockRoundService struct {
	mock.Mock
}

func (m *mockRoundService) Generate(ctx context.Context, date string) (domain.GenerationReport, json.RawMessage, error) {
	args := m.Called(ctx, date)
	raw, _ := args.Get(1).(json.RawMessage)
	return args.Get(0).(domain.GenerationReport), raw, args.Error(2)
}

func (m *mockRoundService) Open(ctx context.Context, date string) (json.RawMessage, error) {
	args := m.Called(ctx, date)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *mockRoundService) Incomplete(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *mockRoundService) List(ctx context.Context, date string) (json.RawMessage, error) {
	args := m.Called(ctx, date)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *mockRoundService) Close(ctx context.Context, id string) (json.RawMessage, error) {
	args := m.Called(ctx, id)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *mockRoundService) Reopen(ctx context.Context, id string) (json.RawMessage, error) {
	args := m.Called(ctx, id)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *mockRoundService) Update(ctx context.Context, caller domain.Identity, id string, patch domain.RoundPatch) error {
	return m.Called(ctx, caller, id, patch).Error(0)
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Login(ctx context.Context, username, password string, trusted bool) (string, domain.Identity, error) {
	args := m.Called(ctx, username, password, trusted)
	return args.String(0), args.Get(1).(domain.Identity), args.Error(2)
}

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) Allow(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

var errBoom = errors.New("pq: relation \"tickets\" does not exist")
