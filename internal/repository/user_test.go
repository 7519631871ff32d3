package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/repository/dao"
)

type mockUserDAO struct {
	mock.Mock
}

func (m *mockUserDAO) FindByUsername(ctx context.Context, username string) (dao.UserWithTenant, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(dao.UserWithTenant), args.Error(1)
}

func (m *mockUserDAO) FindByID(ctx context.Context, id string) (dao.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(dao.User), args.Error(1)
}

func (m *mockUserDAO) Insert(ctx context.Context, user dao.User) (dao.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(dao.User), args.Error(1)
}

func (m *mockUserDAO) Update(ctx context.Context, id string, fields map[string]any) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *mockUserDAO) List(ctx context.Context) ([]dao.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]dao.User), args.Error(1)
}

func (m *mockUserDAO) ListTenantLinks(ctx context.Context) ([]dao.UserTenantLink, error) {
	args := m.Called(ctx)
	return args.Get(0).([]dao.UserTenantLink), args.Error(1)
}

func (m *mockUserDAO) UpsertTenant(ctx context.Context, link dao.UserTenant) error {
	return m.Called(ctx, link).Error(0)
}

func TestUserRepository_FindByUsernameCarriesFirstTenant(t *testing.T) {
	d := new(mockUserDAO)
	tenant := "b-1"
	name := "Ana"
	d.On("FindByUsername", mock.Anything, "ana").Return(dao.UserWithTenant{
		User:    dao.User{ID: "u-1", Username: "ana", Nombre: &name, Rol: "vendedor", Activo: true},
		BancaID: &tenant,
	}, nil)

	account, err := NewUserRepository(d).FindByUsername(context.Background(), "ana")

	require.NoError(t, err)
	assert.Equal(t, domain.RoleVendedor, account.Role)
	assert.Equal(t, "Ana", account.Name)
	require.NotNil(t, account.TenantID)
	assert.Equal(t, "b-1", *account.TenantID)
	d.AssertExpectations(t)
}

func TestUserRepository_FindByUsernameNotFound(t *testing.T) {
	d := new(mockUserDAO)
	d.On("FindByUsername", mock.Anything, "nadie").Return(dao.UserWithTenant{}, dao.ErrUserNotFound)

	_, err := NewUserRepository(d).FindByUsername(context.Background(), "nadie")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_UpdateOnlySetFields(t *testing.T) {
	d := new(mockUserDAO)
	active := false
	d.On("Update", mock.Anything, "u-1", map[string]any{"activo": false}).Return(nil)

	err := NewUserRepository(d).Update(context.Background(), "u-1", domain.AccountPatch{Active: &active})

	require.NoError(t, err)
	d.AssertExpectations(t)
}

func TestUserRepository_ListMergesTenantLinks(t *testing.T) {
	d := new(mockUserDAO)
	d.On("List", mock.Anything).Return([]dao.User{
		{ID: "u-1", Username: "ana", Rol: "vendedor"},
		{ID: "u-2", Username: "root", Rol: "admin"},
	}, nil)
	d.On("ListTenantLinks", mock.Anything).Return([]dao.UserTenantLink{
		{UsuarioID: "u-1", BancaID: "b-1", Banca: "La Suerte", Modalidad: "Q"},
		{UsuarioID: "u-1", BancaID: "b-1", Banca: "La Suerte", Modalidad: "P"},
	}, nil)

	accounts, err := NewUserRepository(d).List(context.Background())

	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Len(t, accounts[0].Tenants, 2)
	assert.Empty(t, accounts[1].Tenants)
}
