package repository

import (
	"context"
	"fmt"

	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/repository/dao"
)

var (
	ErrUserUsernameExists = dao.ErrUserUsernameExists
	ErrUserNotFound       = dao.ErrUserNotFound
	ErrReferenceNotFound  = dao.ErrForeignKeyViolation
)

type UserDAO interface {
	FindByUsername(ctx context.Context, username string) (dao.UserWithTenant, error)
	FindByID(ctx context.Context, id string) (dao.User, error)
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	List(ctx context.Context) ([]dao.User, error)
	ListTenantLinks(ctx context.Context) ([]dao.UserTenantLink, error)
	UpsertTenant(ctx context.Context, link dao.UserTenant) error
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

// FindByUsername returns the account with its first banca as TenantID.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.Account, error) {
	found, err := r.dao.FindByUsername(ctx, username)
	if err != nil {
		return domain.Account{}, fmt.Errorf("r.dao.FindByUsername -> %w", err)
	}

	account := r.daoToDomain(found.User)
	account.TenantID = found.BancaID

	return account, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.Account, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

// Create stores account. account.Password must already be hashed.
func (r *UserRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	var name *string
	if account.Name != "" {
		name = &account.Name
	}

	created, err := r.dao.Insert(ctx, dao.User{
		Username: account.Username,
		Password: account.Password,
		Nombre:   name,
		Rol:      string(account.Role),
		Activo:   true,
	})
	if err != nil {
		return domain.Account{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

// Update applies patch. patch.Password must already be hashed.
func (r *UserRepository) Update(ctx context.Context, id string, patch domain.AccountPatch) error {
	fields := make(map[string]any, 4)
	if patch.Name != nil {
		fields["nombre"] = *patch.Name
	}
	if patch.Role != nil {
		fields["rol"] = string(*patch.Role)
	}
	if patch.Active != nil {
		fields["activo"] = *patch.Active
	}
	if patch.Password != nil {
		fields["password"] = *patch.Password
	}

	if err := r.dao.Update(ctx, id, fields); err != nil {
		return fmt.Errorf("r.dao.Update -> %w", err)
	}

	return nil
}

// List returns every account with its banca assignments.
func (r *UserRepository) List(ctx context.Context) ([]domain.Account, error) {
	users, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	links, err := r.dao.ListTenantLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListTenantLinks -> %w", err)
	}

	byUser := make(map[string][]domain.TenantLink, len(users))
	for _, l := range links {
		byUser[l.UsuarioID] = append(byUser[l.UsuarioID], domain.TenantLink{
			TenantID:   l.BancaID,
			TenantName: l.Banca,
			Modality:   l.Modalidad,
			GrossPct:   l.PorcentajeBruto,
			NetPct:     l.PorcentajeNeto,
		})
	}

	accounts := make([]domain.Account, 0, len(users))
	for _, u := range users {
		account := r.daoToDomain(u)
		account.Tenants = byUser[u.ID]
		accounts = append(accounts, account)
	}

	return accounts, nil
}

func (r *UserRepository) AssignTenant(ctx context.Context, accountID string, link domain.TenantLink) error {
	err := r.dao.UpsertTenant(ctx, dao.UserTenant{
		UsuarioID:       accountID,
		BancaID:         link.TenantID,
		Modalidad:       link.Modality,
		PorcentajeBruto: link.GrossPct,
		PorcentajeNeto:  link.NetPct,
	})
	if err != nil {
		return fmt.Errorf("r.dao.UpsertTenant -> %w", err)
	}

	return nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.Account {
	var name string
	if u.Nombre != nil {
		name = *u.Nombre
	}

	return domain.Account{
		ID:        u.ID,
		Username:  u.Username,
		Password:  u.Password,
		Name:      name,
		Role:      domain.Role(u.Rol),
		Active:    u.Activo,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
