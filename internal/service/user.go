package service

import (
	"context"
	"fmt"

	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/repository"
)

var (
	ErrUserNotFound       = repository.ErrUserNotFound
	ErrUserUsernameExists = repository.ErrUserUsernameExists
	ErrReferenceNotFound  = repository.ErrReferenceNotFound
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.Account, error)
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	Update(ctx context.Context, id string, patch domain.AccountPatch) error
	List(ctx context.Context) ([]domain.Account, error)
	AssignTenant(ctx context.Context, accountID string, link domain.TenantLink) error
}

// UserService administers accounts. Accounts are deactivated, never deleted.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return accounts, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (domain.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return account, nil
}

// Create stores a new account; account.Password is the plain password.
func (s *UserService) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	hashed, err := hashPassword(account.Password)
	if err != nil {
		return domain.Account{}, fmt.Errorf("hashPassword -> %w", err)
	}
	account.Username = domain.NormalizeUsername(account.Username)
	account.Password = hashed

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return domain.Account{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Update applies patch; a non-nil patch.Password is the plain password.
func (s *UserService) Update(ctx context.Context, id string, patch domain.AccountPatch) error {
	if patch.Password != nil {
		hashed, err := hashPassword(*patch.Password)
		if err != nil {
			return fmt.Errorf("hashPassword -> %w", err)
		}
		patch.Password = &hashed
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	return nil
}

func (s *UserService) AssignTenant(ctx context.Context, accountID string, link domain.TenantLink) error {
	if err := s.repo.AssignTenant(ctx, accountID, link); err != nil {
		return fmt.Errorf("s.repo.AssignTenant -> %w", err)
	}

	return nil
}
