package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/repository"
)

// ErrInvalidCredentials is returned for an unknown username, a deactivated
// account and a wrong password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

const passwordCost = bcrypt.DefaultCost

type AuthAccountRepository interface {
	FindByUsername(ctx context.Context, username string) (domain.Account, error)
}

type TokenSigner interface {
	Sign(id domain.Identity, trusted bool) (string, domain.Identity, error)
}

type AuthService struct {
	repo   AuthAccountRepository
	signer TokenSigner
}

func NewAuthService(repo AuthAccountRepository, signer TokenSigner) *AuthService {
	return &AuthService{
		repo:   repo,
		signer: signer,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// spendCompare burns the same bcrypt work a real comparison would.
func spendCompare(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), passwordCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Login verifies username and password and issues a session token. trusted
// selects the longer token lifetime when one is configured.
func (s *AuthService) Login(ctx context.Context, username, password string, trusted bool) (string, domain.Identity, error) {
	account, err := s.repo.FindByUsername(ctx, domain.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			spendCompare(password)
			return "", domain.Identity{}, ErrInvalidCredentials
		}

		return "", domain.Identity{}, fmt.Errorf("s.repo.FindByUsername -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return "", domain.Identity{}, ErrInvalidCredentials
	}
	if !account.Active {
		return "", domain.Identity{}, ErrInvalidCredentials
	}

	role, err := domain.ParseRole(string(account.Role))
	if err != nil {
		zap.L().Warn("account has an unknown role", zap.String("account_id", account.ID), zap.String("rol", string(account.Role)))
		return "", domain.Identity{}, ErrInvalidCredentials
	}

	token, identity, err := s.signer.Sign(domain.Identity{
		AccountID: account.ID,
		Username:  account.Username,
		Name:      account.Name,
		Role:      role,
		TenantID:  account.TenantID,
	}, trusted)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("s.signer.Sign -> %w", err)
	}

	return token, identity, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
