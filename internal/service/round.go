package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/repository"
)

var (
	ErrRoundNotFound       = repository.ErrRoundNotFound
	ErrReopenRequiresAdmin = errors.New("only an admin can reopen a jornada")
)

type RoundRepository interface {
	Generate(ctx context.Context, date string) (domain.GenerationReport, json.RawMessage, error)
	Open(ctx context.Context, date string) (json.RawMessage, error)
	Incomplete(ctx context.Context) (json.RawMessage, error)
	List(ctx context.Context, date string) (json.RawMessage, error)
	Close(ctx context.Context, id string) (json.RawMessage, error)
	Reopen(ctx context.Context, id string) (json.RawMessage, error)
	Update(ctx context.Context, id string, patch domain.RoundPatch) error
}

type RoundService struct {
	repo RoundRepository
}

func NewRoundService(repo RoundRepository) *RoundService {
	return &RoundService{
		repo: repo,
	}
}

// Generate creates the day's jornadas. It is idempotent; an empty date lets
// the data engine pick today.
func (s *RoundService) Generate(ctx context.Context, date string) (domain.GenerationReport, json.RawMessage, error) {
	report, raw, err := s.repo.Generate(ctx, date)
	if err != nil {
		return domain.GenerationReport{}, nil, fmt.Errorf("s.repo.Generate -> %w", err)
	}

	return report, raw, nil
}

func (s *RoundService) Open(ctx context.Context, date string) (json.RawMessage, error) {
	rounds, err := s.repo.Open(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Open -> %w", err)
	}

	return rounds, nil
}

func (s *RoundService) Incomplete(ctx context.Context) (json.RawMessage, error) {
	rounds, err := s.repo.Incomplete(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Incomplete -> %w", err)
	}

	return rounds, nil
}

func (s *RoundService) List(ctx context.Context, date string) (json.RawMessage, error) {
	rounds, err := s.repo.List(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return rounds, nil
}

func (s *RoundService) Close(ctx context.Context, id string) (json.RawMessage, error) {
	out, err := s.repo.Close(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Close -> %w", err)
	}

	return out, nil
}

func (s *RoundService) Reopen(ctx context.Context, id string) (json.RawMessage, error) {
	out, err := s.repo.Reopen(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Reopen -> %w", err)
	}

	return out, nil
}

// Update edits status or betting window. Moving a jornada back to abierto is
// a reopen and stays admin-only whichever endpoint is used.
func (s *RoundService) Update(ctx context.Context, caller domain.Identity, id string, patch domain.RoundPatch) error {
	if patch.Reopens() && caller.Role != domain.RoleAdmin {
		return ErrReopenRequiresAdmin
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	return nil
}
