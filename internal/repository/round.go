package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/repository/dao"
)

var ErrRoundNotFound = dao.ErrRoundNotFound

type RoundDAO interface {
	Generate(ctx context.Context, date string) ([]byte, error)
	Open(ctx context.Context, date string) ([]byte, error)
	Incomplete(ctx context.Context) ([]byte, error)
	List(ctx context.Context, date string) ([]byte, error)
	Close(ctx context.Context, id string) ([]byte, error)
	Reopen(ctx context.Context, id string) ([]byte, error)
	Update(ctx context.Context, id string, status, opensAt, closesAt *string) error
}

type RoundRepository struct {
	dao RoundDAO
}

func NewRoundRepository(dao RoundDAO) *RoundRepository {
	return &RoundRepository{
		dao: dao,
	}
}

// Generate runs generar_jornadas and returns both the decoded report and the raw document.
func (r *RoundRepository) Generate(ctx context.Context, date string) (domain.GenerationReport, json.RawMessage, error) {
	raw, err := r.dao.Generate(ctx, date)
	if err != nil {
		return domain.GenerationReport{}, nil, fmt.Errorf("r.dao.Generate -> %w", err)
	}

	var report domain.GenerationReport
	if err = json.Unmarshal(raw, &report); err != nil {
		return domain.GenerationReport{}, nil, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return report, raw, nil
}

func (r *RoundRepository) Open(ctx context.Context, date string) (json.RawMessage, error) {
	raw, err := r.dao.Open(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Open -> %w", err)
	}

	return raw, nil
}

func (r *RoundRepository) Incomplete(ctx context.Context) (json.RawMessage, error) {
	raw, err := r.dao.Incomplete(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Incomplete -> %w", err)
	}

	return raw, nil
}

func (r *RoundRepository) List(ctx context.Context, date string) (json.RawMessage, error) {
	raw, err := r.dao.List(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	return raw, nil
}

func (r *RoundRepository) Close(ctx context.Context, id string) (json.RawMessage, error) {
	raw, err := r.dao.Close(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Close -> %w", err)
	}
	if raw == nil {
		return nil, ErrRoundNotFound
	}

	return rejectIfNotOK(raw)
}

func (r *RoundRepository) Reopen(ctx context.Context, id string) (json.RawMessage, error) {
	raw, err := r.dao.Reopen(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Reopen -> %w", err)
	}
	if raw == nil {
		return nil, ErrRoundNotFound
	}

	return rejectIfNotOK(raw)
}

func (r *RoundRepository) Update(ctx context.Context, id string, patch domain.RoundPatch) error {
	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}

	if err := r.dao.Update(ctx, id, status, patch.OpensAt, patch.ClosesAt); err != nil {
		return fmt.Errorf("r.dao.Update -> %w", err)
	}

	return nil
}
