package repository

import (
	"context"
	"encoding/json"
	"fmt"
)

type PrizeDAO interface {
	Register(ctx context.Context, roundID string, q1, q2, q3 int) ([]byte, error)
	Activate(ctx context.Context, roundID string) ([]byte, error)
	List(ctx context.Context, date, lotteryID string) ([]byte, error)
}

type PrizeRepository struct {
	dao PrizeDAO
}

func NewPrizeRepository(dao PrizeDAO) *PrizeRepository {
	return &PrizeRepository{
		dao: dao,
	}
}

func (r *PrizeRepository) Register(ctx context.Context, roundID string, q1, q2, q3 int) (json.RawMessage, error) {
	raw, err := r.dao.Register(ctx, roundID, q1, q2, q3)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Register -> %w", err)
	}
	if raw == nil {
		return nil, ErrRoundNotFound
	}

	return rejectIfNotOK(raw)
}

func (r *PrizeRepository) Activate(ctx context.Context, roundID string) (json.RawMessage, error) {
	raw, err := r.dao.Activate(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Activate -> %w", err)
	}
	if raw == nil {
		return nil, ErrRoundNotFound
	}

	return rejectIfNotOK(raw)
}

func (r *PrizeRepository) List(ctx context.Context, date, lotteryID string) (json.RawMessage, error) {
	raw, err := r.dao.List(ctx, date, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	return raw, nil
}
