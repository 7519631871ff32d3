package service

import (
	"context"
	"encoding/json"
	"fmt"
)

type PrizeRepository interface {
	Register(ctx context.Context, roundID string, q1, q2, q3 int) (json.RawMessage, error)
	Activate(ctx context.Context, roundID string) (json.RawMessage, error)
	List(ctx context.Context, date, lotteryID string) (json.RawMessage, error)
}

type PrizeService struct {
	repo PrizeRepository
}

func NewPrizeService(repo PrizeRepository) *PrizeService {
	return &PrizeService{
		repo: repo,
	}
}

func (s *PrizeService) Register(ctx context.Context, roundID string, q1, q2, q3 int) (json.RawMessage, error) {
	out, err := s.repo.Register(ctx, roundID, q1, q2, q3)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Register -> %w", err)
	}

	return out, nil
}

func (s *PrizeService) Activate(ctx context.Context, roundID string) (json.RawMessage, error) {
	out, err := s.repo.Activate(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Activate -> %w", err)
	}

	return out, nil
}

func (s *PrizeService) List(ctx context.Context, date, lotteryID string) (json.RawMessage, error) {
	prizes, err := s.repo.List(ctx, date, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return prizes, nil
}
