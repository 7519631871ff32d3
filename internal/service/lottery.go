package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/repository"
)

var ErrLotteryCodeExists = repository.ErrLotteryCodeExists

type LotteryRepository interface {
	List(ctx context.Context) ([]domain.Lottery, error)
	Create(ctx context.Context, lottery domain.Lottery) (domain.Lottery, error)
}

type LotteryService struct {
	repo LotteryRepository
}

func NewLotteryService(repo LotteryRepository) *LotteryService {
	return &LotteryService{
		repo: repo,
	}
}

func (s *LotteryService) List(ctx context.Context) ([]domain.Lottery, error) {
	lotteries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return lotteries, nil
}

func (s *LotteryService) Create(ctx context.Context, lottery domain.Lottery) (domain.Lottery, error) {
	lottery.Code = strings.ToUpper(strings.TrimSpace(lottery.Code))
	if lottery.Timezone == "" {
		lottery.Timezone = domain.DefaultLotteryTimezone
	}

	created, err := s.repo.Create(ctx, lottery)
	if err != nil {
		return domain.Lottery{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}
