package repository

import (
	"context"
	"fmt"

	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/repository/dao"
)

var ErrLotteryCodeExists = dao.ErrLotteryCodeExists

type LotteryDAO interface {
	List(ctx context.Context) ([]dao.LotteryWithSchedule, error)
	Insert(ctx context.Context, lottery dao.Lottery, schedule *dao.LotterySchedule) (dao.Lottery, error)
}

type LotteryRepository struct {
	dao LotteryDAO
}

func NewLotteryRepository(dao LotteryDAO) *LotteryRepository {
	return &LotteryRepository{
		dao: dao,
	}
}

func (r *LotteryRepository) List(ctx context.Context) ([]domain.Lottery, error) {
	rows, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	lotteries := make([]domain.Lottery, 0, len(rows))
	for _, row := range rows {
		l := r.daoToDomain(row.Lottery)
		l.OpensAt = row.HoraInicio
		l.ClosesAt = row.HoraCierre
		lotteries = append(lotteries, l)
	}

	return lotteries, nil
}

// Create stores the lottery; the schedule is saved only when both times are set.
func (r *LotteryRepository) Create(ctx context.Context, lottery domain.Lottery) (domain.Lottery, error) {
	var schedule *dao.LotterySchedule
	if lottery.OpensAt != nil && lottery.ClosesAt != nil {
		schedule = &dao.LotterySchedule{
			HoraInicio: *lottery.OpensAt,
			HoraCierre: *lottery.ClosesAt,
		}
	}

	created, err := r.dao.Insert(ctx, dao.Lottery{
		Nombre:      lottery.Name,
		Codigo:      lottery.Code,
		ZonaHoraria: lottery.Timezone,
		Orden:       lottery.Order,
	}, schedule)
	if err != nil {
		return domain.Lottery{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	out := r.daoToDomain(created)
	if schedule != nil {
		out.OpensAt = lottery.OpensAt
		out.ClosesAt = lottery.ClosesAt
	}

	return out, nil
}

func (r *LotteryRepository) daoToDomain(l dao.Lottery) domain.Lottery {
	return domain.Lottery{
		ID:       l.ID,
		Name:     l.Nombre,
		Code:     l.Codigo,
		Timezone: l.ZonaHoraria,
		Order:    l.Orden,
	}
}
