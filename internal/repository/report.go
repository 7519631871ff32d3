package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/superbett/bancas-api/internal/domain"
)

type ReportDAO interface {
	Winners(ctx context.Context, date, lotteryID string) ([]byte, error)
	DailySummary(ctx context.Context, date string) ([]byte, error)
	TenantReport(ctx context.Context, tenantID, date string) ([]byte, []byte, error)
	Exposure(ctx context.Context, roundID string) ([]byte, []byte, error)
}

type ReportRepository struct {
	dao ReportDAO
}

func NewReportRepository(dao ReportDAO) *ReportRepository {
	return &ReportRepository{
		dao: dao,
	}
}

func (r *ReportRepository) Winners(ctx context.Context, date, lotteryID string) (json.RawMessage, error) {
	raw, err := r.dao.Winners(ctx, date, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Winners -> %w", err)
	}

	return raw, nil
}

func (r *ReportRepository) DailySummary(ctx context.Context, date string) (json.RawMessage, error) {
	raw, err := r.dao.DailySummary(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("r.dao.DailySummary -> %w", err)
	}

	return raw, nil
}

func (r *ReportRepository) TenantReport(ctx context.Context, tenantID, date string) (domain.TenantReport, error) {
	summary, byModality, err := r.dao.TenantReport(ctx, tenantID, date)
	if err != nil {
		return domain.TenantReport{}, fmt.Errorf("r.dao.TenantReport -> %w", err)
	}
	if summary == nil {
		summary = domain.EmptyTenantSummary
	}

	return domain.TenantReport{Summary: summary, ByModality: byModality}, nil
}

func (r *ReportRepository) Exposure(ctx context.Context, roundID string) (domain.Exposure, error) {
	global, byTenant, err := r.dao.Exposure(ctx, roundID)
	if err != nil {
		return domain.Exposure{}, fmt.Errorf("r.dao.Exposure -> %w", err)
	}

	return domain.Exposure{Global: global, ByTenant: byTenant}, nil
}
