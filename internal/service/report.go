package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/superbett/bancas-api/internal/domain"
)

type ReportRepository interface {
	Winners(ctx context.Context, date, lotteryID string) (json.RawMessage, error)
	DailySummary(ctx context.Context, date string) (json.RawMessage, error)
	TenantReport(ctx context.Context, tenantID, date string) (domain.TenantReport, error)
	Exposure(ctx context.Context, roundID string) (domain.Exposure, error)
}

// ReportService serves read-only reports. An empty date means every day.
type ReportService struct {
	repo ReportRepository
}

func NewReportService(repo ReportRepository) *ReportService {
	return &ReportService{
		repo: repo,
	}
}

func (s *ReportService) Winners(ctx context.Context, filter domain.ReportFilter) (json.RawMessage, error) {
	rows, err := s.repo.Winners(ctx, filter.Date, filter.LotteryID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Winners -> %w", err)
	}

	return rows, nil
}

func (s *ReportService) DailySummary(ctx context.Context, date string) (json.RawMessage, error) {
	rows, err := s.repo.DailySummary(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("s.repo.DailySummary -> %w", err)
	}

	return rows, nil
}

// TenantReport reports on one banca. Office roles must name it; a vendedor
// always gets its own.
func (s *ReportService) TenantReport(ctx context.Context, caller domain.Identity, filter domain.ReportFilter) (domain.TenantReport, error) {
	tenant, err := resolveTenant(caller, filter.TenantID)
	if err != nil {
		return domain.TenantReport{}, err
	}

	report, err := s.repo.TenantReport(ctx, tenant, filter.Date)
	if err != nil {
		return domain.TenantReport{}, fmt.Errorf("s.repo.TenantReport -> %w", err)
	}

	return report, nil
}

func (s *ReportService) Exposure(ctx context.Context, roundID string) (domain.Exposure, error) {
	exposure, err := s.repo.Exposure(ctx, roundID)
	if err != nil {
		return domain.Exposure{}, fmt.Errorf("s.repo.Exposure -> %w", err)
	}

	return exposure, nil
}
