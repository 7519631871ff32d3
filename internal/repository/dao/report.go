package dao

import (
	"context"

	"gorm.io/gorm"
)

type ReportDAO struct {
	db *gorm.DB
}

func NewReportDAO(db *gorm.DB) *ReportDAO {
	return &ReportDAO{
		db: db,
	}
}

func (d *ReportDAO) Winners(ctx context.Context, date, lotteryID string) ([]byte, error) {
	return callJSON(ctx, d.db, emptyArray, "SELECT ganadores_del_dia(?::date, ?::uuid)", nullable(date), nullable(lotteryID))
}

func (d *ReportDAO) DailySummary(ctx context.Context, date string) ([]byte, error) {
	return callJSON(ctx, d.db, emptyObject, "SELECT resumen_admin_dia(?::date)", nullable(date))
}

const tenantSummaryQuery = `SELECT
  COUNT(t.id) FILTER (WHERE t.anulado = false) AS total_tickets,
  COUNT(t.id) FILTER (WHERE t.anulado = true)  AS tickets_anulados,
  COALESCE(SUM(t.total_monto) FILTER (WHERE t.anulado = false), 0) AS total_venta,
  COALESCE(SUM(g.monto), 0) AS total_premios,
  COALESCE(SUM(t.total_monto) FILTER (WHERE t.anulado = false), 0)
    - COALESCE(SUM(g.monto), 0) AS resultado,
  COUNT(g.id) FILTER (WHERE g.pagado = false AND g.id IS NOT NULL) AS premios_pendientes
FROM tickets t
LEFT JOIN ganadores_loteria g ON g.ticket_id = t.id
WHERE t.banca_id = ?
  AND (?::date IS NULL OR t.fecha = ?::date)`

const tenantByModalityQuery = `SELECT
  td.modalidad,
  COUNT(DISTINCT t.id) AS tickets,
  SUM(td.cantidad)     AS jugadas,
  COALESCE(SUM(td.monto), 0) AS monto_total
FROM ticket_detalles td
JOIN tickets t ON t.id = td.ticket_id
WHERE t.banca_id = ?
  AND t.anulado = false
  AND (?::date IS NULL OR t.fecha = ?::date)
GROUP BY td.modalidad
ORDER BY td.modalidad`

// TenantReport returns the summary row (nil when absent) and the per-modality rows.
func (d *ReportDAO) TenantReport(ctx context.Context, tenantID, date string) ([]byte, []byte, error) {
	day := nullable(date)

	summary, err := callJSON(ctx, d.db, nil, rowJSON(tenantSummaryQuery), tenantID, day, day)
	if err != nil {
		return nil, nil, err
	}

	byModality, err := callJSON(ctx, d.db, emptyArray, aggregateJSON(tenantByModalityQuery), tenantID, day, day)
	if err != nil {
		return nil, nil, err
	}

	return summary, byModality, nil
}

const exposureGlobalQuery = `SELECT modalidad, numero, monto_acumulado
FROM exposicion_global
WHERE jornada_id = ?
ORDER BY monto_acumulado DESC`

const exposureByTenantQuery = `SELECT b.nombre AS banca, eb.modalidad, eb.numero, eb.monto_acumulado
FROM exposicion_banca eb
JOIN bancas b ON b.id = eb.banca_id
WHERE eb.jornada_id = ?
ORDER BY eb.monto_acumulado DESC`

func (d *ReportDAO) Exposure(ctx context.Context, roundID string) ([]byte, []byte, error) {
	global, err := callJSON(ctx, d.db, emptyArray, aggregateJSON(exposureGlobalQuery), roundID)
	if err != nil {
		return nil, nil, err
	}

	byTenant, err := callJSON(ctx, d.db, emptyArray, aggregateJSON(exposureByTenantQuery), roundID)
	if err != nil {
		return nil, nil, err
	}

	return global, byTenant, nil
}
