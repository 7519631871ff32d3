package dao

import (
	"context"

	"gorm.io/gorm"
)

type RoundDAO struct {
	db *gorm.DB
}

func NewRoundDAO(db *gorm.DB) *RoundDAO {
	return &RoundDAO{
		db: db,
	}
}

// Generate calls generar_jornadas. The function is idempotent; an empty date
// lets the engine pick today in its own timezone.
func (d *RoundDAO) Generate(ctx context.Context, date string) ([]byte, error) {
	return callJSON(ctx, d.db, emptyObject, "SELECT generar_jornadas(?::date)", nullable(date))
}

func (d *RoundDAO) Open(ctx context.Context, date string) ([]byte, error) {
	return callJSON(ctx, d.db, emptyArray, "SELECT jornadas_abiertas(?::date)", nullable(date))
}

func (d *RoundDAO) Incomplete(ctx context.Context) ([]byte, error) {
	return callJSON(ctx, d.db, emptyArray, "SELECT jornadas_incompletas()")
}

const roundListQuery = `SELECT j.id, j.fecha, j.hora_inicio, j.hora_cierre, j.estado,
       l.nombre AS loteria, l.zona_horaria,
       COUNT(t.id) FILTER (WHERE t.anulado = false) AS total_tickets,
       COALESCE(SUM(t.total_monto) FILTER (WHERE t.anulado = false), 0) AS total_venta,
       p.q1, p.q2, p.q3, p.activo AS premio_activo
FROM jornadas j
JOIN loterias l ON l.id = j.loteria_id
LEFT JOIN tickets t ON t.jornada_id = j.id
LEFT JOIN premios p ON p.jornada_id = j.id
WHERE (?::date IS NULL OR j.fecha = ?::date)
GROUP BY j.id, l.nombre, l.zona_horaria, p.q1, p.q2, p.q3, p.activo
ORDER BY j.fecha DESC, j.hora_inicio`

func (d *RoundDAO) List(ctx context.Context, date string) ([]byte, error) {
	day := nullable(date)
	return callJSON(ctx, d.db, emptyArray, aggregateJSON(roundListQuery), day, day)
}

func (d *RoundDAO) Close(ctx context.Context, id string) ([]byte, error) {
	return callJSON(ctx, d.db, nil, "SELECT cerrar_jornada(?)", id)
}

func (d *RoundDAO) Reopen(ctx context.Context, id string) ([]byte, error) {
	return callJSON(ctx, d.db, nil, "SELECT reabrir_jornada(?)", id)
}

// Update changes status and/or betting window. Nil arguments keep the stored value.
func (d *RoundDAO) Update(ctx context.Context, id string, status, opensAt, closesAt *string) error {
	result := d.db.WithContext(ctx).Exec(
		`UPDATE jornadas SET
		   estado      = COALESCE(?, estado),
		   hora_inicio = COALESCE(?::time, hora_inicio),
		   hora_cierre = COALESCE(?::time, hora_cierre)
		 WHERE id = ?`, status, opensAt, closesAt, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRoundNotFound
	}

	return nil
}
