package dao

import (
	"context"

	"gorm.io/gorm"
)

type PrizeDAO struct {
	db *gorm.DB
}

func NewPrizeDAO(db *gorm.DB) *PrizeDAO {
	return &PrizeDAO{
		db: db,
	}
}

// Register stores the winning numbers without activating them.
func (d *PrizeDAO) Register(ctx context.Context, roundID string, q1, q2, q3 int) ([]byte, error) {
	return callJSON(ctx, d.db, nil, "SELECT registrar_premio(?, ?, ?, ?)", roundID, q1, q2, q3)
}

// Activate makes the prize effective, which lets the engine compute winners.
func (d *PrizeDAO) Activate(ctx context.Context, roundID string) ([]byte, error) {
	return callJSON(ctx, d.db, nil, "SELECT activar_premio(?)", roundID)
}

const prizeListQuery = `SELECT p.id, p.jornada_id, p.q1, p.q2, p.q3, p.activo, p.created_at,
       j.fecha, j.hora_inicio, j.hora_cierre, j.estado AS jornada_estado,
       l.nombre AS loteria
FROM premios p
JOIN jornadas j ON j.id = p.jornada_id
JOIN loterias l ON l.id = j.loteria_id
WHERE (?::date IS NULL OR j.fecha = ?::date)
  AND (?::uuid IS NULL OR j.loteria_id = ?::uuid)
ORDER BY j.fecha DESC, j.hora_cierre`

func (d *PrizeDAO) List(ctx context.Context, date, lotteryID string) ([]byte, error) {
	day, lottery := nullable(date), nullable(lotteryID)
	return callJSON(ctx, d.db, emptyArray, aggregateJSON(prizeListQuery), day, day, lottery, lottery)
}
