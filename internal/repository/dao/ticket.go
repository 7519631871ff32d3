package dao

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// TicketDAO talks to the ticket functions of the data engine. Writes must run
// on a transaction handle obtained from Atomic.Run and bound with WithTx.
type TicketDAO struct {
	db *gorm.DB
}

func NewTicketDAO(db *gorm.DB) *TicketDAO {
	return &TicketDAO{
		db: db,
	}
}

// WithTx returns a copy bound to tx.
func (d *TicketDAO) WithTx(tx *gorm.DB) *TicketDAO {
	return &TicketDAO{
		db: tx,
	}
}

func (d *TicketDAO) CreateTicket(ctx context.Context, userID, tenantID, roundID string, plays []byte) ([]byte, error) {
	return callJSON(ctx, d.db, nil,
		"SELECT crear_ticket(?, ?, ?, ?::jsonb)",
		userID, tenantID, roundID, string(plays))
}

func (d *TicketDAO) CreateSuperPale(ctx context.Context, userID, tenantID string, roundIDs [2]string, plays []byte) ([]byte, error) {
	return callJSON(ctx, d.db, nil,
		"SELECT crear_super_pale(?, ?, ?::uuid[], ?::jsonb)",
		userID, tenantID, uuidArray(roundIDs[0], roundIDs[1]), string(plays))
}

// LockTicket takes a row lock on the ticket and returns the banca it belongs to.
func (d *TicketDAO) LockTicket(ctx context.Context, ticketID string) (string, error) {
	var tenantID string

	err := d.db.WithContext(ctx).
		Raw("SELECT banca_id FROM tickets WHERE id = ? FOR UPDATE", ticketID).
		Row().Scan(&tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTicketNotFound
		}
		return "", err
	}

	return tenantID, nil
}

func (d *TicketDAO) VoidTicket(ctx context.Context, ticketID string) ([]byte, error) {
	return callJSON(ctx, d.db, nil, "SELECT anular_ticket(?)", ticketID)
}

func (d *TicketDAO) PayTicket(ctx context.Context, ticketID string) ([]byte, error) {
	return callJSON(ctx, d.db, nil, "SELECT pagar_ticket(?)", ticketID)
}

// Lookup returns consultar_ticket for a ticket number. Numbers are case-insensitive.
func (d *TicketDAO) Lookup(ctx context.Context, number string) ([]byte, error) {
	return callJSON(ctx, d.db, nil, "SELECT consultar_ticket(?)", strings.ToUpper(number))
}

func (d *TicketDAO) TenantOfNumber(ctx context.Context, number string) (string, error) {
	var tenantID string

	err := d.db.WithContext(ctx).
		Raw("SELECT banca_id FROM tickets WHERE numero_ticket = ?", strings.ToUpper(number)).
		Row().Scan(&tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTicketNotFound
		}
		return "", err
	}

	return tenantID, nil
}

const salesRegularQuery = `SELECT
  td.modalidad,
  td.numeros AS jugada,
  l.nombre   AS loteria,
  l.id       AS loteria_id,
  SUM(td.cantidad) AS cantidad,
  SUM(td.monto)    AS monto
FROM ticket_detalles td
JOIN tickets t  ON t.id = td.ticket_id
JOIN jornadas j ON j.id = t.jornada_id
JOIN loterias l ON l.id = j.loteria_id
WHERE t.banca_id = ?
  AND t.fecha = ?::date
  AND t.anulado = false
  AND td.modalidad != 'SP'
  AND (?::uuid IS NULL OR j.loteria_id = ?::uuid)
GROUP BY td.modalidad, td.numeros, l.nombre, l.id
ORDER BY td.modalidad, SUM(td.cantidad) DESC`

const salesSuperPaleQuery = `SELECT
  'SP' AS modalidad,
  td.numeros AS jugada,
  string_agg(DISTINCT l.nombre, ' + ' ORDER BY l.nombre) AS loteria,
  SUM(td.cantidad) AS cantidad,
  SUM(td.monto)    AS monto
FROM ticket_detalles td
JOIN tickets t          ON t.id = td.ticket_id
JOIN ticket_loterias tl ON tl.ticket_id = t.id
JOIN loterias l         ON l.id = tl.loteria_id
WHERE t.banca_id = ?
  AND t.fecha = ?::date
  AND t.anulado = false
  AND td.modalidad = 'SP'
GROUP BY td.numeros
ORDER BY SUM(td.cantidad) DESC`

// SalesList is the raw "venta por lista" data for one banca and day.
type SalesList struct {
	Regular   []byte
	SuperPale []byte
	Total     float64
}

func (d *TicketDAO) SalesList(ctx context.Context, tenantID, date, lotteryID string) (SalesList, error) {
	lottery := nullable(lotteryID)

	regular, err := callJSON(ctx, d.db, emptyArray, aggregateJSON(salesRegularQuery), tenantID, date, lottery, lottery)
	if err != nil {
		return SalesList{}, err
	}

	superPale, err := callJSON(ctx, d.db, emptyArray, aggregateJSON(salesSuperPaleQuery), tenantID, date)
	if err != nil {
		return SalesList{}, err
	}

	var total float64
	err = d.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(total_monto), 0)::float8 AS total_general
		 FROM tickets
		 WHERE banca_id = ? AND fecha = ?::date AND anulado = false`, tenantID, date).
		Row().Scan(&total)
	if err != nil {
		return SalesList{}, err
	}

	return SalesList{Regular: regular, SuperPale: superPale, Total: total}, nil
}
