package dao

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserUsernameExists  = errors.New("username already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrTenantCodeExists    = errors.New("banca code already exists")
	ErrTenantNotFound      = errors.New("banca not found")
	ErrLotteryCodeExists   = errors.New("lottery code already exists")
	ErrRoundNotFound       = errors.New("round not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrForeignKeyViolation = errors.New("referenced row does not exist")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}
