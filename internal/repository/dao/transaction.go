package dao

import (
	"context"

	"gorm.io/gorm"
)

type atomicKey struct{}

// Atomic runs a unit of work inside one database transaction on a dedicated
// pooled connection. The unit commits when work returns nil and rolls back on
// any error or panic. The connection goes back to the pool on every path.
type Atomic struct {
	db *gorm.DB
}

func NewAtomic(db *gorm.DB) *Atomic {
	return &Atomic{
		db: db,
	}
}

// InAtomic reports whether ctx belongs to a running unit.
func InAtomic(ctx context.Context) bool {
	return ctx.Value(atomicKey{}) != nil
}

// Run executes work in a transaction. Starting a unit from inside another unit
// is a programming error and panics.
//
// Once BEGIN has been issued, cancellation of the caller's context no longer
// aborts the unit: it either commits or rolls back on its own terms.
func (a *Atomic) Run(ctx context.Context, work func(ctx context.Context, tx *gorm.DB) error) error {
	if InAtomic(ctx) {
		panic("dao: nested atomic unit")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	unitCtx := context.WithValue(context.WithoutCancel(ctx), atomicKey{}, struct{}{})

	return a.db.WithContext(unitCtx).Transaction(func(tx *gorm.DB) error {
		return work(unitCtx, tx)
	})
}
