package dao

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	emptyArray  = []byte(`[]`)
	emptyObject = []byte(`{}`)
)

// callJSON runs a query returning a single json/jsonb value, such as a data-engine
// function call, and returns the raw document. A NULL result yields fallback.
func callJSON(ctx context.Context, db *gorm.DB, fallback []byte, query string, args ...any) ([]byte, error) {
	var raw []byte
	if err := db.WithContext(ctx).Raw(query, args...).Row().Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fallback, nil
		}
		return nil, err
	}
	if raw == nil {
		return fallback, nil
	}

	return raw, nil
}

// aggregateJSON wraps a row-returning query so it comes back as one jsonb array.
func aggregateJSON(query string) string {
	return "SELECT COALESCE(jsonb_agg(q), '[]'::jsonb) FROM (" + query + ") q"
}

// rowJSON wraps a single-row query so it comes back as one jsonb object.
func rowJSON(query string) string {
	return "SELECT to_jsonb(q) FROM (" + query + ") q"
}

// nullable maps "" to SQL NULL so optional filters can use "? IS NULL OR ...".
func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// uuidArray renders ids as a postgres array literal for a ?::uuid[] parameter.
func uuidArray(ids ...string) string {
	return "{" + strings.Join(ids, ",") + "}"
}
