package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/superbett/bancas-api/internal/config"
	"github.com/superbett/bancas-api/internal/db"
	"github.com/superbett/bancas-api/internal/domain"
)

// A stand-in engine: crear_ticket writes the ticket first and only then decides.
// A rejected call must leave no row behind once the unit rolls back.
const fakeEngine = `
CREATE TABLE tickets (
  id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
  numero_ticket text NOT NULL,
  banca_id uuid NOT NULL,
  usuario_id uuid NOT NULL
);

CREATE FUNCTION crear_ticket(p_usuario uuid, p_banca uuid, p_jornada uuid, p_jugadas jsonb)
RETURNS jsonb LANGUAGE plpgsql AS $$
DECLARE
  v_id uuid;
BEGIN
  INSERT INTO tickets (numero_ticket, banca_id, usuario_id)
  VALUES (upper(substr(md5(random()::text), 1, 8)), p_banca, p_usuario)
  RETURNING id INTO v_id;

  IF (p_jugadas->0->>'cantidad')::int > 100 THEN
    RETURN jsonb_build_object('estado', 'limite_excedido', 'disponible', 100);
  END IF;

  RETURN jsonb_build_object('estado', 'ok', 'ticket_id', v_id);
END;
$$;`

func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=bancas",
			"POSTGRES_PASSWORD=bancas",
			"POSTGRES_DB=bancas",
		},
	}, func(host *docker.HostConfig) {
		host.AutoRemove = true
		host.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})
	_ = resource.Expire(120)

	dsn := fmt.Sprintf("postgres://bancas:bancas@%s/bancas?sslmode=disable", resource.GetHostPort("5432/tcp"))

	var gdb *gorm.DB
	pool.MaxWait = 60 * time.Second
	err = pool.Retry(func() error {
		var err error
		gdb, err = db.OpenPostgresWithURL(dsn, &config.PostgresConfig{MaxOpenConns: 4})
		if err != nil {
			return err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	})
	require.NoError(t, err)

	require.NoError(t, gdb.Exec(fakeEngine).Error)

	return gdb
}

func TestTicketRepository_Integration(t *testing.T) {
	gdb := startPostgres(t)
	repo := newTicketRepo(gdb)
	ctx := context.Background()

	const (
		user   = "6f1c1f4e-3c55-4d39-9c43-6f0c6a0d0a01"
		tenant = "6f1c1f4e-3c55-4d39-9c43-6f0c6a0d0a02"
		round  = "6f1c1f4e-3c55-4d39-9c43-6f0c6a0d0a03"
	)
	count := func() int64 {
		var n int64
		require.NoError(t, gdb.Table("tickets").Count(&n).Error)
		return n
	}

	out, err := repo.Create(ctx, user, tenant, domain.TicketOrder{
		RoundID: round,
		Plays:   []domain.Play{{Modality: domain.ModalityQuiniela, Numbers: "07", Amount: 5}},
	})
	require.NoError(t, err)
	assert.True(t, out.OK())
	assert.EqualValues(t, 1, count())

	_, err = repo.Create(ctx, user, tenant, domain.TicketOrder{
		RoundID: round,
		Plays:   []domain.Play{{Modality: domain.ModalityQuiniela, Numbers: "07", Amount: 500}},
	})
	rej, ok := domain.IsRejection(err)
	require.True(t, ok)
	assert.Contains(t, string(rej.Payload), "limite_excedido")
	assert.EqualValues(t, 1, count(), "rejected ticket must not persist")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = repo.Create(cancelled, user, tenant, domain.TicketOrder{RoundID: round})
	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 1, count())

	_, err = repo.Void(ctx, "6f1c1f4e-3c55-4d39-9c43-6f0c6a0d0aff", "")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}
