package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveReconciliation(t *testing.T) {
	beforeOK := testutil.ToFloat64(reconciliationRuns.WithLabelValues("ok"))
	beforeErr := testutil.ToFloat64(reconciliationRuns.WithLabelValues("error"))

	ObserveReconciliation(nil, 3)
	ObserveReconciliation(errors.New("db down"), 0)

	assert.Equal(t, beforeOK+1, testutil.ToFloat64(reconciliationRuns.WithLabelValues("ok")))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(reconciliationRuns.WithLabelValues("error")))
	assert.Equal(t, float64(3), testutil.ToFloat64(reconciliationAlerts))
}

func TestObserveTicketAndAuth(t *testing.T) {
	before := testutil.ToFloat64(ticketOutcomes.WithLabelValues(OpCreate, "ok"))
	ObserveTicket(OpCreate, "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(ticketOutcomes.WithLabelValues(OpCreate, "ok")))

	before = testutil.ToFloat64(authFailures.WithLabelValues("MissingToken"))
	ObserveAuthFailure("MissingToken")
	assert.Equal(t, before+1, testutil.ToFloat64(authFailures.WithLabelValues("MissingToken")))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	Init()
	Init()
	ObserveAuthFailure("Forbidden")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bancas_auth_failures_total")
}
