package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/pkg/jwthelper"
	"github.com/superbett/bancas-api/internal/service"
)

func authRouter(svc *mockAuthService, limiter *mockLimiter, caller domain.Identity) *gin.Engine {
	var h *AuthHandler
	if limiter == nil {
		h = NewAuthHandler(svc, nil, "")
	} else {
		h = NewAuthHandler(svc, limiter, "")
	}

	r := gin.New()
	r.POST("/api/v1/auth/login", h.HandleLogin)
	r.GET("/api/v1/auth/me", authed(caller), h.HandleMe)

	return r
}

func TestHandleLogin(t *testing.T) {
	creds := map[string]any{"username": "Ana", "password": "secreto1"}
	tenant := tenantA
	id := domain.Identity{AccountID: "u-1", Username: "ana", Name: "Ana", Role: domain.RoleVendedor, TenantID: &tenant}

	t.Run("ok", func(t *testing.T) {
		svc := new(mockAuthService)
		limiter := new(mockLimiter)
		limiter.On("Allow", mock.Anything, "192.0.2.1|ana").Return(true, nil)
		svc.On("Login", mock.Anything, "Ana", "secreto1", false).Return("signed.jwt.token", id, nil)

		w := call(authRouter(svc, limiter, id), http.MethodPost, "/api/v1/auth/login", creds)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "signed.jwt.token", body["token"])
		usuario := body["usuario"].(map[string]any)
		assert.Equal(t, "vendedor", usuario["rol"])
		assert.Equal(t, tenantA, usuario["banca_id"])
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := new(mockAuthService)
		svc.On("Login", mock.Anything, "Ana", "secreto1", false).Return("", domain.Identity{}, service.ErrInvalidCredentials)

		w := call(authRouter(svc, nil, id), http.MethodPost, "/api/v1/auth/login", creds)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "InvalidCredentials", decode(t, w)["code"])
	})

	t.Run("missing password", func(t *testing.T) {
		svc := new(mockAuthService)

		w := call(authRouter(svc, nil, id), http.MethodPost, "/api/v1/auth/login", map[string]any{"username": "ana"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "MissingField", decode(t, w)["code"])
	})

	t.Run("throttled", func(t *testing.T) {
		svc := new(mockAuthService)
		limiter := new(mockLimiter)
		limiter.On("Allow", mock.Anything, mock.Anything).Return(false, nil)

		w := call(authRouter(svc, limiter, id), http.MethodPost, "/api/v1/auth/login", creds)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("throttle outage fails open", func(t *testing.T) {
		svc := new(mockAuthService)
		limiter := new(mockLimiter)
		limiter.On("Allow", mock.Anything, mock.Anything).Return(false, errors.New("dial tcp: connection refused"))
		svc.On("Login", mock.Anything, "Ana", "secreto1", false).Return("t", id, nil)

		w := call(authRouter(svc, limiter, id), http.MethodPost, "/api/v1/auth/login", creds)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHandleMe(t *testing.T) {
	caller := office(domain.RoleCentral)

	w := call(authRouter(new(mockAuthService), nil, caller), http.MethodGet, "/api/v1/auth/me", nil)

	require.Equal(t, http.StatusOK, w.Code)
	usuario := decode(t, w)["usuario"].(map[string]any)
	assert.Equal(t, "central", usuario["rol"])
	assert.Nil(t, usuario["banca_id"])
}

type staticAccounts struct {
	account domain.Account
}

func (a staticAccounts) FindByUsername(_ context.Context, username string) (domain.Account, error) {
	if username != a.account.Username {
		return domain.Account{}, service.ErrUserNotFound
	}
	return a.account, nil
}

func TestHandleLogin_TrustedSession(t *testing.T) {
	const terminalKey = "terminal-key-0123456789abcdef-0123"

	hash, err := bcrypt.GenerateFromPassword([]byte("secreto1"), bcrypt.MinCost)
	require.NoError(t, err)
	tenant := tenantA
	accounts := staticAccounts{account: domain.Account{
		ID: "u-1", Username: "ana", Password: string(hash), Name: "Ana",
		Role: domain.RoleVendedor, Active: true, TenantID: &tenant,
	}}
	signer := jwthelper.NewSigner("handler-test-signing-key-0123456789", 8*time.Hour, 720*time.Hour)

	login := func(t *testing.T, configuredKey, sentKey string, trusted bool) time.Duration {
		t.Helper()

		h := NewAuthHandler(service.NewAuthService(accounts, signer), nil, configuredKey)
		r := gin.New()
		r.POST("/api/v1/auth/login", h.HandleLogin)

		body, _ := json.Marshal(map[string]any{"username": "ana", "password": "secreto1", "trusted": trusted})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if sentKey != "" {
			req.Header.Set(TerminalKeyHeader, sentKey)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var out struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		id, err := signer.Parse(out.Token)
		require.NoError(t, err)
		return id.ExpiresAt.Sub(id.IssuedAt)
	}

	t.Run("client flag alone gets the normal lifetime", func(t *testing.T) {
		assert.Equal(t, 8*time.Hour, login(t, "", "", true))
	})

	t.Run("flag without terminal key gets the normal lifetime", func(t *testing.T) {
		assert.Equal(t, 8*time.Hour, login(t, terminalKey, "", true))
	})

	t.Run("wrong terminal key gets the normal lifetime", func(t *testing.T) {
		assert.Equal(t, 8*time.Hour, login(t, terminalKey, "guessed", true))
	})

	t.Run("registered terminal gets the trusted lifetime", func(t *testing.T) {
		assert.Equal(t, 720*time.Hour, login(t, terminalKey, terminalKey, true))
	})

	t.Run("registered terminal without the flag stays normal", func(t *testing.T) {
		assert.Equal(t, 8*time.Hour, login(t, terminalKey, terminalKey, false))
	})
}
