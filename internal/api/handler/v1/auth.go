package v1

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/superbett/bancas-api/internal/api/handler/v1/request"
	"github.com/superbett/bancas-api/internal/api/handler/v1/response"
	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/pkg/ratelimit"
	"github.com/superbett/bancas-api/internal/service"
)

type AuthService interface {
	Login(ctx context.Context, username, password string, trusted bool) (string, domain.Identity, error)
}

// TerminalKeyHeader carries the shared key of a registered POS terminal.
const TerminalKeyHeader = "X-Terminal-Key"

type AuthHandler struct {
	svc     AuthService
	limiter ratelimit.Limiter

	// terminalKey is the sha256 of the configured key; unset means no
	// request is ever trusted.
	terminalKey    [sha256.Size]byte
	terminalKeySet bool
}

// NewAuthHandler builds the login handler. terminalKey gates the long-lived
// trusted session; an empty key disables it.
func NewAuthHandler(svc AuthService, limiter ratelimit.Limiter, terminalKey string) *AuthHandler {
	h := &AuthHandler{
		svc:     svc,
		limiter: limiter,
	}
	if terminalKey != "" {
		h.terminalKey = sha256.Sum256([]byte(terminalKey))
		h.terminalKeySet = true
	}

	return h
}

// HandleLogin godoc
// @Summary      Login with username and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.LoginRequest true "credentials"
// @Param        X-Terminal-Key  header  string  false  "registered terminal key, required for trusted sessions"
// @Success      200      {object}  response.LoginResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      429      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	var req request.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if !h.allow(ctx, req.Username) {
		response.RenderErr(ctx, response.ErrTooManyRequests())
		return
	}

	trusted := req.Trusted && h.trustedTerminal(ctx)

	token, id, err := h.svc.Login(ctx.Request.Context(), req.Username, req.Password, trusted)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.RenderErr(ctx, response.ErrInvalidCredentials())
			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token: token,
		User:  id,
	})
}

// trustedTerminal reports whether the request carries the registered terminal key.
func (h *AuthHandler) trustedTerminal(ctx *gin.Context) bool {
	if !h.terminalKeySet {
		return false
	}

	got := sha256.Sum256([]byte(ctx.GetHeader(TerminalKeyHeader)))
	return subtle.ConstantTimeCompare(got[:], h.terminalKey[:]) == 1
}

// allow fails open when the shared limiter is unreachable.
func (h *AuthHandler) allow(ctx *gin.Context, username string) bool {
	if h.limiter == nil {
		return true
	}

	key := ctx.ClientIP() + "|" + domain.NormalizeUsername(username)
	ok, err := h.limiter.Allow(ctx.Request.Context(), key)
	if err != nil {
		zap.L().Warn("login throttle unavailable", zap.Error(err))
		return true
	}

	return ok
}

// HandleMe godoc
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.MeResponse
// @Failure      401  {object}  response.Err
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) HandleMe(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.JSON(http.StatusOK, response.MeResponse{User: caller})
}
