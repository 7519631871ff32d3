package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/superbett/bancas-api/internal/api/handler/v1/response"
	"github.com/superbett/bancas-api/internal/api/middleware"
	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/service"
)

// HandleHealthcheck godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.StatusResponse
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.OK("bancas api running"))
}

func callerFromContext(ctx *gin.Context) (domain.Identity, *response.Err) {
	id, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		return domain.Identity{}, response.ErrInvalidOrExpiredToken()
	}

	return id, nil
}

type validator interface {
	Validate() error
}

func bindJSON(ctx *gin.Context, req validator) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}

	return true
}

func bindQuery(ctx *gin.Context, req validator) bool {
	if err := ctx.ShouldBindQuery(req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}

	return true
}

// renderServiceErr maps the errors shared by every endpoint. Resource specific
// not-found and conflict cases are handled by the caller first.
func renderServiceErr(ctx *gin.Context, where string, err error) {
	if rej, ok := domain.IsRejection(err); ok {
		response.RenderRejection(ctx, rej)
		return
	}

	switch {
	case errors.Is(err, service.ErrNoTenant),
		errors.Is(err, service.ErrTenantRequired):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.Is(err, service.ErrTenantMismatch),
		errors.Is(err, service.ErrReopenRequiresAdmin):
		response.RenderErr(ctx, response.ErrForbidden(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", where, err)))
	}
}
