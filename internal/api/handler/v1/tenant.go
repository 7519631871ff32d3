package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/superbett/bancas-api/internal/api/handler/v1/response"
	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/service"
)

type TenantConfigService interface {
	Config(ctx context.Context, caller domain.Identity) (domain.TenantConfig, error)
}

type TenantHandler struct {
	svc TenantConfigService
}

func NewTenantHandler(svc TenantConfigService) *TenantHandler {
	return &TenantHandler{
		svc: svc,
	}
}

// HandleConfig godoc
// @Summary      The caller's banca and price schedule
// @Tags         bancas
// @Produce      json
// @Success      200  {object}  domain.TenantConfig
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /bancas/config [get]
// @Security     BearerAuth
func (h *TenantHandler) HandleConfig(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	conf, err := h.svc.Config(ctx.Request.Context(), caller)
	if err != nil {
		if errors.Is(err, service.ErrTenantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("banca", "id", caller.Tenant()))
			return
		}
		renderServiceErr(ctx, "v1.HandleConfig -> h.svc.Config", err)
		return
	}

	ctx.JSON(http.StatusOK, conf)
}
