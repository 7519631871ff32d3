package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/superbett/bancas-api/internal/api/handler/v1/request"
	"github.com/superbett/bancas-api/internal/api/handler/v1/response"
	"github.com/superbett/bancas-api/internal/service"
)

type PrizeService interface {
	Register(ctx context.Context, roundID string, q1, q2, q3 int) (json.RawMessage, error)
	Activate(ctx context.Context, roundID string) (json.RawMessage, error)
	List(ctx context.Context, date, lotteryID string) (json.RawMessage, error)
}

type PrizeHandler struct {
	svc PrizeService
}

func NewPrizeHandler(svc PrizeService) *PrizeHandler {
	return &PrizeHandler{
		svc: svc,
	}
}

// HandleRegister godoc
// @Summary      Register the three winning numbers of a jornada
// @Tags         premios
// @Accept       json
// @Produce      json
// @Param        request  body      request.RegisterPrizeRequest true "results"
// @Success      200      {object}  object
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      422      {object}  object
// @Router       /premios/registrar [post]
// @Security     BearerAuth
func (h *PrizeHandler) HandleRegister(ctx *gin.Context) {
	var req request.RegisterPrizeRequest
	if !bindJSON(ctx, &req) {
		return
	}

	out, err := h.svc.Register(ctx.Request.Context(), req.RoundID, *req.First, *req.Second, *req.Third)
	if err != nil {
		if errors.Is(err, service.ErrRoundNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("jornada", "id", req.RoundID))
			return
		}
		renderServiceErr(ctx, "v1.HandleRegister -> h.svc.Register", err)
		return
	}

	response.RenderJSON(ctx, http.StatusOK, out)
}

// HandleActivate godoc
// @Summary      Compute winners for a jornada with registered results
// @Tags         premios
// @Accept       json
// @Produce      json
// @Param        request  body      request.ActivatePrizeRequest true "jornada"
// @Success      200      {object}  object
// @Failure      404      {object}  response.Err
// @Failure      422      {object}  object
// @Router       /premios/activar [post]
// @Security     BearerAuth
func (h *PrizeHandler) HandleActivate(ctx *gin.Context) {
	var req request.ActivatePrizeRequest
	if !bindJSON(ctx, &req) {
		return
	}

	out, err := h.svc.Activate(ctx.Request.Context(), req.RoundID)
	if err != nil {
		if errors.Is(err, service.ErrRoundNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("jornada", "id", req.RoundID))
			return
		}
		renderServiceErr(ctx, "v1.HandleActivate -> h.svc.Activate", err)
		return
	}

	response.RenderJSON(ctx, http.StatusOK, out)
}

// HandleList godoc
// @Summary      Registered results
// @Tags         premios
// @Produce      json
// @Param        fecha       query     string false "YYYY-MM-DD"
// @Param        loteria_id  query     string false "lottery id"
// @Success      200         {object}  response.PrizesResponse
// @Router       /premios [get]
// @Security     BearerAuth
func (h *PrizeHandler) HandleList(ctx *gin.Context) {
	var q request.PrizeListQuery
	if !bindQuery(ctx, &q) {
		return
	}

	prizes, err := h.svc.List(ctx.Request.Context(), q.Date, q.LotteryID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleList -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, response.PrizesResponse{Prizes: prizes})
}
