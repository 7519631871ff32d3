package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/superbett/bancas-api/internal/api/handler/v1/request"
	"github.com/superbett/bancas-api/internal/api/handler/v1/response"
	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/service"
)

type RoundService interface {
	Generate(ctx context.Context, date string) (domain.GenerationReport, json.RawMessage, error)
	Open(ctx context.Context, date string) (json.RawMessage, error)
	Incomplete(ctx context.Context) (json.RawMessage, error)
	List(ctx context.Context, date string) (json.RawMessage, error)
	Close(ctx context.Context, id string) (json.RawMessage, error)
	Reopen(ctx context.Context, id string) (json.RawMessage, error)
	Update(ctx context.Context, caller domain.Identity, id string, patch domain.RoundPatch) error
}

type RoundHandler struct {
	svc RoundService
}

func NewRoundHandler(svc RoundService) *RoundHandler {
	return &RoundHandler{
		svc: svc,
	}
}

// HandleGenerate godoc
// @Summary      Generate the day's jornadas
// @Description  Same idempotent operation the daily job runs. Without fecha the engine uses today.
// @Tags         jornadas
// @Accept       json
// @Produce      json
// @Param        request  body      request.GenerateRoundsRequest false "optional date"
// @Success      200      {object}  domain.GenerationReport
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /jornadas/generar [post]
// @Security     BearerAuth
func (h *RoundHandler) HandleGenerate(ctx *gin.Context) {
	var req request.GenerateRoundsRequest
	if ctx.Request.ContentLength != 0 && !bindJSON(ctx, &req) {
		return
	}

	_, raw, err := h.svc.Generate(ctx.Request.Context(), req.Date)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGenerate -> h.svc.Generate", err)
		return
	}

	response.RenderJSON(ctx, http.StatusOK, raw)
}

// HandleOpen godoc
// @Summary      Jornadas open for sale
// @Tags         jornadas
// @Produce      json
// @Param        fecha  query     string false "YYYY-MM-DD"
// @Success      200    {object}  response.RoundsResponse
// @Router       /jornadas/abiertas [get]
// @Security     BearerAuth
func (h *RoundHandler) HandleOpen(ctx *gin.Context) {
	var q request.DateQuery
	if !bindQuery(ctx, &q) {
		return
	}

	rounds, err := h.svc.Open(ctx.Request.Context(), q.Date)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleOpen -> h.svc.Open", err)
		return
	}

	ctx.JSON(http.StatusOK, response.RoundsResponse{Rounds: rounds})
}

// HandleIncomplete godoc
// @Summary      Closed jornadas still waiting for results
// @Tags         jornadas
// @Produce      json
// @Success      200  {object}  response.RoundsResponse
// @Router       /jornadas/incompletas [get]
// @Security     BearerAuth
func (h *RoundHandler) HandleIncomplete(ctx *gin.Context) {
	rounds, err := h.svc.Incomplete(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleIncomplete -> h.svc.Incomplete", err)
		return
	}

	ctx.JSON(http.StatusOK, response.RoundsResponse{Rounds: rounds})
}

// HandleList godoc
// @Summary      Jornadas of a day
// @Tags         jornadas
// @Produce      json
// @Param        fecha  query     string false "YYYY-MM-DD"
// @Success      200    {object}  response.RoundsResponse
// @Router       /jornadas [get]
// @Security     BearerAuth
func (h *RoundHandler) HandleList(ctx *gin.Context) {
	var q request.DateQuery
	if !bindQuery(ctx, &q) {
		return
	}

	rounds, err := h.svc.List(ctx.Request.Context(), q.Date)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleList -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, response.RoundsResponse{Rounds: rounds})
}

// HandleClose godoc
// @Summary      Close a jornada for sales
// @Tags         jornadas
// @Produce      json
// @Param        id   path      string true "jornada id"
// @Success      200  {object}  object
// @Failure      404  {object}  response.Err
// @Failure      422  {object}  object
// @Router       /jornadas/{id}/cerrar [post]
// @Security     BearerAuth
func (h *RoundHandler) HandleClose(ctx *gin.Context) {
	h.transition(ctx, "v1.HandleClose -> h.svc.Close", h.svc.Close)
}

// HandleReopen godoc
// @Summary      Reopen a closed jornada
// @Tags         jornadas
// @Produce      json
// @Param        id   path      string true "jornada id"
// @Success      200  {object}  object
// @Failure      404  {object}  response.Err
// @Failure      422  {object}  object
// @Router       /jornadas/{id}/reabrir [post]
// @Security     BearerAuth
func (h *RoundHandler) HandleReopen(ctx *gin.Context) {
	h.transition(ctx, "v1.HandleReopen -> h.svc.Reopen", h.svc.Reopen)
}

func (h *RoundHandler) transition(ctx *gin.Context, where string, apply func(context.Context, string) (json.RawMessage, error)) {
	id := ctx.Param("id")
	if err := request.PathID("id", id); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	out, err := apply(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRoundNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("jornada", "id", id))
			return
		}
		renderServiceErr(ctx, where, err)
		return
	}

	response.RenderJSON(ctx, http.StatusOK, out)
}

// HandleUpdate godoc
// @Summary      Change a jornada's status or betting window
// @Description  Only an admin may set estado back to abierto.
// @Tags         jornadas
// @Accept       json
// @Produce      json
// @Param        id       path      string true "jornada id"
// @Param        request  body      request.UpdateRoundRequest true "changes"
// @Success      200      {object}  response.StatusResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /jornadas/{id} [patch]
// @Security     BearerAuth
func (h *RoundHandler) HandleUpdate(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id := ctx.Param("id")
	if err := request.PathID("id", id); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateRoundRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := h.svc.Update(ctx.Request.Context(), caller, id, req.ToDomain()); err != nil {
		if errors.Is(err, service.ErrRoundNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("jornada", "id", id))
			return
		}
		renderServiceErr(ctx, "v1.HandleUpdate -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, response.OK("Jornada actualizada"))
}
