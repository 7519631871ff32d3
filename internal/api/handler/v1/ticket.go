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

type TicketService interface {
	CreateTicket(ctx context.Context, caller domain.Identity, order domain.TicketOrder) (domain.Outcome, error)
	CreateSuperPale(ctx context.Context, caller domain.Identity, order domain.SuperPaleOrder) (domain.Outcome, error)
	VoidTicket(ctx context.Context, caller domain.Identity, ticketID string) (domain.Outcome, error)
	PayTicket(ctx context.Context, caller domain.Identity, ticketID string) (domain.Outcome, error)
	LookupTicket(ctx context.Context, caller domain.Identity, number string) (json.RawMessage, error)
	SalesList(ctx context.Context, caller domain.Identity, requestedTenant, date, lotteryID string) (domain.SalesList, error)
}

type TicketHandler struct {
	svc TicketService
}

func NewTicketHandler(svc TicketService) *TicketHandler {
	return &TicketHandler{
		svc: svc,
	}
}

// HandleCreateTicket godoc
// @Summary      Sell a ticket
// @Description  Writes the ticket and its plays in one transaction. A rejection from the
// @Description  data engine is returned unchanged with 422 and nothing is stored.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateTicketRequest true "ticket"
// @Success      201      {object}  object
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      422      {object}  object
// @Failure      500      {object}  response.Err
// @Router       /tickets [post]
// @Security     BearerAuth
func (h *TicketHandler) HandleCreateTicket(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateTicketRequest
	if !bindJSON(ctx, &req) {
		return
	}

	out, err := h.svc.CreateTicket(ctx.Request.Context(), caller, req.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateTicket -> h.svc.CreateTicket", err)
		return
	}

	response.RenderJSON(ctx, http.StatusCreated, out.Payload)
}

// HandleCreateSuperPale godoc
// @Summary      Sell a super pale ticket spanning two jornadas
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateSuperPaleRequest true "ticket"
// @Success      201      {object}  object
// @Failure      400      {object}  response.Err
// @Failure      422      {object}  object
// @Failure      500      {object}  response.Err
// @Router       /tickets/super-pale [post]
// @Security     BearerAuth
func (h *TicketHandler) HandleCreateSuperPale(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateSuperPaleRequest
	if !bindJSON(ctx, &req) {
		return
	}

	out, err := h.svc.CreateSuperPale(ctx.Request.Context(), caller, req.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateSuperPale -> h.svc.CreateSuperPale", err)
		return
	}

	response.RenderJSON(ctx, http.StatusCreated, out.Payload)
}

// HandleVoidTicket godoc
// @Summary      Void a ticket
// @Tags         tickets
// @Produce      json
// @Param        id   path      string true "ticket id"
// @Success      200  {object}  object
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      422  {object}  object
// @Router       /tickets/{id}/anular [post]
// @Security     BearerAuth
func (h *TicketHandler) HandleVoidTicket(ctx *gin.Context) {
	h.settle(ctx, "v1.HandleVoidTicket -> h.svc.VoidTicket", h.svc.VoidTicket)
}

// HandlePayTicket godoc
// @Summary      Pay a winning ticket
// @Tags         tickets
// @Produce      json
// @Param        id   path      string true "ticket id"
// @Success      200  {object}  object
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      422  {object}  object
// @Router       /tickets/{id}/pagar [post]
// @Security     BearerAuth
func (h *TicketHandler) HandlePayTicket(ctx *gin.Context) {
	h.settle(ctx, "v1.HandlePayTicket -> h.svc.PayTicket", h.svc.PayTicket)
}

type ticketWrite func(ctx context.Context, caller domain.Identity, ticketID string) (domain.Outcome, error)

func (h *TicketHandler) settle(ctx *gin.Context, where string, write ticketWrite) {
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

	out, err := write(ctx.Request.Context(), caller, id)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("ticket", "id", id))
			return
		}
		renderServiceErr(ctx, where, err)
		return
	}

	response.RenderJSON(ctx, http.StatusOK, out.Payload)
}

// HandleLookupTicket godoc
// @Summary      Look up a ticket by its printed number
// @Tags         tickets
// @Produce      json
// @Param        numero  path      string true "ticket number"
// @Success      200     {object}  object
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Router       /tickets/{numero} [get]
// @Security     BearerAuth
func (h *TicketHandler) HandleLookupTicket(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	number := ctx.Param("id")
	ticket, err := h.svc.LookupTicket(ctx.Request.Context(), caller, number)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("ticket", "numero", number))
			return
		}
		renderServiceErr(ctx, "v1.HandleLookupTicket -> h.svc.LookupTicket", err)
		return
	}

	response.RenderJSON(ctx, http.StatusOK, ticket)
}

// HandleSalesList godoc
// @Summary      Day sales grouped by number
// @Description  A vendedor always gets its own banca; office roles pass banca_id.
// @Tags         tickets
// @Produce      json
// @Param        banca_id    query     string false "banca id"
// @Param        fecha       query     string false "YYYY-MM-DD, defaults to today"
// @Param        loteria_id  query     string false "lottery id"
// @Success      200         {object}  domain.SalesList
// @Failure      400         {object}  response.Err
// @Router       /tickets/ventas-lista [get]
// @Security     BearerAuth
func (h *TicketHandler) HandleSalesList(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var q request.SalesListQuery
	if !bindQuery(ctx, &q) {
		return
	}

	list, err := h.svc.SalesList(ctx.Request.Context(), caller, q.TenantID, q.Date, q.LotteryID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleSalesList -> h.svc.SalesList", err)
		return
	}

	ctx.JSON(http.StatusOK, list)
}
