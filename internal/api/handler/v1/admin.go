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

type UserService interface {
	List(ctx context.Context) ([]domain.Account, error)
	GetUser(ctx context.Context, id string) (domain.Account, error)
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	Update(ctx context.Context, id string, patch domain.AccountPatch) error
	AssignTenant(ctx context.Context, accountID string, link domain.TenantLink) error
}

type TenantAdminService interface {
	List(ctx context.Context) ([]domain.Tenant, error)
	Create(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error)
	Update(ctx context.Context, id string, patch domain.TenantPatch) error
	PriceSchemes(ctx context.Context) (json.RawMessage, error)
	PayoutSchemes(ctx context.Context) (json.RawMessage, error)
}

type LotteryService interface {
	List(ctx context.Context) ([]domain.Lottery, error)
	Create(ctx context.Context, lottery domain.Lottery) (domain.Lottery, error)
}

// AdminHandler serves the /admin routes. Every route is admin only.
type AdminHandler struct {
	users     UserService
	tenants   TenantAdminService
	lotteries LotteryService
}

func NewAdminHandler(users UserService, tenants TenantAdminService, lotteries LotteryService) *AdminHandler {
	return &AdminHandler{
		users:     users,
		tenants:   tenants,
		lotteries: lotteries,
	}
}

// HandleListUsers godoc
// @Summary      List accounts with their bancas
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.UsersResponse
// @Router       /admin/usuarios [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleListUsers(ctx *gin.Context) {
	users, err := h.users.List(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListUsers -> h.users.List", err)
		return
	}

	ctx.JSON(http.StatusOK, response.UsersResponse{Users: users})
}

// HandleGetUser godoc
// @Summary      Get an account
// @Tags         admin
// @Produce      json
// @Param        id   path      string true "account id"
// @Success      200  {object}  response.UserResponse
// @Failure      404  {object}  response.Err
// @Router       /admin/usuarios/{id} [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleGetUser(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := request.PathID("id", id); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.users.GetUser(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("usuario", "id", id))
			return
		}
		renderServiceErr(ctx, "v1.HandleGetUser -> h.users.GetUser", err)
		return
	}

	ctx.JSON(http.StatusOK, response.UserResponse{User: user})
}

// HandleCreateUser godoc
// @Summary      Create an account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateUserRequest true "account"
// @Success      201      {object}  response.UserResponse
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /admin/usuarios [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleCreateUser(ctx *gin.Context) {
	var req request.CreateUserRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := h.users.Create(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		if errors.Is(err, service.ErrUserUsernameExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrUserUsernameExists))
			return
		}
		renderServiceErr(ctx, "v1.HandleCreateUser -> h.users.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.UserResponse{User: user})
}

// HandleUpdateUser godoc
// @Summary      Update or deactivate an account
// @Description  Accounts are never deleted; send activo=false to deactivate.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id       path      string true "account id"
// @Param        request  body      request.UpdateUserRequest true "changes"
// @Success      200      {object}  response.StatusResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /admin/usuarios/{id} [patch]
// @Security     BearerAuth
func (h *AdminHandler) HandleUpdateUser(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := request.PathID("id", id); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateUserRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := h.users.Update(ctx.Request.Context(), id, req.ToDomain()); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("usuario", "id", id))
			return
		}
		renderServiceErr(ctx, "v1.HandleUpdateUser -> h.users.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, response.OK("Usuario actualizado"))
}

// HandleAssignTenant godoc
// @Summary      Assign a banca and commission to an account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id       path      string true "account id"
// @Param        request  body      request.AssignTenantRequest true "assignment"
// @Success      200      {object}  response.StatusResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /admin/usuarios/{id}/bancas [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleAssignTenant(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := request.PathID("id", id); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.AssignTenantRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := h.users.AssignTenant(ctx.Request.Context(), id, req.ToDomain()); err != nil {
		if errors.Is(err, service.ErrReferenceNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("banca", "id", req.TenantID))
			return
		}
		renderServiceErr(ctx, "v1.HandleAssignTenant -> h.users.AssignTenant", err)
		return
	}

	ctx.JSON(http.StatusOK, response.OK("Banca asignada"))
}

// HandleListTenants godoc
// @Summary      List bancas
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.TenantsResponse
// @Router       /admin/bancas [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleListTenants(ctx *gin.Context) {
	tenants, err := h.tenants.List(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListTenants -> h.tenants.List", err)
		return
	}

	ctx.JSON(http.StatusOK, response.TenantsResponse{Tenants: tenants})
}

// HandleCreateTenant godoc
// @Summary      Create a banca
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateTenantRequest true "banca"
// @Success      201      {object}  response.TenantResponse
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /admin/bancas [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleCreateTenant(ctx *gin.Context) {
	var req request.CreateTenantRequest
	if !bindJSON(ctx, &req) {
		return
	}

	tenant, err := h.tenants.Create(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		if errors.Is(err, service.ErrTenantCodeExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrTenantCodeExists))
			return
		}
		if errors.Is(err, service.ErrReferenceNotFound) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		renderServiceErr(ctx, "v1.HandleCreateTenant -> h.tenants.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.TenantResponse{Tenant: tenant})
}

// HandleUpdateTenant godoc
// @Summary      Update a banca
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id       path      string true "banca id"
// @Param        request  body      request.UpdateTenantRequest true "changes"
// @Success      200      {object}  response.StatusResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /admin/bancas/{id} [patch]
// @Security     BearerAuth
func (h *AdminHandler) HandleUpdateTenant(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := request.PathID("id", id); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateTenantRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := h.tenants.Update(ctx.Request.Context(), id, req.ToDomain()); err != nil {
		if errors.Is(err, service.ErrTenantNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("banca", "id", id))
			return
		}
		if errors.Is(err, service.ErrReferenceNotFound) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		renderServiceErr(ctx, "v1.HandleUpdateTenant -> h.tenants.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, response.OK("Banca actualizada"))
}

// HandleListPriceSchemes godoc
// @Summary      List price schemes
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.SchemesResponse
// @Router       /admin/esquemas/precios [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleListPriceSchemes(ctx *gin.Context) {
	schemes, err := h.tenants.PriceSchemes(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListPriceSchemes -> h.tenants.PriceSchemes", err)
		return
	}

	ctx.JSON(http.StatusOK, response.SchemesResponse{Schemes: schemes})
}

// HandleListPayoutSchemes godoc
// @Summary      List payout schemes
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.SchemesResponse
// @Router       /admin/esquemas/pagos [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleListPayoutSchemes(ctx *gin.Context) {
	schemes, err := h.tenants.PayoutSchemes(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListPayoutSchemes -> h.tenants.PayoutSchemes", err)
		return
	}

	ctx.JSON(http.StatusOK, response.SchemesResponse{Schemes: schemes})
}

// HandleListLotteries godoc
// @Summary      List lotteries
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.LotteriesResponse
// @Router       /admin/loterias [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleListLotteries(ctx *gin.Context) {
	lotteries, err := h.lotteries.List(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListLotteries -> h.lotteries.List", err)
		return
	}

	ctx.JSON(http.StatusOK, response.LotteriesResponse{Lotteries: lotteries})
}

// HandleCreateLottery godoc
// @Summary      Create a lottery
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateLotteryRequest true "lottery"
// @Success      201      {object}  response.LotteryCreatedResponse
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /admin/loterias [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleCreateLottery(ctx *gin.Context) {
	var req request.CreateLotteryRequest
	if !bindJSON(ctx, &req) {
		return
	}

	lottery, err := h.lotteries.Create(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		if errors.Is(err, service.ErrLotteryCodeExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrLotteryCodeExists))
			return
		}
		renderServiceErr(ctx, "v1.HandleCreateLottery -> h.lotteries.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.LotteryCreatedResponse{Status: domain.OutcomeOK, ID: lottery.ID})
}
