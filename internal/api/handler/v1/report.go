package v1

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/superbett/bancas-api/internal/api/handler/v1/request"
	"github.com/superbett/bancas-api/internal/api/handler/v1/response"
	"github.com/superbett/bancas-api/internal/domain"
)

type ReportService interface {
	Winners(ctx context.Context, filter domain.ReportFilter) (json.RawMessage, error)
	DailySummary(ctx context.Context, date string) (json.RawMessage, error)
	TenantReport(ctx context.Context, caller domain.Identity, filter domain.ReportFilter) (domain.TenantReport, error)
	Exposure(ctx context.Context, roundID string) (domain.Exposure, error)
}

// ReportHandler serves read-only aggregates. Database errors never reach the body.
type ReportHandler struct {
	svc ReportService
}

func NewReportHandler(svc ReportService) *ReportHandler {
	return &ReportHandler{
		svc: svc,
	}
}

// HandleWinners godoc
// @Summary      Winning tickets of a day
// @Tags         reportes
// @Produce      json
// @Param        fecha       query     string false "YYYY-MM-DD"
// @Param        loteria_id  query     string false "lottery id"
// @Success      200         {array}   object
// @Router       /reportes/ganadores [get]
// @Security     BearerAuth
func (h *ReportHandler) HandleWinners(ctx *gin.Context) {
	var q request.ReportQuery
	if !bindQuery(ctx, &q) {
		return
	}

	winners, err := h.svc.Winners(ctx.Request.Context(), q.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleWinners -> h.svc.Winners", err)
		return
	}

	response.RenderJSON(ctx, http.StatusOK, winners)
}

// HandleDailySummary godoc
// @Summary      Office summary of a day
// @Tags         reportes
// @Produce      json
// @Param        fecha  query     string false "YYYY-MM-DD"
// @Success      200    {object}  object
// @Router       /reportes/resumen [get]
// @Security     BearerAuth
func (h *ReportHandler) HandleDailySummary(ctx *gin.Context) {
	var q request.DateQuery
	if !bindQuery(ctx, &q) {
		return
	}

	summary, err := h.svc.DailySummary(ctx.Request.Context(), q.Date)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleDailySummary -> h.svc.DailySummary", err)
		return
	}

	response.RenderJSON(ctx, http.StatusOK, summary)
}

// HandleTenantReport godoc
// @Summary      Sales report of one banca
// @Description  A vendedor always gets its own banca; office roles must pass banca_id.
// @Tags         reportes
// @Produce      json
// @Param        banca_id  query     string false "banca id"
// @Param        fecha     query     string false "YYYY-MM-DD"
// @Success      200       {object}  domain.TenantReport
// @Failure      400       {object}  response.Err
// @Router       /reportes/banca [get]
// @Security     BearerAuth
func (h *ReportHandler) HandleTenantReport(ctx *gin.Context) {
	caller, respErr := callerFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var q request.ReportQuery
	if !bindQuery(ctx, &q) {
		return
	}

	report, err := h.svc.TenantReport(ctx.Request.Context(), caller, q.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleTenantReport -> h.svc.TenantReport", err)
		return
	}

	ctx.JSON(http.StatusOK, report)
}

// HandleExposure godoc
// @Summary      Accumulated liability per number for a jornada
// @Tags         reportes
// @Produce      json
// @Param        jornada_id  query     string true "jornada id"
// @Success      200         {object}  domain.Exposure
// @Failure      400         {object}  response.Err
// @Router       /reportes/exposicion [get]
// @Security     BearerAuth
func (h *ReportHandler) HandleExposure(ctx *gin.Context) {
	var q request.ExposureQuery
	if !bindQuery(ctx, &q) {
		return
	}

	exposure, err := h.svc.Exposure(ctx.Request.Context(), q.RoundID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleExposure -> h.svc.Exposure", err)
		return
	}

	ctx.JSON(http.StatusOK, exposure)
}
