package response

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/superbett/bancas-api/internal/domain"
)

type LoginResponse struct {
	Token string          `json:"token"`
	User  domain.Identity `json:"usuario"`
}

type MeResponse struct {
	User domain.Identity `json:"usuario"`
}

type StatusResponse struct {
	Status  string `json:"estado"`
	Message string `json:"mensaje,omitempty"`
}

func OK(message string) StatusResponse {
	return StatusResponse{Status: domain.OutcomeOK, Message: message}
}

type RoundsResponse struct {
	Rounds json.RawMessage `json:"jornadas"`
}

type PrizesResponse struct {
	Prizes json.RawMessage `json:"premios"`
}

type UsersResponse struct {
	Users []domain.Account `json:"usuarios"`
}

type UserResponse struct {
	User domain.Account `json:"usuario"`
}

type TenantsResponse struct {
	Tenants []domain.Tenant `json:"bancas"`
}

type TenantResponse struct {
	Tenant domain.Tenant `json:"banca"`
}

type SchemesResponse struct {
	Schemes json.RawMessage `json:"esquemas"`
}

type LotteriesResponse struct {
	Lotteries []domain.Lottery `json:"loterias"`
}

type LotteryCreatedResponse struct {
	Status string `json:"estado"`
	ID     string `json:"id"`
}

// RenderJSON writes a json document produced by the data engine unchanged.
func RenderJSON(ctx *gin.Context, status int, payload json.RawMessage) {
	ctx.Data(status, "application/json; charset=utf-8", payload)
}

// RenderRejection answers 422 with the engine's reason exactly as it was returned.
func RenderRejection(ctx *gin.Context, rej *domain.RejectionError) {
	ctx.Abort()
	RenderJSON(ctx, http.StatusUnprocessableEntity, rej.Payload)
}
