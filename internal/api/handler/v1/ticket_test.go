package v1

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/service"
)

func ticketRouter(id domain.Identity, svc *mockTicketService) *gin.Engine {
	h := NewTicketHandler(svc)

	r := gin.New()
	g := r.Group("/api/v1", authed(id))
	g.POST("/tickets", h.HandleCreateTicket)
	g.POST("/tickets/super-pale", h.HandleCreateSuperPale)
	g.GET("/tickets/ventas-lista", h.HandleSalesList)
	g.GET("/tickets/:id", h.HandleLookupTicket)
	g.POST("/tickets/:id/anular", h.HandleVoidTicket)
	g.POST("/tickets/:id/pagar", h.HandlePayTicket)

	return r
}

func ticketBody() map[string]any {
	return map[string]any{
		"jornada_id": roundOne,
		"jugadas": []map[string]any{
			{"modalidad": "Q", "numeros": "12", "cantidad": 5},
		},
	}
}

func TestHandleCreateTicket(t *testing.T) {
	caller := vendedor(tenantA)
	order := domain.TicketOrder{
		RoundID: roundOne,
		Plays:   []domain.Play{{Modality: domain.ModalityQuiniela, Numbers: "12", Amount: 5}},
	}

	t.Run("created", func(t *testing.T) {
		svc := new(mockTicketService)
		payload := json.RawMessage(`{"estado":"ok","ticket_id":"t-1","numero":"000123"}`)
		svc.On("CreateTicket", mock.Anything, caller, order).Return(domain.Outcome{Status: "ok", Payload: payload}, nil)

		w := call(ticketRouter(caller, svc), http.MethodPost, "/api/v1/tickets", ticketBody())

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, string(payload), w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("client banca_id never reaches the service", func(t *testing.T) {
		svc := new(mockTicketService)
		svc.On("CreateTicket", mock.Anything, caller, order).Return(domain.Outcome{Status: "ok", Payload: json.RawMessage(`{"estado":"ok"}`)}, nil)

		body := ticketBody()
		body["banca_id"] = tenantB
		w := call(ticketRouter(caller, svc), http.MethodPost, "/api/v1/tickets", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("rejection is echoed with 422", func(t *testing.T) {
		svc := new(mockTicketService)
		reason := json.RawMessage(`{"estado":"limite_excedido","mensaje":"Limite excedido para 12","disponible":3}`)
		svc.On("CreateTicket", mock.Anything, caller, order).Return(domain.Outcome{}, &domain.RejectionError{Payload: reason})

		w := call(ticketRouter(caller, svc), http.MethodPost, "/api/v1/tickets", ticketBody())

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.JSONEq(t, string(reason), w.Body.String())
	})

	t.Run("infrastructure failure hides detail", func(t *testing.T) {
		svc := new(mockTicketService)
		svc.On("CreateTicket", mock.Anything, caller, order).Return(domain.Outcome{}, errBoom)

		w := call(ticketRouter(caller, svc), http.MethodPost, "/api/v1/tickets", ticketBody())

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "relation")
		assert.Equal(t, "Internal", decode(t, w)["code"])
	})

	t.Run("vendedor without banca", func(t *testing.T) {
		svc := new(mockTicketService)
		svc.On("CreateTicket", mock.Anything, caller, order).Return(domain.Outcome{}, service.ErrNoTenant)

		w := call(ticketRouter(caller, svc), http.MethodPost, "/api/v1/tickets", ticketBody())

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validation classifies the failure", func(t *testing.T) {
		svc := new(mockTicketService)
		body := ticketBody()
		body["jugadas"] = []map[string]any{{"modalidad": "Z", "numeros": "12", "cantidad": 5}}

		w := call(ticketRouter(caller, svc), http.MethodPost, "/api/v1/tickets", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "InvalidEnum", decode(t, w)["code"])
		svc.AssertNotCalled(t, "CreateTicket", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandleCreateSuperPale_RequiresTwoRounds(t *testing.T) {
	caller := vendedor(tenantA)
	svc := new(mockTicketService)

	w := call(ticketRouter(caller, svc), http.MethodPost, "/api/v1/tickets/super-pale", map[string]any{
		"jornadas": []string{roundOne},
		"jugadas":  []map[string]any{{"modalidad": "SP", "numeros": "12-34", "cantidad": 5}},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "OutOfRange", decode(t, w)["code"])
	svc.AssertNotCalled(t, "CreateSuperPale", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleVoidTicket(t *testing.T) {
	caller := vendedor(tenantA)

	t.Run("other banca", func(t *testing.T) {
		svc := new(mockTicketService)
		svc.On("VoidTicket", mock.Anything, caller, ticketID).Return(domain.Outcome{}, service.ErrTenantMismatch)

		w := call(ticketRouter(caller, svc), http.MethodPost, "/api/v1/tickets/"+ticketID+"/anular", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(mockTicketService)
		svc.On("VoidTicket", mock.Anything, caller, ticketID).Return(domain.Outcome{}, service.ErrTicketNotFound)

		w := call(ticketRouter(caller, svc), http.MethodPost, "/api/v1/tickets/"+ticketID+"/anular", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		svc := new(mockTicketService)

		w := call(ticketRouter(caller, svc), http.MethodPost, "/api/v1/tickets/000123/anular", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "VoidTicket", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandlePayTicket(t *testing.T) {
	caller := office(domain.RoleCentral)
	svc := new(mockTicketService)
	payload := json.RawMessage(`{"estado":"ok","monto_pagado":450}`)
	svc.On("PayTicket", mock.Anything, caller, ticketID).Return(domain.Outcome{Status: "ok", Payload: payload}, nil)

	w := call(ticketRouter(caller, svc), http.MethodPost, "/api/v1/tickets/"+ticketID+"/pagar", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, string(payload), w.Body.String())
}

func TestHandleLookupTicket(t *testing.T) {
	caller := vendedor(tenantA)

	t.Run("found", func(t *testing.T) {
		svc := new(mockTicketService)
		svc.On("LookupTicket", mock.Anything, caller, "000123").Return(json.RawMessage(`{"numero":"000123"}`), nil)

		w := call(ticketRouter(caller, svc), http.MethodGet, "/api/v1/tickets/000123", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"numero":"000123"}`, w.Body.String())
	})

	t.Run("other banca", func(t *testing.T) {
		svc := new(mockTicketService)
		svc.On("LookupTicket", mock.Anything, caller, "000124").Return(nil, service.ErrTenantMismatch)

		w := call(ticketRouter(caller, svc), http.MethodGet, "/api/v1/tickets/000124", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestHandleSalesList(t *testing.T) {
	t.Run("static route wins over the ticket number", func(t *testing.T) {
		caller := vendedor(tenantA)
		svc := new(mockTicketService)
		list := domain.SalesList{Date: "2024-05-01", Regular: json.RawMessage(`[]`), SuperPale: json.RawMessage(`[]`)}
		svc.On("SalesList", mock.Anything, caller, "", "2024-05-01", "").Return(list, nil)

		w := call(ticketRouter(caller, svc), http.MethodGet, "/api/v1/tickets/ventas-lista?fecha=2024-05-01", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2024-05-01", decode(t, w)["fecha"])
		svc.AssertNotCalled(t, "LookupTicket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("office role without banca_id", func(t *testing.T) {
		caller := office(domain.RoleAdmin)
		svc := new(mockTicketService)
		svc.On("SalesList", mock.Anything, caller, "", "", "").Return(domain.SalesList{}, service.ErrTenantRequired)

		w := call(ticketRouter(caller, svc), http.MethodGet, "/api/v1/tickets/ventas-lista", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
