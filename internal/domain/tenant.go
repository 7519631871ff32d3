package domain

import "time"

// Tenant is a banca, the unit every ticket write is scoped to.
type Tenant struct {
	ID             string    `json:"id"`
	Name           string    `json:"nombre"`
	Code           string    `json:"codigo"`
	TicketName     string    `json:"nombre_ticket"`
	PriceSchemeID  *string   `json:"esquema_precio_id,omitempty"`
	PayoutSchemeID *string   `json:"esquema_pago_id,omitempty"`
	PriceScheme    *string   `json:"esquema_precio,omitempty"`
	PayoutScheme   *string   `json:"esquema_pago,omitempty"`
	LimitQ         *float64  `json:"limite_q"`
	LimitP         *float64  `json:"limite_p"`
	LimitT         *float64  `json:"limite_t"`
	LimitSP        *float64  `json:"limite_sp"`
	Active         bool      `json:"activa"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type TenantPatch struct {
	Name           *string
	TicketName     *string
	PriceSchemeID  *string
	PayoutSchemeID *string
	LimitQ         *float64
	LimitP         *float64
	LimitT         *float64
	LimitSP        *float64
	Active         *bool
}

// Price is one entry of a banca's price schedule.
type Price struct {
	Modality  string  `json:"modalidad"`
	LotteryID *string `json:"loteria_id"`
	Price     float64 `json:"precio"`
}

// TenantConfig is what a point of sale loads at startup.
type TenantConfig struct {
	Tenant Tenant  `json:"banca"`
	Prices []Price `json:"precios"`
}
