package domain

import "encoding/json"

// TenantReport aggregates a banca's sales. Row shapes belong to the database.
type TenantReport struct {
	Summary    json.RawMessage `json:"resumen"`
	ByModality json.RawMessage `json:"por_modalidad"`
}

// EmptyTenantSummary is returned when the summary query yields no row.
var EmptyTenantSummary = json.RawMessage(`{"total_tickets":0,"tickets_anulados":0,"total_venta":0,"total_premios":0,"resultado":0,"premios_pendientes":0}`)

// Exposure is accumulated liability per number for a round.
type Exposure struct {
	Global   json.RawMessage `json:"global"`
	ByTenant json.RawMessage `json:"por_banca"`
}

// ReportFilter narrows day-based reports. Empty fields mean "no filter".
type ReportFilter struct {
	Date      string
	LotteryID string
	TenantID  string
}
