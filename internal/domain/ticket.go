package domain

import "encoding/json"

type Modality string

const (
	ModalityQuiniela  Modality = "Q"
	ModalityPale      Modality = "P"
	ModalityTripleta  Modality = "T"
	ModalitySuperPale Modality = "SP"
)

// TicketModalities are the modalities accepted on a single-round ticket.
var TicketModalities = []Modality{ModalityQuiniela, ModalityPale, ModalityTripleta}

// Play is one line item of a ticket.
type Play struct {
	Modality Modality `json:"modalidad"`
	Numbers  string   `json:"numeros"`
	Amount   int      `json:"cantidad"`
}

type TicketOrder struct {
	RoundID string
	Plays   []Play
}

// SuperPaleOrder is a combined ticket spanning exactly two rounds.
type SuperPaleOrder struct {
	RoundIDs [2]string
	Plays    []Play
}

const OutcomeOK = "ok"

// Outcome is a structured result returned by a data-engine function.
type Outcome struct {
	Status  string          `json:"estado"`
	Payload json.RawMessage `json:"-"`
}

func (o Outcome) OK() bool {
	return o.Status == OutcomeOK
}

// Rejected reports an explicit non-ok estado. Payloads without estado are not rejections.
func (o Outcome) Rejected() bool {
	return o.Status != "" && o.Status != OutcomeOK
}

// ParseOutcome decodes the estado field while keeping the payload byte-for-byte.
func ParseOutcome(raw []byte) (Outcome, error) {
	var head struct {
		Status string `json:"estado"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return Outcome{}, err
	}

	payload := make(json.RawMessage, len(raw))
	copy(payload, raw)

	return Outcome{Status: head.Status, Payload: payload}, nil
}

// SalesList is the "venta por lista" screen for one banca and day.
type SalesList struct {
	Date       string          `json:"fecha"`
	Regular    json.RawMessage `json:"normales"`
	SuperPale  json.RawMessage `json:"super_pale"`
	TotalSales float64         `json:"total_general"`
}
