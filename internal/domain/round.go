package domain

import (
	"errors"
	"strings"
)

var ErrInvalidRoundStatus = errors.New("invalid round status")

// RoundStatus is the jornada lifecycle: abierto -> cerrado -> completado -> finalizado,
// with an admin-only reopen back to abierto.
type RoundStatus string

const (
	RoundOpen      RoundStatus = "abierto"
	RoundClosed    RoundStatus = "cerrado"
	RoundCompleted RoundStatus = "completado"
	RoundFinalized RoundStatus = "finalizado"
)

var roundStatuses = []RoundStatus{RoundOpen, RoundClosed, RoundCompleted, RoundFinalized}

func ParseRoundStatus(raw string) (RoundStatus, error) {
	candidate := RoundStatus(strings.ToLower(strings.TrimSpace(raw)))
	for _, s := range roundStatuses {
		if s == candidate {
			return s, nil
		}
	}
	return "", ErrInvalidRoundStatus
}

func RoundStatusStrings() []string {
	out := make([]string, len(roundStatuses))
	for i, s := range roundStatuses {
		out[i] = string(s)
	}
	return out
}

// RoundPatch updates status and/or betting window. Nil fields are left untouched.
type RoundPatch struct {
	Status   *RoundStatus
	OpensAt  *string
	ClosesAt *string
}

// Reopens reports whether applying the patch moves a round back to open.
func (p RoundPatch) Reopens() bool {
	return p.Status != nil && *p.Status == RoundOpen
}

// GenerationReport is what generar_jornadas returns.
type GenerationReport struct {
	Date   string            `json:"fecha"`
	Alerts []GenerationAlert `json:"alertas"`
}

// GenerationAlert describes a round that could not be fully scheduled.
type GenerationAlert struct {
	Kind    string `json:"tipo"`
	Lottery string `json:"loteria"`
	Date    string `json:"fecha"`
	Message string `json:"mensaje"`
}
