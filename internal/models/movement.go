package models

import (
	"strings"
	"time"
)

// Movement is an immutable log entry of an asset relocation or status change.
type Movement struct {
	ID         string       `json:"id" yaml:"id"`
	ItemID     string       `json:"itemId" yaml:"itemId"`
	ItemNombre string       `json:"itemNombre" yaml:"itemNombre"`
	Fecha      time.Time    `json:"fecha" yaml:"fecha"`
	Tipo       MovementType `json:"tipo" yaml:"tipo"`

	Origen  LocationSnapshot  `json:"origen" yaml:"origen"`
	Destino *LocationSnapshot `json:"destino" yaml:"destino"` // nil for a decommission

	Responsable string `json:"responsable" yaml:"responsable"`
	Motivo      string `json:"motivo,omitempty" yaml:"motivo,omitempty"`
}

// Validate checks required fields and that a destination is present exactly
// when the movement is not a decommission.
func (m Movement) Validate() error {
	if strings.TrimSpace(m.ItemID) == "" {
		return invalid("itemId", "is required")
	}
	if !m.Tipo.Valid() {
		return invalid("tipo", "unknown movement type "+string(m.Tipo))
	}
	if strings.TrimSpace(m.Responsable) == "" {
		return invalid("responsable", "is required")
	}
	if m.Fecha.IsZero() {
		return invalid("fecha", "is required")
	}
	if m.Tipo == MovementDecommission {
		if m.Destino != nil {
			return invalid("destino", "must be empty for a decommission")
		}
		return nil
	}
	if m.Destino == nil {
		return invalid("destino", "is required for "+string(m.Tipo))
	}
	return m.Destino.Validate("destino.")
}

func (m Movement) Clone() Movement {
	out := m
	if m.Destino != nil {
		d := *m.Destino
		out.Destino = &d
	}
	return out
}
