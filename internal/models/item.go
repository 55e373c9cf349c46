package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a tracked physical asset.
type InventoryItem struct {
	ID        string       `json:"id" yaml:"id"`
	Nombre    string       `json:"nombre" yaml:"nombre"`
	Categoria ItemCategory `json:"categoria" yaml:"categoria"`
	Estado    ItemStatus   `json:"estado" yaml:"estado"`

	Campus      string  `json:"campus" yaml:"campus"`
	Edificio    string  `json:"edificio" yaml:"edificio"`
	Laboratorio string  `json:"laboratorio" yaml:"laboratorio"`
	TipoDeLab   LabType `json:"tipoDeLab" yaml:"tipoDeLab"`

	FechaAdquisicion    *time.Time       `json:"fechaAdquisicion,omitempty" yaml:"fechaAdquisicion,omitempty"`
	UltimoMantenimiento *time.Time       `json:"ultimoMantenimiento,omitempty" yaml:"ultimoMantenimiento,omitempty"`
	Proveedor           string           `json:"proveedor,omitempty" yaml:"proveedor,omitempty"`
	Costo               *decimal.Decimal `json:"costo,omitempty" yaml:"costo,omitempty"`

	// Version is bumped on every server-side mutation. Updates carrying a
	// non-zero version must match the stored one.
	Version int64 `json:"version" yaml:"-"`
}

func (i InventoryItem) Location() LocationSnapshot {
	return LocationSnapshot{Campus: i.Campus, Edificio: i.Edificio, Laboratorio: i.Laboratorio}
}

func (i *InventoryItem) MoveTo(loc LocationSnapshot) {
	i.Campus = loc.Campus
	i.Edificio = loc.Edificio
	i.Laboratorio = loc.Laboratorio
}

// CostOrZero returns the item cost, treating an absent cost as zero.
func (i InventoryItem) CostOrZero() decimal.Decimal {
	if i.Costo == nil {
		return decimal.Zero
	}
	return *i.Costo
}

// Validate checks required fields and enum membership. Location containment
// is checked separately against a LocationCatalog.
func (i InventoryItem) Validate() error {
	if strings.TrimSpace(i.Nombre) == "" {
		return invalid("nombre", "is required")
	}
	if !i.Categoria.Valid() {
		return invalid("categoria", "unknown category "+string(i.Categoria))
	}
	if !i.Estado.Valid() {
		return invalid("estado", "unknown status "+string(i.Estado))
	}
	if err := i.Location().Validate(""); err != nil {
		return err
	}
	if !i.TipoDeLab.Valid() {
		return invalid("tipoDeLab", "unknown lab type "+string(i.TipoDeLab))
	}
	if i.Costo != nil && i.Costo.IsNegative() {
		return invalid("costo", "must not be negative")
	}
	return nil
}

// Clone returns a deep copy so callers never share pointers with the store.
func (i InventoryItem) Clone() InventoryItem {
	out := i
	if i.FechaAdquisicion != nil {
		t := *i.FechaAdquisicion
		out.FechaAdquisicion = &t
	}
	if i.UltimoMantenimiento != nil {
		t := *i.UltimoMantenimiento
		out.UltimoMantenimiento = &t
	}
	if i.Costo != nil {
		c := *i.Costo
		out.Costo = &c
	}
	return out
}
