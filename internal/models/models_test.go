package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItem() InventoryItem {
	return InventoryItem{
		Nombre:      "Osciloscopio",
		Categoria:   CategoryElectronics,
		Estado:      ItemOperational,
		Campus:      "Campus Central",
		Edificio:    "Edificio B",
		Laboratorio: "Lab Electrónica 2",
		TipoDeLab:   LabElectronics,
	}
}

func TestInventoryItem_Validate(t *testing.T) {
	neg := decimal.NewFromInt(-1)

	tests := []struct {
		name  string
		edit  func(*InventoryItem)
		field string
	}{
		{name: "valid", edit: func(*InventoryItem) {}},
		{name: "missing name", edit: func(i *InventoryItem) { i.Nombre = "  " }, field: "nombre"},
		{name: "bad category", edit: func(i *InventoryItem) { i.Categoria = "Juguetes" }, field: "categoria"},
		{name: "bad status", edit: func(i *InventoryItem) { i.Estado = "" }, field: "estado"},
		{name: "missing lab", edit: func(i *InventoryItem) { i.Laboratorio = "" }, field: "laboratorio"},
		{name: "bad lab type", edit: func(i *InventoryItem) { i.TipoDeLab = "Cocina" }, field: "tipoDeLab"},
		{name: "negative cost", edit: func(i *InventoryItem) { i.Costo = &neg }, field: "costo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.edit(&item)
			err := item.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestInventoryItem_CloneIsDeep(t *testing.T) {
	now := time.Now()
	cost := decimal.NewFromInt(10)
	item := validItem()
	item.FechaAdquisicion = &now
	item.Costo = &cost

	cp := item.Clone()
	*cp.Costo = decimal.NewFromInt(99)
	*cp.FechaAdquisicion = now.Add(time.Hour)

	assert.True(t, item.Costo.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, now, *item.FechaAdquisicion)
}

func TestLocationCatalog_CheckContainment(t *testing.T) {
	catalog := DefaultLocationCatalog()

	assert.NoError(t, catalog.CheckContainment("", "Campus Central", "Edificio A"))
	assert.NoError(t, catalog.CheckContainment("", "Campus Norte", "Edificio Redes"))
	assert.ErrorIs(t, catalog.CheckContainment("", "Campus Norte", "Edificio A"), ErrValidation)
	assert.ErrorIs(t, catalog.CheckContainment("", "Campus Marte", "Edificio A"), ErrValidation)
	assert.NoError(t, LocationCatalog(nil).CheckContainment("", "anything", "goes"))
}

func TestBooking_Validate(t *testing.T) {
	base := Booking{
		LaboratorioID: "LAB-101",
		TipoDeLab:     LabChemistry,
		Solicitante:   "Ana López",
		Asunto:        "Clase Intro Química",
		Campus:        "Campus Central",
		Edificio:      "Edificio A",
		Fecha:         time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		HoraInicio:    "08:00",
		HoraFin:       "10:00",
		Estado:        BookingConfirmed,
	}
	require.NoError(t, base.Validate())

	noStatus := base
	noStatus.Estado = ""
	assert.ErrorIs(t, noStatus.Validate(), ErrValidation)

	short := base
	short.Asunto = "Qu"
	assert.ErrorIs(t, short.Validate(), ErrValidation)

	unpadded := base
	unpadded.HoraInicio = "8:00"
	assert.ErrorIs(t, unpadded.Validate(), ErrValidation)

	inverted := base
	inverted.HoraFin = "07:00"
	assert.ErrorIs(t, inverted.Validate(), ErrValidation)

	badStatus := base
	badStatus.Estado = "Rechazada"
	assert.ErrorIs(t, badStatus.Validate(), ErrValidation)
}

func TestBooking_Overlaps(t *testing.T) {
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	a := Booking{LaboratorioID: "LAB-1", Fecha: day, HoraInicio: "08:00", HoraFin: "10:00"}

	b := a
	b.HoraInicio, b.HoraFin = "09:30", "11:00"
	assert.True(t, a.Overlaps(b, time.UTC))

	touching := a
	touching.HoraInicio, touching.HoraFin = "10:00", "12:00"
	assert.False(t, a.Overlaps(touching, time.UTC))

	otherLab := b
	otherLab.LaboratorioID = "LAB-2"
	assert.False(t, a.Overlaps(otherLab, time.UTC))

	otherDay := b
	otherDay.Fecha = day.AddDate(0, 0, 1)
	assert.False(t, a.Overlaps(otherDay, time.UTC))
}

func TestBookingPatch_Apply(t *testing.T) {
	b := Booking{ID: "BV-1", Asunto: "Proyecto", HoraInicio: "08:00", HoraFin: "09:00"}
	subject := "Proyecto Final"
	status := BookingInProgress

	got := BookingPatch{Asunto: &subject, Estado: &status}.Apply(b)

	assert.Equal(t, "BV-1", got.ID)
	assert.Equal(t, "Proyecto Final", got.Asunto)
	assert.Equal(t, BookingInProgress, got.Estado)
	assert.Equal(t, "08:00", got.HoraInicio)
}

func TestMovement_Validate(t *testing.T) {
	base := Movement{
		ItemID:      "INV-0001",
		Fecha:       time.Now(),
		Tipo:        MovementLoan,
		Responsable: "Jorge Vega",
		Destino:     &LocationSnapshot{Campus: "Campus Norte", Edificio: "Edificio Redes", Laboratorio: "FabLab"},
	}
	require.NoError(t, base.Validate())

	noDest := base
	noDest.Destino = nil
	assert.ErrorIs(t, noDest.Validate(), ErrValidation)

	decommission := base
	decommission.Tipo = MovementDecommission
	assert.ErrorIs(t, decommission.Validate(), ErrValidation)
	decommission.Destino = nil
	assert.NoError(t, decommission.Validate())

	partial := base
	partial.Destino = &LocationSnapshot{Campus: "Campus Norte"}
	assert.ErrorIs(t, partial.Validate(), ErrValidation)
}

func TestMovementType_Transitions(t *testing.T) {
	assert.Equal(t, ItemDecommissioned, MovementDecommission.ResultingStatus())
	assert.Equal(t, ItemUnderMaintenance, MovementMaintenance.ResultingStatus())
	assert.Equal(t, ItemOnLoan, MovementLoan.ResultingStatus())
	assert.Equal(t, ItemOperational, MovementReassignment.ResultingStatus())

	assert.True(t, MovementLoan.RelocatesItem())
	assert.True(t, MovementReassignment.RelocatesItem())
	assert.False(t, MovementMaintenance.RelocatesItem())
	assert.False(t, MovementDecommission.RelocatesItem())
}
