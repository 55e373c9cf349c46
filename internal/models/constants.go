package models

import "time"

// ItemStatus is the operational state of an inventory item.
type ItemStatus string

const (
	ItemOperational      ItemStatus = "Operativo"
	ItemUnderMaintenance ItemStatus = "En Mantenimiento"
	ItemDecommissioned   ItemStatus = "De Baja"
	ItemOnLoan           ItemStatus = "En Préstamo"
)

var ItemStatuses = []ItemStatus{ItemOperational, ItemUnderMaintenance, ItemDecommissioned, ItemOnLoan}

func (s ItemStatus) Valid() bool {
	for _, v := range ItemStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ItemCategory groups inventory items for filtering and the dashboard distribution.
type ItemCategory string

const (
	CategoryComputing   ItemCategory = "Cómputo"
	CategoryFurniture   ItemCategory = "Mobiliario"
	CategoryElectronics ItemCategory = "Electrónica"
	CategoryNetworking  ItemCategory = "Redes"
	CategoryChemistry   ItemCategory = "Química"
	CategoryDesign      ItemCategory = "Diseño"
)

var ItemCategories = []ItemCategory{
	CategoryComputing,
	CategoryFurniture,
	CategoryElectronics,
	CategoryNetworking,
	CategoryChemistry,
	CategoryDesign,
}

func (c ItemCategory) Valid() bool {
	for _, v := range ItemCategories {
		if v == c {
			return true
		}
	}
	return false
}

type LabType string

const (
	LabComputing   LabType = "Laboratorio de Cómputo"
	LabNetworking  LabType = "Laboratorio de Redes"
	LabChemistry   LabType = "Laboratorio de Química"
	LabDesign      LabType = "Laboratorio de Diseño"
	LabElectronics LabType = "Laboratorio de Electrónica"
)

var LabTypes = []LabType{LabComputing, LabNetworking, LabChemistry, LabDesign, LabElectronics}

func (t LabType) Valid() bool {
	for _, v := range LabTypes {
		if v == t {
			return true
		}
	}
	return false
}

type BookingStatus string

const (
	BookingConfirmed  BookingStatus = "Confirmada"
	BookingPending    BookingStatus = "Pendiente"
	BookingInProgress BookingStatus = "En Curso"
	BookingFinished   BookingStatus = "Finalizada"
	BookingCancelled  BookingStatus = "Cancelada"
)

var BookingStatuses = []BookingStatus{
	BookingConfirmed,
	BookingPending,
	BookingInProgress,
	BookingFinished,
	BookingCancelled,
}

func (s BookingStatus) Valid() bool {
	for _, v := range BookingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// MovementType classifies a movement and decides its effect on the item.
type MovementType string

const (
	MovementReassignment MovementType = "Reasignación"  // permanent relocation
	MovementLoan         MovementType = "Préstamo"      // temporary
	MovementMaintenance  MovementType = "Mantenimiento" // out for repair
	MovementDecommission MovementType = "Baja"          // permanent removal
)

var MovementTypes = []MovementType{MovementReassignment, MovementLoan, MovementMaintenance, MovementDecommission}

func (t MovementType) Valid() bool {
	for _, v := range MovementTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ResultingStatus is the item status a movement of this type leaves behind.
func (t MovementType) ResultingStatus() ItemStatus {
	switch t {
	case MovementDecommission:
		return ItemDecommissioned
	case MovementMaintenance:
		return ItemUnderMaintenance
	case MovementLoan:
		return ItemOnLoan
	default:
		return ItemOperational
	}
}

// RelocatesItem reports whether the item takes the movement destination as its location.
func (t MovementType) RelocatesItem() bool {
	return t == MovementLoan || t == MovementReassignment
}

const (
	// TimeOfDayLayout is the zero-padded 24h layout used by booking start/end times.
	TimeOfDayLayout = "15:04"

	// DateLayout is used by query parameters and exports.
	DateLayout = "2006-01-02"

	ItemIDPrefix     = "ITEM-"
	BookingIDPrefix  = "BV-"
	MovementIDPrefix = "MOV-"

	MinSubjectLength = 3

	// DefaultRecentActivity is how many bookings the dashboard activity feed returns.
	DefaultRecentActivity = 5
)

const (
	// DefaultSessionTTL is how long a console session keeps its view filter.
	DefaultSessionTTL = 24 * time.Hour

	RateLimitRequests = 30
	RateLimitWindow   = time.Minute
)
