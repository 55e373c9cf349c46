package models

import (
	"strings"
	"time"
)

// Booking is a scheduled reservation of a lab.
type Booking struct {
	ID                string        `json:"id" yaml:"id"`
	LaboratorioID     string        `json:"laboratorioId" yaml:"laboratorioId"`
	LaboratorioNombre string        `json:"laboratorioNombre" yaml:"laboratorioNombre"`
	TipoDeLab         LabType       `json:"tipoDeLab" yaml:"tipoDeLab"`
	Solicitante       string        `json:"solicitante" yaml:"solicitante"`
	AvatarURL         string        `json:"avatarUrl,omitempty" yaml:"avatarUrl,omitempty"`
	Asunto            string        `json:"asunto" yaml:"asunto"`
	Campus            string        `json:"campus" yaml:"campus"`
	Edificio          string        `json:"edificio" yaml:"edificio"`
	Fecha             time.Time     `json:"fecha" yaml:"fecha"`
	HoraInicio        string        `json:"horaInicio" yaml:"horaInicio"` // HH:MM
	HoraFin           string        `json:"horaFin" yaml:"horaFin"`       // HH:MM
	Estado            BookingStatus `json:"estado" yaml:"estado"`
}

// BookingPatch carries a partial update; nil fields are left untouched.
type BookingPatch struct {
	LaboratorioID     *string        `json:"laboratorioId,omitempty"`
	LaboratorioNombre *string        `json:"laboratorioNombre,omitempty"`
	TipoDeLab         *LabType       `json:"tipoDeLab,omitempty"`
	Solicitante       *string        `json:"solicitante,omitempty"`
	AvatarURL         *string        `json:"avatarUrl,omitempty"`
	Asunto            *string        `json:"asunto,omitempty"`
	Campus            *string        `json:"campus,omitempty"`
	Edificio          *string        `json:"edificio,omitempty"`
	Fecha             *time.Time     `json:"fecha,omitempty"`
	HoraInicio        *string        `json:"horaInicio,omitempty"`
	HoraFin           *string        `json:"horaFin,omitempty"`
	Estado            *BookingStatus `json:"estado,omitempty"`
}

// Apply merges the patch into b. The id is never patched.
func (p BookingPatch) Apply(b Booking) Booking {
	if p.LaboratorioID != nil {
		b.LaboratorioID = *p.LaboratorioID
	}
	if p.LaboratorioNombre != nil {
		b.LaboratorioNombre = *p.LaboratorioNombre
	}
	if p.TipoDeLab != nil {
		b.TipoDeLab = *p.TipoDeLab
	}
	if p.Solicitante != nil {
		b.Solicitante = *p.Solicitante
	}
	if p.AvatarURL != nil {
		b.AvatarURL = *p.AvatarURL
	}
	if p.Asunto != nil {
		b.Asunto = *p.Asunto
	}
	if p.Campus != nil {
		b.Campus = *p.Campus
	}
	if p.Edificio != nil {
		b.Edificio = *p.Edificio
	}
	if p.Fecha != nil {
		b.Fecha = *p.Fecha
	}
	if p.HoraInicio != nil {
		b.HoraInicio = *p.HoraInicio
	}
	if p.HoraFin != nil {
		b.HoraFin = *p.HoraFin
	}
	if p.Estado != nil {
		b.Estado = *p.Estado
	}
	return b
}

func (b Booking) Validate() error {
	if len([]rune(strings.TrimSpace(b.Asunto))) < MinSubjectLength {
		return invalid("asunto", "is too short")
	}
	if strings.TrimSpace(b.Solicitante) == "" {
		return invalid("solicitante", "is required")
	}
	if strings.TrimSpace(b.Campus) == "" {
		return invalid("campus", "is required")
	}
	if strings.TrimSpace(b.Edificio) == "" {
		return invalid("edificio", "is required")
	}
	if !b.TipoDeLab.Valid() {
		return invalid("tipoDeLab", "unknown lab type "+string(b.TipoDeLab))
	}
	if strings.TrimSpace(b.LaboratorioID) == "" {
		return invalid("laboratorioId", "is required")
	}
	if b.Fecha.IsZero() {
		return invalid("fecha", "is required")
	}
	if !ValidTimeOfDay(b.HoraInicio) {
		return invalid("horaInicio", "must be HH:MM")
	}
	if !ValidTimeOfDay(b.HoraFin) {
		return invalid("horaFin", "must be HH:MM")
	}
	if b.HoraFin <= b.HoraInicio {
		return invalid("horaFin", "must be after horaInicio")
	}
	if !b.Estado.Valid() {
		return invalid("estado", "unknown status "+string(b.Estado))
	}
	return nil
}

// Active reports whether the booking still occupies its time slot.
func (b Booking) Active() bool {
	return b.Estado != BookingCancelled
}

// Overlaps reports whether both bookings hold the same lab on the same
// calendar day with intersecting [start, end) intervals.
func (b Booking) Overlaps(other Booking, loc *time.Location) bool {
	if b.LaboratorioID != other.LaboratorioID {
		return false
	}
	if !SameDay(b.Fecha, other.Fecha, loc) {
		return false
	}
	return b.HoraInicio < other.HoraFin && other.HoraInicio < b.HoraFin
}

// ValidTimeOfDay accepts only zero-padded 24h "HH:MM" strings, which keeps
// lexicographic comparison equal to chronological comparison.
func ValidTimeOfDay(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse(TimeOfDayLayout, s)
	return err == nil
}

// SameDay compares calendar dates in loc, ignoring the time of day.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
