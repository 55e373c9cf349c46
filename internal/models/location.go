package models

import (
	"sort"
	"strings"
)

// LocationSnapshot is a campus/building/lab triple captured at a point in time.
type LocationSnapshot struct {
	Campus      string `json:"campus" yaml:"campus"`
	Edificio    string `json:"edificio" yaml:"edificio"`
	Laboratorio string `json:"laboratorio" yaml:"laboratorio"`
}

func (l LocationSnapshot) Validate(prefix string) error {
	if strings.TrimSpace(l.Campus) == "" {
		return invalid(prefix+"campus", "is required")
	}
	if strings.TrimSpace(l.Edificio) == "" {
		return invalid(prefix+"edificio", "is required")
	}
	if strings.TrimSpace(l.Laboratorio) == "" {
		return invalid(prefix+"laboratorio", "is required")
	}
	return nil
}

// LocationCatalog maps each campus to the buildings it contains.
type LocationCatalog map[string][]string

// Campuses returns the campus names in alphabetical order.
func (c LocationCatalog) Campuses() []string {
	out := make([]string, 0, len(c))
	for campus := range c {
		out = append(out, campus)
	}
	sort.Strings(out)
	return out
}

func (c LocationCatalog) Buildings(campus string) []string {
	return c[campus]
}

// CheckContainment returns a ValidationError when building does not belong to campus.
// An empty catalog accepts everything.
func (c LocationCatalog) CheckContainment(prefix, campus, building string) error {
	if len(c) == 0 {
		return nil
	}
	buildings, ok := c[campus]
	if !ok {
		return invalid(prefix+"campus", "unknown campus "+campus)
	}
	for _, b := range buildings {
		if b == building {
			return nil
		}
	}
	return invalid(prefix+"edificio", building+" does not belong to "+campus)
}

// DefaultLocationCatalog merges the building lists used by the inventory,
// booking and movement pickers of the console.
func DefaultLocationCatalog() LocationCatalog {
	return LocationCatalog{
		"Campus Central": {"Edificio A", "Edificio B", "Edificio C", "Ciencias"},
		"Campus Norte":   {"Edificio D", "Edificio E", "Edificio Redes", "FabLab"},
		"Campus Sur":     {"Edificio F", "Edificio G", "Ciencias", "Ingeniería"},
	}
}
