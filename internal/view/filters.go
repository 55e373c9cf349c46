// Package view derives what the console screens display from repository
// results: dependent filter options, filtered item lists and summary stats.
// Every function is pure.
package view

import "labtrack/internal/models"

// BuildingOptions lists the distinct buildings of items located in the
// selected campus, in first-seen order. It is empty when no campus is selected.
func BuildingOptions(items []models.InventoryItem, filter models.FilterState) []string {
	options := []string{}
	if filter.Campus == nil {
		return options
	}

	seen := make(map[string]bool)
	for _, item := range items {
		if item.Campus != *filter.Campus || seen[item.Edificio] {
			continue
		}
		seen[item.Edificio] = true
		options = append(options, item.Edificio)
	}
	return options
}

// FilterItems keeps the items matching every set field of filter, preserving order.
func FilterItems(items []models.InventoryItem, filter models.FilterState) []models.InventoryItem {
	out := make([]models.InventoryItem, 0, len(items))
	for _, item := range items {
		if Matches(item, filter) {
			out = append(out, item)
		}
	}
	return out
}

func Matches(item models.InventoryItem, filter models.FilterState) bool {
	if filter.Campus != nil && item.Campus != *filter.Campus {
		return false
	}
	if filter.Edificio != nil && item.Edificio != *filter.Edificio {
		return false
	}
	if filter.TipoDeLab != nil && item.TipoDeLab != *filter.TipoDeLab {
		return false
	}
	if filter.Categoria != nil && item.Categoria != *filter.Categoria {
		return false
	}
	if filter.Estado != nil && item.Estado != *filter.Estado {
		return false
	}
	return true
}

// InventoryPage is what the inventory screen renders for a filter selection.
type InventoryPage struct {
	Items           []models.InventoryItem `json:"items"`
	BuildingOptions []string               `json:"buildingOptions"`
	Filter          models.FilterState     `json:"filter"`
}

func BuildInventoryPage(items []models.InventoryItem, filter models.FilterState) InventoryPage {
	return InventoryPage{
		Items:           FilterItems(items, filter),
		BuildingOptions: BuildingOptions(items, filter),
		Filter:          filter,
	}
}
