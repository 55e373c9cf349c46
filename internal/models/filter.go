package models

// FilterState is the dependent filter selection of the inventory view.
// A nil field means "any".
type FilterState struct {
	Campus    *string       `json:"campus"`
	Edificio  *string       `json:"edificio"`
	TipoDeLab *LabType      `json:"tipoDeLab"`
	Categoria *ItemCategory `json:"categoria"`
	Estado    *ItemStatus   `json:"estado"`
}

func (f FilterState) Validate() error {
	if f.TipoDeLab != nil && !f.TipoDeLab.Valid() {
		return invalid("tipoDeLab", "unknown lab type "+string(*f.TipoDeLab))
	}
	if f.Categoria != nil && !f.Categoria.Valid() {
		return invalid("categoria", "unknown category "+string(*f.Categoria))
	}
	if f.Estado != nil && !f.Estado.Valid() {
		return invalid("estado", "unknown status "+string(*f.Estado))
	}
	return nil
}

// SelectCampus sets the campus and always clears the building.
func (f FilterState) SelectCampus(campus *string) FilterState {
	f.Campus = campus
	f.Edificio = nil
	return f
}

func (f FilterState) SelectBuilding(building *string) FilterState {
	f.Edificio = building
	return f
}
