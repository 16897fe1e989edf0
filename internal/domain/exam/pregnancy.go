package exam

import "fmt"

// AppendPregnancy adds an empty row to the obstetric registry. Rows carry
// free text in every column; clinicians fill them in any order.
func (f *FormState) AppendPregnancy() {
	f.Pregnancies = append(f.Pregnancies, PregnancyEntry{})
}

// UpdatePregnancy sets one column of one registry row. The row index must
// reference an existing entry.
func (f *FormState) UpdatePregnancy(index int, field, value string) error {
	if index < 0 || index >= len(f.Pregnancies) {
		return fmt.Errorf("pregnancy row %d does not exist", index)
	}
	p := &f.Pregnancies[index]
	switch field {
	case "year":
		p.Year = value
	case "term":
		p.Term = value
	case "resolution":
		p.Resolution = value
	case "sex":
		p.Sex = value
	case "weight":
		p.Weight = value
	case "evolution":
		p.Evolution = value
	case "feeding":
		p.Feeding = value
	default:
		return fmt.Errorf("unknown pregnancy field %q", field)
	}
	return nil
}

// RemovePregnancy deletes one registry row, preserving the order of the
// remaining entries.
func (f *FormState) RemovePregnancy(index int) error {
	if index < 0 || index >= len(f.Pregnancies) {
		return fmt.Errorf("pregnancy row %d does not exist", index)
	}
	f.Pregnancies = append(f.Pregnancies[:index], f.Pregnancies[index+1:]...)
	return nil
}
