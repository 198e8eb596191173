package entities

import (
	"github.com/google/uuid"
)

// Ingredient is a catalog entry. The same name may appear with different
// measurement units, but a (name, unit) pair exists at most once.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name            string    `gorm:"not null;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}
