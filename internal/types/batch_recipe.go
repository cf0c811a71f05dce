package types

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"time"
)

// BatchRecipeFields is the full metadata set snapshotted on every batch
// recipe version. The root row carries a mirror of the active version's
// fields for fast listing; the version row is the source of truth.
type BatchRecipeFields struct {
	Name            string         `gorm:"not null;column:name" json:"name"`
	Description     string         `gorm:"column:description" json:"description,omitempty"`
	YieldQuantity   *float64       `gorm:"column:yield_quantity" json:"yield_quantity,omitempty"`
	YieldUnit       string         `gorm:"column:yield_unit" json:"yield_unit,omitempty"`
	PrepTimeMinutes *int           `gorm:"column:prep_time_minutes" json:"prep_time_minutes,omitempty"`
	CookTimeMinutes *int           `gorm:"column:cook_time_minutes" json:"cook_time_minutes,omitempty"`
	Temperature     *float64       `gorm:"column:temperature" json:"temperature,omitempty"`
	TemperatureUnit string         `gorm:"column:temperature_unit" json:"temperature_unit,omitempty"`
	Equipment       datatypes.JSON `gorm:"column:equipment" json:"equipment,omitempty"`
	Instructions    string         `gorm:"column:instructions" json:"instructions,omitempty"`
	Notes           string         `gorm:"column:notes" json:"notes,omitempty"`
}

// BatchRecipe is the stable root identity of a multi-ingredient batch recipe.
// Versions attach to it; deleting it cascades through all versions and their
// ingredient snapshots.
type BatchRecipe struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChefID string    `gorm:"not null;index;column:chef_id" json:"chef_id"`
	BatchRecipeFields
	IsComplete bool      `gorm:"not null;column:is_complete" json:"is_complete"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (BatchRecipe) TableName() string {
	return "batch_recipes"
}
