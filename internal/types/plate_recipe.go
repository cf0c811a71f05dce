package types

import (
	"github.com/google/uuid"
	"time"
)

// PlateRecipeFields is the full metadata set snapshotted on every plate
// recipe version.
type PlateRecipeFields struct {
	Name                string `gorm:"not null;column:name" json:"name"`
	Description         string `gorm:"column:description" json:"description,omitempty"`
	Serves              *int   `gorm:"column:serves" json:"serves,omitempty"`
	Category            string `gorm:"column:category" json:"category,omitempty"`
	Cuisine             string `gorm:"column:cuisine" json:"cuisine,omitempty"`
	PlatingInstructions string `gorm:"column:plating_instructions" json:"plating_instructions,omitempty"`
	Garnish             string `gorm:"column:garnish" json:"garnish,omitempty"`
	PresentationNotes   string `gorm:"column:presentation_notes" json:"presentation_notes,omitempty"`
	PrepTimeMinutes     *int   `gorm:"column:prep_time_minutes" json:"prep_time_minutes,omitempty"`
	CookTimeMinutes     *int   `gorm:"column:cook_time_minutes" json:"cook_time_minutes,omitempty"`
	Difficulty          string `gorm:"column:difficulty" json:"difficulty,omitempty"`
	Notes               string `gorm:"column:notes" json:"notes,omitempty"`
}

// PlateRecipe is the stable root identity of a plated dish, assembled from
// batch recipes and direct ingredients.
type PlateRecipe struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChefID string    `gorm:"not null;index;column:chef_id" json:"chef_id"`
	PlateRecipeFields
	IsComplete bool      `gorm:"not null;column:is_complete" json:"is_complete"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (PlateRecipe) TableName() string {
	return "plate_recipes"
}
