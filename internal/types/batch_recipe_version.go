package types

import (
	"github.com/google/uuid"
	"time"
)

// BatchRecipeVersion is one immutable snapshot of a batch recipe. Rows are
// append-only; after creation only the is_active flag ever transitions, and
// exactly one row per recipe is active at any time (partial unique index).
type BatchRecipeVersion struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID      uuid.UUID    `gorm:"type:uuid;not null;index;column:recipe_id" json:"recipe_id"`
	Recipe        *BatchRecipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	VersionMajor  int          `gorm:"not null;column:version_major" json:"version_major"`
	VersionMinor  int          `gorm:"not null;column:version_minor" json:"version_minor"`
	IsActive      bool         `gorm:"not null;column:is_active" json:"is_active"`
	CreatedBy     string       `gorm:"not null;column:created_by" json:"created_by"`
	ChangeSummary string       `gorm:"column:change_summary" json:"change_summary"`
	ChangeReason  string       `gorm:"column:change_reason" json:"change_reason,omitempty"`
	BatchRecipeFields
	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	Ingredients []*BatchVersionIngredient `gorm:"foreignKey:VersionID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
}

func (BatchRecipeVersion) TableName() string {
	return "batch_recipe_versions"
}

func (v *BatchRecipeVersion) Version() VersionNumber {
	return VersionNumber{Major: v.VersionMajor, Minor: v.VersionMinor}
}

// BatchVersionIngredient is the per-version copy of one ingredient
// association. The scalar fields are owned by the snapshot; only the
// ingredient identity is a foreign reference, and deleting the catalog
// ingredient cascades the row away while the rest of the snapshot survives.
type BatchVersionIngredient struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	VersionID        uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:uniq_batch_version_ingredient;column:version_id" json:"version_id"`
	Version          *BatchRecipeVersion `gorm:"foreignKey:VersionID;constraint:OnDelete:CASCADE" json:"-"`
	IngredientID     uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:uniq_batch_version_ingredient;column:ingredient_id" json:"ingredient_id"`
	Ingredient       *Ingredient         `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
	Quantity         float64             `gorm:"not null;column:quantity" json:"quantity"`
	Unit             string              `gorm:"not null;column:unit" json:"unit"`
	PreparationNotes string              `gorm:"column:preparation_notes" json:"preparation_notes,omitempty"`
	IsOptional       bool                `gorm:"not null;column:is_optional" json:"is_optional"`
}

func (BatchVersionIngredient) TableName() string {
	return "batch_version_ingredients"
}
