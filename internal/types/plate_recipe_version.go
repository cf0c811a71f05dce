package types

import (
	"github.com/google/uuid"
	"time"
)

// PlateRecipeVersion is one immutable snapshot of a plate recipe, including
// both its direct-ingredient associations and its batch-recipe components.
type PlateRecipeVersion struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID      uuid.UUID    `gorm:"type:uuid;not null;index;column:recipe_id" json:"recipe_id"`
	Recipe        *PlateRecipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	VersionMajor  int          `gorm:"not null;column:version_major" json:"version_major"`
	VersionMinor  int          `gorm:"not null;column:version_minor" json:"version_minor"`
	IsActive      bool         `gorm:"not null;column:is_active" json:"is_active"`
	CreatedBy     string       `gorm:"not null;column:created_by" json:"created_by"`
	ChangeSummary string       `gorm:"column:change_summary" json:"change_summary"`
	ChangeReason  string       `gorm:"column:change_reason" json:"change_reason,omitempty"`
	PlateRecipeFields
	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	Ingredients     []*PlateVersionIngredient `gorm:"foreignKey:VersionID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	BatchComponents []*PlateVersionBatch      `gorm:"foreignKey:VersionID;constraint:OnDelete:CASCADE" json:"batch_components,omitempty"`
}

func (PlateRecipeVersion) TableName() string {
	return "plate_recipe_versions"
}

func (v *PlateRecipeVersion) Version() VersionNumber {
	return VersionNumber{Major: v.VersionMajor, Minor: v.VersionMinor}
}

type PlateVersionIngredient struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	VersionID        uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:uniq_plate_version_ingredient;column:version_id" json:"version_id"`
	Version          *PlateRecipeVersion `gorm:"foreignKey:VersionID;constraint:OnDelete:CASCADE" json:"-"`
	IngredientID     uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:uniq_plate_version_ingredient;column:ingredient_id" json:"ingredient_id"`
	Ingredient       *Ingredient         `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
	Quantity         float64             `gorm:"not null;column:quantity" json:"quantity"`
	Unit             string              `gorm:"not null;column:unit" json:"unit"`
	PreparationNotes string              `gorm:"column:preparation_notes" json:"preparation_notes,omitempty"`
	IsGarnish        bool                `gorm:"not null;column:is_garnish" json:"is_garnish"`
	IsOptional       bool                `gorm:"not null;column:is_optional" json:"is_optional"`
}

func (PlateVersionIngredient) TableName() string {
	return "plate_version_ingredients"
}

// PlateVersionBatch is the per-version copy of one batch-recipe component of
// a plate, ordered by assembly step.
type PlateVersionBatch struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	VersionID        uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:uniq_plate_version_batch;column:version_id" json:"version_id"`
	Version          *PlateRecipeVersion `gorm:"foreignKey:VersionID;constraint:OnDelete:CASCADE" json:"-"`
	BatchRecipeID    uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:uniq_plate_version_batch;column:batch_recipe_id" json:"batch_recipe_id"`
	BatchRecipe      *BatchRecipe        `gorm:"foreignKey:BatchRecipeID;constraint:OnDelete:CASCADE" json:"batch_recipe,omitempty"`
	Quantity         *float64            `gorm:"column:quantity" json:"quantity,omitempty"`
	Unit             string              `gorm:"column:unit" json:"unit,omitempty"`
	AssemblyOrder    int                 `gorm:"not null;column:assembly_order" json:"assembly_order"`
	PreparationNotes string              `gorm:"column:preparation_notes" json:"preparation_notes,omitempty"`
}

func (PlateVersionBatch) TableName() string {
	return "plate_version_batches"
}
