package types

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"time"
)

// Ingredient is the chef's master catalog entry. It is mutable and never
// versioned; recipe snapshots copy its scalar values at reference time and
// keep only the id as a foreign reference.
type Ingredient struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ChefID    string         `gorm:"not null;index;column:chef_id" json:"chef_id"`
	Name      string         `gorm:"not null;column:name" json:"name"`
	Unit      string         `gorm:"column:unit" json:"unit"`
	Category  string         `gorm:"column:category" json:"category"`
	Allergens datatypes.JSON `gorm:"column:allergens" json:"allergens,omitempty"`
	Notes     string         `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
