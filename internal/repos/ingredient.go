package repos

import (
	"context"
	"github.com/google/uuid"
	"github.com/platewise/recipeledger/internal/logger"
	"github.com/platewise/recipeledger/internal/types"
	"gorm.io/gorm"
)

type IngredientRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ingredients []*types.Ingredient) ([]*types.Ingredient, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ingredientIDs []uuid.UUID) ([]*types.Ingredient, error)
	GetByChefAndName(ctx context.Context, tx *gorm.DB, chefID, name string) (*types.Ingredient, error)
	ListByChef(ctx context.Context, tx *gorm.DB, chefID string) ([]*types.Ingredient, error)
	Delete(ctx context.Context, tx *gorm.DB, chefID string, ingredientID uuid.UUID) (int64, error)
}

type ingredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	repoLog := baseLog.With("repo", "IngredientRepo")
	return &ingredientRepo{db: db, log: repoLog}
}

func (ir *ingredientRepo) Create(ctx context.Context, tx *gorm.DB, ingredients []*types.Ingredient) ([]*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	if len(ingredients) == 0 {
		return []*types.Ingredient{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&ingredients).Error; err != nil {
		return nil, err
	}

	return ingredients, nil
}

func (ir *ingredientRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ingredientIDs []uuid.UUID) ([]*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.Ingredient
	if len(ingredientIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ingredientIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *ingredientRepo) GetByChefAndName(ctx context.Context, tx *gorm.DB, chefID, name string) (*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.Ingredient
	if err := transaction.WithContext(ctx).
		Where("chef_id = ? AND LOWER(name) = LOWER(?)", chefID, name).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (ir *ingredientRepo) ListByChef(ctx context.Context, tx *gorm.DB, chefID string) ([]*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.Ingredient
	if err := transaction.WithContext(ctx).
		Where("chef_id = ?", chefID).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *ingredientRepo) Delete(ctx context.Context, tx *gorm.DB, chefID string, ingredientID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	result := transaction.WithContext(ctx).
		Where("chef_id = ? AND id = ?", chefID, ingredientID).
		Delete(&types.Ingredient{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
