package repos

import (
	"context"
	"github.com/google/uuid"
	"github.com/platewise/recipeledger/internal/logger"
	"github.com/platewise/recipeledger/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlateRecipeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, recipes []*types.PlateRecipe) ([]*types.PlateRecipe, error)
	GetByID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.PlateRecipe, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.PlateRecipe, error)
	GetByChefAndName(ctx context.Context, tx *gorm.DB, chefID, name string) (*types.PlateRecipe, error)
	ListByChef(ctx context.Context, tx *gorm.DB, chefID string) ([]*types.PlateRecipe, error)
	Save(ctx context.Context, tx *gorm.DB, recipe *types.PlateRecipe) error
	Delete(ctx context.Context, tx *gorm.DB, chefID string, recipeID uuid.UUID) (int64, error)
}

type plateRecipeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlateRecipeRepo(db *gorm.DB, baseLog *logger.Logger) PlateRecipeRepo {
	repoLog := baseLog.With("repo", "PlateRecipeRepo")
	return &plateRecipeRepo{db: db, log: repoLog}
}

func (pr *plateRecipeRepo) Create(ctx context.Context, tx *gorm.DB, recipes []*types.PlateRecipe) ([]*types.PlateRecipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(recipes) == 0 {
		return []*types.PlateRecipe{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&recipes).Error; err != nil {
		return nil, err
	}

	return recipes, nil
}

func (pr *plateRecipeRepo) GetByID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.PlateRecipe, error) {
	return pr.getByID(ctx, tx, recipeID, false)
}

func (pr *plateRecipeRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.PlateRecipe, error) {
	return pr.getByID(ctx, tx, recipeID, true)
}

func (pr *plateRecipeRepo) getByID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, forUpdate bool) (*types.PlateRecipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	q := transaction.WithContext(ctx)
	if forUpdate && transaction.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var results []*types.PlateRecipe
	if err := q.Where("id = ?", recipeID).Limit(1).Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (pr *plateRecipeRepo) GetByChefAndName(ctx context.Context, tx *gorm.DB, chefID, name string) (*types.PlateRecipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.PlateRecipe
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

func (pr *plateRecipeRepo) ListByChef(ctx context.Context, tx *gorm.DB, chefID string) ([]*types.PlateRecipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.PlateRecipe
	if err := transaction.WithContext(ctx).
		Where("chef_id = ?", chefID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *plateRecipeRepo) Save(ctx context.Context, tx *gorm.DB, recipe *types.PlateRecipe) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).Save(recipe).Error
}

func (pr *plateRecipeRepo) Delete(ctx context.Context, tx *gorm.DB, chefID string, recipeID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	result := transaction.WithContext(ctx).
		Where("chef_id = ? AND id = ?", chefID, recipeID).
		Delete(&types.PlateRecipe{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
