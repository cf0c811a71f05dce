package repos

import (
	"context"
	"github.com/google/uuid"
	"github.com/platewise/recipeledger/internal/logger"
	"github.com/platewise/recipeledger/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BatchRecipeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, recipes []*types.BatchRecipe) ([]*types.BatchRecipe, error)
	GetByID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.BatchRecipe, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.BatchRecipe, error)
	GetByChefAndName(ctx context.Context, tx *gorm.DB, chefID, name string) (*types.BatchRecipe, error)
	ListByChef(ctx context.Context, tx *gorm.DB, chefID string) ([]*types.BatchRecipe, error)
	Save(ctx context.Context, tx *gorm.DB, recipe *types.BatchRecipe) error
	Delete(ctx context.Context, tx *gorm.DB, chefID string, recipeID uuid.UUID) (int64, error)
}

type batchRecipeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBatchRecipeRepo(db *gorm.DB, baseLog *logger.Logger) BatchRecipeRepo {
	repoLog := baseLog.With("repo", "BatchRecipeRepo")
	return &batchRecipeRepo{db: db, log: repoLog}
}

func (br *batchRecipeRepo) Create(ctx context.Context, tx *gorm.DB, recipes []*types.BatchRecipe) ([]*types.BatchRecipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	if len(recipes) == 0 {
		return []*types.BatchRecipe{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&recipes).Error; err != nil {
		return nil, err
	}

	return recipes, nil
}

func (br *batchRecipeRepo) GetByID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.BatchRecipe, error) {
	return br.getByID(ctx, tx, recipeID, false)
}

// GetByIDForUpdate loads the root row as the serialization point for
// concurrent version creation. Row locks exist on Postgres only; the SQLite
// test database serializes writers on its own.
func (br *batchRecipeRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.BatchRecipe, error) {
	return br.getByID(ctx, tx, recipeID, true)
}

func (br *batchRecipeRepo) getByID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, forUpdate bool) (*types.BatchRecipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	q := transaction.WithContext(ctx)
	if forUpdate && transaction.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var results []*types.BatchRecipe
	if err := q.Where("id = ?", recipeID).Limit(1).Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (br *batchRecipeRepo) GetByChefAndName(ctx context.Context, tx *gorm.DB, chefID, name string) (*types.BatchRecipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var results []*types.BatchRecipe
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

func (br *batchRecipeRepo) ListByChef(ctx context.Context, tx *gorm.DB, chefID string) ([]*types.BatchRecipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var results []*types.BatchRecipe
	if err := transaction.WithContext(ctx).
		Where("chef_id = ?", chefID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (br *batchRecipeRepo) Save(ctx context.Context, tx *gorm.DB, recipe *types.BatchRecipe) error {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	return transaction.WithContext(ctx).Save(recipe).Error
}

func (br *batchRecipeRepo) Delete(ctx context.Context, tx *gorm.DB, chefID string, recipeID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	result := transaction.WithContext(ctx).
		Where("chef_id = ? AND id = ?", chefID, recipeID).
		Delete(&types.BatchRecipe{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
