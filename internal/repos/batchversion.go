package repos

import (
	"context"
	"github.com/google/uuid"
	"github.com/platewise/recipeledger/internal/logger"
	"github.com/platewise/recipeledger/internal/types"
	"gorm.io/gorm"
)

type BatchVersionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, version *types.BatchRecipeVersion) (*types.BatchRecipeVersion, error)
	GetActive(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.BatchRecipeVersion, error)
	GetMax(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.BatchRecipeVersion, error)
	GetByNumber(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, number types.VersionNumber) (*types.BatchRecipeVersion, error)
	ListByRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) ([]*types.BatchRecipeVersion, error)
	GetIngredients(ctx context.Context, tx *gorm.DB, versionIDs []uuid.UUID) ([]*types.BatchVersionIngredient, error)
	Deactivate(ctx context.Context, tx *gorm.DB, versionID uuid.UUID) error
}

type batchVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBatchVersionRepo(db *gorm.DB, baseLog *logger.Logger) BatchVersionRepo {
	repoLog := baseLog.With("repo", "BatchVersionRepo")
	return &batchVersionRepo{db: db, log: repoLog}
}

func (bv *batchVersionRepo) Create(ctx context.Context, tx *gorm.DB, version *types.BatchRecipeVersion) (*types.BatchRecipeVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = bv.db
	}

	if err := transaction.WithContext(ctx).Create(version).Error; err != nil {
		return nil, err
	}
	return version, nil
}

func (bv *batchVersionRepo) GetActive(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.BatchRecipeVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = bv.db
	}

	var results []*types.BatchRecipeVersion
	if err := transaction.WithContext(ctx).
		Preload("Ingredients.Ingredient").
		Where("recipe_id = ? AND is_active", recipeID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (bv *batchVersionRepo) GetMax(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.BatchRecipeVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = bv.db
	}

	var results []*types.BatchRecipeVersion
	if err := transaction.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("version_major DESC, version_minor DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (bv *batchVersionRepo) GetByNumber(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, number types.VersionNumber) (*types.BatchRecipeVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = bv.db
	}

	var results []*types.BatchRecipeVersion
	if err := transaction.WithContext(ctx).
		Preload("Ingredients.Ingredient").
		Where("recipe_id = ? AND version_major = ? AND version_minor = ?", recipeID, number.Major, number.Minor).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// ListByRecipe returns snapshot metadata only, newest first. Ingredient rows
// are loaded on demand through GetIngredients to keep history reads flat.
func (bv *batchVersionRepo) ListByRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) ([]*types.BatchRecipeVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = bv.db
	}

	var results []*types.BatchRecipeVersion
	if err := transaction.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("version_major DESC, version_minor DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (bv *batchVersionRepo) GetIngredients(ctx context.Context, tx *gorm.DB, versionIDs []uuid.UUID) ([]*types.BatchVersionIngredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = bv.db
	}

	var results []*types.BatchVersionIngredient
	if len(versionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Ingredient").
		Where("version_id IN ?", versionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (bv *batchVersionRepo) Deactivate(ctx context.Context, tx *gorm.DB, versionID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = bv.db
	}

	return transaction.WithContext(ctx).
		Model(&types.BatchRecipeVersion{}).
		Where("id = ?", versionID).
		Update("is_active", false).Error
}
