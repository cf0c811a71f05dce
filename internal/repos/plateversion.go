package repos

import (
	"context"
	"github.com/google/uuid"
	"github.com/platewise/recipeledger/internal/logger"
	"github.com/platewise/recipeledger/internal/types"
	"gorm.io/gorm"
)

type PlateVersionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, version *types.PlateRecipeVersion) (*types.PlateRecipeVersion, error)
	GetActive(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.PlateRecipeVersion, error)
	GetMax(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.PlateRecipeVersion, error)
	GetByNumber(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, number types.VersionNumber) (*types.PlateRecipeVersion, error)
	ListByRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) ([]*types.PlateRecipeVersion, error)
	GetIngredients(ctx context.Context, tx *gorm.DB, versionIDs []uuid.UUID) ([]*types.PlateVersionIngredient, error)
	GetBatchComponents(ctx context.Context, tx *gorm.DB, versionIDs []uuid.UUID) ([]*types.PlateVersionBatch, error)
	Deactivate(ctx context.Context, tx *gorm.DB, versionID uuid.UUID) error
}

type plateVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlateVersionRepo(db *gorm.DB, baseLog *logger.Logger) PlateVersionRepo {
	repoLog := baseLog.With("repo", "PlateVersionRepo")
	return &plateVersionRepo{db: db, log: repoLog}
}

func (pv *plateVersionRepo) Create(ctx context.Context, tx *gorm.DB, version *types.PlateRecipeVersion) (*types.PlateRecipeVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = pv.db
	}

	if err := transaction.WithContext(ctx).Create(version).Error; err != nil {
		return nil, err
	}
	return version, nil
}

func (pv *plateVersionRepo) GetActive(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.PlateRecipeVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = pv.db
	}

	var results []*types.PlateRecipeVersion
	if err := transaction.WithContext(ctx).
		Preload("Ingredients.Ingredient").
		Preload("BatchComponents.BatchRecipe").
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

func (pv *plateVersionRepo) GetMax(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.PlateRecipeVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = pv.db
	}

	var results []*types.PlateRecipeVersion
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

func (pv *plateVersionRepo) GetByNumber(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, number types.VersionNumber) (*types.PlateRecipeVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = pv.db
	}

	var results []*types.PlateRecipeVersion
	if err := transaction.WithContext(ctx).
		Preload("Ingredients.Ingredient").
		Preload("BatchComponents.BatchRecipe").
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

func (pv *plateVersionRepo) ListByRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) ([]*types.PlateRecipeVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = pv.db
	}

	var results []*types.PlateRecipeVersion
	if err := transaction.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("version_major DESC, version_minor DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pv *plateVersionRepo) GetIngredients(ctx context.Context, tx *gorm.DB, versionIDs []uuid.UUID) ([]*types.PlateVersionIngredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = pv.db
	}

	var results []*types.PlateVersionIngredient
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

func (pv *plateVersionRepo) GetBatchComponents(ctx context.Context, tx *gorm.DB, versionIDs []uuid.UUID) ([]*types.PlateVersionBatch, error) {
	transaction := tx
	if transaction == nil {
		transaction = pv.db
	}

	var results []*types.PlateVersionBatch
	if len(versionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("BatchRecipe").
		Where("version_id IN ?", versionIDs).
		Order("assembly_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pv *plateVersionRepo) Deactivate(ctx context.Context, tx *gorm.DB, versionID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pv.db
	}

	return transaction.WithContext(ctx).
		Model(&types.PlateRecipeVersion{}).
		Where("id = ?", versionID).
		Update("is_active", false).Error
}
