package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/recipeledger/internal/apierr"
	"github.com/platewise/recipeledger/internal/logger"
	"github.com/platewise/recipeledger/internal/repos"
	"github.com/platewise/recipeledger/internal/sse"
	"github.com/platewise/recipeledger/internal/types"
)

type CreateBatchRecipeInput struct {
	Fields      types.BatchRecipeFields `json:"fields"`
	Ingredients []IngredientInput       `json:"ingredients"`
	IsComplete  bool                    `json:"is_complete"`
	Reason      string                  `json:"reason"`
}

type CreatePlateRecipeInput struct {
	Fields          types.PlateRecipeFields `json:"fields"`
	Ingredients     []IngredientInput       `json:"ingredients"`
	BatchComponents []BatchComponentInput   `json:"batch_components"`
	IsComplete      bool                    `json:"is_complete"`
	Reason          string                  `json:"reason"`
}

type RecipeList struct {
	BatchRecipes []*types.BatchRecipe `json:"batch_recipes"`
	PlateRecipes []*types.PlateRecipe `json:"plate_recipes"`
}

// RecipeService owns recipe root lifecycle. Creating a recipe creates the
// root and its version 1.0 in one transaction, so a root without any version
// is never observable.
type RecipeService interface {
	CreateBatchRecipe(ctx context.Context, tx *gorm.DB, in CreateBatchRecipeInput) (*types.BatchRecipe, *types.BatchRecipeVersion, error)
	CreatePlateRecipe(ctx context.Context, tx *gorm.DB, in CreatePlateRecipeInput) (*types.PlateRecipe, *types.PlateRecipeVersion, error)
	GetBatchRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.BatchRecipe, error)
	GetPlateRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.PlateRecipe, error)
	ListRecipes(ctx context.Context, tx *gorm.DB) (*RecipeList, error)
	DeleteRecipe(ctx context.Context, tx *gorm.DB, kind string, recipeID uuid.UUID) error
}

type recipeService struct {
	db              *gorm.DB
	log             *logger.Logger
	batchRecipeRepo repos.BatchRecipeRepo
	plateRecipeRepo repos.PlateRecipeRepo
	ledger          LedgerService
	cache           ActiveVersionCache
	hub             *sse.SSEHub
}

func NewRecipeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	batchRecipeRepo repos.BatchRecipeRepo,
	plateRecipeRepo repos.PlateRecipeRepo,
	ledger LedgerService,
	cache ActiveVersionCache,
	hub *sse.SSEHub,
) RecipeService {
	serviceLog := baseLog.With("service", "RecipeService")
	return &recipeService{
		db:              db,
		log:             serviceLog,
		batchRecipeRepo: batchRecipeRepo,
		plateRecipeRepo: plateRecipeRepo,
		ledger:          ledger,
		cache:           cache,
		hub:             hub,
	}
}

func (rs *recipeService) CreateBatchRecipe(ctx context.Context, tx *gorm.DB, in CreateBatchRecipeInput) (*types.BatchRecipe, *types.BatchRecipeVersion, error) {
	chefID, err := chefFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(in.Fields.Name) == "" {
		return nil, nil, apierr.Validation(apierr.CodeInvalidField, "name must not be empty")
	}

	transaction := tx
	if transaction == nil {
		transaction = rs.db
	}

	var root *types.BatchRecipe
	var version *types.BatchRecipeVersion
	txErr := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		existing, err := rs.batchRecipeRepo.GetByChefAndName(ctx, txx, chefID, in.Fields.Name)
		if err != nil {
			return fmt.Errorf("look up batch recipe: %w", err)
		}
		if existing != nil {
			return apierr.Conflict(apierr.CodeDuplicateName, "a batch recipe named %q already exists", in.Fields.Name)
		}

		rows, err := rs.batchRecipeRepo.Create(ctx, txx, []*types.BatchRecipe{{
			ID:                uuid.New(),
			ChefID:            chefID,
			BatchRecipeFields: in.Fields,
			IsComplete:        in.IsComplete,
		}})
		if err != nil {
			return fmt.Errorf("insert batch recipe: %w", err)
		}
		root = rows[0]

		version, err = rs.ledger.CreateBatchVersion(ctx, txx, root.ID, CreateBatchVersionInput{
			Fields:      in.Fields,
			Ingredients: in.Ingredients,
			Reason:      in.Reason,
			AuthorID:    chefID,
		})
		if err != nil {
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, nil, translateTxError(txErr)
	}

	if tx == nil && rs.hub != nil {
		rs.hub.Broadcast(sse.SSEMessage{
			Channel: chefID,
			Event:   sse.SSEEventRecipeCreated,
			Data: map[string]interface{}{
				"recipe_id":   root.ID,
				"recipe_type": KindBatch,
				"version":     version.Version().String(),
			},
		})
	}
	rs.log.Info("Batch recipe created", "recipe_id", root.ID, "version", version.Version().String())
	return root, version, nil
}

func (rs *recipeService) CreatePlateRecipe(ctx context.Context, tx *gorm.DB, in CreatePlateRecipeInput) (*types.PlateRecipe, *types.PlateRecipeVersion, error) {
	chefID, err := chefFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(in.Fields.Name) == "" {
		return nil, nil, apierr.Validation(apierr.CodeInvalidField, "name must not be empty")
	}

	transaction := tx
	if transaction == nil {
		transaction = rs.db
	}

	var root *types.PlateRecipe
	var version *types.PlateRecipeVersion
	txErr := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		existing, err := rs.plateRecipeRepo.GetByChefAndName(ctx, txx, chefID, in.Fields.Name)
		if err != nil {
			return fmt.Errorf("look up plate recipe: %w", err)
		}
		if existing != nil {
			return apierr.Conflict(apierr.CodeDuplicateName, "a plate recipe named %q already exists", in.Fields.Name)
		}

		rows, err := rs.plateRecipeRepo.Create(ctx, txx, []*types.PlateRecipe{{
			ID:                uuid.New(),
			ChefID:            chefID,
			PlateRecipeFields: in.Fields,
			IsComplete:        in.IsComplete,
		}})
		if err != nil {
			return fmt.Errorf("insert plate recipe: %w", err)
		}
		root = rows[0]

		version, err = rs.ledger.CreatePlateVersion(ctx, txx, root.ID, CreatePlateVersionInput{
			Fields:          in.Fields,
			Ingredients:     in.Ingredients,
			BatchComponents: in.BatchComponents,
			Reason:          in.Reason,
			AuthorID:        chefID,
		})
		if err != nil {
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, nil, translateTxError(txErr)
	}

	if tx == nil && rs.hub != nil {
		rs.hub.Broadcast(sse.SSEMessage{
			Channel: chefID,
			Event:   sse.SSEEventRecipeCreated,
			Data: map[string]interface{}{
				"recipe_id":   root.ID,
				"recipe_type": KindPlate,
				"version":     version.Version().String(),
			},
		})
	}
	rs.log.Info("Plate recipe created", "recipe_id", root.ID, "version", version.Version().String())
	return root, version, nil
}

// GetBatchRecipe is chef-scoped: another chef's recipe reads the same as a
// missing one.
func (rs *recipeService) GetBatchRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.BatchRecipe, error) {
	chefID, err := chefFromContext(ctx)
	if err != nil {
		return nil, err
	}
	root, err := rs.batchRecipeRepo.GetByID(ctx, tx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("load batch recipe: %w", err)
	}
	if root == nil || root.ChefID != chefID {
		return nil, apierr.NotFound(apierr.CodeRecipeNotFound, "batch recipe %s not found", recipeID)
	}
	return root, nil
}

func (rs *recipeService) GetPlateRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.PlateRecipe, error) {
	chefID, err := chefFromContext(ctx)
	if err != nil {
		return nil, err
	}
	root, err := rs.plateRecipeRepo.GetByID(ctx, tx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("load plate recipe: %w", err)
	}
	if root == nil || root.ChefID != chefID {
		return nil, apierr.NotFound(apierr.CodeRecipeNotFound, "plate recipe %s not found", recipeID)
	}
	return root, nil
}

func (rs *recipeService) ListRecipes(ctx context.Context, tx *gorm.DB) (*RecipeList, error) {
	chefID, err := chefFromContext(ctx)
	if err != nil {
		return nil, err
	}

	batches, err := rs.batchRecipeRepo.ListByChef(ctx, tx, chefID)
	if err != nil {
		return nil, fmt.Errorf("list batch recipes: %w", err)
	}
	plates, err := rs.plateRecipeRepo.ListByChef(ctx, tx, chefID)
	if err != nil {
		return nil, fmt.Errorf("list plate recipes: %w", err)
	}
	return &RecipeList{BatchRecipes: batches, PlateRecipes: plates}, nil
}

// DeleteRecipe removes a root; versions and their snapshot rows go with it
// via foreign-key cascades.
func (rs *recipeService) DeleteRecipe(ctx context.Context, tx *gorm.DB, kind string, recipeID uuid.UUID) error {
	chefID, err := chefFromContext(ctx)
	if err != nil {
		return err
	}

	var affected int64
	switch kind {
	case KindBatch:
		affected, err = rs.batchRecipeRepo.Delete(ctx, tx, chefID, recipeID)
	case KindPlate:
		affected, err = rs.plateRecipeRepo.Delete(ctx, tx, chefID, recipeID)
	default:
		return apierr.Validation(apierr.CodeInvalidField, "recipe kind must be %q or %q", KindBatch, KindPlate)
	}
	if err != nil {
		return fmt.Errorf("delete %s recipe: %w", kind, err)
	}
	if affected == 0 {
		return apierr.NotFound(apierr.CodeRecipeNotFound, "%s recipe %s not found", kind, recipeID)
	}

	if rs.cache != nil {
		rs.cache.Invalidate(ctx, kind, recipeID)
	}
	if tx == nil && rs.hub != nil {
		rs.hub.Broadcast(sse.SSEMessage{
			Channel: chefID,
			Event:   sse.SSEEventRecipeDeleted,
			Data:    map[string]interface{}{"recipe_id": recipeID, "recipe_type": kind},
		})
	}
	rs.log.Info("Recipe deleted", "recipe_id", recipeID, "recipe_type", kind)
	return nil
}
