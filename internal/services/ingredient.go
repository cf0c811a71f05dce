package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/platewise/recipeledger/internal/apierr"
	"github.com/platewise/recipeledger/internal/logger"
	"github.com/platewise/recipeledger/internal/repos"
	"github.com/platewise/recipeledger/internal/requestdata"
	"github.com/platewise/recipeledger/internal/sse"
	"github.com/platewise/recipeledger/internal/types"
)

type CreateIngredientInput struct {
	Name      string         `json:"name"`
	Unit      string         `json:"unit"`
	Category  string         `json:"category"`
	Allergens datatypes.JSON `json:"allergens"`
	Notes     string         `json:"notes"`
}

// IngredientService manages the chef's master ingredient catalog. Names are
// unique per chef case-insensitively; creation is get-or-create so repeated
// submissions of the same name converge on one row.
type IngredientService interface {
	CreateIngredient(ctx context.Context, tx *gorm.DB, in CreateIngredientInput) (*types.Ingredient, error)
	ListIngredients(ctx context.Context, tx *gorm.DB) ([]*types.Ingredient, error)
	DeleteIngredient(ctx context.Context, tx *gorm.DB, ingredientID uuid.UUID) error
}

type ingredientService struct {
	db             *gorm.DB
	log            *logger.Logger
	ingredientRepo repos.IngredientRepo
	hub            *sse.SSEHub
}

func NewIngredientService(db *gorm.DB, baseLog *logger.Logger, ingredientRepo repos.IngredientRepo, hub *sse.SSEHub) IngredientService {
	serviceLog := baseLog.With("service", "IngredientService")
	return &ingredientService{db: db, log: serviceLog, ingredientRepo: ingredientRepo, hub: hub}
}

func (is *ingredientService) CreateIngredient(ctx context.Context, tx *gorm.DB, in CreateIngredientInput) (*types.Ingredient, error) {
	chefID, err := chefFromContext(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apierr.Validation(apierr.CodeInvalidField, "ingredient name must not be empty")
	}

	transaction := tx
	if transaction == nil {
		transaction = is.db
	}

	var created *types.Ingredient
	txErr := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		existing, err := is.ingredientRepo.GetByChefAndName(ctx, txx, chefID, name)
		if err != nil {
			return fmt.Errorf("look up ingredient: %w", err)
		}
		if existing != nil {
			created = existing
			return nil
		}

		rows, err := is.ingredientRepo.Create(ctx, txx, []*types.Ingredient{{
			ID:        uuid.New(),
			ChefID:    chefID,
			Name:      name,
			Unit:      in.Unit,
			Category:  in.Category,
			Allergens: in.Allergens,
			Notes:     in.Notes,
		}})
		if err != nil {
			return fmt.Errorf("insert ingredient: %w", err)
		}
		created = rows[0]
		return nil
	})
	if txErr != nil {
		return nil, translateTxError(txErr)
	}
	return created, nil
}

func (is *ingredientService) ListIngredients(ctx context.Context, tx *gorm.DB) ([]*types.Ingredient, error) {
	chefID, err := chefFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return is.ingredientRepo.ListByChef(ctx, tx, chefID)
}

// DeleteIngredient removes a catalog entry. Version snapshot rows that
// reference it are removed by the foreign-key cascade; the versions
// themselves are untouched.
func (is *ingredientService) DeleteIngredient(ctx context.Context, tx *gorm.DB, ingredientID uuid.UUID) error {
	chefID, err := chefFromContext(ctx)
	if err != nil {
		return err
	}

	affected, err := is.ingredientRepo.Delete(ctx, tx, chefID, ingredientID)
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	if affected == 0 {
		return apierr.NotFound(apierr.CodeIngredientNotFound, "ingredient %s not found", ingredientID)
	}

	if tx == nil && is.hub != nil {
		is.hub.Broadcast(sse.SSEMessage{
			Channel: chefID,
			Event:   sse.SSEEventIngredientDeleted,
			Data:    map[string]interface{}{"ingredient_id": ingredientID},
		})
	}
	is.log.Info("Ingredient deleted", "ingredient_id", ingredientID)
	return nil
}

func chefFromContext(ctx context.Context) (string, error) {
	if rd := requestdata.GetRequestData(ctx); rd != nil && rd.ChefID != "" {
		return rd.ChefID, nil
	}
	return "", apierr.Validation(apierr.CodeInvalidField, "chef id missing from request context")
}
