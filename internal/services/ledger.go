package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/recipeledger/internal/apierr"
	"github.com/platewise/recipeledger/internal/logger"
	"github.com/platewise/recipeledger/internal/repos"
	"github.com/platewise/recipeledger/internal/sse"
	"github.com/platewise/recipeledger/internal/types"
)

const (
	KindBatch = "batch"
	KindPlate = "plate"

	BumpMinor = "minor"
	BumpMajor = "major"
)

type IngredientInput struct {
	IngredientID     uuid.UUID `json:"ingredient_id"`
	Quantity         float64   `json:"quantity"`
	Unit             string    `json:"unit"`
	PreparationNotes string    `json:"preparation_notes"`
	IsOptional       bool      `json:"is_optional"`
	IsGarnish        bool      `json:"is_garnish"`
}

type BatchComponentInput struct {
	BatchRecipeID    uuid.UUID `json:"batch_recipe_id"`
	Quantity         *float64  `json:"quantity"`
	Unit             string    `json:"unit"`
	PreparationNotes string    `json:"preparation_notes"`
}

type CreateBatchVersionInput struct {
	Fields      types.BatchRecipeFields `json:"fields"`
	Ingredients []IngredientInput       `json:"ingredients"`
	Bump        string                  `json:"bump"`
	Number      string                  `json:"number"`
	Reason      string                  `json:"reason"`
	AuthorID    string                  `json:"author_id"`
}

type CreatePlateVersionInput struct {
	Fields          types.PlateRecipeFields `json:"fields"`
	Ingredients     []IngredientInput       `json:"ingredients"`
	BatchComponents []BatchComponentInput   `json:"batch_components"`
	Bump            string                  `json:"bump"`
	Number          string                  `json:"number"`
	Reason          string                  `json:"reason"`
	AuthorID        string                  `json:"author_id"`
}

// LedgerService creates and serves immutable recipe version snapshots.
// Create calls run as one atomic transaction per recipe root; the root row
// is the per-recipe serialization point, with the partial unique index on
// (recipe_id) WHERE is_active as the structural backstop. Every path is
// scoped to the calling chef: another chef's recipe reads the same as a
// missing one.
type LedgerService interface {
	CreateBatchVersion(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, in CreateBatchVersionInput) (*types.BatchRecipeVersion, error)
	CreatePlateVersion(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, in CreatePlateVersionInput) (*types.PlateRecipeVersion, error)

	GetActiveBatchVersion(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.BatchRecipeVersion, error)
	GetActivePlateVersion(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.PlateRecipeVersion, error)
	ListBatchHistory(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) ([]*types.BatchRecipeVersion, error)
	ListPlateHistory(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) ([]*types.PlateRecipeVersion, error)
	GetBatchVersion(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, number types.VersionNumber) (*types.BatchRecipeVersion, error)
	GetPlateVersion(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, number types.VersionNumber) (*types.PlateRecipeVersion, error)

	DiffBatchVersions(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, from, to types.VersionNumber) ([]string, error)
	DiffPlateVersions(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, from, to types.VersionNumber) ([]string, error)
}

type ledgerService struct {
	db               *gorm.DB
	log              *logger.Logger
	ingredientRepo   repos.IngredientRepo
	batchRecipeRepo  repos.BatchRecipeRepo
	plateRecipeRepo  repos.PlateRecipeRepo
	batchVersionRepo repos.BatchVersionRepo
	plateVersionRepo repos.PlateVersionRepo
	cache            ActiveVersionCache
	hub              *sse.SSEHub
}

func NewLedgerService(
	db *gorm.DB,
	baseLog *logger.Logger,
	ingredientRepo repos.IngredientRepo,
	batchRecipeRepo repos.BatchRecipeRepo,
	plateRecipeRepo repos.PlateRecipeRepo,
	batchVersionRepo repos.BatchVersionRepo,
	plateVersionRepo repos.PlateVersionRepo,
	cache ActiveVersionCache,
	hub *sse.SSEHub,
) LedgerService {
	serviceLog := baseLog.With("service", "LedgerService")
	return &ledgerService{
		db:               db,
		log:              serviceLog,
		ingredientRepo:   ingredientRepo,
		batchRecipeRepo:  batchRecipeRepo,
		plateRecipeRepo:  plateRecipeRepo,
		batchVersionRepo: batchVersionRepo,
		plateVersionRepo: plateVersionRepo,
		cache:            cache,
		hub:              hub,
	}
}

func (ls *ledgerService) CreateBatchVersion(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, in CreateBatchVersionInput) (*types.BatchRecipeVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = ls.db
	}

	caller, err := chefFromContext(ctx)
	if err != nil {
		return nil, err
	}
	author := in.AuthorID
	if author == "" {
		author = caller
	}

	var created *types.BatchRecipeVersion
	txErr := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		root, err := ls.batchRecipeRepo.GetByIDForUpdate(ctx, txx, recipeID)
		if err != nil {
			return fmt.Errorf("load batch recipe: %w", err)
		}
		if root == nil || root.ChefID != caller {
			return apierr.NotFound(apierr.CodeRecipeNotFound, "batch recipe %s not found", recipeID)
		}

		if in.Fields.Name == "" {
			return apierr.Validation(apierr.CodeInvalidField, "name must not be empty")
		}
		byID, err := ls.validateIngredients(ctx, txx, caller, in.Ingredients)
		if err != nil {
			return err
		}

		prior, err := ls.batchVersionRepo.GetActive(ctx, txx, recipeID)
		if err != nil {
			return fmt.Errorf("load active version: %w", err)
		}
		max, err := ls.batchVersionRepo.GetMax(ctx, txx, recipeID)
		if err != nil {
			return fmt.Errorf("load max version: %w", err)
		}
		var maxNum *types.VersionNumber
		if max != nil {
			n := max.Version()
			maxNum = &n
		}
		next, err := nextVersionNumber(maxNum, in.Bump, in.Number)
		if err != nil {
			return err
		}

		summary := initialVersionSummary
		if prior != nil {
			clauses := diffBatchFields(prior.BatchRecipeFields, in.Fields)
			clauses = append(clauses, diffIngredientLines(
				batchRowsToLines(prior.Ingredients),
				inputsToLines(in.Ingredients, byID),
			)...)
			summary = joinSummary(clauses)
		}

		if prior != nil {
			if err := ls.batchVersionRepo.Deactivate(ctx, txx, prior.ID); err != nil {
				return fmt.Errorf("deactivate prior version: %w", err)
			}
		}

		version := &types.BatchRecipeVersion{
			ID:                uuid.New(),
			RecipeID:          recipeID,
			VersionMajor:      next.Major,
			VersionMinor:      next.Minor,
			IsActive:          true,
			CreatedBy:         author,
			ChangeSummary:     summary,
			ChangeReason:      in.Reason,
			BatchRecipeFields: in.Fields,
		}
		for _, ing := range in.Ingredients {
			version.Ingredients = append(version.Ingredients, &types.BatchVersionIngredient{
				ID:               uuid.New(),
				IngredientID:     ing.IngredientID,
				Quantity:         ing.Quantity,
				Unit:             ing.Unit,
				PreparationNotes: ing.PreparationNotes,
				IsOptional:       ing.IsOptional,
			})
		}
		if _, err := ls.batchVersionRepo.Create(ctx, txx, version); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}

		root.BatchRecipeFields = in.Fields
		if err := ls.batchRecipeRepo.Save(ctx, txx, root); err != nil {
			return fmt.Errorf("mirror active fields onto root: %w", err)
		}

		created = version
		return nil
	})
	if txErr != nil {
		return nil, translateTxError(txErr)
	}

	// Cache and SSE only once the snapshot is durable. When the caller owns
	// the enclosing transaction it also owns notification.
	if tx == nil {
		ls.afterVersionCommit(ctx, KindBatch, caller, recipeID, created.Version(), created.ChangeSummary, created)
	}
	return created, nil
}

func (ls *ledgerService) CreatePlateVersion(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, in CreatePlateVersionInput) (*types.PlateRecipeVersion, error) {
	transaction := tx
	if transaction == nil {
		transaction = ls.db
	}

	caller, err := chefFromContext(ctx)
	if err != nil {
		return nil, err
	}
	author := in.AuthorID
	if author == "" {
		author = caller
	}

	var created *types.PlateRecipeVersion
	txErr := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		root, err := ls.plateRecipeRepo.GetByIDForUpdate(ctx, txx, recipeID)
		if err != nil {
			return fmt.Errorf("load plate recipe: %w", err)
		}
		if root == nil || root.ChefID != caller {
			return apierr.NotFound(apierr.CodeRecipeNotFound, "plate recipe %s not found", recipeID)
		}

		if in.Fields.Name == "" {
			return apierr.Validation(apierr.CodeInvalidField, "name must not be empty")
		}
		byID, err := ls.validateIngredients(ctx, txx, caller, in.Ingredients)
		if err != nil {
			return err
		}
		componentNames, err := ls.validateBatchComponents(ctx, txx, caller, in.BatchComponents)
		if err != nil {
			return err
		}

		prior, err := ls.plateVersionRepo.GetActive(ctx, txx, recipeID)
		if err != nil {
			return fmt.Errorf("load active version: %w", err)
		}
		max, err := ls.plateVersionRepo.GetMax(ctx, txx, recipeID)
		if err != nil {
			return fmt.Errorf("load max version: %w", err)
		}
		var maxNum *types.VersionNumber
		if max != nil {
			n := max.Version()
			maxNum = &n
		}
		next, err := nextVersionNumber(maxNum, in.Bump, in.Number)
		if err != nil {
			return err
		}

		summary := initialVersionSummary
		if prior != nil {
			clauses := diffPlateFields(prior.PlateRecipeFields, in.Fields)
			clauses = append(clauses, diffIngredientLines(
				plateRowsToLines(prior.Ingredients),
				inputsToLines(in.Ingredients, byID),
			)...)
			clauses = append(clauses, diffComponentLines(
				componentRowsToLines(prior.BatchComponents),
				componentInputsToLines(in.BatchComponents, componentNames),
			)...)
			summary = joinSummary(clauses)
		}

		if prior != nil {
			if err := ls.plateVersionRepo.Deactivate(ctx, txx, prior.ID); err != nil {
				return fmt.Errorf("deactivate prior version: %w", err)
			}
		}

		version := &types.PlateRecipeVersion{
			ID:                uuid.New(),
			RecipeID:          recipeID,
			VersionMajor:      next.Major,
			VersionMinor:      next.Minor,
			IsActive:          true,
			CreatedBy:         author,
			ChangeSummary:     summary,
			ChangeReason:      in.Reason,
			PlateRecipeFields: in.Fields,
		}
		for _, ing := range in.Ingredients {
			version.Ingredients = append(version.Ingredients, &types.PlateVersionIngredient{
				ID:               uuid.New(),
				IngredientID:     ing.IngredientID,
				Quantity:         ing.Quantity,
				Unit:             ing.Unit,
				PreparationNotes: ing.PreparationNotes,
				IsGarnish:        ing.IsGarnish,
				IsOptional:       ing.IsOptional,
			})
		}
		for i, comp := range in.BatchComponents {
			version.BatchComponents = append(version.BatchComponents, &types.PlateVersionBatch{
				ID:               uuid.New(),
				BatchRecipeID:    comp.BatchRecipeID,
				Quantity:         comp.Quantity,
				Unit:             comp.Unit,
				AssemblyOrder:    i + 1,
				PreparationNotes: comp.PreparationNotes,
			})
		}
		if _, err := ls.plateVersionRepo.Create(ctx, txx, version); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}

		root.PlateRecipeFields = in.Fields
		if err := ls.plateRecipeRepo.Save(ctx, txx, root); err != nil {
			return fmt.Errorf("mirror active fields onto root: %w", err)
		}

		created = version
		return nil
	})
	if txErr != nil {
		return nil, translateTxError(txErr)
	}

	if tx == nil {
		ls.afterVersionCommit(ctx, KindPlate, caller, recipeID, created.Version(), created.ChangeSummary, created)
	}
	return created, nil
}

func (ls *ledgerService) GetActiveBatchVersion(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.BatchRecipeVersion, error) {
	if _, err := ls.loadOwnedBatchRoot(ctx, tx, recipeID); err != nil {
		return nil, err
	}

	if ls.cache != nil && tx == nil {
		var cached types.BatchRecipeVersion
		if ls.cache.Get(ctx, KindBatch, recipeID, &cached) {
			return &cached, nil
		}
	}

	version, err := ls.batchVersionRepo.GetActive(ctx, tx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("load active version: %w", err)
	}
	if version != nil && ls.cache != nil && tx == nil {
		ls.cache.Set(ctx, KindBatch, recipeID, version)
	}
	return version, nil
}

func (ls *ledgerService) GetActivePlateVersion(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.PlateRecipeVersion, error) {
	if _, err := ls.loadOwnedPlateRoot(ctx, tx, recipeID); err != nil {
		return nil, err
	}

	if ls.cache != nil && tx == nil {
		var cached types.PlateRecipeVersion
		if ls.cache.Get(ctx, KindPlate, recipeID, &cached) {
			return &cached, nil
		}
	}

	version, err := ls.plateVersionRepo.GetActive(ctx, tx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("load active version: %w", err)
	}
	if version != nil && ls.cache != nil && tx == nil {
		ls.cache.Set(ctx, KindPlate, recipeID, version)
	}
	return version, nil
}

// ListBatchHistory returns all snapshots newest first, with ingredient rows
// attached through one IN query instead of per-version preloads.
func (ls *ledgerService) ListBatchHistory(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) ([]*types.BatchRecipeVersion, error) {
	if _, err := ls.loadOwnedBatchRoot(ctx, tx, recipeID); err != nil {
		return nil, err
	}

	versions, err := ls.batchVersionRepo.ListByRecipe(ctx, tx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(versions))
	for _, v := range versions {
		ids = append(ids, v.ID)
	}
	rows, err := ls.batchVersionRepo.GetIngredients(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("load snapshot ingredients: %w", err)
	}
	byVersion := make(map[uuid.UUID][]*types.BatchVersionIngredient, len(versions))
	for _, row := range rows {
		byVersion[row.VersionID] = append(byVersion[row.VersionID], row)
	}
	for _, v := range versions {
		v.Ingredients = byVersion[v.ID]
	}
	return versions, nil
}

func (ls *ledgerService) ListPlateHistory(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) ([]*types.PlateRecipeVersion, error) {
	if _, err := ls.loadOwnedPlateRoot(ctx, tx, recipeID); err != nil {
		return nil, err
	}

	versions, err := ls.plateVersionRepo.ListByRecipe(ctx, tx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(versions))
	for _, v := range versions {
		ids = append(ids, v.ID)
	}
	rows, err := ls.plateVersionRepo.GetIngredients(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("load snapshot ingredients: %w", err)
	}
	byVersion := make(map[uuid.UUID][]*types.PlateVersionIngredient, len(versions))
	for _, row := range rows {
		byVersion[row.VersionID] = append(byVersion[row.VersionID], row)
	}
	components, err := ls.plateVersionRepo.GetBatchComponents(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("load snapshot components: %w", err)
	}
	componentsByVersion := make(map[uuid.UUID][]*types.PlateVersionBatch, len(versions))
	for _, row := range components {
		componentsByVersion[row.VersionID] = append(componentsByVersion[row.VersionID], row)
	}
	for _, v := range versions {
		v.Ingredients = byVersion[v.ID]
		v.BatchComponents = componentsByVersion[v.ID]
	}
	return versions, nil
}

func (ls *ledgerService) GetBatchVersion(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, number types.VersionNumber) (*types.BatchRecipeVersion, error) {
	if _, err := ls.loadOwnedBatchRoot(ctx, tx, recipeID); err != nil {
		return nil, err
	}

	version, err := ls.batchVersionRepo.GetByNumber(ctx, tx, recipeID, number)
	if err != nil {
		return nil, fmt.Errorf("load version: %w", err)
	}
	if version == nil {
		return nil, apierr.NotFound(apierr.CodeVersionNotFound, "version %s not found for batch recipe %s", number, recipeID)
	}
	return version, nil
}

func (ls *ledgerService) GetPlateVersion(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, number types.VersionNumber) (*types.PlateRecipeVersion, error) {
	if _, err := ls.loadOwnedPlateRoot(ctx, tx, recipeID); err != nil {
		return nil, err
	}

	version, err := ls.plateVersionRepo.GetByNumber(ctx, tx, recipeID, number)
	if err != nil {
		return nil, fmt.Errorf("load version: %w", err)
	}
	if version == nil {
		return nil, apierr.NotFound(apierr.CodeVersionNotFound, "version %s not found for plate recipe %s", number, recipeID)
	}
	return version, nil
}

// DiffBatchVersions reuses the change-summary algorithm for any version
// pair, not just adjacent ones.
func (ls *ledgerService) DiffBatchVersions(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, from, to types.VersionNumber) ([]string, error) {
	older, err := ls.GetBatchVersion(ctx, tx, recipeID, from)
	if err != nil {
		return nil, err
	}
	newer, err := ls.GetBatchVersion(ctx, tx, recipeID, to)
	if err != nil {
		return nil, err
	}

	clauses := diffBatchFields(older.BatchRecipeFields, newer.BatchRecipeFields)
	clauses = append(clauses, diffIngredientLines(
		batchRowsToLines(older.Ingredients),
		batchRowsToLines(newer.Ingredients),
	)...)
	return clauses, nil
}

func (ls *ledgerService) DiffPlateVersions(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, from, to types.VersionNumber) ([]string, error) {
	older, err := ls.GetPlateVersion(ctx, tx, recipeID, from)
	if err != nil {
		return nil, err
	}
	newer, err := ls.GetPlateVersion(ctx, tx, recipeID, to)
	if err != nil {
		return nil, err
	}

	clauses := diffPlateFields(older.PlateRecipeFields, newer.PlateRecipeFields)
	clauses = append(clauses, diffIngredientLines(
		plateRowsToLines(older.Ingredients),
		plateRowsToLines(newer.Ingredients),
	)...)
	clauses = append(clauses, diffComponentLines(
		componentRowsToLines(older.BatchComponents),
		componentRowsToLines(newer.BatchComponents),
	)...)
	return clauses, nil
}

// ---- internals ----

// loadOwnedBatchRoot scopes every read path to the calling chef. A root
// owned by another chef reads the same as a missing one.
func (ls *ledgerService) loadOwnedBatchRoot(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.BatchRecipe, error) {
	caller, err := chefFromContext(ctx)
	if err != nil {
		return nil, err
	}
	root, err := ls.batchRecipeRepo.GetByID(ctx, tx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("load batch recipe: %w", err)
	}
	if root == nil || root.ChefID != caller {
		return nil, apierr.NotFound(apierr.CodeRecipeNotFound, "batch recipe %s not found", recipeID)
	}
	return root, nil
}

func (ls *ledgerService) loadOwnedPlateRoot(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.PlateRecipe, error) {
	caller, err := chefFromContext(ctx)
	if err != nil {
		return nil, err
	}
	root, err := ls.plateRecipeRepo.GetByID(ctx, tx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("load plate recipe: %w", err)
	}
	if root == nil || root.ChefID != caller {
		return nil, apierr.NotFound(apierr.CodeRecipeNotFound, "plate recipe %s not found", recipeID)
	}
	return root, nil
}

func (ls *ledgerService) validateIngredients(ctx context.Context, tx *gorm.DB, chefID string, inputs []IngredientInput) (map[uuid.UUID]*types.Ingredient, error) {
	seen := make(map[uuid.UUID]bool, len(inputs))
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, in := range inputs {
		if in.IngredientID == uuid.Nil {
			return nil, apierr.Validation(apierr.CodeInvalidField, "ingredient id must not be empty")
		}
		if seen[in.IngredientID] {
			return nil, apierr.Validation(apierr.CodeInvalidField, "ingredient %s appears more than once", in.IngredientID)
		}
		seen[in.IngredientID] = true
		if in.Quantity < 0 {
			return nil, apierr.Validation(apierr.CodeInvalidField, "quantity for ingredient %s must be non-negative", in.IngredientID)
		}
		if in.Unit == "" {
			return nil, apierr.Validation(apierr.CodeInvalidField, "unit for ingredient %s must not be empty", in.IngredientID)
		}
		ids = append(ids, in.IngredientID)
	}

	rows, err := ls.ingredientRepo.GetByIDs(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("load ingredients: %w", err)
	}
	byID := make(map[uuid.UUID]*types.Ingredient, len(rows))
	for _, row := range rows {
		if row.ChefID != chefID {
			continue
		}
		byID[row.ID] = row
	}
	for _, id := range ids {
		if byID[id] == nil {
			return nil, apierr.Validation(apierr.CodeIngredientNotFound, "ingredient %s not found in catalog", id)
		}
	}
	return byID, nil
}

func (ls *ledgerService) validateBatchComponents(ctx context.Context, tx *gorm.DB, chefID string, inputs []BatchComponentInput) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(inputs))
	for _, in := range inputs {
		if in.BatchRecipeID == uuid.Nil {
			return nil, apierr.Validation(apierr.CodeInvalidField, "batch recipe id must not be empty")
		}
		if _, ok := names[in.BatchRecipeID]; ok {
			return nil, apierr.Validation(apierr.CodeInvalidField, "batch recipe %s appears more than once", in.BatchRecipeID)
		}
		if in.Quantity != nil && *in.Quantity < 0 {
			return nil, apierr.Validation(apierr.CodeInvalidField, "quantity for batch recipe %s must be non-negative", in.BatchRecipeID)
		}
		batch, err := ls.batchRecipeRepo.GetByID(ctx, tx, in.BatchRecipeID)
		if err != nil {
			return nil, fmt.Errorf("load batch component: %w", err)
		}
		if batch == nil || batch.ChefID != chefID {
			return nil, apierr.Validation(apierr.CodeRecipeNotFound, "batch recipe %s not found", in.BatchRecipeID)
		}
		names[in.BatchRecipeID] = batch.Name
	}
	return names, nil
}

// nextVersionNumber resolves the version assignment policy: first version is
// 1.0, bumps are engine-computed, and an explicit number is accepted only if
// strictly greater than the current maximum for the root.
func nextVersionNumber(max *types.VersionNumber, bump, explicit string) (types.VersionNumber, error) {
	if explicit != "" {
		n, err := types.ParseVersionNumber(explicit)
		if err != nil {
			return types.VersionNumber{}, apierr.Validation(apierr.CodeInvalidField, "%v", err)
		}
		if n.IsZero() {
			return types.VersionNumber{}, apierr.Validation(apierr.CodeInvalidField, "version number %s is not allowed", n)
		}
		if max != nil && !max.Less(n) {
			return types.VersionNumber{}, apierr.Conflict(apierr.CodeVersionCollision, "version %s is not greater than current maximum %s", n, max)
		}
		return n, nil
	}

	if max == nil {
		return types.VersionNumber{Major: 1, Minor: 0}, nil
	}
	switch bump {
	case "", BumpMinor:
		return max.BumpMinor(), nil
	case BumpMajor:
		return max.BumpMajor(), nil
	default:
		return types.VersionNumber{}, apierr.Validation(apierr.CodeInvalidField, "bump must be %q or %q", BumpMinor, BumpMajor)
	}
}

// translateTxError keeps the caller-facing taxonomy: typed errors pass
// through, duplicate-key races surface as retryable conflicts.
func translateTxError(err error) error {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierr.Conflict(apierr.CodeConcurrentModification, "another writer versioned this recipe concurrently, retry against refreshed state")
	}
	return err
}

func (ls *ledgerService) afterVersionCommit(ctx context.Context, kind, chefID string, recipeID uuid.UUID, number types.VersionNumber, summary string, snapshot any) {
	if ls.cache != nil {
		ls.cache.Invalidate(ctx, kind, recipeID)
	}
	if ls.hub != nil {
		ls.hub.Broadcast(sse.SSEMessage{
			Channel: chefID,
			Event:   sse.SSEEventRecipeVersionCreated,
			Data: map[string]interface{}{
				"recipe_id":      recipeID,
				"recipe_type":    kind,
				"version":        number.String(),
				"change_summary": summary,
				"snapshot":       snapshot,
			},
		})
	}
	ls.log.Info("Recipe version created", "recipe_id", recipeID, "recipe_type", kind, "version", number.String())
}

func batchRowsToLines(rows []*types.BatchVersionIngredient) []ingredientLine {
	lines := make([]ingredientLine, 0, len(rows))
	for _, row := range rows {
		name := row.IngredientID.String()
		if row.Ingredient != nil {
			name = row.Ingredient.Name
		}
		lines = append(lines, ingredientLine{id: row.IngredientID, name: name, qty: row.Quantity, unit: row.Unit})
	}
	return lines
}

func plateRowsToLines(rows []*types.PlateVersionIngredient) []ingredientLine {
	lines := make([]ingredientLine, 0, len(rows))
	for _, row := range rows {
		name := row.IngredientID.String()
		if row.Ingredient != nil {
			name = row.Ingredient.Name
		}
		lines = append(lines, ingredientLine{id: row.IngredientID, name: name, qty: row.Quantity, unit: row.Unit})
	}
	return lines
}

func inputsToLines(inputs []IngredientInput, byID map[uuid.UUID]*types.Ingredient) []ingredientLine {
	lines := make([]ingredientLine, 0, len(inputs))
	for _, in := range inputs {
		name := in.IngredientID.String()
		if ing := byID[in.IngredientID]; ing != nil {
			name = ing.Name
		}
		lines = append(lines, ingredientLine{id: in.IngredientID, name: name, qty: in.Quantity, unit: in.Unit})
	}
	return lines
}

func componentRowsToLines(rows []*types.PlateVersionBatch) []componentLine {
	lines := make([]componentLine, 0, len(rows))
	for _, row := range rows {
		name := row.BatchRecipeID.String()
		if row.BatchRecipe != nil {
			name = row.BatchRecipe.Name
		}
		lines = append(lines, componentLine{id: row.BatchRecipeID, name: name, qty: row.Quantity, unit: row.Unit})
	}
	return lines
}

func componentInputsToLines(inputs []BatchComponentInput, names map[uuid.UUID]string) []componentLine {
	lines := make([]componentLine, 0, len(inputs))
	for _, in := range inputs {
		name := names[in.BatchRecipeID]
		if name == "" {
			name = in.BatchRecipeID.String()
		}
		lines = append(lines, componentLine{id: in.BatchRecipeID, name: name, qty: in.Quantity, unit: in.Unit})
	}
	return lines
}
