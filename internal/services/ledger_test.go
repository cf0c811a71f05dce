package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/platewise/recipeledger/internal/apierr"
	appdb "github.com/platewise/recipeledger/internal/db"
	"github.com/platewise/recipeledger/internal/logger"
	"github.com/platewise/recipeledger/internal/repos"
	"github.com/platewise/recipeledger/internal/requestdata"
	"github.com/platewise/recipeledger/internal/types"
)

const testChefID = "chef-1"

type testHarness struct {
	db          *gorm.DB
	ledger      LedgerService
	recipes     RecipeService
	ingredients IngredientService
	batchRepo   repos.BatchRecipeRepo
	ctx         context.Context
}

// openTestDB opens a per-test in-memory SQLite database. A single
// connection keeps the shared-cache database alive and serializes writers,
// which stands in for Postgres row locks in the concurrency tests.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := appdb.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	gdb := openTestDB(t)
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}

	ingredientRepo := repos.NewIngredientRepo(gdb, log)
	batchRecipeRepo := repos.NewBatchRecipeRepo(gdb, log)
	plateRecipeRepo := repos.NewPlateRecipeRepo(gdb, log)
	batchVersionRepo := repos.NewBatchVersionRepo(gdb, log)
	plateVersionRepo := repos.NewPlateVersionRepo(gdb, log)

	ledger := NewLedgerService(gdb, log, ingredientRepo, batchRecipeRepo, plateRecipeRepo, batchVersionRepo, plateVersionRepo, nil, nil)
	recipes := NewRecipeService(gdb, log, batchRecipeRepo, plateRecipeRepo, ledger, nil, nil)
	ingredients := NewIngredientService(gdb, log, ingredientRepo, nil)

	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{ChefID: testChefID})
	return &testHarness{
		db:          gdb,
		ledger:      ledger,
		recipes:     recipes,
		ingredients: ingredients,
		batchRepo:   batchRecipeRepo,
		ctx:         ctx,
	}
}

func (h *testHarness) mustIngredient(t *testing.T, name, unit string) *types.Ingredient {
	t.Helper()
	ing, err := h.ingredients.CreateIngredient(h.ctx, nil, CreateIngredientInput{Name: name, Unit: unit})
	if err != nil {
		t.Fatalf("create ingredient %q: %v", name, err)
	}
	return ing
}

func TestCreateBatchRecipeInitialVersion(t *testing.T) {
	h := newHarness(t)
	butter := h.mustIngredient(t, "butter", "g")

	root, version, err := h.recipes.CreateBatchRecipe(h.ctx, nil, CreateBatchRecipeInput{
		Fields: types.BatchRecipeFields{Name: "Beurre Blanc", YieldQuantity: floatPtr(1), YieldUnit: "liters"},
		Ingredients: []IngredientInput{
			{IngredientID: butter.ID, Quantity: 500, Unit: "g"},
		},
	})
	if err != nil {
		t.Fatalf("CreateBatchRecipe: %v", err)
	}
	if got := version.Version().String(); got != "1.0" {
		t.Errorf("initial version = %s, want 1.0", got)
	}
	if !version.IsActive {
		t.Error("initial version should be active")
	}
	if version.ChangeSummary != "Initial version" {
		t.Errorf("initial summary = %q, want %q", version.ChangeSummary, "Initial version")
	}
	if version.CreatedBy != testChefID {
		t.Errorf("created_by = %q, want %q", version.CreatedBy, testChefID)
	}

	active, err := h.ledger.GetActiveBatchVersion(h.ctx, nil, root.ID)
	if err != nil {
		t.Fatalf("GetActiveBatchVersion: %v", err)
	}
	if active == nil || active.ID != version.ID {
		t.Fatalf("active version mismatch: %+v", active)
	}
	if len(active.Ingredients) != 1 || active.Ingredients[0].Quantity != 500 {
		t.Errorf("snapshot ingredients not preserved: %+v", active.Ingredients)
	}
}

func TestMinorBumpSummaryAndActiveFlip(t *testing.T) {
	h := newHarness(t)
	salmon := h.mustIngredient(t, "salmon fillet", "g")
	garlic := h.mustIngredient(t, "garlic", "cloves")

	root, v1, err := h.recipes.CreatePlateRecipe(h.ctx, nil, CreatePlateRecipeInput{
		Fields: types.PlateRecipeFields{Name: "Pan Seared Salmon", Serves: intPtr(4)},
		Ingredients: []IngredientInput{
			{IngredientID: salmon.ID, Quantity: 180, Unit: "g"},
		},
	})
	if err != nil {
		t.Fatalf("CreatePlateRecipe: %v", err)
	}

	v2, err := h.ledger.CreatePlateVersion(h.ctx, nil, root.ID, CreatePlateVersionInput{
		Fields: types.PlateRecipeFields{Name: "Pan Seared Salmon", Serves: intPtr(6)},
		Ingredients: []IngredientInput{
			{IngredientID: salmon.ID, Quantity: 180, Unit: "g"},
			{IngredientID: garlic.ID, Quantity: 2, Unit: "cloves"},
		},
	})
	if err != nil {
		t.Fatalf("CreatePlateVersion: %v", err)
	}

	if got := v2.Version().String(); got != "1.1" {
		t.Errorf("version = %s, want 1.1", got)
	}
	if v2.ChangeSummary != "serves changed from 4 to 6, Added garlic" {
		t.Errorf("summary = %q", v2.ChangeSummary)
	}

	active, err := h.ledger.GetActivePlateVersion(h.ctx, nil, root.ID)
	if err != nil {
		t.Fatalf("GetActivePlateVersion: %v", err)
	}
	if active.ID != v2.ID {
		t.Error("new version should be active")
	}

	prior, err := h.ledger.GetPlateVersion(h.ctx, nil, root.ID, v1.Version())
	if err != nil {
		t.Fatalf("GetPlateVersion(1.0): %v", err)
	}
	if prior.IsActive {
		t.Error("prior version should be inactive")
	}
}

func TestPriorVersionContentImmutable(t *testing.T) {
	h := newHarness(t)
	butter := h.mustIngredient(t, "butter", "g")

	root, v1, err := h.recipes.CreateBatchRecipe(h.ctx, nil, CreateBatchRecipeInput{
		Fields: types.BatchRecipeFields{Name: "Veloute", YieldQuantity: floatPtr(2), YieldUnit: "liters"},
		Ingredients: []IngredientInput{
			{IngredientID: butter.ID, Quantity: 100, Unit: "g"},
		},
	})
	if err != nil {
		t.Fatalf("CreateBatchRecipe: %v", err)
	}

	if _, err := h.ledger.CreateBatchVersion(h.ctx, nil, root.ID, CreateBatchVersionInput{
		Fields: types.BatchRecipeFields{Name: "Veloute", YieldQuantity: floatPtr(3), YieldUnit: "liters"},
		Ingredients: []IngredientInput{
			{IngredientID: butter.ID, Quantity: 150, Unit: "g"},
		},
	}); err != nil {
		t.Fatalf("CreateBatchVersion: %v", err)
	}

	got, err := h.ledger.GetBatchVersion(h.ctx, nil, root.ID, v1.Version())
	if err != nil {
		t.Fatalf("GetBatchVersion(1.0): %v", err)
	}
	if got.YieldQuantity == nil || *got.YieldQuantity != 2 {
		t.Errorf("1.0 yield_quantity mutated: %v", got.YieldQuantity)
	}
	if len(got.Ingredients) != 1 || got.Ingredients[0].Quantity != 100 {
		t.Errorf("1.0 ingredient snapshot mutated: %+v", got.Ingredients)
	}

	// Root mirror follows the new active version.
	rootRow, err := h.recipes.GetBatchRecipe(h.ctx, nil, root.ID)
	if err != nil {
		t.Fatalf("GetBatchRecipe: %v", err)
	}
	if rootRow.YieldQuantity == nil || *rootRow.YieldQuantity != 3 {
		t.Errorf("root mirror not updated: %v", rootRow.YieldQuantity)
	}
}

func TestMajorBump(t *testing.T) {
	h := newHarness(t)

	root, _, err := h.recipes.CreateBatchRecipe(h.ctx, nil, CreateBatchRecipeInput{
		Fields: types.BatchRecipeFields{Name: "Demi Glace"},
	})
	if err != nil {
		t.Fatalf("CreateBatchRecipe: %v", err)
	}

	v2, err := h.ledger.CreateBatchVersion(h.ctx, nil, root.ID, CreateBatchVersionInput{
		Fields: types.BatchRecipeFields{Name: "Demi Glace", Notes: "reduced further"},
		Bump:   BumpMajor,
	})
	if err != nil {
		t.Fatalf("CreateBatchVersion: %v", err)
	}
	if got := v2.Version().String(); got != "2.0" {
		t.Errorf("version = %s, want 2.0", got)
	}
}

func TestExplicitVersionNumber(t *testing.T) {
	h := newHarness(t)

	root, _, err := h.recipes.CreateBatchRecipe(h.ctx, nil, CreateBatchRecipeInput{
		Fields: types.BatchRecipeFields{Name: "Stock"},
	})
	if err != nil {
		t.Fatalf("CreateBatchRecipe: %v", err)
	}

	// Stale explicit number is a conflict, not an overwrite.
	_, err = h.ledger.CreateBatchVersion(h.ctx, nil, root.ID, CreateBatchVersionInput{
		Fields: types.BatchRecipeFields{Name: "Stock"},
		Number: "1.0",
	})
	if !apierr.IsConflict(err) {
		t.Fatalf("expected conflict for stale number, got %v", err)
	}

	v, err := h.ledger.CreateBatchVersion(h.ctx, nil, root.ID, CreateBatchVersionInput{
		Fields: types.BatchRecipeFields{Name: "Stock"},
		Number: "3.2",
	})
	if err != nil {
		t.Fatalf("explicit 3.2: %v", err)
	}
	if got := v.Version().String(); got != "3.2" {
		t.Errorf("version = %s, want 3.2", got)
	}

	next, err := h.ledger.CreateBatchVersion(h.ctx, nil, root.ID, CreateBatchVersionInput{
		Fields: types.BatchRecipeFields{Name: "Stock", Notes: "skimmed"},
	})
	if err != nil {
		t.Fatalf("minor bump after 3.2: %v", err)
	}
	if got := next.Version().String(); got != "3.3" {
		t.Errorf("version = %s, want 3.3", got)
	}
}

func TestConcurrentVersionCreates(t *testing.T) {
	h := newHarness(t)

	root, _, err := h.recipes.CreateBatchRecipe(h.ctx, nil, CreateBatchRecipeInput{
		Fields: types.BatchRecipeFields{Name: "Tomato Sauce"},
	})
	if err != nil {
		t.Fatalf("CreateBatchRecipe: %v", err)
	}

	const writers = 4
	results := make([]error, writers)
	var g errgroup.Group
	for i := 0; i < writers; i++ {
		i := i
		g.Go(func() error {
			_, err := h.ledger.CreateBatchVersion(h.ctx, nil, root.ID, CreateBatchVersionInput{
				Fields: types.BatchRecipeFields{Name: "Tomato Sauce", Notes: fmt.Sprintf("writer %d", i)},
			})
			results[i] = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("errgroup: %v", err)
	}

	successes := 0
	for i, err := range results {
		if err == nil {
			successes++
			continue
		}
		if !apierr.IsConflict(err) {
			t.Errorf("writer %d: unexpected error %v", i, err)
		}
	}
	if successes < 1 {
		t.Fatal("expected at least one writer to succeed")
	}

	var activeCount int64
	if err := h.db.Model(&types.BatchRecipeVersion{}).
		Where("recipe_id = ? AND is_active", root.ID).
		Count(&activeCount).Error; err != nil {
		t.Fatalf("count active: %v", err)
	}
	if activeCount != 1 {
		t.Errorf("active versions = %d, want exactly 1", activeCount)
	}

	history, err := h.ledger.ListBatchHistory(h.ctx, nil, root.ID)
	if err != nil {
		t.Fatalf("ListBatchHistory: %v", err)
	}
	if len(history) != successes+1 {
		t.Errorf("history length = %d, want %d", len(history), successes+1)
	}
	for i := 1; i < len(history); i++ {
		// Descending order, so each entry must be strictly greater than the next.
		if !history[i].Version().Less(history[i-1].Version()) {
			t.Errorf("history not strictly decreasing at %d: %s then %s", i, history[i-1].Version(), history[i].Version())
		}
	}
}

func TestIngredientValidation(t *testing.T) {
	h := newHarness(t)
	butter := h.mustIngredient(t, "butter", "g")

	root, _, err := h.recipes.CreateBatchRecipe(h.ctx, nil, CreateBatchRecipeInput{
		Fields: types.BatchRecipeFields{Name: "Roux"},
	})
	if err != nil {
		t.Fatalf("CreateBatchRecipe: %v", err)
	}

	cases := []struct {
		name  string
		input []IngredientInput
	}{
		{"unknown ingredient", []IngredientInput{{IngredientID: uuid.New(), Quantity: 1, Unit: "g"}}},
		{"duplicate ingredient", []IngredientInput{
			{IngredientID: butter.ID, Quantity: 1, Unit: "g"},
			{IngredientID: butter.ID, Quantity: 2, Unit: "g"},
		}},
		{"negative quantity", []IngredientInput{{IngredientID: butter.ID, Quantity: -1, Unit: "g"}}},
		{"missing unit", []IngredientInput{{IngredientID: butter.ID, Quantity: 1}}},
	}
	for _, tc := range cases {
		_, err := h.ledger.CreateBatchVersion(h.ctx, nil, root.ID, CreateBatchVersionInput{
			Fields:      types.BatchRecipeFields{Name: "Roux"},
			Ingredients: tc.input,
		})
		if !apierr.IsValidation(err) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}

	// Failed attempts must not advance the ledger.
	history, err := h.ledger.ListBatchHistory(h.ctx, nil, root.ID)
	if err != nil {
		t.Fatalf("ListBatchHistory: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("history length = %d, want 1", len(history))
	}
}

func TestIngredientCatalogGetOrCreate(t *testing.T) {
	h := newHarness(t)

	first := h.mustIngredient(t, "Sea Salt", "g")
	second := h.mustIngredient(t, "sea salt", "g")
	if first.ID != second.ID {
		t.Errorf("expected case-insensitive dedupe, got %s and %s", first.ID, second.ID)
	}

	listed, err := h.ingredients.ListIngredients(h.ctx, nil)
	if err != nil {
		t.Fatalf("ListIngredients: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("catalog size = %d, want 1", len(listed))
	}
}

func TestIngredientDeleteCascadesSnapshotRows(t *testing.T) {
	h := newHarness(t)
	butter := h.mustIngredient(t, "butter", "g")
	flour := h.mustIngredient(t, "flour", "g")

	root, v1, err := h.recipes.CreateBatchRecipe(h.ctx, nil, CreateBatchRecipeInput{
		Fields: types.BatchRecipeFields{Name: "Roux"},
		Ingredients: []IngredientInput{
			{IngredientID: butter.ID, Quantity: 100, Unit: "g"},
			{IngredientID: flour.ID, Quantity: 100, Unit: "g"},
		},
	})
	if err != nil {
		t.Fatalf("CreateBatchRecipe: %v", err)
	}

	if err := h.ingredients.DeleteIngredient(h.ctx, nil, butter.ID); err != nil {
		t.Fatalf("DeleteIngredient: %v", err)
	}

	// The version survives; only the snapshot row referencing the deleted
	// catalog entry is gone.
	got, err := h.ledger.GetBatchVersion(h.ctx, nil, root.ID, v1.Version())
	if err != nil {
		t.Fatalf("GetBatchVersion: %v", err)
	}
	if len(got.Ingredients) != 1 {
		t.Fatalf("snapshot rows = %d, want 1", len(got.Ingredients))
	}
	if got.Ingredients[0].IngredientID != flour.ID {
		t.Errorf("surviving snapshot row references %s, want flour", got.Ingredients[0].IngredientID)
	}
}

func TestRecipeDeleteCascadesVersions(t *testing.T) {
	h := newHarness(t)
	butter := h.mustIngredient(t, "butter", "g")

	root, _, err := h.recipes.CreateBatchRecipe(h.ctx, nil, CreateBatchRecipeInput{
		Fields: types.BatchRecipeFields{Name: "Compound Butter"},
		Ingredients: []IngredientInput{
			{IngredientID: butter.ID, Quantity: 250, Unit: "g"},
		},
	})
	if err != nil {
		t.Fatalf("CreateBatchRecipe: %v", err)
	}

	if err := h.recipes.DeleteRecipe(h.ctx, nil, KindBatch, root.ID); err != nil {
		t.Fatalf("DeleteRecipe: %v", err)
	}

	var versionCount, snapshotCount int64
	if err := h.db.Model(&types.BatchRecipeVersion{}).Where("recipe_id = ?", root.ID).Count(&versionCount).Error; err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if err := h.db.Model(&types.BatchVersionIngredient{}).Count(&snapshotCount).Error; err != nil {
		t.Fatalf("count snapshot rows: %v", err)
	}
	if versionCount != 0 || snapshotCount != 0 {
		t.Errorf("cascade incomplete: versions=%d snapshots=%d", versionCount, snapshotCount)
	}

	if _, err := h.ledger.GetActiveBatchVersion(h.ctx, nil, root.ID); !apierr.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestHistoryAndDiff(t *testing.T) {
	h := newHarness(t)
	butter := h.mustIngredient(t, "butter", "g")
	flour := h.mustIngredient(t, "flour", "g")

	root, _, err := h.recipes.CreateBatchRecipe(h.ctx, nil, CreateBatchRecipeInput{
		Fields: types.BatchRecipeFields{Name: "Roux", YieldQuantity: floatPtr(2), YieldUnit: "liters"},
		Ingredients: []IngredientInput{
			{IngredientID: butter.ID, Quantity: 100, Unit: "g"},
		},
	})
	if err != nil {
		t.Fatalf("CreateBatchRecipe: %v", err)
	}

	if _, err := h.ledger.CreateBatchVersion(h.ctx, nil, root.ID, CreateBatchVersionInput{
		Fields: types.BatchRecipeFields{Name: "Roux", YieldQuantity: floatPtr(2), YieldUnit: "liters"},
		Ingredients: []IngredientInput{
			{IngredientID: butter.ID, Quantity: 100, Unit: "g"},
			{IngredientID: flour.ID, Quantity: 100, Unit: "g"},
		},
	}); err != nil {
		t.Fatalf("create 1.1: %v", err)
	}

	if _, err := h.ledger.CreateBatchVersion(h.ctx, nil, root.ID, CreateBatchVersionInput{
		Fields: types.BatchRecipeFields{Name: "Roux", YieldQuantity: floatPtr(3), YieldUnit: "liters"},
		Ingredients: []IngredientInput{
			{IngredientID: butter.ID, Quantity: 150, Unit: "g"},
			{IngredientID: flour.ID, Quantity: 100, Unit: "g"},
		},
	}); err != nil {
		t.Fatalf("create 1.2: %v", err)
	}

	history, err := h.ledger.ListBatchHistory(h.ctx, nil, root.ID)
	if err != nil {
		t.Fatalf("ListBatchHistory: %v", err)
	}
	wantOrder := []string{"1.2", "1.1", "1.0"}
	if len(history) != len(wantOrder) {
		t.Fatalf("history length = %d, want %d", len(history), len(wantOrder))
	}
	for i, want := range wantOrder {
		if got := history[i].Version().String(); got != want {
			t.Errorf("history[%d] = %s, want %s", i, got, want)
		}
	}

	// History entries come back hydrated with their snapshot rows.
	wantRows := []int{2, 2, 1}
	for i, want := range wantRows {
		if got := len(history[i].Ingredients); got != want {
			t.Errorf("history[%d] ingredient rows = %d, want %d", i, got, want)
		}
	}

	from := types.VersionNumber{Major: 1, Minor: 0}
	to := types.VersionNumber{Major: 1, Minor: 2}
	clauses, err := h.ledger.DiffBatchVersions(h.ctx, nil, root.ID, from, to)
	if err != nil {
		t.Fatalf("DiffBatchVersions: %v", err)
	}
	want := []string{
		"yield_quantity changed from 2 to 3",
		"Added flour",
		"Changed butter from 100g to 150g",
	}
	if len(clauses) != len(want) {
		t.Fatalf("diff clauses = %v, want %v", clauses, want)
	}
	for i := range want {
		if clauses[i] != want[i] {
			t.Errorf("clause %d = %q, want %q", i, clauses[i], want[i])
		}
	}

	if _, err := h.ledger.DiffBatchVersions(h.ctx, nil, root.ID, from, types.VersionNumber{Major: 9, Minor: 9}); !apierr.IsNotFound(err) {
		t.Errorf("expected not found for missing version, got %v", err)
	}
}

func TestGetActiveOnRecipeWithoutVersions(t *testing.T) {
	h := newHarness(t)

	// A root created outside the service layer has no versions yet; the read
	// path reports that as an empty result, not an error.
	bare := &types.BatchRecipe{ID: uuid.New(), ChefID: testChefID, BatchRecipeFields: types.BatchRecipeFields{Name: "Bare Root"}}
	if _, err := h.batchRepo.Create(h.ctx, nil, []*types.BatchRecipe{bare}); err != nil {
		t.Fatalf("create bare root: %v", err)
	}

	version, err := h.ledger.GetActiveBatchVersion(h.ctx, nil, bare.ID)
	if err != nil {
		t.Fatalf("GetActiveBatchVersion: %v", err)
	}
	if version != nil {
		t.Errorf("expected nil version, got %+v", version)
	}

	if _, err := h.ledger.GetActiveBatchVersion(h.ctx, nil, uuid.New()); !apierr.IsNotFound(err) {
		t.Errorf("expected not found for unknown recipe, got %v", err)
	}
}

func TestDuplicateRecipeNameRejected(t *testing.T) {
	h := newHarness(t)

	if _, _, err := h.recipes.CreateBatchRecipe(h.ctx, nil, CreateBatchRecipeInput{
		Fields: types.BatchRecipeFields{Name: "House Stock"},
	}); err != nil {
		t.Fatalf("CreateBatchRecipe: %v", err)
	}
	_, _, err := h.recipes.CreateBatchRecipe(h.ctx, nil, CreateBatchRecipeInput{
		Fields: types.BatchRecipeFields{Name: "house stock"},
	})
	if !apierr.IsConflict(err) {
		t.Errorf("expected conflict for duplicate name, got %v", err)
	}
}

func TestCrossChefAccessIsHidden(t *testing.T) {
	h := newHarness(t)
	butter := h.mustIngredient(t, "butter", "g")

	root, _, err := h.recipes.CreateBatchRecipe(h.ctx, nil, CreateBatchRecipeInput{
		Fields: types.BatchRecipeFields{Name: "Beurre Blanc"},
		Ingredients: []IngredientInput{
			{IngredientID: butter.ID, Quantity: 500, Unit: "g"},
		},
	})
	if err != nil {
		t.Fatalf("CreateBatchRecipe: %v", err)
	}

	intruderCtx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{ChefID: "chef-2"})

	// Another chef's recipe reads and writes as if it did not exist.
	if _, err := h.ledger.CreateBatchVersion(intruderCtx, nil, root.ID, CreateBatchVersionInput{
		Fields: types.BatchRecipeFields{Name: "Beurre Blanc", Notes: "hijacked"},
	}); !apierr.IsNotFound(err) {
		t.Errorf("CreateBatchVersion: expected not found, got %v", err)
	}
	if _, err := h.ledger.GetActiveBatchVersion(intruderCtx, nil, root.ID); !apierr.IsNotFound(err) {
		t.Errorf("GetActiveBatchVersion: expected not found, got %v", err)
	}
	if _, err := h.ledger.ListBatchHistory(intruderCtx, nil, root.ID); !apierr.IsNotFound(err) {
		t.Errorf("ListBatchHistory: expected not found, got %v", err)
	}
	v10 := types.VersionNumber{Major: 1, Minor: 0}
	if _, err := h.ledger.GetBatchVersion(intruderCtx, nil, root.ID, v10); !apierr.IsNotFound(err) {
		t.Errorf("GetBatchVersion: expected not found, got %v", err)
	}
	if _, err := h.ledger.DiffBatchVersions(intruderCtx, nil, root.ID, v10, v10); !apierr.IsNotFound(err) {
		t.Errorf("DiffBatchVersions: expected not found, got %v", err)
	}
	if _, err := h.recipes.GetBatchRecipe(intruderCtx, nil, root.ID); !apierr.IsNotFound(err) {
		t.Errorf("GetBatchRecipe: expected not found, got %v", err)
	}

	// The failed write attempt must not have advanced the ledger.
	history, err := h.ledger.ListBatchHistory(h.ctx, nil, root.ID)
	if err != nil {
		t.Fatalf("ListBatchHistory as owner: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("history length = %d, want 1", len(history))
	}

	// Referencing another chef's catalog ingredient or batch recipe from your
	// own recipe is rejected the same way an unknown id would be.
	intruderRoot, _, err := h.recipes.CreateBatchRecipe(intruderCtx, nil, CreateBatchRecipeInput{
		Fields: types.BatchRecipeFields{Name: "Beurre Blanc"},
	})
	if err != nil {
		t.Fatalf("create intruder recipe: %v", err)
	}
	if _, err := h.ledger.CreateBatchVersion(intruderCtx, nil, intruderRoot.ID, CreateBatchVersionInput{
		Fields: types.BatchRecipeFields{Name: "Beurre Blanc"},
		Ingredients: []IngredientInput{
			{IngredientID: butter.ID, Quantity: 1, Unit: "g"},
		},
	}); !apierr.IsValidation(err) {
		t.Errorf("foreign ingredient: expected validation error, got %v", err)
	}

	intruderPlate, _, err := h.recipes.CreatePlateRecipe(intruderCtx, nil, CreatePlateRecipeInput{
		Fields: types.PlateRecipeFields{Name: "Salmon Plate"},
	})
	if err != nil {
		t.Fatalf("create intruder plate: %v", err)
	}
	if _, err := h.ledger.CreatePlateVersion(intruderCtx, nil, intruderPlate.ID, CreatePlateVersionInput{
		Fields:          types.PlateRecipeFields{Name: "Salmon Plate"},
		BatchComponents: []BatchComponentInput{{BatchRecipeID: root.ID}},
	}); !apierr.IsValidation(err) {
		t.Errorf("foreign batch component: expected validation error, got %v", err)
	}
}

func TestPlateBatchComponents(t *testing.T) {
	h := newHarness(t)
	salmon := h.mustIngredient(t, "salmon fillet", "g")

	sauceRoot, _, err := h.recipes.CreateBatchRecipe(h.ctx, nil, CreateBatchRecipeInput{
		Fields: types.BatchRecipeFields{Name: "Beurre Blanc"},
	})
	if err != nil {
		t.Fatalf("create sauce: %v", err)
	}
	pureeRoot, _, err := h.recipes.CreateBatchRecipe(h.ctx, nil, CreateBatchRecipeInput{
		Fields: types.BatchRecipeFields{Name: "Celeriac Puree"},
	})
	if err != nil {
		t.Fatalf("create puree: %v", err)
	}

	plateRoot, v1, err := h.recipes.CreatePlateRecipe(h.ctx, nil, CreatePlateRecipeInput{
		Fields: types.PlateRecipeFields{Name: "Salmon Plate", Serves: intPtr(1)},
		Ingredients: []IngredientInput{
			{IngredientID: salmon.ID, Quantity: 180, Unit: "g"},
		},
		BatchComponents: []BatchComponentInput{
			{BatchRecipeID: sauceRoot.ID, Quantity: floatPtr(50), Unit: "ml"},
		},
	})
	if err != nil {
		t.Fatalf("CreatePlateRecipe: %v", err)
	}
	if len(v1.BatchComponents) != 1 || v1.BatchComponents[0].AssemblyOrder != 1 {
		t.Fatalf("unexpected components on 1.0: %+v", v1.BatchComponents)
	}

	v2, err := h.ledger.CreatePlateVersion(h.ctx, nil, plateRoot.ID, CreatePlateVersionInput{
		Fields: types.PlateRecipeFields{Name: "Salmon Plate", Serves: intPtr(1)},
		Ingredients: []IngredientInput{
			{IngredientID: salmon.ID, Quantity: 180, Unit: "g"},
		},
		BatchComponents: []BatchComponentInput{
			{BatchRecipeID: sauceRoot.ID, Quantity: floatPtr(60), Unit: "ml"},
			{BatchRecipeID: pureeRoot.ID, Quantity: floatPtr(80), Unit: "g"},
		},
	})
	if err != nil {
		t.Fatalf("CreatePlateVersion: %v", err)
	}
	if v2.ChangeSummary != "Added batch Celeriac Puree, Changed batch Beurre Blanc from 50ml to 60ml" {
		t.Errorf("summary = %q", v2.ChangeSummary)
	}

	// Unknown batch component is a validation error.
	_, err = h.ledger.CreatePlateVersion(h.ctx, nil, plateRoot.ID, CreatePlateVersionInput{
		Fields:          types.PlateRecipeFields{Name: "Salmon Plate", Serves: intPtr(1)},
		BatchComponents: []BatchComponentInput{{BatchRecipeID: uuid.New()}},
	})
	if !apierr.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}
