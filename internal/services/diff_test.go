package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/platewise/recipeledger/internal/types"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestDiffPlateFieldsSummaryFormat(t *testing.T) {
	old := types.PlateRecipeFields{Name: "Pan Seared Salmon", Serves: intPtr(4)}
	new := types.PlateRecipeFields{Name: "Pan Seared Salmon", Serves: intPtr(6)}

	clauses := diffPlateFields(old, new)
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d: %v", len(clauses), clauses)
	}
	if clauses[0] != "serves changed from 4 to 6" {
		t.Errorf("unexpected clause: %q", clauses[0])
	}
}

func TestDiffFieldsEmptyValuesRenderAsNone(t *testing.T) {
	old := types.BatchRecipeFields{Name: "Veloute", YieldUnit: ""}
	new := types.BatchRecipeFields{Name: "Veloute", YieldUnit: "liters"}

	clauses := diffBatchFields(old, new)
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d: %v", len(clauses), clauses)
	}
	if clauses[0] != "yield_unit changed from none to liters" {
		t.Errorf("unexpected clause: %q", clauses[0])
	}
}

func TestDiffFieldsNoChanges(t *testing.T) {
	fields := types.BatchRecipeFields{
		Name:          "Demi Glace",
		YieldQuantity: floatPtr(2),
		YieldUnit:     "liters",
	}
	if clauses := diffBatchFields(fields, fields); len(clauses) != 0 {
		t.Errorf("expected no clauses for identical fields, got %v", clauses)
	}
	if got := joinSummary(nil); got != noChangesSummary {
		t.Errorf("joinSummary(nil) = %q, want %q", got, noChangesSummary)
	}
}

func TestDiffIngredientLines(t *testing.T) {
	butter := ingredientLine{id: uuid.New(), name: "butter", qty: 100, unit: "g"}
	flour := ingredientLine{id: uuid.New(), name: "flour", qty: 100, unit: "g"}
	garlic := ingredientLine{id: uuid.New(), name: "garlic", qty: 2, unit: "cloves"}

	moreButter := butter
	moreButter.qty = 150

	clauses := diffIngredientLines(
		[]ingredientLine{butter, flour},
		[]ingredientLine{moreButter, garlic},
	)

	want := []string{
		"Added garlic",
		"Removed flour",
		"Changed butter from 100g to 150g",
	}
	if len(clauses) != len(want) {
		t.Fatalf("expected %d clauses, got %d: %v", len(want), len(clauses), clauses)
	}
	for i := range want {
		if clauses[i] != want[i] {
			t.Errorf("clause %d = %q, want %q", i, clauses[i], want[i])
		}
	}
}

func TestDiffIngredientLinesQuantityFormatting(t *testing.T) {
	id := uuid.New()
	old := []ingredientLine{{id: id, name: "cream", qty: 0.5, unit: "l"}}
	new := []ingredientLine{{id: id, name: "cream", qty: 0.75, unit: "l"}}

	clauses := diffIngredientLines(old, new)
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause, got %v", clauses)
	}
	if clauses[0] != "Changed cream from 0.5l to 0.75l" {
		t.Errorf("unexpected clause: %q", clauses[0])
	}
}

func TestDiffClauseOrderFieldsBeforeIngredients(t *testing.T) {
	garlic := ingredientLine{id: uuid.New(), name: "garlic", qty: 2, unit: "cloves"}

	clauses := diffPlateFields(
		types.PlateRecipeFields{Name: "Salmon", Serves: intPtr(4)},
		types.PlateRecipeFields{Name: "Salmon", Serves: intPtr(6)},
	)
	clauses = append(clauses, diffIngredientLines(nil, []ingredientLine{garlic})...)

	if got := joinSummary(clauses); got != "serves changed from 4 to 6, Added garlic" {
		t.Errorf("unexpected summary: %q", got)
	}
}

func TestDiffComponentLines(t *testing.T) {
	sauce := componentLine{id: uuid.New(), name: "Beurre Blanc", qty: floatPtr(50), unit: "ml"}
	puree := componentLine{id: uuid.New(), name: "Celeriac Puree", qty: floatPtr(80), unit: "g"}

	moreSauce := sauce
	moreSauce.qty = floatPtr(60)

	clauses := diffComponentLines(
		[]componentLine{sauce},
		[]componentLine{moreSauce, puree},
	)
	want := []string{
		"Added batch Celeriac Puree",
		"Changed batch Beurre Blanc from 50ml to 60ml",
	}
	if len(clauses) != len(want) {
		t.Fatalf("expected %d clauses, got %v", len(want), clauses)
	}
	for i := range want {
		if clauses[i] != want[i] {
			t.Errorf("clause %d = %q, want %q", i, clauses[i], want[i])
		}
	}
}
