package services

import (
	"fmt"
	"github.com/google/uuid"
	"github.com/platewise/recipeledger/internal/types"
	"gorm.io/datatypes"
	"strconv"
	"strings"
)

// Change-summary rendering. Clause order is fixed so summaries are
// deterministic: metadata field changes first (in declared field order),
// then ingredient additions, removals, and quantity changes, then batch
// component changes for plates. Clauses join with ", ".

const initialVersionSummary = "Initial version"
const noChangesSummary = "No changes"

type ingredientLine struct {
	id   uuid.UUID
	name string
	qty  float64
	unit string
}

type componentLine struct {
	id   uuid.UUID
	name string
	qty  *float64
	unit string
}

func joinSummary(clauses []string) string {
	if len(clauses) == 0 {
		return noChangesSummary
	}
	return strings.Join(clauses, ", ")
}

func diffBatchFields(old, new types.BatchRecipeFields) []string {
	var clauses []string
	appendFieldClause(&clauses, "name", old.Name, new.Name)
	appendFieldClause(&clauses, "description", old.Description, new.Description)
	appendFieldClause(&clauses, "yield_quantity", formatFloatPtr(old.YieldQuantity), formatFloatPtr(new.YieldQuantity))
	appendFieldClause(&clauses, "yield_unit", old.YieldUnit, new.YieldUnit)
	appendFieldClause(&clauses, "prep_time_minutes", formatIntPtr(old.PrepTimeMinutes), formatIntPtr(new.PrepTimeMinutes))
	appendFieldClause(&clauses, "cook_time_minutes", formatIntPtr(old.CookTimeMinutes), formatIntPtr(new.CookTimeMinutes))
	appendFieldClause(&clauses, "temperature", formatFloatPtr(old.Temperature), formatFloatPtr(new.Temperature))
	appendFieldClause(&clauses, "temperature_unit", old.TemperatureUnit, new.TemperatureUnit)
	appendFieldClause(&clauses, "equipment", formatJSON(old.Equipment), formatJSON(new.Equipment))
	appendFieldClause(&clauses, "instructions", old.Instructions, new.Instructions)
	appendFieldClause(&clauses, "notes", old.Notes, new.Notes)
	return clauses
}

func diffPlateFields(old, new types.PlateRecipeFields) []string {
	var clauses []string
	appendFieldClause(&clauses, "name", old.Name, new.Name)
	appendFieldClause(&clauses, "description", old.Description, new.Description)
	appendFieldClause(&clauses, "serves", formatIntPtr(old.Serves), formatIntPtr(new.Serves))
	appendFieldClause(&clauses, "category", old.Category, new.Category)
	appendFieldClause(&clauses, "cuisine", old.Cuisine, new.Cuisine)
	appendFieldClause(&clauses, "plating_instructions", old.PlatingInstructions, new.PlatingInstructions)
	appendFieldClause(&clauses, "garnish", old.Garnish, new.Garnish)
	appendFieldClause(&clauses, "presentation_notes", old.PresentationNotes, new.PresentationNotes)
	appendFieldClause(&clauses, "prep_time_minutes", formatIntPtr(old.PrepTimeMinutes), formatIntPtr(new.PrepTimeMinutes))
	appendFieldClause(&clauses, "cook_time_minutes", formatIntPtr(old.CookTimeMinutes), formatIntPtr(new.CookTimeMinutes))
	appendFieldClause(&clauses, "difficulty", old.Difficulty, new.Difficulty)
	appendFieldClause(&clauses, "notes", old.Notes, new.Notes)
	return clauses
}

func appendFieldClause(clauses *[]string, field, oldVal, newVal string) {
	if oldVal == newVal {
		return
	}
	*clauses = append(*clauses, fmt.Sprintf("%s changed from %s to %s", field, displayValue(oldVal), displayValue(newVal)))
}

func diffIngredientLines(old, new []ingredientLine) []string {
	oldByID := make(map[uuid.UUID]ingredientLine, len(old))
	for _, line := range old {
		oldByID[line.id] = line
	}
	newByID := make(map[uuid.UUID]ingredientLine, len(new))
	for _, line := range new {
		newByID[line.id] = line
	}

	var clauses []string
	for _, line := range new {
		if _, ok := oldByID[line.id]; !ok {
			clauses = append(clauses, fmt.Sprintf("Added %s", line.name))
		}
	}
	for _, line := range old {
		if _, ok := newByID[line.id]; !ok {
			clauses = append(clauses, fmt.Sprintf("Removed %s", line.name))
		}
	}
	for _, line := range new {
		prior, ok := oldByID[line.id]
		if !ok {
			continue
		}
		if prior.qty != line.qty || prior.unit != line.unit {
			clauses = append(clauses, fmt.Sprintf("Changed %s from %s%s to %s%s",
				line.name, formatQuantity(prior.qty), prior.unit, formatQuantity(line.qty), line.unit))
		}
	}
	return clauses
}

func diffComponentLines(old, new []componentLine) []string {
	oldByID := make(map[uuid.UUID]componentLine, len(old))
	for _, line := range old {
		oldByID[line.id] = line
	}
	newByID := make(map[uuid.UUID]componentLine, len(new))
	for _, line := range new {
		newByID[line.id] = line
	}

	var clauses []string
	for _, line := range new {
		if _, ok := oldByID[line.id]; !ok {
			clauses = append(clauses, fmt.Sprintf("Added batch %s", line.name))
		}
	}
	for _, line := range old {
		if _, ok := newByID[line.id]; !ok {
			clauses = append(clauses, fmt.Sprintf("Removed batch %s", line.name))
		}
	}
	for _, line := range new {
		prior, ok := oldByID[line.id]
		if !ok {
			continue
		}
		if formatFloatPtr(prior.qty) != formatFloatPtr(line.qty) || prior.unit != line.unit {
			clauses = append(clauses, fmt.Sprintf("Changed batch %s from %s%s to %s%s",
				line.name, formatFloatPtr(prior.qty), prior.unit, formatFloatPtr(line.qty), line.unit))
		}
	}
	return clauses
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func formatFloatPtr(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatIntPtr(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func formatJSON(j datatypes.JSON) string {
	if len(j) == 0 {
		return ""
	}
	return string(j)
}

func displayValue(v string) string {
	if v == "" {
		return "none"
	}
	return v
}
