package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/platewise/recipeledger/internal/logger"
	"github.com/platewise/recipeledger/internal/services"
	"net/http"
)

type RecipeHandler struct {
	log           *logger.Logger
	recipeService services.RecipeService
}

func NewRecipeHandler(log *logger.Logger, recipeService services.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		log:           log.With("handler", "RecipeHandler"),
		recipeService: recipeService,
	}
}

func (h *RecipeHandler) CreateBatchRecipe(c *gin.Context) {
	var req services.CreateBatchRecipeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	recipe, version, err := h.recipeService.CreateBatchRecipe(c.Request.Context(), nil, req)
	if err != nil {
		h.log.Error("CreateBatchRecipe failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"recipe": recipe, "version": version})
}

func (h *RecipeHandler) CreatePlateRecipe(c *gin.Context) {
	var req services.CreatePlateRecipeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	recipe, version, err := h.recipeService.CreatePlateRecipe(c.Request.Context(), nil, req)
	if err != nil {
		h.log.Error("CreatePlateRecipe failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"recipe": recipe, "version": version})
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	list, err := h.recipeService.ListRecipes(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("ListRecipes failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, list)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	kind, recipeID, ok := recipeParams(c)
	if !ok {
		return
	}
	switch kind {
	case services.KindBatch:
		recipe, err := h.recipeService.GetBatchRecipe(c.Request.Context(), nil, recipeID)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, gin.H{"recipe": recipe})
	case services.KindPlate:
		recipe, err := h.recipeService.GetPlateRecipe(c.Request.Context(), nil, recipeID)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, gin.H{"recipe": recipe})
	}
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	kind, recipeID, ok := recipeParams(c)
	if !ok {
		return
	}
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), nil, kind, recipeID); err != nil {
		h.log.Error("DeleteRecipe failed", "error", err, "recipe_id", recipeID, "kind", kind)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": recipeID, "recipe_type": kind})
}

// recipeParams parses the :kind and :id path params shared by the recipe
// and version routes. It writes the error response itself on failure.
func recipeParams(c *gin.Context) (string, uuid.UUID, bool) {
	kind := c.Param("kind")
	if kind != services.KindBatch && kind != services.KindPlate {
		RespondError(c, http.StatusBadRequest, "invalid_kind", nil)
		return "", uuid.Nil, false
	}
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return "", uuid.Nil, false
	}
	return kind, recipeID, true
}
