package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/platewise/recipeledger/internal/logger"
	"github.com/platewise/recipeledger/internal/services"
	"net/http"
)

type IngredientHandler struct {
	log               *logger.Logger
	ingredientService services.IngredientService
}

func NewIngredientHandler(log *logger.Logger, ingredientService services.IngredientService) *IngredientHandler {
	return &IngredientHandler{
		log:               log.With("handler", "IngredientHandler"),
		ingredientService: ingredientService,
	}
}

func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	var req services.CreateIngredientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	ingredient, err := h.ingredientService.CreateIngredient(c.Request.Context(), nil, req)
	if err != nil {
		h.log.Error("CreateIngredient failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"ingredient": ingredient})
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.ingredientService.ListIngredients(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("ListIngredients failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"ingredients": ingredients})
}

func (h *IngredientHandler) DeleteIngredient(c *gin.Context) {
	ingredientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.ingredientService.DeleteIngredient(c.Request.Context(), nil, ingredientID); err != nil {
		h.log.Error("DeleteIngredient failed", "error", err, "ingredient_id", ingredientID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": ingredientID})
}
