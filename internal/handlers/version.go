package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/platewise/recipeledger/internal/logger"
	"github.com/platewise/recipeledger/internal/services"
	"github.com/platewise/recipeledger/internal/types"
	"net/http"
)

type VersionHandler struct {
	log    *logger.Logger
	ledger services.LedgerService
}

func NewVersionHandler(log *logger.Logger, ledger services.LedgerService) *VersionHandler {
	return &VersionHandler{
		log:    log.With("handler", "VersionHandler"),
		ledger: ledger,
	}
}

func (h *VersionHandler) CreateVersion(c *gin.Context) {
	kind, recipeID, ok := recipeParams(c)
	if !ok {
		return
	}

	switch kind {
	case services.KindBatch:
		var req services.CreateBatchVersionInput
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_body", err)
			return
		}
		version, err := h.ledger.CreateBatchVersion(c.Request.Context(), nil, recipeID, req)
		if err != nil {
			h.log.Error("CreateVersion failed", "error", err, "recipe_id", recipeID, "kind", kind)
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, gin.H{"version": version})
	case services.KindPlate:
		var req services.CreatePlateVersionInput
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_body", err)
			return
		}
		version, err := h.ledger.CreatePlateVersion(c.Request.Context(), nil, recipeID, req)
		if err != nil {
			h.log.Error("CreateVersion failed", "error", err, "recipe_id", recipeID, "kind", kind)
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, gin.H{"version": version})
	}
}

func (h *VersionHandler) GetActiveVersion(c *gin.Context) {
	kind, recipeID, ok := recipeParams(c)
	if !ok {
		return
	}

	switch kind {
	case services.KindBatch:
		version, err := h.ledger.GetActiveBatchVersion(c.Request.Context(), nil, recipeID)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, gin.H{"version": version})
	case services.KindPlate:
		version, err := h.ledger.GetActivePlateVersion(c.Request.Context(), nil, recipeID)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, gin.H{"version": version})
	}
}

func (h *VersionHandler) ListHistory(c *gin.Context) {
	kind, recipeID, ok := recipeParams(c)
	if !ok {
		return
	}

	switch kind {
	case services.KindBatch:
		versions, err := h.ledger.ListBatchHistory(c.Request.Context(), nil, recipeID)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, gin.H{"versions": versions})
	case services.KindPlate:
		versions, err := h.ledger.ListPlateHistory(c.Request.Context(), nil, recipeID)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, gin.H{"versions": versions})
	}
}

func (h *VersionHandler) GetVersion(c *gin.Context) {
	kind, recipeID, ok := recipeParams(c)
	if !ok {
		return
	}
	number, err := types.ParseVersionNumber(c.Param("number"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_version_number", err)
		return
	}

	switch kind {
	case services.KindBatch:
		version, err := h.ledger.GetBatchVersion(c.Request.Context(), nil, recipeID, number)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, gin.H{"version": version})
	case services.KindPlate:
		version, err := h.ledger.GetPlateVersion(c.Request.Context(), nil, recipeID, number)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, gin.H{"version": version})
	}
}

func (h *VersionHandler) DiffVersions(c *gin.Context) {
	kind, recipeID, ok := recipeParams(c)
	if !ok {
		return
	}
	from, err := types.ParseVersionNumber(c.Query("from"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_version_number", err)
		return
	}
	to, err := types.ParseVersionNumber(c.Query("to"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_version_number", err)
		return
	}

	var clauses []string
	switch kind {
	case services.KindBatch:
		clauses, err = h.ledger.DiffBatchVersions(c.Request.Context(), nil, recipeID, from, to)
	case services.KindPlate:
		clauses, err = h.ledger.DiffPlateVersions(c.Request.Context(), nil, recipeID, from, to)
	}
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"from": from.String(), "to": to.String(), "changes": clauses})
}
