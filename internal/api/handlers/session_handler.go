package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/supplyops/planner/internal/domain"
	"github.com/supplyops/planner/internal/ingest"
	"github.com/supplyops/planner/internal/service"
	"github.com/supplyops/planner/internal/session"
)

// SessionHandler exposes the planning loop over HTTP: upload a demand file
// to open a session, then read/edit the plan until the session expires.
type SessionHandler struct {
	service   *service.PlanningService
	uploadDir string
}

func NewSessionHandler(svc *service.PlanningService, uploadDir string) *SessionHandler {
	return &SessionHandler{service: svc, uploadDir: uploadDir}
}

type sessionResponse struct {
	SessionID        string               `json:"session_id"`
	Products         []string             `json:"products"`
	SelectedProducts []string             `json:"selected_products"`
	InitialStocks    domain.InitialStocks `json:"initial_stocks"`
	Plan             domain.Plan          `json:"plan"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

func toResponse(state *domain.SessionState) sessionResponse {
	return sessionResponse{
		SessionID:        state.ID,
		Products:         state.DemandData.Products(),
		SelectedProducts: state.SelectedProducts,
		InitialStocks:    state.InitialStocks,
		Plan:             state.Plan,
		UpdatedAt:        state.UpdatedAt,
	}
}

// Upload creates a planning session from a multipart CSV/XLSX demand file.
func (h *SessionHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing demand file"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".csv" && ext != ".xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "demand file must be .csv or .xlsx"})
		return
	}

	dest := filepath.Join(h.uploadDir, fmt.Sprintf("%d%s", time.Now().UnixNano(), ext))
	if err := c.SaveUploadedFile(file, dest); err != nil {
		log.Error().Err(err).Str("file", file.Filename).Msg("failed to store upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}
	defer os.Remove(dest)

	table, err := ingest.ReadFile(dest)
	if err != nil {
		// Covers the one fatal validation case: missing required columns.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.service.CreateSession(c.Request.Context(), table)
	if err != nil {
		log.Error().Err(err).Msg("failed to create session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, toResponse(state))
}

// GetPlan returns the session's current state and plan.
func (h *SessionHandler) GetPlan(c *gin.Context) {
	state, err := h.service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(state))
}

// UpdateSelection replaces the session's product selection.
func (h *SessionHandler) UpdateSelection(c *gin.Context) {
	var req struct {
		Products []string `json:"products"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid selection payload"})
		return
	}

	state, err := h.service.UpdateSelection(c.Request.Context(), c.Param("id"), req.Products)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(state))
}

// UpdateStocks merges initial stock levels into the session.
func (h *SessionHandler) UpdateStocks(c *gin.Context) {
	var req struct {
		InitialStocks map[string]float64 `json:"initial_stocks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.InitialStocks == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stocks payload"})
		return
	}

	state, err := h.service.UpdateInitialStocks(c.Request.Context(), c.Param("id"), req.InitialStocks)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(state))
}

// UpdateDemand replaces the session's demand table.
func (h *SessionHandler) UpdateDemand(c *gin.Context) {
	var req struct {
		Records domain.DemandTable `json:"records"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid demand payload"})
		return
	}

	state, err := h.service.ReplaceDemandTable(c.Request.Context(), c.Param("id"), req.Records)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(state))
}

// SubmitPlan accepts an edited plan, reconciles it into the session's data
// and returns the regenerated plan.
func (h *SessionHandler) SubmitPlan(c *gin.Context) {
	var req struct {
		Plan domain.Plan `json:"plan"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan payload"})
		return
	}

	state, err := h.service.SubmitPlan(c.Request.Context(), c.Param("id"), req.Plan)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(state))
}

// Export streams the session's plan as a UTF-8 CSV download.
func (h *SessionHandler) Export(c *gin.Context) {
	data, err := h.service.ExportCSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="supply_plan.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ListRuns returns the session's persisted plan history.
func (h *SessionHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.service.ListRuns(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// Delete ends the session.
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) renderError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if errors.Is(err, service.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Error().Err(err).Str("session", c.Param("id")).Msg("session request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
