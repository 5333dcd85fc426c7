package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arnavshah/readiness-api-go/pkg/database"
)

// CreateUnit creates an emergency response unit
func (h *Handler) CreateUnit(c *gin.Context) {
	var row database.Unit
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if row.UnitName == "" || row.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit_name and type are required"})
		return
	}
	if row.MinimumStaff <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minimum_staff must be greater than 0"})
		return
	}

	row.UnitID = uuid.NewString()
	if err := h.DB.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create unit"})
		return
	}

	h.RecordUsage(c, 0, 1)
	c.JSON(http.StatusOK, row.ToModel())
}

// ListUnits lists units, optionally filtered by type
func (h *Handler) ListUnits(c *gin.Context) {
	query := h.DB.Model(&database.Unit{})
	if unitType := c.Query("type"); unitType != "" {
		query = query.Where("type = ?", unitType)
	}

	var rows []database.Unit
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list units"})
		return
	}

	out := make([]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToModel())
	}
	c.JSON(http.StatusOK, out)
}

// GetUnit retrieves a unit definition
func (h *Handler) GetUnit(c *gin.Context) {
	var row database.Unit
	if err := h.DB.Where("unit_id = ?", c.Param("id")).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unit not found"})
		return
	}
	c.JSON(http.StatusOK, row.ToModel())
}

// UpdateUnit updates an existing unit definition
func (h *Handler) UpdateUnit(c *gin.Context) {
	id := c.Param("id")

	var existing database.Unit
	if err := h.DB.Where("unit_id = ?", id).First(&existing).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unit not found"})
		return
	}

	var row database.Unit
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if row.MinimumStaff <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minimum_staff must be greater than 0"})
		return
	}

	row.UnitID = id
	row.CreatedAt = existing.CreatedAt
	if err := h.DB.Save(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update unit"})
		return
	}

	// A changed minimum or cert requirement shifts readiness immediately
	go h.Engine.Evaluate(id)

	h.RecordUsage(c, 0, 1)
	c.JSON(http.StatusOK, row.ToModel())
}
