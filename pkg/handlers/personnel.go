package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arnavshah/readiness-api-go/pkg/database"
)

// CreatePersonnel creates a new personnel profile
func (h *Handler) CreatePersonnel(c *gin.Context) {
	var row database.Personnel
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if row.Name == "" || row.Role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and role are required"})
		return
	}

	row.PersonnelID = uuid.NewString()
	if row.AvailabilityStatus == "" {
		row.AvailabilityStatus = "AVAILABLE"
	}
	if row.LastCheckIn == nil {
		now := time.Now().UTC()
		row.LastCheckIn = &now
	}

	if err := h.DB.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create personnel record"})
		return
	}

	h.RecordUsage(c, 0, 1)
	c.JSON(http.StatusOK, row.ToModel())
}

// ListPersonnel lists personnel, optionally filtered by availability
func (h *Handler) ListPersonnel(c *gin.Context) {
	query := h.DB.Model(&database.Personnel{})
	if status := c.Query("availability_status"); status != "" {
		query = query.Where("availability_status = ?", status)
	}

	var rows []database.Personnel
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list personnel"})
		return
	}

	out := make([]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToModel())
	}
	c.JSON(http.StatusOK, out)
}

// GetPersonnel retrieves a single personnel record
func (h *Handler) GetPersonnel(c *gin.Context) {
	var row database.Personnel
	if err := h.DB.Where("personnel_id = ?", c.Param("id")).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Personnel not found"})
		return
	}
	c.JSON(http.StatusOK, row.ToModel())
}

// UpdatePersonnel updates an existing personnel profile
func (h *Handler) UpdatePersonnel(c *gin.Context) {
	id := c.Param("id")

	var existing database.Personnel
	if err := h.DB.Where("personnel_id = ?", id).First(&existing).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Personnel not found"})
		return
	}

	var row database.Personnel
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row.PersonnelID = id
	row.CreatedAt = existing.CreatedAt
	if row.LastCheckIn == nil {
		row.LastCheckIn = existing.LastCheckIn
	}

	if err := h.DB.Save(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update personnel record"})
		return
	}

	h.RecordUsage(c, 0, 1)
	c.JSON(http.StatusOK, row.ToModel())
}
