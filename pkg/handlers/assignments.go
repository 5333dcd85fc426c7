package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arnavshah/readiness-api-go/pkg/database"
	"github.com/arnavshah/readiness-api-go/pkg/events"
)

// CreateAssignment assigns personnel to a unit for a given shift window
func (h *Handler) CreateAssignment(c *gin.Context) {
	var row database.UnitAssignment
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !row.ShiftEnd.After(row.ShiftStart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shift_end must be after shift_start"})
		return
	}

	var unit database.Unit
	if err := h.DB.Where("unit_id = ?", row.UnitID).First(&unit).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unit not found"})
		return
	}

	var person database.Personnel
	if err := h.DB.Where("personnel_id = ?", row.PersonnelID).First(&person).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Personnel not found"})
		return
	}

	// The person must hold every certification the unit requires
	var missing []string
	for _, cert := range unit.RequiredCertifications {
		if !person.ToModel().HoldsCert(cert) {
			missing = append(missing, cert)
		}
	}
	if len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Personnel missing required certifications: " + strings.Join(missing, ", "),
		})
		return
	}

	row.AssignmentID = uuid.NewString()
	if row.AssignmentStatus == "" {
		row.AssignmentStatus = "ON_SHIFT"
	}
	if err := h.DB.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create assignment"})
		return
	}

	// Mark the person deployed on this unit
	person.CurrentUnitID = unit.UnitID
	person.AvailabilityStatus = "DEPLOYED"
	if err := h.DB.Save(&person).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update personnel status"})
		return
	}

	h.Events.Publish(unit.UnitID, events.EventAssignmentCreated, row.ToModel())

	// Push the unit's new readiness to subscribers right away instead of
	// waiting for the next cycle
	go h.Engine.Evaluate(unit.UnitID)

	h.RecordUsage(c, 1, 1)
	c.JSON(http.StatusOK, row.ToModel())
}

// ListAssignments lists unit assignments with optional filtering
func (h *Handler) ListAssignments(c *gin.Context) {
	query := h.DB.Model(&database.UnitAssignment{})
	if unitID := c.Query("unit_id"); unitID != "" {
		query = query.Where("unit_id = ?", unitID)
	}
	if personnelID := c.Query("personnel_id"); personnelID != "" {
		query = query.Where("personnel_id = ?", personnelID)
	}

	var rows []database.UnitAssignment
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list assignments"})
		return
	}

	out := make([]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToModel())
	}
	c.JSON(http.StatusOK, out)
}
