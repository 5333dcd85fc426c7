package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arnavshah/readiness-api-go/pkg/database"
	"github.com/arnavshah/readiness-api-go/pkg/models"
	"github.com/arnavshah/readiness-api-go/pkg/readiness"
)

// CreateCertification creates a new certification definition
func (h *Handler) CreateCertification(c *gin.Context) {
	var row database.Certification
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if row.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	row.CertificationID = uuid.NewString()
	if err := h.DB.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create certification"})
		return
	}

	h.RecordUsage(c, 0, 1)
	c.JSON(http.StatusOK, row.ToModel())
}

// ListCertifications lists all certification definitions
func (h *Handler) ListCertifications(c *gin.Context) {
	query := h.DB.Model(&database.Certification{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var rows []database.Certification
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list certifications"})
		return
	}

	out := make([]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToModel())
	}
	c.JSON(http.StatusOK, out)
}

// GetCertification retrieves a certification definition
func (h *Handler) GetCertification(c *gin.Context) {
	var row database.Certification
	if err := h.DB.Where("certification_id = ?", c.Param("id")).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Certification not found"})
		return
	}
	c.JSON(http.StatusOK, row.ToModel())
}

// UpdateCertification updates an existing certification definition
func (h *Handler) UpdateCertification(c *gin.Context) {
	id := c.Param("id")

	var existing database.Certification
	if err := h.DB.Where("certification_id = ?", id).First(&existing).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Certification not found"})
		return
	}

	var row database.Certification
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row.CertificationID = id
	row.CreatedAt = existing.CreatedAt
	if err := h.DB.Save(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update certification"})
		return
	}

	h.RecordUsage(c, 0, 1)
	c.JSON(http.StatusOK, row.ToModel())
}

// DeleteCertification deletes a certification definition
func (h *Handler) DeleteCertification(c *gin.Context) {
	id := c.Param("id")

	result := h.DB.Where("certification_id = ?", id).Delete(&database.Certification{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete certification"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Certification not found"})
		return
	}

	h.RecordUsage(c, 0, 1)
	c.JSON(http.StatusOK, gin.H{"message": "Certification deleted successfully"})
}

// GetExpiringCertifications returns certifications expiring within the
// requested number of days
func (h *Handler) GetExpiringCertifications(c *gin.Context) {
	daysAhead := 30
	if v := c.Query("days_ahead"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days_ahead must be a non-negative integer"})
			return
		}
		daysAhead = parsed
	}

	roster, err := h.loadRoster()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load personnel"})
		return
	}

	c.JSON(http.StatusOK, readiness.ExpiringWithin(roster, daysAhead, time.Now().UTC()))
}

// GetExpiredCertifications returns all currently expired certifications
func (h *Handler) GetExpiredCertifications(c *gin.Context) {
	roster, err := h.loadRoster()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load personnel"})
		return
	}

	c.JSON(http.StatusOK, readiness.Expired(roster, time.Now().UTC()))
}

// CheckExpirations marks personnel holding expired certifications as
// unqualified and re-evaluates the units they are assigned to. Typically
// invoked by a daily job.
func (h *Handler) CheckExpirations(c *gin.Context) {
	roster, err := h.loadRoster()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load personnel"})
		return
	}

	expired := readiness.Expired(roster, time.Now().UTC())

	// Group expired certs by person
	byPerson := make(map[string][]string)
	for _, e := range expired {
		byPerson[e.PersonnelID] = append(byPerson[e.PersonnelID], e.Certification)
	}

	marked := 0
	for personnelID, certs := range byPerson {
		note := "Unqualified: Expired certifications: " + strings.Join(certs, ", ")
		err := h.DB.Model(&database.Personnel{}).
			Where("personnel_id = ?", personnelID).
			Updates(map[string]interface{}{
				"availability_status": string(models.Off),
				"notes":               note,
			}).Error
		if err != nil {
			continue
		}
		marked++
	}

	// Re-evaluate every unit with an on-shift assignment
	var rows []database.UnitAssignment
	h.DB.Where("assignment_status = ?", string(models.OnShift)).Find(&rows)
	affected := make(map[string]bool)
	for _, r := range rows {
		affected[r.UnitID] = true
	}
	affectedList := make([]string, 0, len(affected))
	for unitID := range affected {
		affectedList = append(affectedList, unitID)
		go h.Engine.Evaluate(unitID)
	}

	h.RecordUsage(c, len(affectedList), marked)
	c.JSON(http.StatusOK, gin.H{
		"marked_unqualified": marked,
		"affected_units":     affectedList,
	})
}

func (h *Handler) loadRoster() ([]models.Personnel, error) {
	var rows []database.Personnel
	if err := h.DB.Find(&rows).Error; err != nil {
		return nil, err
	}
	roster := make([]models.Personnel, 0, len(rows))
	for _, r := range rows {
		roster = append(roster, r.ToModel())
	}
	return roster, nil
}
