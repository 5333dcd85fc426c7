package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/arnavshah/readiness-api-go/pkg/database"
	"github.com/arnavshah/readiness-api-go/pkg/models"
	"github.com/arnavshah/readiness-api-go/pkg/readiness"
	"github.com/arnavshah/readiness-api-go/pkg/warehouse"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboard clients are served from other origins in development
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GetAllUnitsReadiness returns the readiness status of every unit
func (h *Handler) GetAllUnitsReadiness(c *gin.Context) {
	snaps, err := h.Engine.ComputeAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not compute readiness"})
		return
	}

	h.RecordUsage(c, len(snaps), 0)
	c.JSON(http.StatusOK, snaps)
}

// GetUnitReadiness returns the current readiness status for a unit,
// serving the cached snapshot from the last evaluation cycle when one
// exists
func (h *Handler) GetUnitReadiness(c *gin.Context) {
	unitID := c.Param("id")

	if snap, err := h.Cache.GetSnapshot(unitID); err == nil {
		h.RecordUsage(c, 1, 0)
		c.JSON(http.StatusOK, snap)
		return
	}

	snap, err := h.Engine.Compute(unitID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unit not found"})
		return
	}

	h.RecordUsage(c, 1, 0)
	c.JSON(http.StatusOK, snap)
}

// GetUnitReadinessHistory returns recorded readiness rows for a unit
func (h *Handler) GetUnitReadinessHistory(c *gin.Context) {
	unitID := c.Param("id")

	days := 7
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	var unit database.Unit
	if err := h.DB.Where("unit_id = ?", unitID).First(&unit).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unit not found"})
		return
	}

	history, err := h.Warehouse.History(unitID, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch history"})
		return
	}

	h.RecordUsage(c, 1, 0)
	c.JSON(http.StatusOK, gin.H{
		"unit_id": unitID,
		"days":    days,
		"history": history,
	})
}

// IngestFacts accepts pre-aggregated readiness facts from an external
// aggregation pipeline. Malformed records are rejected at the boundary.
func (h *Handler) IngestFacts(c *gin.Context) {
	var facts warehouse.Facts
	if err := c.ShouldBindJSON(&facts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := warehouse.ValidateFacts(facts); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var unit database.Unit
	if err := h.DB.Where("unit_id = ?", facts.UnitID).First(&unit).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unit not found"})
		return
	}

	certGaps := len(facts.Missing) > 0 || len(facts.Expired) > 0
	row := database.ReadinessHistory{
		UnitID:         facts.UnitID,
		ReadinessScore: readiness.Score(facts.CurrentStaff, facts.AvailableStaff, facts.MinimumStaff, certGaps),
		StaffRequired:  facts.MinimumStaff,
		StaffPresent:   facts.CurrentStaff,
		StaffAvailable: facts.AvailableStaff,
		MissingCount:   len(facts.Missing),
		ExpiredCount:   len(facts.Expired),
		IsUnderstaffed: readiness.Understaffed(facts.CurrentStaff, facts.MinimumStaff),
		ComputedAt:     facts.ComputedAt,
	}
	if err := h.DB.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not record facts"})
		return
	}

	h.RecordUsage(c, 1, 1)
	c.JSON(http.StatusOK, gin.H{"message": "Facts recorded"})
}

// ServeUnitSocket upgrades the connection and subscribes it to a unit's
// readiness stream. The current snapshot is sent immediately on connect.
func (h *Handler) ServeUnitSocket(c *gin.Context) {
	unitID := c.Param("id")

	var unit database.Unit
	if err := h.DB.Where("unit_id = ?", unitID).First(&unit).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unit not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws: upgrade failed for unit %s: %v", unitID, err)
		return
	}

	client := h.Hub.NewClient(unitID, conn)
	h.Hub.Register(client)

	// Initial state: last delivered snapshot, or a fresh computation for
	// a unit not yet evaluated
	snap, ok := h.Engine.Latest(unitID)
	if !ok {
		if computed, err := h.Engine.Compute(unitID); err == nil {
			snap = computed
			ok = true
		}
	}
	if ok {
		client.Send(models.Envelope{Type: models.MessageTypeReadiness, Data: snap})
	}

	client.Run()
}
