package warehouse

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/arnavshah/readiness-api-go/pkg/database"
	"github.com/arnavshah/readiness-api-go/pkg/models"
)

// Store persists per-cycle readiness rows and answers history queries.
// It plays the analytics-warehouse role; aggregation beyond per-cycle
// rows is the warehouse's own job.
type Store struct {
	DB *gorm.DB
}

// New creates a warehouse store on the shared database handle
func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// Record writes one history row for the snapshot
func (s *Store) Record(snap models.UnitReadinessSnapshot) error {
	row := database.ReadinessHistory{
		UnitID:         snap.UnitID,
		ReadinessScore: snap.ReadinessScore,
		StaffRequired:  snap.StaffRequired,
		StaffPresent:   snap.StaffPresent,
		StaffAvailable: snap.StaffAvailable,
		MissingCount:   len(snap.CertificationsMissing),
		ExpiredCount:   len(snap.ExpiredCertifications),
		IsUnderstaffed: snap.IsUnderstaffed,
		ComputedAt:     snap.Timestamp,
	}
	return s.DB.Create(&row).Error
}

// History returns the recorded rows for a unit over the trailing number
// of days, newest first
func (s *Store) History(unitID string, days int) ([]database.ReadinessHistory, error) {
	since := time.Now().AddDate(0, 0, -days)
	var rows []database.ReadinessHistory
	err := s.DB.
		Where("unit_id = ? AND computed_at >= ?", unitID, since).
		Order("computed_at desc").
		Find(&rows).Error
	return rows, err
}

// Facts is the pre-aggregated readiness shape an external aggregation
// pipeline may supply instead of local computation
type Facts struct {
	UnitID         string    `json:"unit_id"`
	MinimumStaff   int       `json:"minimum_staff"`
	CurrentStaff   int       `json:"current_staff_count"`
	AvailableStaff int       `json:"available_staff_count"`
	Missing        []string  `json:"missing_certifications"`
	Expired        []string  `json:"expired_certifications"`
	ComputedAt     time.Time `json:"computed_at"`
}

// ValidateFacts checks an upstream facts record at the boundary.
// Malformed records are rejected here rather than propagated with
// undefined fields.
func ValidateFacts(f Facts) error {
	if f.UnitID == "" {
		return fmt.Errorf("facts missing unit_id")
	}
	if f.MinimumStaff <= 0 {
		return fmt.Errorf("facts for unit %s: minimum_staff must be > 0, got %d", f.UnitID, f.MinimumStaff)
	}
	if f.CurrentStaff < 0 {
		return fmt.Errorf("facts for unit %s: negative current_staff_count", f.UnitID)
	}
	if f.AvailableStaff < 0 {
		return fmt.Errorf("facts for unit %s: negative available_staff_count", f.UnitID)
	}
	if f.AvailableStaff > f.CurrentStaff {
		return fmt.Errorf("facts for unit %s: available_staff_count exceeds current_staff_count", f.UnitID)
	}
	if f.ComputedAt.IsZero() {
		return fmt.Errorf("facts for unit %s: missing computed_at", f.UnitID)
	}
	return nil
}
