package readiness

import (
	"fmt"
	"sync"

	"github.com/arnavshah/readiness-api-go/pkg/models"
)

// Detector compares each newly computed snapshot against the previously
// observed one for the same unit and produces degradation alerts. Only
// degradations alert; a unit recovering from understaffed to staffed is
// silent to avoid alert fatigue. Snapshots themselves are always
// delivered to subscribers regardless of alerts.
//
// The detector retains exactly one generation of state per unit and is
// the sole writer of it.
type Detector struct {
	mu   sync.Mutex
	prev map[string]models.UnitReadinessSnapshot
}

// NewDetector creates a detector with an empty previous-snapshot store
func NewDetector() *Detector {
	return &Detector{prev: make(map[string]models.UnitReadinessSnapshot)}
}

// Observe records the snapshot as the unit's latest generation and
// returns the alerts the transition produced. The first observation for
// a unit is compared against a zero snapshot, so a unit that starts out
// understaffed or with certification gaps alerts immediately.
func (d *Detector) Observe(next models.UnitReadinessSnapshot) []models.Alert {
	d.mu.Lock()
	prev := d.prev[next.UnitID]
	d.prev[next.UnitID] = next
	d.mu.Unlock()

	var alerts []models.Alert

	if next.IsUnderstaffed && !prev.IsUnderstaffed {
		alerts = append(alerts, models.Alert{
			UnitID:    next.UnitID,
			Message:   fmt.Sprintf("%s is now understaffed (%d/%d)", next.UnitName, next.StaffPresent, next.StaffRequired),
			Severity:  models.SeverityError,
			Timestamp: next.Timestamp,
		})
	}
	if len(next.ExpiredCertifications) > len(prev.ExpiredCertifications) {
		alerts = append(alerts, models.Alert{
			UnitID:    next.UnitID,
			Message:   fmt.Sprintf("%s has expired certifications", next.UnitName),
			Severity:  models.SeverityWarning,
			Timestamp: next.Timestamp,
		})
	}
	if len(next.CertificationsMissing) > len(prev.CertificationsMissing) {
		alerts = append(alerts, models.Alert{
			UnitID:    next.UnitID,
			Message:   fmt.Sprintf("%s is missing required certifications", next.UnitName),
			Severity:  models.SeverityWarning,
			Timestamp: next.Timestamp,
		})
	}

	return alerts
}

// Latest returns the most recently observed snapshot for a unit
func (d *Detector) Latest(unitID string) (models.UnitReadinessSnapshot, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	snap, ok := d.prev[unitID]
	return snap, ok
}

// Forget drops the retained state for a unit that no longer exists
func (d *Detector) Forget(unitID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.prev, unitID)
}
