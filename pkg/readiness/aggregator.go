package readiness

import (
	"fmt"
	"strings"
	"time"

	"github.com/arnavshah/readiness-api-go/pkg/models"
)

// Aggregate computes a unit's readiness snapshot from its assignments and
// the personnel roster at the given reference time. It is a pure function:
// identical inputs and reference time produce identical snapshots.
//
// Only assignments that are ON_SHIFT with the reference time inside their
// shift window count. Personnel are counted once even if they appear on
// more than one active assignment for the unit.
func Aggregate(unit models.Unit, assignments []models.UnitAssignment, roster map[string]models.Personnel, now time.Time) models.UnitReadinessSnapshot {
	var assigned []models.Personnel
	seen := make(map[string]bool)
	for _, a := range assignments {
		if a.UnitID != unit.UnitID || !a.Active(now) {
			continue
		}
		p, ok := roster[a.PersonnelID]
		if !ok || seen[a.PersonnelID] {
			continue
		}
		seen[a.PersonnelID] = true
		assigned = append(assigned, p)
	}

	present := len(assigned)
	available := 0
	for _, p := range assigned {
		if p.AvailabilityStatus == models.Available {
			available++
		}
	}

	gaps := EvaluateCerts(unit.RequiredCertifications, assigned, now)
	score := Score(present, available, unit.MinimumStaff, gaps.Any())
	understaffed := Understaffed(present, unit.MinimumStaff)

	var issues []string
	if understaffed {
		issues = append(issues, fmt.Sprintf("Understaffed: %d/%d", present, unit.MinimumStaff))
	}
	if len(gaps.Missing) > 0 {
		issues = append(issues, "Missing certifications: "+strings.Join(gaps.Missing, ", "))
	}
	if len(gaps.Expired) > 0 {
		issues = append(issues, "Expired certifications: "+strings.Join(gaps.Expired, ", "))
	}

	display := make([]models.AssignedPerson, 0, len(assigned))
	for _, p := range assigned {
		display = append(display, models.AssignedPerson{
			PersonnelID:    p.PersonnelID,
			Name:           p.Name,
			Role:           p.Role,
			Certifications: p.Certifications,
		})
	}

	return models.UnitReadinessSnapshot{
		UnitID:                unit.UnitID,
		UnitName:              unit.UnitName,
		UnitType:              string(unit.Type),
		ReadinessScore:        score,
		StaffRequired:         unit.MinimumStaff,
		StaffPresent:          present,
		StaffAvailable:        available,
		CertificationsMissing: gaps.Missing,
		ExpiredCertifications: gaps.Expired,
		IsUnderstaffed:        understaffed,
		Issues:                issues,
		AssignedPersonnel:     display,
		Timestamp:             now,
	}
}
