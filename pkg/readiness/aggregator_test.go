package readiness

import (
	"reflect"
	"testing"
	"time"

	"github.com/arnavshah/readiness-api-go/pkg/models"
)

func testUnit() models.Unit {
	return models.Unit{
		UnitID:       "u1",
		UnitName:     "Engine 1",
		Type:         models.Engine,
		MinimumStaff: 3,
	}
}

func activeAssignment(unitID, personnelID string, now time.Time) models.UnitAssignment {
	return models.UnitAssignment{
		AssignmentID:     "a-" + personnelID,
		UnitID:           unitID,
		PersonnelID:      personnelID,
		ShiftStart:       now.Add(-time.Hour),
		ShiftEnd:         now.Add(time.Hour),
		AssignmentStatus: models.OnShift,
	}
}

func availablePerson(id, name string) models.Personnel {
	return models.Personnel{
		PersonnelID:        id,
		Name:               name,
		Role:               "Firefighter",
		AvailabilityStatus: models.Available,
	}
}

func TestAggregateFullyStaffed(t *testing.T) {
	now := time.Now()
	unit := testUnit()

	roster := map[string]models.Personnel{
		"p1": availablePerson("p1", "Alice"),
		"p2": availablePerson("p2", "Bob"),
		"p3": availablePerson("p3", "Carol"),
	}
	assignments := []models.UnitAssignment{
		activeAssignment("u1", "p1", now),
		activeAssignment("u1", "p2", now),
		activeAssignment("u1", "p3", now),
	}

	snap := Aggregate(unit, assignments, roster, now)

	if snap.ReadinessScore != 100 {
		t.Errorf("expected score 100, got %d", snap.ReadinessScore)
	}
	if snap.IsUnderstaffed {
		t.Error("fully staffed unit flagged understaffed")
	}
	if snap.StaffPresent != 3 || snap.StaffAvailable != 3 {
		t.Errorf("expected 3 present / 3 available, got %d/%d", snap.StaffPresent, snap.StaffAvailable)
	}
	if len(snap.Issues) != 0 {
		t.Errorf("expected no issues, got %v", snap.Issues)
	}
}

func TestAggregateUnderstaffed(t *testing.T) {
	now := time.Now()
	unit := testUnit()

	roster := map[string]models.Personnel{
		"p1": availablePerson("p1", "Alice"),
		"p2": availablePerson("p2", "Bob"),
	}
	assignments := []models.UnitAssignment{
		activeAssignment("u1", "p1", now),
		activeAssignment("u1", "p2", now),
	}

	snap := Aggregate(unit, assignments, roster, now)

	if snap.ReadinessScore != 30 {
		t.Errorf("2/3 staffed is below 80%% of minimum, expected score 30, got %d", snap.ReadinessScore)
	}
	if !snap.IsUnderstaffed {
		t.Error("2/3 staffed unit not flagged understaffed")
	}
	if len(snap.Issues) == 0 || snap.Issues[0] != "Understaffed: 2/3" {
		t.Errorf("expected understaffed issue string, got %v", snap.Issues)
	}
}

func TestAggregateUnderstaffedInvariant(t *testing.T) {
	now := time.Now()
	unit := testUnit()

	for staffed := 0; staffed <= 5; staffed++ {
		roster := make(map[string]models.Personnel)
		var assignments []models.UnitAssignment
		for i := 0; i < staffed; i++ {
			id := string(rune('a' + i))
			roster[id] = availablePerson(id, "P"+id)
			assignments = append(assignments, activeAssignment("u1", id, now))
		}

		snap := Aggregate(unit, assignments, roster, now)
		if snap.IsUnderstaffed != (snap.StaffPresent < snap.StaffRequired) {
			t.Errorf("staffed=%d: IsUnderstaffed=%v does not match %d < %d",
				staffed, snap.IsUnderstaffed, snap.StaffPresent, snap.StaffRequired)
		}
	}
}

func TestAggregateIgnoresInactiveAssignments(t *testing.T) {
	now := time.Now()
	unit := testUnit()

	roster := map[string]models.Personnel{
		"p1": availablePerson("p1", "Alice"),
		"p2": availablePerson("p2", "Bob"),
		"p3": availablePerson("p3", "Carol"),
		"p4": availablePerson("p4", "Dave"),
	}

	ended := activeAssignment("u1", "p2", now)
	ended.ShiftStart = now.Add(-4 * time.Hour)
	ended.ShiftEnd = now.Add(-2 * time.Hour)

	future := activeAssignment("u1", "p3", now)
	future.ShiftStart = now.Add(2 * time.Hour)
	future.ShiftEnd = now.Add(4 * time.Hour)

	offShift := activeAssignment("u1", "p4", now)
	offShift.AssignmentStatus = models.Absent

	assignments := []models.UnitAssignment{activeAssignment("u1", "p1", now), ended, future, offShift}

	snap := Aggregate(unit, assignments, roster, now)
	if snap.StaffPresent != 1 {
		t.Errorf("only the currently active assignment should count, got %d", snap.StaffPresent)
	}
}

func TestAggregateCountsPersonnelOnce(t *testing.T) {
	now := time.Now()
	unit := testUnit()

	roster := map[string]models.Personnel{"p1": availablePerson("p1", "Alice")}

	a1 := activeAssignment("u1", "p1", now)
	a2 := activeAssignment("u1", "p1", now)
	a2.AssignmentID = "a-p1-second"

	snap := Aggregate(unit, []models.UnitAssignment{a1, a2}, roster, now)
	if snap.StaffPresent != 1 {
		t.Errorf("duplicate assignments for one person must count once, got %d", snap.StaffPresent)
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	now := time.Now()
	unit := testUnit()
	unit.RequiredCertifications = []string{"EMT-P", "ACLS"}

	p := availablePerson("p1", "Alice")
	p.Certifications = []string{"EMT-P"}
	p.CertExpirations = map[string]time.Time{"EMT-P": now.Add(-time.Hour)}
	roster := map[string]models.Personnel{"p1": p}
	assignments := []models.UnitAssignment{activeAssignment("u1", "p1", now)}

	first := Aggregate(unit, assignments, roster, now)
	second := Aggregate(unit, assignments, roster, now)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different snapshots:\n%+v\n%+v", first, second)
	}
}

func TestAggregateMissingCertsMonotonic(t *testing.T) {
	now := time.Now()
	unit := testUnit()
	unit.RequiredCertifications = []string{"EMT-P", "HAZMAT"}

	roster := map[string]models.Personnel{
		"p1": availablePerson("p1", "Alice"),
	}
	assignments := []models.UnitAssignment{activeAssignment("u1", "p1", now)}

	before := Aggregate(unit, assignments, roster, now)

	qualified := availablePerson("p2", "Bob")
	qualified.Certifications = []string{"EMT-P"}
	roster["p2"] = qualified
	assignments = append(assignments, activeAssignment("u1", "p2", now))

	after := Aggregate(unit, assignments, roster, now)

	missingBefore := make(map[string]bool)
	for _, c := range before.CertificationsMissing {
		missingBefore[c] = true
	}
	for _, c := range after.CertificationsMissing {
		if !missingBefore[c] {
			t.Errorf("adding a certified person introduced new missing cert %q", c)
		}
	}
	if len(after.CertificationsMissing) >= len(before.CertificationsMissing) {
		t.Errorf("expected missing set to shrink, before=%v after=%v",
			before.CertificationsMissing, after.CertificationsMissing)
	}
}
