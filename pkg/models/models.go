package models

import "time"

// AvailabilityStatus describes whether a person can currently respond
type AvailabilityStatus string

const (
	Available  AvailabilityStatus = "AVAILABLE"
	Off        AvailabilityStatus = "OFF"
	InTraining AvailabilityStatus = "IN_TRAINING"
	Deployed   AvailabilityStatus = "DEPLOYED"
	OnCall     AvailabilityStatus = "ON_CALL"
)

// UnitType enumerates the kinds of emergency response units
type UnitType string

const (
	Engine  UnitType = "ENGINE"
	Ladder  UnitType = "LADDER"
	Rescue  UnitType = "RESCUE"
	Medic   UnitType = "MEDIC"
	SARTeam UnitType = "SAR_TEAM"
)

// AssignmentStatus describes the state of a unit assignment
type AssignmentStatus string

const (
	OnShift  AssignmentStatus = "ON_SHIFT"
	Pending  AssignmentStatus = "PENDING"
	Absent   AssignmentStatus = "ABSENT"
	EarlyOff AssignmentStatus = "EARLY_OFF"
)

// Personnel represents an emergency services staff member
type Personnel struct {
	PersonnelID        string               `json:"personnel_id"`
	Name               string               `json:"name"`
	Rank               string               `json:"rank,omitempty"`
	Role               string               `json:"role"`
	Certifications     []string             `json:"certifications"`
	CertExpirations    map[string]time.Time `json:"cert_expirations"`
	AvailabilityStatus AvailabilityStatus   `json:"availability_status"`
	LastCheckIn        *time.Time           `json:"last_check_in,omitempty"`
	StationID          string               `json:"station_id,omitempty"`
	CurrentUnitID      string               `json:"current_unit_id,omitempty"`
	Notes              string               `json:"notes,omitempty"`
}

// HoldsCert reports whether the person holds the named certification,
// regardless of expiry
func (p Personnel) HoldsCert(name string) bool {
	for _, c := range p.Certifications {
		if c == name {
			return true
		}
	}
	return false
}

// Unit represents an emergency response unit with staffing requirements
type Unit struct {
	UnitID                 string   `json:"unit_id"`
	UnitName               string   `json:"unit_name"`
	Type                   UnitType `json:"type"`
	MinimumStaff           int      `json:"minimum_staff"`
	RequiredCertifications []string `json:"required_certifications"`
	StationID              string   `json:"station_id,omitempty"`
}

// UnitAssignment links a person to a unit for a shift window
type UnitAssignment struct {
	AssignmentID     string           `json:"assignment_id"`
	UnitID           string           `json:"unit_id"`
	PersonnelID      string           `json:"personnel_id"`
	ShiftStart       time.Time        `json:"shift_start"`
	ShiftEnd         time.Time        `json:"shift_end"`
	AssignmentStatus AssignmentStatus `json:"assignment_status"`
}

// Active reports whether the assignment counts toward staffing at the
// reference time: ON_SHIFT with now inside [ShiftStart, ShiftEnd)
func (a UnitAssignment) Active(now time.Time) bool {
	if a.AssignmentStatus != OnShift {
		return false
	}
	return !now.Before(a.ShiftStart) && now.Before(a.ShiftEnd)
}

// Certification is a certification definition, e.g. "EMT-P"
type Certification struct {
	CertificationID     string    `json:"certification_id"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	Category            string    `json:"category,omitempty"`
	TypicalValidityDays int       `json:"typical_validity_days,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// AssignedPerson is the display subset of Personnel carried in snapshots
type AssignedPerson struct {
	PersonnelID    string   `json:"personnel_id"`
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	Certifications []string `json:"certifications"`
}

// UnitReadinessSnapshot is one immutable evaluation of a unit's readiness.
// A snapshot is superseded by the next evaluation, never mutated.
type UnitReadinessSnapshot struct {
	UnitID                string           `json:"unit_id"`
	UnitName              string           `json:"unit_name"`
	UnitType              string           `json:"unit_type"`
	ReadinessScore        int              `json:"readiness_score"`
	StaffRequired         int              `json:"staff_required"`
	StaffPresent          int              `json:"staff_present"`
	StaffAvailable        int              `json:"staff_available"`
	CertificationsMissing []string         `json:"certifications_missing"`
	ExpiredCertifications []string         `json:"expired_certifications"`
	IsUnderstaffed        bool             `json:"is_understaffed"`
	Issues                []string         `json:"issues"`
	AssignedPersonnel     []AssignedPerson `json:"assigned_personnel"`
	Timestamp             time.Time        `json:"timestamp"`
}

// Severity levels for readiness alerts
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
)

// Alert is a user-facing degradation notice for a unit
type Alert struct {
	UnitID    string    `json:"unit_id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

// Envelope is the wire format pushed to WebSocket subscribers
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Message types carried in Envelope.Type
const (
	MessageTypeReadiness = "unit_readiness"
	MessageTypeAlert     = "alert"
)
