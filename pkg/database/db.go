package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arnavshah/readiness-api-go/pkg/models"
)

// Personnel represents the personnel table
type Personnel struct {
	PersonnelID        string               `gorm:"primaryKey" json:"personnel_id"`
	Name               string               `gorm:"not null" json:"name"`
	Rank               string               `json:"rank"`
	Role               string               `gorm:"not null" json:"role"`
	Certifications     []string             `gorm:"serializer:json" json:"certifications"`
	CertExpirations    map[string]time.Time `gorm:"serializer:json" json:"cert_expirations"`
	AvailabilityStatus string               `gorm:"default:AVAILABLE" json:"availability_status"`
	LastCheckIn        *time.Time           `json:"last_check_in"`
	StationID          string               `json:"station_id"`
	CurrentUnitID      string               `json:"current_unit_id"`
	Notes              string               `json:"notes"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// Unit represents the units table
type Unit struct {
	UnitID                 string    `gorm:"primaryKey" json:"unit_id"`
	UnitName               string    `gorm:"not null" json:"unit_name"`
	Type                   string    `gorm:"not null" json:"type"`
	MinimumStaff           int       `gorm:"not null" json:"minimum_staff"`
	RequiredCertifications []string  `gorm:"serializer:json" json:"required_certifications"`
	StationID              string    `json:"station_id"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// UnitAssignment represents the unit_assignments table
type UnitAssignment struct {
	AssignmentID     string    `gorm:"primaryKey" json:"assignment_id"`
	UnitID           string    `gorm:"index;not null" json:"unit_id"`
	PersonnelID      string    `gorm:"index;not null" json:"personnel_id"`
	ShiftStart       time.Time `gorm:"not null" json:"shift_start"`
	ShiftEnd         time.Time `gorm:"not null" json:"shift_end"`
	AssignmentStatus string    `gorm:"default:ON_SHIFT" json:"assignment_status"`
	CreatedAt        time.Time `json:"created_at"`
}

// Certification represents the certifications table
type Certification struct {
	CertificationID     string    `gorm:"primaryKey" json:"certification_id"`
	Name                string    `gorm:"not null" json:"name"`
	Description         string    `json:"description"`
	Category            string    `json:"category"`
	TypicalValidityDays int       `json:"typical_validity_days"`
	CreatedAt           time.Time `json:"created_at"`
}

// ReadinessHistory represents the readiness_history table, one row per
// unit per evaluation cycle
type ReadinessHistory struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UnitID         string    `gorm:"index:idx_unit_time" json:"unit_id"`
	ReadinessScore int       `json:"readiness_score"`
	StaffRequired  int       `json:"staff_required"`
	StaffPresent   int       `json:"staff_present"`
	StaffAvailable int       `json:"staff_available"`
	MissingCount   int       `json:"missing_count"`
	ExpiredCount   int       `json:"expired_count"`
	IsUnderstaffed bool      `json:"is_understaffed"`
	ComputedAt     time.Time `gorm:"index:idx_unit_time" json:"computed_at"`
}

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"key"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	KeyID        uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date         string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount int    `gorm:"default:0" json:"request_count"`
	UnitsQueried int    `gorm:"default:0" json:"units_queried"`
	Writes       int    `gorm:"default:0" json:"writes"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// InitDB initializes the database connection and migrates the schema
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "readiness.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto Migration
	db.AutoMigrate(
		&Personnel{}, &Unit{}, &UnitAssignment{}, &Certification{},
		&ReadinessHistory{}, &APIKey{}, &APIUsage{}, &MasterUser{},
	)

	return db
}

// ToModel converts a personnel row to the domain type
func (p Personnel) ToModel() models.Personnel {
	return models.Personnel{
		PersonnelID:        p.PersonnelID,
		Name:               p.Name,
		Rank:               p.Rank,
		Role:               p.Role,
		Certifications:     p.Certifications,
		CertExpirations:    p.CertExpirations,
		AvailabilityStatus: models.AvailabilityStatus(p.AvailabilityStatus),
		LastCheckIn:        p.LastCheckIn,
		StationID:          p.StationID,
		CurrentUnitID:      p.CurrentUnitID,
		Notes:              p.Notes,
	}
}

// ToModel converts a unit row to the domain type
func (u Unit) ToModel() models.Unit {
	return models.Unit{
		UnitID:                 u.UnitID,
		UnitName:               u.UnitName,
		Type:                   models.UnitType(u.Type),
		MinimumStaff:           u.MinimumStaff,
		RequiredCertifications: u.RequiredCertifications,
		StationID:              u.StationID,
	}
}

// ToModel converts an assignment row to the domain type
func (a UnitAssignment) ToModel() models.UnitAssignment {
	return models.UnitAssignment{
		AssignmentID:     a.AssignmentID,
		UnitID:           a.UnitID,
		PersonnelID:      a.PersonnelID,
		ShiftStart:       a.ShiftStart,
		ShiftEnd:         a.ShiftEnd,
		AssignmentStatus: models.AssignmentStatus(a.AssignmentStatus),
	}
}

// ToModel converts a certification row to the domain type
func (c Certification) ToModel() models.Certification {
	return models.Certification{
		CertificationID:     c.CertificationID,
		Name:                c.Name,
		Description:         c.Description,
		Category:            c.Category,
		TypicalValidityDays: c.TypicalValidityDays,
		CreatedAt:           c.CreatedAt,
	}
}
