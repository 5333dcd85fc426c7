package readiness

import (
	"testing"
	"time"

	"github.com/arnavshah/readiness-api-go/pkg/models"
)

func TestExpiringWithin(t *testing.T) {
	now := time.Now()
	roster := []models.Personnel{
		{
			PersonnelID:    "p1",
			Name:           "Alice",
			Certifications: []string{"ACLS", "EMT-P", "HAZMAT"},
			CertExpirations: map[string]time.Time{
				"ACLS":   now.Add(-24 * time.Hour),    // already expired
				"EMT-P":  now.AddDate(0, 0, 10),       // expiring soon
				"HAZMAT": now.AddDate(1, 0, 0),        // far out
			},
		},
	}

	got := ExpiringWithin(roster, 30, now)
	if len(got) != 2 {
		t.Fatalf("expected 2 certs within 30 days, got %d: %v", len(got), got)
	}
	// Sorted by expiration date: expired ACLS first
	if got[0].Certification != "ACLS" || !got[0].IsExpired {
		t.Errorf("expected expired ACLS first, got %+v", got[0])
	}
	if got[1].Certification != "EMT-P" || got[1].IsExpired {
		t.Errorf("expected unexpired EMT-P second, got %+v", got[1])
	}
	if got[0].DaysUntilExpiry >= 0 {
		t.Errorf("expired cert should report negative days, got %d", got[0].DaysUntilExpiry)
	}
}

func TestExpiredOnlyReturnsPastExpiry(t *testing.T) {
	now := time.Now()
	roster := []models.Personnel{
		{
			PersonnelID:    "p1",
			Name:           "Alice",
			Certifications: []string{"ACLS", "CPR"},
			CertExpirations: map[string]time.Time{
				"ACLS": now.Add(-time.Hour),
				"CPR":  now.Add(time.Hour),
			},
		},
	}

	got := Expired(roster, now)
	if len(got) != 1 || got[0].Certification != "ACLS" {
		t.Fatalf("expected only ACLS expired, got %v", got)
	}
}
