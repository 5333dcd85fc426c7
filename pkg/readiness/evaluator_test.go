package readiness

import (
	"testing"
	"time"

	"github.com/arnavshah/readiness-api-go/pkg/models"
)

func TestEvaluateCertsMissing(t *testing.T) {
	now := time.Now()

	p1 := models.Personnel{PersonnelID: "p1", Name: "Alice", Certifications: []string{"EMT-B"}}
	p2 := models.Personnel{PersonnelID: "p2", Name: "Bob", Certifications: []string{"EMT-B"}}

	gaps := EvaluateCerts([]string{"EMT-P"}, []models.Personnel{p1, p2}, now)
	if len(gaps.Missing) != 1 || gaps.Missing[0] != "EMT-P" {
		t.Fatalf("expected missing [EMT-P], got %v", gaps.Missing)
	}

	// Adding a qualified holder clears the gap
	p3 := models.Personnel{PersonnelID: "p3", Name: "Carol", Certifications: []string{"EMT-P"}}
	gaps = EvaluateCerts([]string{"EMT-P"}, []models.Personnel{p1, p2, p3}, now)
	if len(gaps.Missing) != 0 {
		t.Errorf("expected no missing certs after adding holder, got %v", gaps.Missing)
	}
}

func TestEvaluateCertsExpiredHolderDoesNotCover(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)

	p := models.Personnel{
		PersonnelID:     "p1",
		Name:            "Alice",
		Certifications:  []string{"EMT-P"},
		CertExpirations: map[string]time.Time{"EMT-P": yesterday},
	}

	gaps := EvaluateCerts([]string{"EMT-P"}, []models.Personnel{p}, now)
	if len(gaps.Missing) != 1 {
		t.Errorf("an expired holder should not cover the requirement, missing=%v", gaps.Missing)
	}
	if len(gaps.Expired) != 1 || gaps.Expired[0] != "EMT-P" {
		t.Errorf("expected expired [EMT-P], got %v", gaps.Expired)
	}
}

func TestEvaluateCertsExpiredReportedOncePerName(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)

	p1 := models.Personnel{
		PersonnelID:     "p1",
		Name:            "Alice",
		Certifications:  []string{"ACLS"},
		CertExpirations: map[string]time.Time{"ACLS": yesterday},
	}
	p2 := models.Personnel{
		PersonnelID:     "p2",
		Name:            "Bob",
		Certifications:  []string{"ACLS"},
		CertExpirations: map[string]time.Time{"ACLS": yesterday},
	}

	gaps := EvaluateCerts(nil, []models.Personnel{p1, p2}, now)
	if len(gaps.Expired) != 1 || gaps.Expired[0] != "ACLS" {
		t.Errorf("expected expired [ACLS] exactly once, got %v", gaps.Expired)
	}
}

func TestEvaluateCertsNoExpiryMeansNeverExpires(t *testing.T) {
	now := time.Now()

	p := models.Personnel{PersonnelID: "p1", Name: "Alice", Certifications: []string{"EMT-P"}}

	gaps := EvaluateCerts([]string{"EMT-P"}, []models.Personnel{p}, now)
	if len(gaps.Missing) != 0 {
		t.Errorf("cert with no recorded expiry should cover the requirement, missing=%v", gaps.Missing)
	}
	if len(gaps.Expired) != 0 {
		t.Errorf("cert with no recorded expiry should never expire, expired=%v", gaps.Expired)
	}
}

func TestEvaluateCertsEmptyRequiredSet(t *testing.T) {
	gaps := EvaluateCerts(nil, nil, time.Now())
	if len(gaps.Missing) != 0 {
		t.Errorf("empty required set must report no missing certs, got %v", gaps.Missing)
	}
}

func TestEvaluateCertsExpiryNotBeforeRefTime(t *testing.T) {
	now := time.Now()

	// Expiry exactly at the reference time is not yet expired
	p := models.Personnel{
		PersonnelID:     "p1",
		Name:            "Alice",
		Certifications:  []string{"CPR"},
		CertExpirations: map[string]time.Time{"CPR": now},
	}

	gaps := EvaluateCerts([]string{"CPR"}, []models.Personnel{p}, now)
	if len(gaps.Expired) != 0 {
		t.Errorf("expiry equal to reference time should not be expired, got %v", gaps.Expired)
	}
	if len(gaps.Missing) != 0 {
		t.Errorf("holder at exact expiry instant still covers, missing=%v", gaps.Missing)
	}
}
