package readiness

import (
	"sort"
	"time"

	"github.com/arnavshah/readiness-api-go/pkg/models"
)

// ExpiringCert describes a certification approaching or past its expiry
type ExpiringCert struct {
	PersonnelID     string    `json:"personnel_id"`
	Name            string    `json:"name"`
	Certification   string    `json:"certification"`
	ExpirationDate  time.Time `json:"expiration_date"`
	DaysUntilExpiry int       `json:"days_until_expiry"`
	IsExpired       bool      `json:"is_expired"`
}

// ExpiringWithin scans the roster for certifications that expire within
// the given number of days from the reference time, including ones
// already expired
func ExpiringWithin(roster []models.Personnel, daysAhead int, now time.Time) []ExpiringCert {
	cutoff := now.AddDate(0, 0, daysAhead)
	var out []ExpiringCert
	for _, p := range roster {
		for cert, expiry := range p.CertExpirations {
			if expiry.After(cutoff) {
				continue
			}
			days := int(expiry.Sub(now).Hours() / 24)
			out = append(out, ExpiringCert{
				PersonnelID:     p.PersonnelID,
				Name:            p.Name,
				Certification:   cert,
				ExpirationDate:  expiry,
				DaysUntilExpiry: days,
				IsExpired:       expiry.Before(now),
			})
		}
	}
	sortExpiring(out)
	return out
}

// Expired returns only certifications already past expiry at the
// reference time
func Expired(roster []models.Personnel, now time.Time) []ExpiringCert {
	var out []ExpiringCert
	for _, e := range ExpiringWithin(roster, 0, now) {
		if e.IsExpired {
			out = append(out, e)
		}
	}
	return out
}

func sortExpiring(certs []ExpiringCert) {
	sort.Slice(certs, func(i, j int) bool {
		if !certs[i].ExpirationDate.Equal(certs[j].ExpirationDate) {
			return certs[i].ExpirationDate.Before(certs[j].ExpirationDate)
		}
		if certs[i].PersonnelID != certs[j].PersonnelID {
			return certs[i].PersonnelID < certs[j].PersonnelID
		}
		return certs[i].Certification < certs[j].Certification
	})
}
