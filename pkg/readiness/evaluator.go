package readiness

import (
	"sort"
	"time"

	"github.com/arnavshah/readiness-api-go/pkg/models"
)

// CertGaps holds the result of evaluating a unit's certification coverage
type CertGaps struct {
	Missing []string // required certs no assigned person currently holds
	Expired []string // cert names held past expiry by at least one person
}

// Any reports whether there is any certification gap at the unit level
func (g CertGaps) Any() bool {
	return len(g.Missing) > 0 || len(g.Expired) > 0
}

// EvaluateCerts compares a unit's required certifications against the
// certifications held by the assigned personnel as of the reference time.
//
// A required certification counts as covered only if some assigned person
// holds it unexpired. A certification with no recorded expiration is
// treated as valid indefinitely. Expired certifications are reported once
// per name no matter how many holders are past expiry.
func EvaluateCerts(required []string, personnel []models.Personnel, now time.Time) CertGaps {
	var gaps CertGaps

	for _, req := range required {
		covered := false
		for _, p := range personnel {
			if holdsCurrent(p, req, now) {
				covered = true
				break
			}
		}
		if !covered {
			gaps.Missing = append(gaps.Missing, req)
		}
	}

	seen := make(map[string]bool)
	for _, p := range personnel {
		for cert, expiry := range p.CertExpirations {
			if !p.HoldsCert(cert) {
				continue
			}
			if expiry.Before(now) && !seen[cert] {
				seen[cert] = true
				gaps.Expired = append(gaps.Expired, cert)
			}
		}
	}
	sort.Strings(gaps.Expired)

	return gaps
}

// holdsCurrent reports whether the person holds the certification and it
// has not expired as of the reference time
func holdsCurrent(p models.Personnel, cert string, now time.Time) bool {
	if !p.HoldsCert(cert) {
		return false
	}
	expiry, tracked := p.CertExpirations[cert]
	if !tracked {
		// No expiry on record means the cert never lapses
		return true
	}
	return !expiry.Before(now)
}
