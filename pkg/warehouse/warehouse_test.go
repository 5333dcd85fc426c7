package warehouse

import (
	"testing"
	"time"
)

func validFacts() Facts {
	return Facts{
		UnitID:         "u1",
		MinimumStaff:   3,
		CurrentStaff:   3,
		AvailableStaff: 2,
		ComputedAt:     time.Now(),
	}
}

func TestValidateFactsAcceptsWellFormed(t *testing.T) {
	if err := ValidateFacts(validFacts()); err != nil {
		t.Errorf("well-formed facts rejected: %v", err)
	}
}

func TestValidateFactsRejectsMalformed(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Facts)
	}{
		{"missing unit id", func(f *Facts) { f.UnitID = "" }},
		{"zero minimum staff", func(f *Facts) { f.MinimumStaff = 0 }},
		{"negative current staff", func(f *Facts) { f.CurrentStaff = -1 }},
		{"negative available staff", func(f *Facts) { f.AvailableStaff = -1 }},
		{"available exceeds current", func(f *Facts) { f.AvailableStaff = f.CurrentStaff + 1 }},
		{"missing timestamp", func(f *Facts) { f.ComputedAt = time.Time{} }},
	}

	for _, tc := range cases {
		f := validFacts()
		tc.mutate(&f)
		if err := ValidateFacts(f); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
