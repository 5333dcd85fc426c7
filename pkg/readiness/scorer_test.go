package readiness

import "testing"

func TestScoreDecisionTable(t *testing.T) {
	cases := []struct {
		name      string
		current   int
		available int
		minimum   int
		certGaps  bool
		want      int
	}{
		{"fully staffed, all available, no gaps", 3, 3, 3, false, 100},
		{"fully staffed, all available, cert gaps", 3, 3, 3, true, 85},
		{"fully staffed, some unavailable", 3, 2, 3, false, 70},
		{"fully staffed, some unavailable, cert gaps", 3, 2, 3, true, 70},
		{"at 80 percent of minimum", 4, 4, 5, false, 50},
		{"below 80 percent of minimum", 2, 2, 3, false, 30},
		{"no staff at all", 0, 0, 3, false, 30},
		{"overstaffed scores like fully staffed", 6, 6, 3, false, 100},
	}

	for _, tc := range cases {
		got := Score(tc.current, tc.available, tc.minimum, tc.certGaps)
		if got != tc.want {
			t.Errorf("%s: Score(%d, %d, %d, %v) = %d, want %d",
				tc.name, tc.current, tc.available, tc.minimum, tc.certGaps, got, tc.want)
		}
	}
}

func TestScoreOnlyProducesKnownValues(t *testing.T) {
	valid := map[int]bool{30: true, 50: true, 70: true, 85: true, 100: true}

	for current := 0; current <= 6; current++ {
		for available := 0; available <= current; available++ {
			for minimum := 1; minimum <= 5; minimum++ {
				for _, gaps := range []bool{false, true} {
					got := Score(current, available, minimum, gaps)
					if !valid[got] {
						t.Fatalf("Score(%d, %d, %d, %v) = %d, not in {30, 50, 70, 85, 100}",
							current, available, minimum, gaps, got)
					}
				}
			}
		}
	}
}

func TestUnderstaffedMatchesScoreBranches(t *testing.T) {
	// Understaffed must be true exactly when the 50/30 rows apply
	for current := 0; current <= 6; current++ {
		for minimum := 1; minimum <= 5; minimum++ {
			score := Score(current, current, minimum, false)
			understaffed := Understaffed(current, minimum)

			if understaffed != (current < minimum) {
				t.Errorf("Understaffed(%d, %d) = %v, want %v", current, minimum, understaffed, current < minimum)
			}
			if understaffed && score != 50 && score != 30 {
				t.Errorf("understaffed unit scored %d, expected 50 or 30", score)
			}
			if !understaffed && (score == 50 || score == 30) {
				t.Errorf("staffed unit scored %d", score)
			}
		}
	}
}
