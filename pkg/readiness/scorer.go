package readiness

// Score computes the 0-100 readiness score for a unit from its staffing
// counts and whether any certification gap exists. The decision table is
// evaluated top to bottom and the first matching row wins:
//
//	current >= minimum, available >= minimum, no cert gaps  -> 100
//	current >= minimum, available >= minimum                -> 85
//	current >= minimum                                      -> 70
//	current >= 0.8 * minimum                                -> 50
//	otherwise                                               -> 30
func Score(current, available, minimum int, certGaps bool) int {
	switch {
	case current >= minimum && available >= minimum && !certGaps:
		return 100
	case current >= minimum && available >= minimum:
		return 85
	case current >= minimum:
		return 70
	case float64(current) >= 0.8*float64(minimum):
		return 50
	default:
		return 30
	}
}

// Understaffed reports whether current staffing is below the unit minimum.
// This is independent of the score: it is true exactly when the 50/30
// rows of the decision table apply.
func Understaffed(current, minimum int) bool {
	return current < minimum
}
