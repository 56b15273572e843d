package matching

// ScoreExperience rates candidate experience years against the job's
// [min, max] requirement. (0,0) means no requirement. Under-qualification
// loses 20 points per missing year; over-qualification loses 5 points per
// excess year and never drops below 70.
func ScoreExperience(candidateYears float64, min, max int) float64 {
	if min == 0 && max == 0 {
		return 100
	}

	minF, maxF := float64(min), float64(max)

	switch {
	case candidateYears >= minF && candidateYears <= maxF:
		return 100
	case candidateYears < minF:
		score := 100 - 20*(minF-candidateYears)
		if score < 0 {
			return 0
		}
		return score
	default:
		score := 100 - 5*(candidateYears-maxF)
		if score < 70 {
			return 70
		}
		return score
	}
}
