package matcher

import "github.com/csmith/spotilove/model"

// Find returns the index and score of the best match for target in
// candidates, or -1 and NoMatch if nothing matches. Earlier candidates win ties.
func Find(candidates []model.LovedTrack, target model.LovedTrack) (int, Score) {
	bestIndex := -1
	bestScore := NoMatch

	for i := range candidates {
		score := Match(candidates[i], target)
		if score > bestScore {
			bestScore = score
			bestIndex = i
		}
	}

	return bestIndex, bestScore
}
