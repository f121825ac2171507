package leads

import "unicode/utf8"

// Score thresholds. Longer messages and populated optional fields signal
// stronger purchase intent.
const (
	scoreBase          = 10
	scoreMax           = 100
	longMessageLen     = 120
	detailedMessageLen = 300
)

// Score rates a validated submission in [10, 100]. The heuristic is purely
// additive: each populated optional field contributes a fixed bonus, and
// message length contributes up to two cumulative bonuses. Pure function;
// the result is computed once at intake and never recomputed.
func Score(f Fields) int {
	score := scoreBase
	if f.Phone != nil {
		score += 5
	}
	if f.Company != nil {
		score += 5
	}
	if f.Budget != nil {
		score += 10
	}
	if f.ServiceInterest != nil {
		score += 5
	}
	messageLen := utf8.RuneCountInString(f.Message)
	if messageLen > longMessageLen {
		score += 10
	}
	if messageLen > detailedMessageLen {
		score += 10
	}
	if score > scoreMax {
		score = scoreMax
	}
	return score
}
