package report

// Tier is the recommendation band for an overall rating.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierModerate  Tier = "moderate"
	TierPoor      Tier = "poor"
)

var tierMessages = map[Tier]string{
	TierExcellent: "Great job! Your washroom is receiving excellent ratings. Keep up the good work and maintain the high standards.",
	TierModerate:  "The washroom is receiving moderate ratings. Consider reviewing the feedback and addressing the most common issues to improve user satisfaction.",
	TierPoor:      "The washroom is receiving poor ratings. Immediate action is needed to address the significant issues raised by users. Prioritize cleanliness, supplies, and maintenance.",
}

// Classify maps a rating in [0,5] to exactly one tier. Both 2 and 4 are
// moderate.
func Classify(rating float64) Tier {
	switch {
	case rating > 4:
		return TierExcellent
	case rating >= 2:
		return TierModerate
	default:
		return TierPoor
	}
}

// Message is the recommendation text shown under the rating chart.
func (t Tier) Message() string {
	return tierMessages[t]
}
