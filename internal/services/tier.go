package services

// CredibilityTier is a coarse display label derived from reputation.
type CredibilityTier string

const (
	TierBeginner     CredibilityTier = "Beginner"
	TierIntermediate CredibilityTier = "Intermediate"
	TierAdvanced     CredibilityTier = "Advanced"
	TierExpert       CredibilityTier = "Expert"
)

// Tier maps a reputation total to its credibility tier. Total over all
// integers; the bands do not overlap.
func Tier(stars int) CredibilityTier {
	switch {
	case stars <= 50:
		return TierBeginner
	case stars <= 100:
		return TierIntermediate
	case stars <= 200:
		return TierAdvanced
	default:
		return TierExpert
	}
}
