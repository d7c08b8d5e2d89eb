package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTier_Cutoffs(t *testing.T) {
	tests := []struct {
		stars int
		want  CredibilityTier
	}{
		{0, TierBeginner},
		{50, TierBeginner},
		{51, TierIntermediate},
		{100, TierIntermediate},
		{101, TierAdvanced},
		{200, TierAdvanced},
		{201, TierExpert},
		{5000, TierExpert},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Tier(tt.stars), "stars=%d", tt.stars)
	}
}
