package dashboard

import (
	"context"
	"slices"

	"github.com/spacesedan/sentidash/internal/models"
)

var sampleTexts = []string{
	"I absolutely love this product! It exceeded all my expectations and the customer service was fantastic.",
	"This is the worst experience I've ever had. Complete waste of money and time.",
	"The product is okay, nothing special but does what it's supposed to do.",
	"Amazing quality and fast shipping! Will definitely buy again. Highly recommend!",
	"Terrible customer support. Been waiting for weeks with no response to my complaint.",
}

func (s *Service) Samples() []string {
	return slices.Clone(sampleTexts)
}

// AnalyzeSample analyzes one sample text picked with the service's random
// source.
func (s *Service) AnalyzeSample(ctx context.Context) (models.Analysis, error) {
	i := int(s.rand.Float64() * float64(len(sampleTexts)))
	i = min(max(i, 0), len(sampleTexts)-1)
	return s.Analyze(ctx, sampleTexts[i])
}
