package sentiment

import (
	"testing"

	"github.com/spacesedan/sentidash/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestConvertMarkdownToText(t *testing.T) {
	got := ConvertMarkdownToText("**Great** [link](https://example.com) product\n\nvisit www.example.com &amp; enjoy")
	assert.Equal(t, "Great link product visit & enjoy", got)
}

func TestRemoveLinks(t *testing.T) {
	assert.Equal(t, "see docs ", RemoveLinks("see [docs](https://example.com/docs) https://example.com"))
}

func TestReferenceWithVADER(t *testing.T) {
	positive := ReferenceWithVADER("I love this product, it is wonderful")
	assert.Equal(t, "vader", positive.Source)
	assert.Equal(t, models.LabelPositive, positive.Label)
	assert.Greater(t, positive.Score, 0.0)

	negative := ReferenceWithVADER("I hate this, it is terrible and awful")
	assert.Equal(t, models.LabelNegative, negative.Label)
	assert.Less(t, negative.Score, 0.0)
}
