package sentiment

import (
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/sentidash/internal/models"
)

const vaderLabelThreshold = 0.20

var (
	analyzer = govader.NewSentimentIntensityAnalyzer()

	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // keep only the link text
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders Markdown and strips the resulting markup so
// that formatting characters do not leak into the token stream.
func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(RemoveLinks(input)), blackfriday.WithNoExtensions())
	plain := html.UnescapeString(tagPattern.ReplaceAllString(string(output), " "))
	return strings.Join(strings.Fields(plain), " ")
}

// ReferenceWithVADER scores text with VADER so callers can cross-check the
// keyword heuristic. Labels use the same vocabulary as the scorer.
func ReferenceWithVADER(text string) models.ReferenceScore {
	score := analyzer.PolarityScores(ConvertMarkdownToText(text)).Compound

	label := models.LabelNeutral
	if score >= vaderLabelThreshold {
		label = models.LabelPositive
	} else if score <= -vaderLabelThreshold {
		label = models.LabelNegative
	}

	return models.ReferenceScore{
		Source: "vader",
		Score:  round2(score),
		Label:  label,
	}
}
