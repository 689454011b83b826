package sentiment

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf16"

	"github.com/spacesedan/sentidash/internal/models"
)

var ErrEmptyInput = errors.New("[Scorer] input has no words to analyze")

const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1

	emotionHitWeight   = 0.2
	emotionScale       = 0.8
	emotionNoise       = 0.2
	emotionNoiseNoHits = 0.3

	confidenceFloor   = 0.4
	confidenceCeiling = 0.9
	confidenceNoise   = 0.2

	subjectivityCeiling = 0.9
	subjectivityNoise   = 0.3

	wordsPerMinute = 200
)

type Scorer struct {
	rand RandomSource
}

type Option func(*Scorer)

func WithRandomSource(src RandomSource) Option {
	return func(s *Scorer) {
		if src != nil {
			s.rand = src
		}
	}
}

func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{rand: DefaultSource}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score runs the keyword heuristic over text. Text without any word tokens
// returns ErrEmptyInput.
func (s *Scorer) Score(text string) (models.AnalysisResult, error) {
	tokens := Tokenize(text)
	totalWords := len(tokens)
	if totalWords == 0 {
		return models.AnalysisResult{}, ErrEmptyInput
	}

	var positive, negative int
	for _, token := range tokens {
		if positiveKeywords.contains(token) {
			positive++
		}
		if negativeKeywords.contains(token) {
			negative++
		}
	}

	emotions := s.scoreEmotions(tokens)

	score := clamp(float64(positive-negative) / math.Max(float64(totalWords)*0.1, 1))
	raw := adjustForStyle(text, score, totalWords)
	score = round2(raw)
	label := LabelFor(score)

	density := float64(positive+negative) / float64(totalWords)

	lengthBonus := 0.1
	if totalWords > 10 {
		lengthBonus = 0.3
	}
	confidence := math.Min(confidenceCeiling, density*2+lengthBonus)
	confidence = math.Max(confidenceFloor, confidence+s.rand.Float64()*confidenceNoise)
	confidence = math.Min(confidence, confidenceCeiling)

	subjectivity := math.Min(subjectivityCeiling,
		density+emotions.Joy+emotions.Anger+s.rand.Float64()*subjectivityNoise)

	return models.AnalysisResult{
		Text: text,
		Sentiment: models.Sentiment{
			Score:      score,
			Label:      label,
			Confidence: round2(confidence),
		},
		Emotions: emotions,
		Statistics: models.Statistics{
			WordCount:    totalWords,
			CharCount:    charCount(text),
			ReadingTime:  readingTime(totalWords),
			Complexity:   Complexity(totalWords),
			Polarity:     round2(math.Abs(score)),
			Subjectivity: round2(subjectivity),
		},
		Insights: generateInsights(raw, emotions, text, totalWords),
	}, nil
}

func (s *Scorer) scoreEmotions(tokens []string) models.Emotions {
	var raw [5]float64
	for i, words := range emotionKeywords {
		hits := 0
		for _, token := range tokens {
			if words.contains(token) {
				hits++
			}
		}
		raw[i] = float64(hits) * emotionHitWeight
	}

	maxEmotion := 0.0
	for _, v := range raw {
		maxEmotion = math.Max(maxEmotion, v)
	}

	var values [5]float64
	for i, v := range raw {
		if maxEmotion > 0 {
			values[i] = math.Min(v/maxEmotion*emotionScale+s.rand.Float64()*emotionNoise, 1)
		} else {
			values[i] = s.rand.Float64() * emotionNoiseNoHits
		}
	}
	return models.NewEmotions(values)
}

// adjustForStyle nudges the score for exclamation marks and shouting. Both
// rules push harder toward negative when the score is not already positive.
func adjustForStyle(text string, score float64, totalWords int) float64 {
	if strings.Contains(text, "!") {
		if score > 0 {
			score += 0.2
		} else {
			score -= 0.1
		}
	}

	upper := 0
	for _, r := range text {
		if r >= 'A' && r <= 'Z' {
			upper++
		}
	}
	if upper > totalWords*2 {
		if score > 0 {
			score += 0.1
		} else {
			score -= 0.2
		}
	}

	return clamp(score)
}

// LabelFor maps a score onto POSITIVE, NEGATIVE or NEUTRAL.
func LabelFor(score float64) string {
	switch {
	case score > positiveThreshold:
		return models.LabelPositive
	case score < negativeThreshold:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}

// Complexity buckets a text by word count.
func Complexity(totalWords int) string {
	switch {
	case totalWords > 50:
		return models.ComplexityHigh
	case totalWords > 20:
		return models.ComplexityMedium
	default:
		return models.ComplexityLow
	}
}

// charCount counts UTF-16 code units, matching the browser dashboard's
// string length.
func charCount(text string) int {
	n := 0
	for _, r := range text {
		n += utf16.RuneLen(r)
	}
	return n
}

func readingTime(totalWords int) string {
	seconds := int(math.Ceil(float64(totalWords) / wordsPerMinute * 60))
	return fmt.Sprintf("%ds", max(1, seconds))
}

func generateInsights(score float64, emotions models.Emotions, text string, wordCount int) []string {
	var insights []string

	if math.Abs(score) > 0.7 {
		direction := "negative"
		if score > 0 {
			direction = "positive"
		}
		insights = append(insights, fmt.Sprintf("Strong %s sentiment detected", direction))
	}

	if name, value := emotions.Dominant(); value > 0.5 {
		insights = append(insights, "Primary emotion: "+name)
	}

	if wordCount > 100 {
		insights = append(insights, "Comprehensive text analysis - high confidence")
	} else if wordCount < 10 {
		insights = append(insights, "Short text - limited context for analysis")
	}

	if strings.Contains(text, "!") {
		insights = append(insights, "Exclamatory tone detected")
	}
	if strings.Contains(text, "?") {
		insights = append(insights, "Questioning or uncertainty present")
	}

	if len(insights) == 0 {
		return []string{"Standard sentiment analysis completed"}
	}
	return insights
}

func clamp(score float64) float64 {
	return math.Max(-1, math.Min(1, score))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
