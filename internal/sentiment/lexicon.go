package sentiment

import (
	"regexp"
	"strings"
)

type lexicon map[string]struct{}

func newLexicon(words ...string) lexicon {
	l := make(lexicon, len(words))
	for _, w := range words {
		l[w] = struct{}{}
	}
	return l
}

func (l lexicon) contains(word string) bool {
	_, ok := l[word]
	return ok
}

var (
	positiveKeywords = newLexicon(
		"good", "great", "excellent", "amazing", "wonderful",
		"fantastic", "awesome", "love", "perfect", "outstanding",
		"brilliant", "superb", "magnificent", "exceptional", "marvelous",
	)

	negativeKeywords = newLexicon(
		"bad", "terrible", "awful", "horrible", "disgusting",
		"hate", "worst", "pathetic", "useless", "disappointing",
		"frustrating", "annoying", "ridiculous", "stupid", "worthless",
	)

	// indexed like models.EmotionNames; "amazing" sits in both joy and surprise
	emotionKeywords = [5]lexicon{
		newLexicon("love", "amazing", "fantastic", "excellent", "wonderful", "great", "awesome", "happy", "delighted", "pleased"),
		newLexicon("hate", "terrible", "awful", "worst", "angry", "frustrated", "annoyed", "furious", "outraged", "disgusted"),
		newLexicon("worried", "scared", "afraid", "anxious", "nervous", "concerned", "fearful", "frightened", "terrified", "panicked"),
		newLexicon("sad", "disappointed", "depressed", "upset", "miserable", "unhappy", "devastated", "heartbroken", "sorrowful", "gloomy"),
		newLexicon("wow", "amazing", "incredible", "unbelievable", "shocking", "unexpected", "astonishing", "remarkable", "stunning", "extraordinary"),
	}
)

var nonWordPattern = regexp.MustCompile(`\W+`)

// Tokenize lower-cases text and splits it on runs of non-word characters.
func Tokenize(text string) []string {
	parts := nonWordPattern.Split(strings.ToLower(text), -1)
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
