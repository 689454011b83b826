package models

const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
	LabelNeutral  = "NEUTRAL"
)

const (
	ComplexityLow    = "Low"
	ComplexityMedium = "Medium"
	ComplexityHigh   = "High"
)

const (
	EmotionJoy      = "joy"
	EmotionAnger    = "anger"
	EmotionFear     = "fear"
	EmotionSadness  = "sadness"
	EmotionSurprise = "surprise"
)

// EmotionNames is the fixed emotion order. Dominant emotion ties resolve to
// the earliest name in this list.
var EmotionNames = [5]string{EmotionJoy, EmotionAnger, EmotionFear, EmotionSadness, EmotionSurprise}

// AnalysisResult is what the scorer produces for a single text.
type AnalysisResult struct {
	Text       string     `json:"text" dynamodbav:"text"`
	Sentiment  Sentiment  `json:"sentiment" dynamodbav:"sentiment"`
	Emotions   Emotions   `json:"emotions" dynamodbav:"emotions"`
	Statistics Statistics `json:"statistics" dynamodbav:"statistics"`
	Insights   []string   `json:"insights" dynamodbav:"insights"`
}

type Sentiment struct {
	Score      float64 `json:"score" dynamodbav:"score"`
	Label      string  `json:"label" dynamodbav:"label"`
	Confidence float64 `json:"confidence" dynamodbav:"confidence"`
}

type Emotions struct {
	Joy      float64 `json:"joy" dynamodbav:"joy"`
	Anger    float64 `json:"anger" dynamodbav:"anger"`
	Fear     float64 `json:"fear" dynamodbav:"fear"`
	Sadness  float64 `json:"sadness" dynamodbav:"sadness"`
	Surprise float64 `json:"surprise" dynamodbav:"surprise"`
}

// NewEmotions builds Emotions from values laid out in EmotionNames order.
func NewEmotions(values [5]float64) Emotions {
	return Emotions{
		Joy:      values[0],
		Anger:    values[1],
		Fear:     values[2],
		Sadness:  values[3],
		Surprise: values[4],
	}
}

// Values returns the intensities in EmotionNames order.
func (e Emotions) Values() [5]float64 {
	return [5]float64{e.Joy, e.Anger, e.Fear, e.Sadness, e.Surprise}
}

// Dominant returns the strongest emotion. Ties go to the earlier name.
func (e Emotions) Dominant() (string, float64) {
	values := e.Values()
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return EmotionNames[best], values[best]
}

type Statistics struct {
	WordCount    int     `json:"wordCount" dynamodbav:"wordCount"`
	CharCount    int     `json:"charCount" dynamodbav:"charCount"`
	ReadingTime  string  `json:"readingTime" dynamodbav:"readingTime"`
	Complexity   string  `json:"complexity" dynamodbav:"complexity"`
	Polarity     float64 `json:"polarity" dynamodbav:"polarity"`
	Subjectivity float64 `json:"subjectivity" dynamodbav:"subjectivity"`
}

// Analysis is an AnalysisResult stamped by the caller with when it ran and
// how long it took (milliseconds).
type Analysis struct {
	AnalysisResult
	ProcessingTime float64   `json:"processingTime" dynamodbav:"processingTime"`
	Timestamp      Timestamp `json:"timestamp" dynamodbav:"timestamp"`
}

// ReferenceScore is the VADER compound score used to cross-check the
// lexical result.
type ReferenceScore struct {
	Source string  `json:"source"`
	Score  float64 `json:"score"`
	Label  string  `json:"label"`
}

type Comparison struct {
	Analysis  Analysis       `json:"analysis"`
	Reference ReferenceScore `json:"reference"`
	Agrees    bool           `json:"agrees"`
}
