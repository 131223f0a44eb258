package sentiment

import "fmt"

// Sentiment is one of the three labels the service reports
type Sentiment string

const (
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
	Positive Sentiment = "positive"
)

// Sentiments lists every label in enumeration order.
// Normalize resolves score ties to the earliest entry.
var Sentiments = []Sentiment{Negative, Neutral, Positive}

// ClassID identifies one of the model's raw output classes
type ClassID int

const (
	Class0 ClassID = iota
	Class1
	Class2
)

// NumClasses is the number of classes the model must score per request
const NumClasses = 3

func (c ClassID) String() string {
	return fmt.Sprintf("CLASS_%d", int(c))
}

// Sentiment returns the fixed label of the class.
func (c ClassID) Sentiment() (Sentiment, error) {
	switch c {
	case Class0:
		return Negative, nil
	case Class1:
		return Neutral, nil
	case Class2:
		return Positive, nil
	default:
		return "", fmt.Errorf("%w: unknown class %s", ErrExternalModel, c)
	}
}

// RawScore is a single class score as produced by the model
type RawScore struct {
	Class ClassID
	Score float64
}

// ClassificationRequest carries the text of one call
type ClassificationRequest struct {
	Text string `json:"text"`
}

// Result is the normalized outcome returned to callers
type Result struct {
	Sentiment  Sentiment             `json:"sentiment"`
	Confidence float64               `json:"confidence"`
	Scores     map[Sentiment]float64 `json:"scores"`
	Text       string                `json:"text"`
}
