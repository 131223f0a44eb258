package classifier

import "context"

// Prediction is one (label, score) pair as emitted by a model backend
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Model is an external text-classification capability
type Model interface {
	Predict(ctx context.Context, text string) ([]Prediction, error)
}

// Pinger is implemented by models that can report readiness
type Pinger interface {
	Ping(ctx context.Context) error
}

// DefaultLabels are the raw labels of CLASS_0, CLASS_1 and CLASS_2, used
// when no labels are configured
var DefaultLabels = []string{"LABEL_0", "LABEL_1", "LABEL_2"}

func labelsOrDefault(labels []string) []string {
	if len(labels) == 0 {
		return DefaultLabels
	}
	return labels
}
