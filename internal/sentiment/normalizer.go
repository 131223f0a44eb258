package sentiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
)

//go:generate go run go.uber.org/mock/mockgen -source=normalizer.go -destination=../mocks/mock_classifier.go -package=mocks

// Classifier is the model capability the Normalizer calls into.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]RawScore, error)
}

// Normalizer turns raw class scores into a labeled Result
type Normalizer struct {
	classifier Classifier
}

// NewNormalizer creates a Normalizer backed by the given classifier
func NewNormalizer(classifier Classifier) *Normalizer {
	return &Normalizer{classifier: classifier}
}

// Normalize classifies req.Text and reports the dominant sentiment.
// Whitespace-only text fails with ErrEmptyInput without calling the classifier.
// Any classifier failure or malformed output fails with ErrExternalModel.
func (n *Normalizer) Normalize(ctx context.Context, req ClassificationRequest) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyInput
	}

	raw, err := n.classifier.Classify(ctx, req.Text)
	if err != nil {
		if errors.Is(err, ErrExternalModel) {
			return nil, fmt.Errorf("classify text: %w", err)
		}
		return nil, fmt.Errorf("%w: classify text: %v", ErrExternalModel, err)
	}

	scores, err := ScoresByLabel(raw)
	if err != nil {
		return nil, err
	}

	dominant := lo.MaxBy(Sentiments, func(a, b Sentiment) bool {
		return scores[a] > scores[b]
	})

	return &Result{
		Sentiment:  dominant,
		Confidence: RoundConfidence(scores[dominant]),
		Scores:     scores,
		Text:       req.Text,
	}, nil
}

// ScoresByLabel validates raw and maps it onto the three labels.
func ScoresByLabel(raw []RawScore) (map[Sentiment]float64, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}

	scores := make(map[Sentiment]float64, NumClasses)
	for _, r := range raw {
		label, err := r.Class.Sentiment()
		if err != nil {
			return nil, err
		}
		scores[label] = r.Score
	}
	return scores, nil
}

// Validate checks the shape of a model reply: exactly one score in [0,1]
// for each known class.
func Validate(raw []RawScore) error {
	if len(raw) != NumClasses {
		return fmt.Errorf("%w: expected %d scores, got %d", ErrExternalModel, NumClasses, len(raw))
	}

	seen := make(map[ClassID]bool, NumClasses)
	for _, r := range raw {
		if _, err := r.Class.Sentiment(); err != nil {
			return err
		}
		if seen[r.Class] {
			return fmt.Errorf("%w: duplicate score for %s", ErrExternalModel, r.Class)
		}
		seen[r.Class] = true

		// NaN fails both comparisons
		if !(r.Score >= 0 && r.Score <= 1) {
			return fmt.Errorf("%w: score %v for %s outside [0,1]", ErrExternalModel, r.Score, r.Class)
		}
	}
	return nil
}

// RoundConfidence rounds to 3 decimal places, halves away from zero.
func RoundConfidence(score float64) float64 {
	return math.Round(score*1000) / 1000
}
