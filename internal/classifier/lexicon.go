package classifier

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Lexicon scores
const (
	LexiconMatchScore = 0.85
	LexiconOtherScore = 0.05
)

// DefaultPositiveWords and DefaultNegativeWords are the built-in Turkish keyword lists
var (
	DefaultPositiveWords = []string{"harika", "mutlu", "güzel", "iyi", "mükemmel", "süper"}
	DefaultNegativeWords = []string{"kötü", "üzgün", "memnun değil", "istemiyorum", "berbat", "kızgın"}
)

// Lexicon is an offline keyword model. Text containing a positive keyword
// scores positive, otherwise a negative keyword scores negative, otherwise
// neutral. Positive keywords are checked first.
type Lexicon struct {
	positive *goahocorasick.Machine
	negative *goahocorasick.Machine
	labels   []string
}

// NewLexicon builds the keyword automatons. labels[i] is emitted for class i;
// empty labels mean DefaultLabels.
func NewLexicon(positive, negative, labels []string) (*Lexicon, error) {
	labels = labelsOrDefault(labels)
	if len(labels) != 3 {
		return nil, fmt.Errorf("expected 3 labels, got %d", len(labels))
	}

	pos, err := buildMachine(positive)
	if err != nil {
		return nil, fmt.Errorf("build positive keywords: %w", err)
	}
	neg, err := buildMachine(negative)
	if err != nil {
		return nil, fmt.Errorf("build negative keywords: %w", err)
	}

	return &Lexicon{positive: pos, negative: neg, labels: labels}, nil
}

func buildMachine(words []string) (*goahocorasick.Machine, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("keyword list is empty")
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = lower(strings.TrimSpace(w))
		if w != "" {
			unique[w] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(unique))
	for w := range unique {
		sorted = append(sorted, w)
	}
	sort.Strings(sorted)

	patterns := make([][]rune, len(sorted))
	for i, w := range sorted {
		patterns[i] = []rune(w)
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return m, nil
}

// Predict scores text against the keyword lists.
func (l *Lexicon) Predict(ctx context.Context, text string) ([]Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := []rune(lower(text))
	scores := [3]float64{LexiconOtherScore, LexiconOtherScore, LexiconOtherScore}
	switch {
	case len(l.positive.MultiPatternSearch(content, true)) > 0:
		scores[2] = LexiconMatchScore
	case len(l.negative.MultiPatternSearch(content, true)) > 0:
		scores[0] = LexiconMatchScore
	default:
		scores[1] = LexiconMatchScore
	}

	predictions := make([]Prediction, len(l.labels))
	for i, label := range l.labels {
		predictions[i] = Prediction{Label: label, Score: scores[i]}
	}
	return predictions, nil
}

// Ping always succeeds; the lexicon lives in process.
func (l *Lexicon) Ping(context.Context) error {
	return nil
}

func lower(s string) string {
	return strings.ToLowerSpecial(unicode.TurkishCase, s)
}
