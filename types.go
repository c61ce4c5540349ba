package ytsentiment

import (
	"sort"
	"sync"
)

// A Label is the sentiment class attached to a document or produced by a
// classifier.
type Label string

const (
	Positive  Label = "pos"
	Negative  Label = "neg"
	Unlabeled Label = ""
)

// String returns the human-readable name of the label.
func (l Label) String() string {
	switch l {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "unlabeled"
	}
}

// index maps a label onto the integer classes used by the metrics code.
func (l Label) index() int {
	if l == Positive {
		return 1
	}
	return 0
}

// labelFromSign discretizes a continuous score; zero resolves positive.
func labelFromSign(v float64) Label {
	if v >= 0 {
		return Positive
	}
	return Negative
}

// A TokenSequence is the ordered, fully materialized output of Normalize.
type TokenSequence []string

// A WordFeatureSet maps a normalized word to its presence flag. It is the
// input contract shared by every statistical classifier.
type WordFeatureSet map[string]bool

// Words returns the feature keys in sorted order.
func (fs WordFeatureSet) Words() []string {
	words := make([]string, 0, len(fs))
	for w, present := range fs {
		if present {
			words = append(words, w)
		}
	}
	sort.Strings(words)
	return words
}

// LabeledFeatures pairs a feature set with its ground-truth label.
type LabeledFeatures struct {
	Features WordFeatureSet
	Label    Label
}

// Probabilities is a two-class probability distribution.
type Probabilities struct {
	Positive float64
	Negative float64
}

// Margin returns P(positive) - P(negative).
func (p Probabilities) Margin() float64 {
	return p.Positive - p.Negative
}

// Best returns the most probable label; ties resolve positive.
func (p Probabilities) Best() Label {
	if p.Positive >= p.Negative {
		return Positive
	}
	return Negative
}

// ProgressFunc receives coarse progress values in [0, 100].
type ProgressFunc func(fraction float64)

// progressCounter accumulates progress from several workers and forwards
// a monotonically non-decreasing value to a single sink.
type progressCounter struct {
	mu    sync.Mutex
	value float64
	sink  ProgressFunc
}

func newProgressCounter(sink ProgressFunc) *progressCounter {
	return &progressCounter{sink: sink}
}

func (pc *progressCounter) add(delta float64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.value += delta
	if pc.value > 100 {
		pc.value = 100
	}
	if pc.sink != nil {
		pc.sink(pc.value)
	}
}

// finish pins the counter at 100 so a successful run always ends there.
func (pc *progressCounter) finish() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.value = 100
	if pc.sink != nil {
		pc.sink(pc.value)
	}
}

// Affect holds the mean dimensional affect norms of the matched tokens.
type Affect struct {
	Valence   float64 // 1 (unhappy) to 9 (happy)
	Arousal   float64 // 1 (calm) to 9 (excited)
	Dominance float64 // 1 (controlled) to 9 (in control)
	Matched   int     // Number of tokens found in the lexicon
}

// ConfidenceLevel represents coarse thresholds over ensemble confidence.
type ConfidenceLevel float64

const (
	LowConfidence    ConfidenceLevel = 0.5
	MediumConfidence ConfidenceLevel = 0.7
	HighConfidence   ConfidenceLevel = 0.9
)
