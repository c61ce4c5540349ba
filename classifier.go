package ytsentiment

import (
	"fmt"
	"strings"
)

// ClassifierKind identifies one of the supported statistical classifiers.
type ClassifierKind int

const (
	MultinomialNB ClassifierKind = iota
	BernoulliNB
	LogisticRegression
	SVC
	NuSVC
)

var kindNames = map[ClassifierKind]string{
	MultinomialNB:      "multinomial_naive_bayes",
	BernoulliNB:        "bernoulli_naive_bayes",
	LogisticRegression: "logistic_regression",
	SVC:                "svc",
	NuSVC:              "nu_svc",
}

var kindTitles = map[ClassifierKind]string{
	MultinomialNB:      "Multinomial NB classifier",
	BernoulliNB:        "Bernoulli NB classifier",
	LogisticRegression: "Logistic Regression",
	SVC:                "SVC",
	NuSVC:              "Nu SVC",
}

// short names used when reporting cross-validation results
var kindAbbrev = map[ClassifierKind]string{
	MultinomialNB:      "MNB",
	BernoulliNB:        "BNB",
	LogisticRegression: "LR",
	SVC:                "SVC",
	NuSVC:              "NuSVC",
}

// String returns the canonical roster name of the kind.
func (k ClassifierKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ClassifierKind(%d)", int(k))
}

// Title returns a display name for console output.
func (k ClassifierKind) Title() string {
	return kindTitles[k]
}

// Abbrev returns the short name used in evaluation results.
func (k ClassifierKind) Abbrev() string {
	return kindAbbrev[k]
}

// ParseClassifierKind converts a roster name into a kind.
func ParseClassifierKind(name string) (ClassifierKind, error) {
	name = strings.TrimSpace(name)
	for kind, n := range kindNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidClassifier, name)
}

// DefaultRoster is used when no classifier names are configured.
var DefaultRoster = []ClassifierKind{MultinomialNB, LogisticRegression, NuSVC}

// ParseRoster converts classifier names into kinds, preserving order and
// dropping duplicates. An empty list, or a list holding only an empty name,
// yields DefaultRoster. Any unknown name rejects the whole roster.
func ParseRoster(names []string) ([]ClassifierKind, error) {
	if len(names) == 0 || (len(names) == 1 && strings.TrimSpace(names[0]) == "") {
		return append([]ClassifierKind(nil), DefaultRoster...), nil
	}

	roster := make([]ClassifierKind, 0, len(names))
	seen := make(map[ClassifierKind]bool, len(names))
	for _, name := range names {
		kind, err := ParseClassifierKind(name)
		if err != nil {
			return nil, err
		}
		if seen[kind] {
			continue
		}
		seen[kind] = true
		roster = append(roster, kind)
	}
	return roster, nil
}

// NaiveBayesParams configures both naive Bayes variants.
type NaiveBayesParams struct {
	Alpha    float64 // Additive smoothing
	Binarize float64 // Bernoulli only: feature values above this count as present
}

// LogisticParams configures L2-regularized logistic regression.
type LogisticParams struct {
	C             float64 // Inverse regularization strength
	ClassBalanced bool
	MaxIter       int
	Tol           float64
}

// SVMParams configures both linear support-vector variants.
type SVMParams struct {
	C             float64 // SVC only
	Nu            float64 // NuSVC only: in (0, 1], upper bound on margin errors, lower bound on support vectors
	ClassBalanced bool
	MaxIter       int     // SMO iterations; 0 means max(10⁷, 100·n)
	Tol           float64 // Stopping tolerance on the maximal KKT violation
}

// Params returns the fixed hyperparameters of a kind.
func (k ClassifierKind) Params() interface{} {
	switch k {
	case MultinomialNB:
		return NaiveBayesParams{Alpha: 1}
	case BernoulliNB:
		return NaiveBayesParams{Alpha: 1, Binarize: 0}
	case LogisticRegression:
		return LogisticParams{C: 1, ClassBalanced: true, MaxIter: 2000, Tol: 1e-4}
	case SVC:
		return SVMParams{C: 1, ClassBalanced: true, Tol: 1e-3}
	case NuSVC:
		return SVMParams{Nu: 0.5, ClassBalanced: true, Tol: 1e-3}
	}
	return nil
}

// A Classifier maps a word-feature set to a class probability distribution.
type Classifier interface {
	Kind() ClassifierKind
	Train(data []LabeledFeatures) error
	Classify(fs WordFeatureSet) Label
	Probabilities(fs WordFeatureSet) Probabilities
}

// model is the algorithm behind a classifier, working on sparse vectors.
type model interface {
	fit(xs []sparseVector, ys []Label, dim int) error
	probabilities(x sparseVector) Probabilities
	classify(x sparseVector) Label
	save(state *ClassifierState)
	restore(state *ClassifierState) error
}

func newModel(kind ClassifierKind) (model, error) {
	switch kind {
	case MultinomialNB:
		return &naiveBayes{params: kind.Params().(NaiveBayesParams)}, nil
	case BernoulliNB:
		return &naiveBayes{params: kind.Params().(NaiveBayesParams), bernoulli: true}, nil
	case LogisticRegression:
		return &logistic{params: kind.Params().(LogisticParams)}, nil
	case SVC:
		return &linearSVM{params: kind.Params().(SVMParams)}, nil
	case NuSVC:
		return &linearSVM{params: kind.Params().(SVMParams), nu: true}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidClassifier, kind)
}

// bagOfWords is the Classifier implementation shared by every kind: a
// vocabulary in front of a model.
type bagOfWords struct {
	kind    ClassifierKind
	vocab   *Vocabulary
	model   model
	trained bool
}

// NewClassifier returns an untrained classifier of the given kind.
func NewClassifier(kind ClassifierKind) (Classifier, error) {
	m, err := newModel(kind)
	if err != nil {
		return nil, err
	}
	return &bagOfWords{kind: kind, vocab: NewVocabulary(), model: m}, nil
}

func (c *bagOfWords) Kind() ClassifierKind {
	return c.kind
}

// Train fits the classifier. Words are added to the vocabulary in sorted
// order per document so ids do not depend on map iteration.
func (c *bagOfWords) Train(data []LabeledFeatures) error {
	if len(data) == 0 {
		return fmt.Errorf("training data is empty")
	}

	vocab := NewVocabulary()
	for _, example := range data {
		for _, w := range example.Features.Words() {
			vocab.Add(w)
		}
	}

	xs := make([]sparseVector, len(data))
	ys := make([]Label, len(data))
	for i, example := range data {
		if example.Label != Positive && example.Label != Negative {
			return fmt.Errorf("training example %d has no label", i)
		}
		xs[i] = vocab.encode(example.Features)
		ys[i] = example.Label
	}

	m, err := newModel(c.kind)
	if err != nil {
		return err
	}
	if err := m.fit(xs, ys, vocab.Dim()); err != nil {
		return fmt.Errorf("training %s: %w", c.kind, err)
	}

	c.vocab = vocab
	c.model = m
	c.trained = true
	return nil
}

// Classify returns the predicted label; an untrained classifier votes
// positive.
func (c *bagOfWords) Classify(fs WordFeatureSet) Label {
	if !c.trained {
		return Positive
	}
	return c.model.classify(c.vocab.encode(fs))
}

// Probabilities returns the class distribution; an untrained classifier
// returns an even split.
func (c *bagOfWords) Probabilities(fs WordFeatureSet) Probabilities {
	if !c.trained {
		return Probabilities{Positive: 0.5, Negative: 0.5}
	}
	return c.model.probabilities(c.vocab.encode(fs))
}

// classWeights returns per-sample weights. Balanced weighting gives each
// class a total weight of n/2.
func classWeights(ys []Label, balanced bool) []float64 {
	weights := make([]float64, len(ys))
	var nPos, nNeg int
	for _, y := range ys {
		if y == Positive {
			nPos++
		} else {
			nNeg++
		}
	}
	n := float64(len(ys))
	for i, y := range ys {
		weights[i] = 1
		if !balanced {
			continue
		}
		if y == Positive {
			weights[i] = n / (2 * float64(nPos))
		} else {
			weights[i] = n / (2 * float64(nNeg))
		}
	}
	return weights
}

// sign returns +1 for positive and -1 for negative labels.
func sign(y Label) float64 {
	if y == Positive {
		return 1
	}
	return -1
}
