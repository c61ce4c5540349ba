package ytsentiment

import (
	"math"
	"testing"
)

// fixedClassifier answers with a constant distribution.
type fixedClassifier struct {
	kind  ClassifierKind
	probs Probabilities
}

func (fc fixedClassifier) Kind() ClassifierKind                       { return fc.kind }
func (fc fixedClassifier) Train([]LabeledFeatures) error              { return nil }
func (fc fixedClassifier) Classify(WordFeatureSet) Label              { return fc.probs.Best() }
func (fc fixedClassifier) Probabilities(WordFeatureSet) Probabilities { return fc.probs }

func TestRescale(t *testing.T) {
	tests := []struct {
		v, lmin, lmax, rmin, rmax float64
		expected                  float64
		desc                      string
	}{
		{5, 0, 10, -1, 1, 0, "Midpoint"},
		{0, 0, 10, -1, 1, -1, "Lower bound"},
		{10, 0, 10, -1, 1, 1, "Upper bound"},
		{7.5, 0, 10, -1, 1, 0.5, "Inside"},
		{3, 3, 3, -1, 1, 0, "Zero-width source returns destination midpoint"},
		{3, 3, 3, 2, 6, 4, "Zero-width source, shifted destination"},
		{5, 0, 10, 1, -1, 1, "Inverted destination clamps to rmin"},
		{5, 0, 10, 1, 1, 1, "Degenerate destination clamps to rmin"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := Rescale(tt.v, tt.lmin, tt.lmax, tt.rmin, tt.rmax)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Rescale(%g, %g, %g, %g, %g) = %g, want %g",
					tt.v, tt.lmin, tt.lmax, tt.rmin, tt.rmax, got, tt.expected)
			}
		})
	}
}

func TestMajority(t *testing.T) {
	tests := []struct {
		labels     []Label
		majority   Label
		confidence float64
		desc       string
	}{
		{[]Label{Positive, Positive, Negative, Negative, Negative}, Negative, 0.6, "Three of five"},
		{[]Label{Positive, Positive, Positive}, Positive, 1, "Unanimous"},
		{[]Label{Positive, Negative}, Positive, 0.5, "Tie resolves to first seen"},
		{[]Label{Negative, Positive}, Negative, 0.5, "Tie resolves to first seen, reversed"},
		{[]Label{Negative, Positive, Positive, Negative}, Negative, 0.5, "Even tie"},
		{nil, Unlabeled, 0, "No voters"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			label, conf := Majority(tt.labels)
			if label != tt.majority || math.Abs(conf-tt.confidence) > 1e-12 {
				t.Errorf("Majority(%v) = %s, %.2f; want %s, %.2f", tt.labels, label, conf, tt.majority, tt.confidence)
			}
		})
	}
}

func TestClassifierSet(t *testing.T) {
	a := fixedClassifier{kind: MultinomialNB, probs: Probabilities{Positive: 0.8, Negative: 0.2}}
	b := fixedClassifier{kind: NuSVC, probs: Probabilities{Positive: 0.4, Negative: 0.6}}
	replacement := fixedClassifier{kind: MultinomialNB, probs: Probabilities{Positive: 0.1, Negative: 0.9}}

	set := NewClassifierSet(a, b)
	set.Add(replacement)

	if set.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", set.Len())
	}
	kinds := set.Kinds()
	if kinds[0] != MultinomialNB || kinds[1] != NuSVC {
		t.Errorf("Kinds() = %v", kinds)
	}
	if c, ok := set.Get(MultinomialNB); !ok || c.Probabilities(nil) != replacement.probs {
		t.Error("replacement did not take the existing slot")
	}
	if _, ok := set.Get(SVC); ok {
		t.Error("unexpected SVC in set")
	}
}

func TestVoteSet(t *testing.T) {
	set := NewClassifierSet(
		fixedClassifier{kind: MultinomialNB, probs: Probabilities{Positive: 0.8, Negative: 0.2}},
		fixedClassifier{kind: LogisticRegression, probs: Probabilities{Positive: 0.4, Negative: 0.6}},
	)
	vc := NewVoteClassifier(set, nil, nil)

	// no polarity words and no affect tokens: the polarity vote is 0
	// (positive) and the affect vote is rescale(0) = -1 (negative)
	votes := vc.Votes("guitar drummer", nil)
	if len(votes) != set.Len()+2 {
		t.Fatalf("got %d votes, want %d", len(votes), set.Len()+2)
	}

	wantScores := []float64{0.6, -0.2, 0, -1}
	wantLabels := []Label{Positive, Negative, Positive, Negative}
	for i, v := range votes {
		if math.Abs(v.Score-wantScores[i]) > 1e-9 || v.Label != wantLabels[i] {
			t.Errorf("vote %d (%s) = %.3f %s, want %.3f %s", i, v.Voter, v.Score, v.Label, wantScores[i], wantLabels[i])
		}
	}

	sentiment, confidence := vc.Score("guitar drummer", nil)
	if math.Abs(sentiment-(-0.15)) > 1e-9 {
		t.Errorf("sentiment = %.4f, want -0.15", sentiment)
	}
	if confidence != 0.5 {
		t.Errorf("confidence = %.2f, want 0.5", confidence)
	}
	if vc.Classify("guitar drummer", nil) != Negative {
		t.Error("negative mean should classify negative")
	}
}

func TestVoteOrderIndependence(t *testing.T) {
	a := fixedClassifier{kind: MultinomialNB, probs: Probabilities{Positive: 0.9, Negative: 0.1}}
	b := fixedClassifier{kind: LogisticRegression, probs: Probabilities{Positive: 0.3, Negative: 0.7}}
	c := fixedClassifier{kind: NuSVC, probs: Probabilities{Positive: 0.55, Negative: 0.45}}

	text := "I love this guitar, the drummer is amazing"
	tokens := Normalize(text)

	forward := NewVoteClassifier(NewClassifierSet(a, b, c), nil, nil)
	backward := NewVoteClassifier(NewClassifierSet(c, b, a), nil, nil)

	s1, c1 := forward.Score(text, tokens)
	s2, c2 := backward.Score(text, tokens)
	if math.Abs(s1-s2) > 1e-12 {
		t.Errorf("sentiment depends on roster order: %.15f vs %.15f", s1, s2)
	}
	if c1 != c2 {
		t.Errorf("confidence share depends on roster order: %.2f vs %.2f", c1, c2)
	}
}

func TestMajorityConfidenceFiveVoters(t *testing.T) {
	// three classifiers against both lexicon scorers
	set := NewClassifierSet(
		fixedClassifier{kind: MultinomialNB, probs: Probabilities{Positive: 0.9, Negative: 0.1}},
		fixedClassifier{kind: LogisticRegression, probs: Probabilities{Positive: 0.8, Negative: 0.2}},
		fixedClassifier{kind: NuSVC, probs: Probabilities{Positive: 0.2, Negative: 0.8}},
	)
	vc := NewVoteClassifier(set, nil, nil)

	// polarity: no sentiment words, positive; affect: no tokens, negative
	if got := vc.Confidence("guitar drummer", nil); math.Abs(got-0.6) > 1e-12 {
		t.Errorf("confidence = %.2f, want 0.6", got)
	}
}
