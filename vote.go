package ytsentiment

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// ClassifierSet is an ordered mapping from classifier kind to a trained
// classifier. Insertion order is vote order.
type ClassifierSet struct {
	order  []ClassifierKind
	byKind map[ClassifierKind]Classifier
}

// NewClassifierSet creates a set holding classifiers in the given order.
func NewClassifierSet(classifiers ...Classifier) *ClassifierSet {
	s := &ClassifierSet{byKind: make(map[ClassifierKind]Classifier)}
	for _, c := range classifiers {
		s.Add(c)
	}
	return s
}

// Add inserts c. A classifier of a kind already present replaces the old
// one in place.
func (s *ClassifierSet) Add(c Classifier) {
	if _, ok := s.byKind[c.Kind()]; !ok {
		s.order = append(s.order, c.Kind())
	}
	s.byKind[c.Kind()] = c
}

// Get returns the classifier of kind.
func (s *ClassifierSet) Get(kind ClassifierKind) (Classifier, bool) {
	c, ok := s.byKind[kind]
	return c, ok
}

// Kinds returns the kinds in vote order.
func (s *ClassifierSet) Kinds() []ClassifierKind {
	return append([]ClassifierKind(nil), s.order...)
}

// Classifiers returns the classifiers in vote order.
func (s *ClassifierSet) Classifiers() []Classifier {
	out := make([]Classifier, len(s.order))
	for i, kind := range s.order {
		out[i] = s.byKind[kind]
	}
	return out
}

// Len returns the number of classifiers.
func (s *ClassifierSet) Len() int {
	return len(s.order)
}

// Vote is one voter's contribution to an ensemble decision.
type Vote struct {
	Voter string
	Score float64 // Continuous contribution in [-1, 1]
	Label Label   // Discrete contribution
}

// VoteClassifier combines the statistical classifiers with the polarity
// and affect scorers.
type VoteClassifier struct {
	classifiers *ClassifierSet
	polarity    *PolarityScorer
	affect      *AffectScorer
}

// NewVoteClassifier creates an ensemble. Nil scorers are replaced by the
// defaults.
func NewVoteClassifier(classifiers *ClassifierSet, polarity *PolarityScorer, affect *AffectScorer) *VoteClassifier {
	if classifiers == nil {
		classifiers = NewClassifierSet()
	}
	if polarity == nil {
		polarity = NewPolarityScorer()
	}
	if affect == nil {
		affect = NewAffectScorer(nil)
	}
	return &VoteClassifier{classifiers: classifiers, polarity: polarity, affect: affect}
}

// Votes returns the vote set for a comment: one vote per classifier in vote
// order, then the polarity scorer, then the affect scorer.
func (vc *VoteClassifier) Votes(text string, tokens TokenSequence) []Vote {
	features := WordFeatures(tokens)
	votes := make([]Vote, 0, vc.classifiers.Len()+2)

	for _, c := range vc.classifiers.Classifiers() {
		votes = append(votes, Vote{
			Voter: c.Kind().String(),
			Score: c.Probabilities(features).Margin(),
			Label: c.Classify(features),
		})
	}

	compound := vc.polarity.Compound(text)
	votes = append(votes, Vote{Voter: "vader", Score: compound, Label: labelFromSign(compound)})

	valence := vc.affect.Score(tokens).Valence
	affectLabel := Negative
	if valence >= AffectThreshold {
		affectLabel = Positive
	}
	votes = append(votes, Vote{Voter: "anew", Score: Rescale(valence, 0, 10, -1, 1), Label: affectLabel})

	return votes
}

// Score returns the mean of the continuous votes and the share of voters
// agreeing with the majority label.
func (vc *VoteClassifier) Score(text string, tokens TokenSequence) (sentiment, confidence float64) {
	votes := vc.Votes(text, tokens)
	return meanScore(votes), majorityShare(votes)
}

// Sentiment returns the mean of the continuous votes, in about [-1, 1].
func (vc *VoteClassifier) Sentiment(text string, tokens TokenSequence) float64 {
	return meanScore(vc.Votes(text, tokens))
}

// Confidence returns the share of voters agreeing with the majority label.
func (vc *VoteClassifier) Confidence(text string, tokens TokenSequence) float64 {
	return majorityShare(vc.Votes(text, tokens))
}

// Classify discretizes the ensemble sentiment; zero resolves positive.
func (vc *VoteClassifier) Classify(text string, tokens TokenSequence) Label {
	return labelFromSign(vc.Sentiment(text, tokens))
}

func meanScore(votes []Vote) float64 {
	scores := make([]float64, len(votes))
	for i, v := range votes {
		scores[i] = v.Score
	}
	return stat.Mean(scores, nil)
}

func majorityShare(votes []Vote) float64 {
	labels := make([]Label, len(votes))
	for i, v := range votes {
		labels[i] = v.Label
	}
	_, share := Majority(labels)
	return share
}

// Majority returns the most frequent label and its share of all labels.
// Among equally frequent labels the one seen first wins.
func Majority(labels []Label) (Label, float64) {
	if len(labels) == 0 {
		return Unlabeled, 0
	}
	counts := make(map[Label]int, 2)
	for _, l := range labels {
		counts[l]++
	}

	best, bestCount := labels[0], 0
	seen := make(map[Label]bool, 2)
	for _, l := range labels {
		if seen[l] {
			continue
		}
		seen[l] = true
		if counts[l] > bestCount {
			best, bestCount = l, counts[l]
		}
	}
	return best, float64(bestCount) / float64(len(labels))
}

// Rescale maps v linearly from [lmin, lmax] onto [rmin, rmax]. A zero-width
// source interval maps to the destination midpoint; a destination with
// rmax <= rmin collapses to rmin.
func Rescale(v, lmin, lmax, rmin, rmax float64) float64 {
	out, err := rescale(v, lmin, lmax, rmin, rmax)
	if errors.Is(err, ErrDegenerateInterval) {
		return rmin + (rmax-rmin)/2
	}
	return out
}

func rescale(v, lmin, lmax, rmin, rmax float64) (float64, error) {
	if rmax <= rmin {
		return rmin, nil
	}
	span := lmax - lmin
	if span == 0 {
		return 0, fmt.Errorf("%w: [%g, %g]", ErrDegenerateInterval, lmin, lmax)
	}
	return rmin + (v-lmin)/span*(rmax-rmin), nil
}
