package ytsentiment

import (
	"sync"

	"github.com/jonreiter/govader"
)

// AffectThreshold is the mean valence at or above which the affect scorer
// votes positive: the midpoint of the 1-9 scale plus a positive bias.
const AffectThreshold = 5.8

// PolarityScorer computes a VADER compound score from raw text. It is safe
// for concurrent use.
type PolarityScorer struct {
	sia *govader.SentimentIntensityAnalyzer
	mu  sync.Mutex
}

// NewPolarityScorer creates a scorer backed by the embedded VADER lexicon.
func NewPolarityScorer() *PolarityScorer {
	return &PolarityScorer{sia: govader.NewSentimentIntensityAnalyzer()}
}

// Scores returns the full VADER result for text.
func (ps *PolarityScorer) Scores(text string) govader.Sentiment {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.sia.PolarityScores(text)
}

// Compound returns the normalized compound score in [-1, 1].
func (ps *PolarityScorer) Compound(text string) float64 {
	return ps.Scores(text).Compound
}

// Label classifies text as positive when the compound score is >= 0.
func (ps *PolarityScorer) Label(text string) Label {
	return labelFromSign(ps.Compound(text))
}

// AffectScorer averages dimensional affect norms over matched tokens.
type AffectScorer struct {
	lexicon *AffectLexicon
}

// NewAffectScorer creates a scorer over lexicon; nil uses the built-in one.
func NewAffectScorer(lexicon *AffectLexicon) *AffectScorer {
	if lexicon == nil {
		lexicon = LoadAffectLexicon()
	}
	return &AffectScorer{lexicon: lexicon}
}

// Score returns the mean norms of the tokens found in the lexicon. Unmatched
// tokens contribute nothing; with no match every mean is zero.
func (as *AffectScorer) Score(tokens TokenSequence) Affect {
	var a Affect
	for _, token := range tokens {
		entry, ok := as.lexicon.Lookup(token)
		if !ok {
			continue
		}
		a.Valence += entry.Valence
		a.Arousal += entry.Arousal
		a.Dominance += entry.Dominance
		a.Matched++
	}
	if a.Matched == 0 {
		return a
	}

	n := float64(a.Matched)
	a.Valence /= n
	a.Arousal /= n
	a.Dominance /= n
	return a
}

// Label classifies tokens as positive when the mean valence reaches
// AffectThreshold.
func (as *AffectScorer) Label(tokens TokenSequence) Label {
	if as.Score(tokens).Valence >= AffectThreshold {
		return Positive
	}
	return Negative
}
