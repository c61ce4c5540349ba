package ytsentiment

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var errSingleClass = errors.New("training data must contain both classes")

// naiveBayes implements the multinomial and Bernoulli likelihood models.
// Class index 0 is negative, 1 is positive.
type naiveBayes struct {
	params    NaiveBayesParams
	bernoulli bool

	logPrior       [2]float64
	featureLogProb [2][]float64
	negLogProb     [2][]float64 // Bernoulli: log(1 - p)
	negLogSum      [2]float64
}

func (nb *naiveBayes) fit(xs []sparseVector, ys []Label, dim int) error {
	var classCount [2]float64
	var featureCount [2][]float64
	for c := range featureCount {
		featureCount[c] = make([]float64, dim)
	}

	for i, x := range xs {
		c := ys[i].index()
		classCount[c]++
		for j, id := range x.ids {
			v := x.vals[j]
			if nb.bernoulli {
				if v <= nb.params.Binarize {
					continue
				}
				v = 1
			}
			featureCount[c][id] += v
		}
	}
	if classCount[0] == 0 || classCount[1] == 0 {
		return errSingleClass
	}

	n := classCount[0] + classCount[1]
	alpha := nb.params.Alpha
	for c := 0; c < 2; c++ {
		nb.logPrior[c] = math.Log(classCount[c] / n)
		nb.featureLogProb[c] = make([]float64, dim)

		if nb.bernoulli {
			nb.negLogProb[c] = make([]float64, dim)
			denom := classCount[c] + 2*alpha
			for j := 0; j < dim; j++ {
				p := (featureCount[c][j] + alpha) / denom
				nb.featureLogProb[c][j] = math.Log(p)
				nb.negLogProb[c][j] = math.Log(1 - p)
			}
			nb.negLogSum[c] = floats.Sum(nb.negLogProb[c])
			continue
		}

		denom := floats.Sum(featureCount[c]) + alpha*float64(dim)
		for j := 0; j < dim; j++ {
			nb.featureLogProb[c][j] = math.Log((featureCount[c][j] + alpha) / denom)
		}
	}
	return nil
}

// jointLogLikelihood returns the unnormalized log posterior of each class.
func (nb *naiveBayes) jointLogLikelihood(x sparseVector) [2]float64 {
	var jll [2]float64
	for c := 0; c < 2; c++ {
		jll[c] = nb.logPrior[c]
		if nb.bernoulli {
			jll[c] += nb.negLogSum[c]
			for j, id := range x.ids {
				if x.vals[j] <= nb.params.Binarize {
					continue
				}
				jll[c] += nb.featureLogProb[c][id] - nb.negLogProb[c][id]
			}
			continue
		}
		for j, id := range x.ids {
			jll[c] += x.vals[j] * nb.featureLogProb[c][id]
		}
	}
	return jll
}

func (nb *naiveBayes) probabilities(x sparseVector) Probabilities {
	jll := nb.jointLogLikelihood(x)
	// log-sum-exp over the two classes
	logNorm := floats.LogSumExp(jll[:])
	pos := math.Exp(jll[1] - logNorm)
	return Probabilities{Positive: pos, Negative: 1 - pos}
}

func (nb *naiveBayes) classify(x sparseVector) Label {
	jll := nb.jointLogLikelihood(x)
	if jll[1] >= jll[0] {
		return Positive
	}
	return Negative
}

func (nb *naiveBayes) save(state *ClassifierState) {
	state.LogPrior = nb.logPrior
	state.FeatureLogProb = nb.featureLogProb
	if nb.bernoulli {
		state.NegLogProb = nb.negLogProb
	}
}

func (nb *naiveBayes) restore(state *ClassifierState) error {
	dim := state.Dim
	for c := 0; c < 2; c++ {
		if len(state.FeatureLogProb[c]) != dim {
			return fmt.Errorf("naive bayes state: feature log probabilities have length %d, want %d",
				len(state.FeatureLogProb[c]), dim)
		}
	}
	nb.logPrior = state.LogPrior
	nb.featureLogProb = state.FeatureLogProb
	if !nb.bernoulli {
		return nil
	}
	for c := 0; c < 2; c++ {
		if len(state.NegLogProb[c]) != dim {
			return fmt.Errorf("naive bayes state: negative log probabilities have length %d, want %d",
				len(state.NegLogProb[c]), dim)
		}
		nb.negLogProb[c] = state.NegLogProb[c]
		nb.negLogSum[c] = floats.Sum(state.NegLogProb[c])
	}
	return nil
}
