package ytsentiment

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// linearModel is a weight vector and intercept over sparse features. The
// decision value of x is w·x + b; non-negative values classify positive.
type linearModel struct {
	weights []float64
	bias    float64
}

func (lm *linearModel) decision(x sparseVector) float64 {
	return x.dot(lm.weights) + lm.bias
}

func (lm *linearModel) saveLinear(state *ClassifierState) {
	state.Weights = lm.weights
	state.Bias = lm.bias
}

func (lm *linearModel) restoreLinear(state *ClassifierState) error {
	if len(state.Weights) != state.Dim {
		return fmt.Errorf("linear state: %d weights, want %d", len(state.Weights), state.Dim)
	}
	lm.weights = state.Weights
	lm.bias = state.Bias
	return nil
}

// objective evaluates a smooth loss and writes its gradient into grad when
// grad is non-nil.
type objective func(params, grad []float64) float64

// minimize runs L-BFGS from the zero vector. An optimizer error after some
// progress is not fatal: the best location found is returned.
func minimize(obj objective, n int, maxIter int, tol float64) ([]float64, error) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return obj(x, nil)
		},
		Grad: func(grad, x []float64) {
			obj(x, grad)
		},
	}
	settings := &optimize.Settings{
		GradientThreshold: tol,
		MajorIterations:   maxIter,
	}

	result, err := optimize.Minimize(problem, make([]float64, n), settings, &optimize.LBFGS{})
	if result == nil {
		return nil, fmt.Errorf("optimizer failed: %w", err)
	}
	for _, v := range result.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("optimizer diverged (status %v)", result.Status)
		}
	}
	return result.X, nil
}

// softplus returns log(1 + exp(v)) without overflow.
func softplus(v float64) float64 {
	if v > 30 {
		return v
	}
	return math.Log1p(math.Exp(v))
}

func sigmoid(v float64) float64 {
	if v >= 0 {
		return 1 / (1 + math.Exp(-v))
	}
	e := math.Exp(v)
	return e / (1 + e)
}

// plattScaler maps decision values to P(positive) = 1/(1+exp(A·f+B)).
type plattScaler struct {
	A, B float64
}

func (ps plattScaler) probability(f float64) float64 {
	return sigmoid(-(ps.A*f + ps.B))
}

// fitPlatt fits the sigmoid on decision values with the regularized targets
// and Newton iteration of Lin, Lin and Weng (2007).
func fitPlatt(decisions []float64, ys []Label) plattScaler {
	var nPos, nNeg float64
	for _, y := range ys {
		if y == Positive {
			nPos++
		} else {
			nNeg++
		}
	}

	hiTarget := (nPos + 1) / (nPos + 2)
	loTarget := 1 / (nNeg + 2)
	targets := make([]float64, len(ys))
	for i, y := range ys {
		if y == Positive {
			targets[i] = hiTarget
		} else {
			targets[i] = loTarget
		}
	}

	const (
		maxIter = 100
		minStep = 1e-10
		sigma   = 1e-12
		eps     = 1e-5
	)

	a, b := 0.0, math.Log((nNeg+1)/(nPos+1))
	fval := plattLoss(decisions, targets, a, b)

	for iter := 0; iter < maxIter; iter++ {
		h11, h22, h21 := sigma, sigma, 0.0
		g1, g2 := 0.0, 0.0
		for i, f := range decisions {
			fApB := f*a + b
			var p, q float64
			if fApB >= 0 {
				p = math.Exp(-fApB) / (1 + math.Exp(-fApB))
				q = 1 / (1 + math.Exp(-fApB))
			} else {
				p = 1 / (1 + math.Exp(fApB))
				q = math.Exp(fApB) / (1 + math.Exp(fApB))
			}
			d2 := p * q
			h11 += f * f * d2
			h22 += d2
			h21 += f * d2
			d1 := targets[i] - p
			g1 += f * d1
			g2 += d1
		}
		if math.Abs(g1) < eps && math.Abs(g2) < eps {
			break
		}

		det := h11*h22 - h21*h21
		dA := -(h22*g1 - h21*g2) / det
		dB := -(-h21*g1 + h11*g2) / det
		gd := g1*dA + g2*dB

		step := 1.0
		for step >= minStep {
			newA, newB := a+step*dA, b+step*dB
			newF := plattLoss(decisions, targets, newA, newB)
			if newF < fval+0.0001*step*gd {
				a, b, fval = newA, newB, newF
				break
			}
			step /= 2
		}
		if step < minStep {
			break
		}
	}
	return plattScaler{A: a, B: b}
}

func plattLoss(decisions, targets []float64, a, b float64) float64 {
	var loss float64
	for i, f := range decisions {
		fApB := f*a + b
		if fApB >= 0 {
			loss += targets[i]*fApB + math.Log1p(math.Exp(-fApB))
		} else {
			loss += (targets[i]-1)*fApB + math.Log1p(math.Exp(fApB))
		}
	}
	return loss
}

// l2 returns half the squared norm of w.
func l2(w []float64) float64 {
	return 0.5 * floats.Dot(w, w)
}
