package ytsentiment

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// linearSVM is a linear-kernel support vector machine with Platt-scaled
// probabilities. Both variants use the hinge loss and are solved in the dual
// with libsvm's SMO decomposition. The C variant solves
//
//	min ½αᵀQα − eᵀα   s.t. 0 ≤ αᵢ ≤ C·sᵢ, yᵀα = 0
//
// and the ν variant solves
//
//	min ½αᵀQα          s.t. 0 ≤ αᵢ ≤ sᵢ, yᵀα = 0, eᵀα = ν·n
//
// with Qᵢⱼ = yᵢyⱼ·xᵢ·xⱼ and sᵢ the class weight of sample i. With unit
// weights ν is an upper bound on the fraction of margin errors and a lower
// bound on the fraction of support vectors.
type linearSVM struct {
	params SVMParams
	nu     bool
	linearModel
	platt plattScaler
}

func (svm *linearSVM) fit(xs []sparseVector, ys []Label, dim int) error {
	if !hasBothClasses(ys) {
		return errSingleClass
	}
	weights := classWeights(ys, svm.params.ClassBalanced)

	nu := 0.0
	upper := make([]float64, len(ys))
	for i, s := range weights {
		if svm.nu {
			upper[i] = s
		} else {
			upper[i] = svm.params.C * s
		}
	}
	if svm.nu {
		nu = svm.params.Nu
	}

	sol, err := solveSMO(xs, ys, upper, nu, dim, svm.params.Tol, svm.params.MaxIter)
	if err != nil {
		return err
	}
	svm.weights = sol.weights
	svm.bias = sol.bias

	decisions := make([]float64, len(xs))
	for i, x := range xs {
		decisions[i] = svm.decision(x)
	}
	svm.platt = fitPlatt(decisions, ys)
	return nil
}

func (svm *linearSVM) probabilities(x sparseVector) Probabilities {
	pos := svm.platt.probability(svm.decision(x))
	return Probabilities{Positive: pos, Negative: 1 - pos}
}

// classify uses the sign of the decision value, which can disagree with
// the Platt probabilities near the boundary.
func (svm *linearSVM) classify(x sparseVector) Label {
	return labelFromSign(svm.decision(x))
}

func (svm *linearSVM) save(state *ClassifierState) {
	svm.saveLinear(state)
	state.PlattA = svm.platt.A
	state.PlattB = svm.platt.B
}

func (svm *linearSVM) restore(state *ClassifierState) error {
	if err := svm.restoreLinear(state); err != nil {
		return err
	}
	svm.platt = plattScaler{A: state.PlattA, B: state.PlattB}
	return nil
}

// smoSolution is the trained dual: the multipliers and the primal
// hyperplane they define.
type smoSolution struct {
	alpha      []float64
	weights    []float64
	bias       float64
	iterations int
}

// posting is one non-zero entry of a feature column.
type posting struct {
	row int
	val float64
}

// smo holds the state of one dual optimization.
type smo struct {
	xs      []sparseVector
	y       []float64
	upper   []float64
	alpha   []float64
	grad    []float64
	columns [][]posting
	nu      bool
}

const smoTau = 1e-12

// solveSMO trains a linear SVM dual with first-order working set selection.
// A positive nu selects the ν formulation, in which pairs are chosen within
// one class so both per-class sums stay at ν·n/2. A maxIter of zero uses
// max(10⁷, 100·n).
func solveSMO(xs []sparseVector, ys []Label, upper []float64, nu float64, dim int, tol float64, maxIter int) (smoSolution, error) {
	n := len(xs)
	if tol <= 0 {
		tol = 1e-3
	}
	if maxIter <= 0 {
		maxIter = 100 * n
		if maxIter < 10000000 {
			maxIter = 10000000
		}
	}

	s := &smo{
		xs:      xs,
		y:       make([]float64, n),
		upper:   upper,
		alpha:   make([]float64, n),
		grad:    make([]float64, n),
		columns: make([][]posting, dim),
		nu:      nu > 0,
	}
	for i, x := range xs {
		s.y[i] = sign(ys[i])
		for j, id := range x.ids {
			s.columns[id] = append(s.columns[id], posting{row: i, val: x.vals[j]})
		}
	}

	if s.nu {
		if err := s.initNu(nu); err != nil {
			return smoSolution{}, err
		}
	} else {
		for i := range s.grad {
			s.grad[i] = -1
		}
	}

	ki := make([]float64, n)
	kj := make([]float64, n)
	iter := 0
	for ; iter < maxIter; iter++ {
		i, j, gap := s.selectPair()
		if gap < tol {
			break
		}
		s.column(i, ki)
		s.column(j, kj)
		oldI, oldJ := s.alpha[i], s.alpha[j]
		s.update(i, j, ki[i]+kj[j]-2*ki[j])

		dI := (s.alpha[i] - oldI) * s.y[i]
		dJ := (s.alpha[j] - oldJ) * s.y[j]
		for t := range s.grad {
			s.grad[t] += s.y[t] * (dI*ki[t] + dJ*kj[t])
		}
	}

	sol := smoSolution{alpha: s.alpha, weights: make([]float64, dim), iterations: iter}
	for t, x := range xs {
		if s.alpha[t] == 0 {
			continue
		}
		coef := s.alpha[t] * s.y[t]
		for j, id := range x.ids {
			sol.weights[id] += coef * x.vals[j]
		}
	}

	if !s.nu {
		sol.bias = -s.rho()
		return sol, nil
	}

	rho, r := s.nuRho()
	sol.bias = -rho
	if r > 0 {
		floats.Scale(1/r, sol.weights)
		sol.bias /= r
	}
	return sol, nil
}

// initNu spreads ν·n/2 over the multipliers of each class in order, as libsvm
// does, and computes the starting gradient Qα.
func (s *smo) initNu(nu float64) error {
	n := float64(len(s.alpha))
	remaining := map[float64]float64{1: nu * n / 2, -1: nu * n / 2}
	for i := range s.alpha {
		a := math.Min(s.upper[i], remaining[s.y[i]])
		s.alpha[i] = a
		remaining[s.y[i]] -= a
	}
	for _, r := range remaining {
		if r > 1e-9 {
			return fmt.Errorf("nu %g is infeasible for the class sizes", nu)
		}
	}

	w := make([]float64, len(s.columns))
	for t, x := range s.xs {
		coef := s.alpha[t] * s.y[t]
		for j, id := range x.ids {
			w[id] += coef * x.vals[j]
		}
	}
	for t, x := range s.xs {
		s.grad[t] = s.y[t] * x.dot(w)
	}
	return nil
}

// column writes the kernel column xᵢ·xₜ for every t into out.
func (s *smo) column(i int, out []float64) {
	for t := range out {
		out[t] = 0
	}
	x := s.xs[i]
	for j, id := range x.ids {
		v := x.vals[j]
		for _, p := range s.columns[id] {
			out[p.row] += v * p.val
		}
	}
}

func (s *smo) atUpper(t int) bool { return s.alpha[t] >= s.upper[t] }
func (s *smo) atLower(t int) bool { return s.alpha[t] <= 0 }

// canRaise reports whether moving along yₜ keeps αₜ feasible.
func (s *smo) canRaise(t int) bool {
	if s.y[t] > 0 {
		return !s.atUpper(t)
	}
	return !s.atLower(t)
}

func (s *smo) canLower(t int) bool {
	if s.y[t] > 0 {
		return !s.atLower(t)
	}
	return !s.atUpper(t)
}

// selectPair returns the maximal violating pair and its violation. In the
// ν formulation the pair is taken from the class with the larger violation.
func (s *smo) selectPair() (int, int, float64) {
	if !s.nu {
		return s.violatingPair(0)
	}
	ip, jp, gp := s.violatingPair(1)
	in, jn, gn := s.violatingPair(-1)
	if gp >= gn {
		return ip, jp, gp
	}
	return in, jn, gn
}

// violatingPair scans the samples of class (0 for all) for
// i = argmax −yG over raisable and j = argmin −yG over lowerable samples.
func (s *smo) violatingPair(class float64) (int, int, float64) {
	gmax, gmin := math.Inf(-1), math.Inf(1)
	i, j := -1, -1
	for t := range s.alpha {
		if class != 0 && s.y[t] != class {
			continue
		}
		v := -s.y[t] * s.grad[t]
		if s.canRaise(t) && v >= gmax {
			gmax, i = v, t
		}
		if s.canLower(t) && v <= gmin {
			gmin, j = v, t
		}
	}
	if i < 0 || j < 0 {
		return 0, 0, math.Inf(-1)
	}
	return i, j, gmax - gmin
}

// update solves the two-variable subproblem on (i, j) and clips the result
// to the box.
func (s *smo) update(i, j int, quad float64) {
	if quad <= 0 {
		quad = smoTau
	}
	ci, cj := s.upper[i], s.upper[j]

	if s.y[i] != s.y[j] {
		delta := (-s.grad[i] - s.grad[j]) / quad
		diff := s.alpha[i] - s.alpha[j]
		s.alpha[i] += delta
		s.alpha[j] += delta
		if diff > 0 {
			if s.alpha[j] < 0 {
				s.alpha[j], s.alpha[i] = 0, diff
			}
		} else if s.alpha[i] < 0 {
			s.alpha[i], s.alpha[j] = 0, -diff
		}
		if diff > ci-cj {
			if s.alpha[i] > ci {
				s.alpha[i], s.alpha[j] = ci, ci-diff
			}
		} else if s.alpha[j] > cj {
			s.alpha[j], s.alpha[i] = cj, cj+diff
		}
		return
	}

	delta := (s.grad[i] - s.grad[j]) / quad
	sum := s.alpha[i] + s.alpha[j]
	s.alpha[i] -= delta
	s.alpha[j] += delta
	if sum > ci {
		if s.alpha[i] > ci {
			s.alpha[i], s.alpha[j] = ci, sum-ci
		}
	} else if s.alpha[j] < 0 {
		s.alpha[j], s.alpha[i] = 0, sum
	}
	if sum > cj {
		if s.alpha[j] > cj {
			s.alpha[j], s.alpha[i] = cj, sum-cj
		}
	} else if s.alpha[i] < 0 {
		s.alpha[i], s.alpha[j] = 0, sum
	}
}

// rho is the offset of the C formulation: the mean of yG over free
// multipliers, or the middle of the feasible interval when none is free.
func (s *smo) rho() float64 {
	ub, lb := math.Inf(1), math.Inf(-1)
	var sum float64
	var free int
	for t := range s.alpha {
		yg := s.y[t] * s.grad[t]
		switch {
		case s.atUpper(t):
			if s.y[t] < 0 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		case s.atLower(t):
			if s.y[t] > 0 {
				ub = math.Min(ub, yg)
			} else {
				lb = math.Max(lb, yg)
			}
		default:
			free++
			sum += yg
		}
	}
	if free > 0 {
		return sum / float64(free)
	}
	return (ub + lb) / 2
}

// nuRho returns the offset and the margin scale r of the ν formulation,
// computed per class from the gradient.
func (s *smo) nuRho() (rho, r float64) {
	classR := func(class float64) float64 {
		ub, lb := math.Inf(1), math.Inf(-1)
		var sum float64
		var free int
		for t := range s.alpha {
			if s.y[t] != class {
				continue
			}
			switch {
			case s.atUpper(t):
				lb = math.Max(lb, s.grad[t])
			case s.atLower(t):
				ub = math.Min(ub, s.grad[t])
			default:
				free++
				sum += s.grad[t]
			}
		}
		if free > 0 {
			return sum / float64(free)
		}
		return (ub + lb) / 2
	}
	r1, r2 := classR(1), classR(-1)
	return (r1 - r2) / 2, (r1 + r2) / 2
}
