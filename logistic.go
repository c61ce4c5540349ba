package ytsentiment

// logistic is L2-regularized logistic regression. It minimizes
//
//	½‖w‖² + C·Σ sᵢ·log(1 + exp(−yᵢ(w·xᵢ + b)))
//
// where sᵢ is the class weight of sample i. The intercept is not penalized.
type logistic struct {
	params LogisticParams
	linearModel
}

func (lr *logistic) fit(xs []sparseVector, ys []Label, dim int) error {
	if !hasBothClasses(ys) {
		return errSingleClass
	}
	weights := classWeights(ys, lr.params.ClassBalanced)
	c := lr.params.C

	obj := func(params, grad []float64) float64 {
		w, b := params[:dim], params[dim]
		loss := l2(w)
		if grad != nil {
			copy(grad[:dim], w)
			grad[dim] = 0
		}
		for i, x := range xs {
			y := sign(ys[i])
			margin := y * (x.dot(w) + b)
			loss += c * weights[i] * softplus(-margin)
			if grad == nil {
				continue
			}
			// d/dz log(1+exp(-y z)) = -y·σ(-y z)
			g := -c * weights[i] * y * sigmoid(-margin)
			for j, id := range x.ids {
				grad[id] += g * x.vals[j]
			}
			grad[dim] += g
		}
		return loss
	}

	params, err := minimize(obj, dim+1, lr.params.MaxIter, lr.params.Tol)
	if err != nil {
		return err
	}
	lr.weights = params[:dim]
	lr.bias = params[dim]
	return nil
}

func (lr *logistic) probabilities(x sparseVector) Probabilities {
	pos := sigmoid(lr.decision(x))
	return Probabilities{Positive: pos, Negative: 1 - pos}
}

func (lr *logistic) classify(x sparseVector) Label {
	return labelFromSign(lr.decision(x))
}

func (lr *logistic) save(state *ClassifierState) {
	lr.saveLinear(state)
}

func (lr *logistic) restore(state *ClassifierState) error {
	return lr.restoreLinear(state)
}

func hasBothClasses(ys []Label) bool {
	var pos, neg bool
	for _, y := range ys {
		if y == Positive {
			pos = true
		} else {
			neg = true
		}
	}
	return pos && neg
}
