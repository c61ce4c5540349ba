package ytsentiment

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/bsm/mlmetrics"
	"github.com/go-nlp/tfidf"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// Method names reported by the evaluator besides the classifier kinds.
const (
	MethodVoting = "VOTING"
	MethodVADER  = "VADER"
	MethodANEW   = "ANEW"
)

// A Fold is one train/test partition, holding indices into the data.
type Fold struct {
	Train []int
	Test  []int
}

// KFold partitions n items into k contiguous, unshuffled test blocks. The
// first n%k blocks hold one extra item.
func KFold(n, k int) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("k must be greater than 1, got %d", k)
	}
	if k > n {
		return nil, fmt.Errorf("cannot split %d items into %d folds", n, k)
	}

	folds := make([]Fold, k)
	start := 0
	for i := 0; i < k; i++ {
		size := n / k
		if i < n%k {
			size++
		}
		end := start + size
		for j := 0; j < n; j++ {
			if j >= start && j < end {
				folds[i].Test = append(folds[i].Test, j)
			} else {
				folds[i].Train = append(folds[i].Train, j)
			}
		}
		start = end
	}
	return folds, nil
}

// StratifiedKFold partitions labeled items into k folds, splitting the items
// of each class into contiguous blocks so every fold keeps roughly the class
// proportions of the whole.
func StratifiedKFold(labels []Label, k int) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("k must be greater than 1, got %d", k)
	}
	if k > len(labels) {
		return nil, fmt.Errorf("cannot split %d items into %d folds", len(labels), k)
	}

	byClass := make(map[Label][]int)
	var classes []Label
	for i, l := range labels {
		if _, ok := byClass[l]; !ok {
			classes = append(classes, l)
		}
		byClass[l] = append(byClass[l], i)
	}

	assignment := make([]int, len(labels))
	for _, class := range classes {
		members := byClass[class]
		pos := 0
		for fold := 0; fold < k; fold++ {
			size := len(members) / k
			if fold < len(members)%k {
				size++
			}
			for _, idx := range members[pos : pos+size] {
				assignment[idx] = fold
			}
			pos += size
		}
	}

	folds := make([]Fold, k)
	for i, fold := range assignment {
		for f := range folds {
			if f == fold {
				folds[f].Test = append(folds[f].Test, i)
			} else {
				folds[f].Train = append(folds[f].Train, i)
			}
		}
	}
	for i, f := range folds {
		if len(f.Test) == 0 {
			return nil, fmt.Errorf("fold %d has no test items", i)
		}
	}
	return folds, nil
}

// MethodAccuracy holds the per-fold accuracy of one evaluated method.
type MethodAccuracy struct {
	Name  string
	Folds []float64
}

// Mean returns the mean fold accuracy.
func (m MethodAccuracy) Mean() float64 {
	if len(m.Folds) == 0 {
		return math.NaN()
	}
	return stat.Mean(m.Folds, nil)
}

// Std returns the population standard deviation of the fold accuracies.
func (m MethodAccuracy) Std() float64 {
	if len(m.Folds) == 0 {
		return math.NaN()
	}
	_, std := stat.PopMeanStdDev(m.Folds, nil)
	return std
}

// EvaluationResult lists the evaluated methods: the ensemble, each
// cross-validated classifier, then the two lexicon scorers.
type EvaluationResult struct {
	Methods  []MethodAccuracy
	Duration time.Duration
}

// Method returns the accuracy of the named method.
func (r EvaluationResult) Method(name string) (MethodAccuracy, bool) {
	for _, m := range r.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return MethodAccuracy{}, false
}

// EvaluationConfig contains configuration for accuracy evaluation
type EvaluationConfig struct {
	CorpusPath     string
	MaxDocs        int
	CrossValidated []ClassifierKind // Classifiers evaluated with the TF-IDF pipeline
	Parallel       bool             // Evaluate folds concurrently
	Progress       ProgressFunc
}

// DefaultEvaluationConfig returns a default evaluation configuration
func DefaultEvaluationConfig() EvaluationConfig {
	return EvaluationConfig{
		MaxDocs:        Unlimited,
		CrossValidated: []ClassifierKind{NuSVC, LogisticRegression, MultinomialNB},
	}
}

// Evaluator measures the accuracy of the ensemble, the lexicon scorers and
// the individual classifiers by k-fold cross-validation.
type Evaluator struct {
	config  EvaluationConfig
	vote    *VoteClassifier
	console Console
}

// NewEvaluator creates an evaluator for the ensemble vote, whose classifiers
// are used as already trained. A nil vote uses the lexicon scorers alone.
func NewEvaluator(config EvaluationConfig, vote *VoteClassifier, console Console) *Evaluator {
	if vote == nil {
		vote = NewVoteClassifier(nil, nil, nil)
	}
	return &Evaluator{
		config:  config,
		vote:    vote,
		console: consoleOrDiscard(console),
	}
}

// evalDoc is a corpus document prepared once for every fold.
type evalDoc struct {
	text   string
	tokens TokenSequence
	label  Label
}

// Evaluate runs k-fold evaluation over the labeled corpus. The ensemble and
// lexicon scorers are scored on the held-out block of each contiguous fold;
// each cross-validated classifier is refitted per stratified fold behind a
// TF-IDF pipeline. Progress runs 40% over the ensemble folds and the rest
// evenly over the classifiers.
func (e *Evaluator) Evaluate(ctx context.Context, k int) (EvaluationResult, error) {
	start := time.Now()

	reader, err := NewCorpusReader(e.config.CorpusPath)
	if err != nil {
		return EvaluationResult{}, err
	}
	labeled, err := reader.Labeled(ctx, e.config.MaxDocs)
	if err != nil {
		return EvaluationResult{}, err
	}

	docs := make([]evalDoc, len(labeled))
	labels := make([]Label, len(labeled))
	for i, lt := range labeled {
		docs[i] = evalDoc{text: lt.Text, tokens: Normalize(lt.Text), label: lt.Label}
		labels[i] = lt.Label
	}

	folds, err := KFold(len(docs), k)
	if err != nil {
		return EvaluationResult{}, err
	}

	progress := newProgressCounter(e.config.Progress)

	voting := make([]float64, k)
	vader := make([]float64, k)
	anew := make([]float64, k)
	err = e.forEachFold(ctx, k, func(i int) error {
		voting[i], vader[i], anew[i] = e.scoreFold(docs, folds[i].Test)
		progress.add(40 / float64(k))
		return nil
	})
	if err != nil {
		return EvaluationResult{}, err
	}

	result := EvaluationResult{}
	add := func(name string, folds []float64) {
		m := MethodAccuracy{Name: name, Folds: folds}
		result.Methods = append(result.Methods, m)
		report(e.console, logrus.Fields{"method": name, "mean": m.Mean(), "std": m.Std()},
			"> %s: %f (%f)", name, m.Mean(), m.Std())
	}
	add(MethodVoting, voting)

	if len(e.config.CrossValidated) > 0 {
		stratified, err := StratifiedKFold(labels, k)
		if err != nil {
			return EvaluationResult{}, err
		}
		share := 60 / float64(len(e.config.CrossValidated))
		for _, kind := range e.config.CrossValidated {
			scores, err := e.crossValidate(ctx, kind, docs, stratified)
			if err != nil {
				return EvaluationResult{}, err
			}
			add(kind.Abbrev(), scores)
			progress.add(share)
		}
	}

	add(MethodVADER, vader)
	add(MethodANEW, anew)

	result.Duration = time.Since(start)
	report(e.console, nil, "> Data processed in %s", result.Duration.Round(time.Second))
	progress.finish()
	return result, nil
}

// forEachFold runs fn for every fold index, concurrently when configured.
func (e *Evaluator) forEachFold(ctx context.Context, k int, fn func(i int) error) error {
	if !e.config.Parallel {
		for i := 0; i < k; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var wg sync.WaitGroup
	errs := make([]error, k)
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			default:
			}
			errs[i] = fn(i)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// scoreFold returns the ensemble, polarity and affect accuracy on the
// documents at test.
func (e *Evaluator) scoreFold(docs []evalDoc, test []int) (voting, vader, anew float64) {
	votingCM := mlmetrics.NewConfusionMatrix()
	vaderCM := mlmetrics.NewConfusionMatrix()
	anewCM := mlmetrics.NewConfusionMatrix()

	for _, idx := range test {
		doc := docs[idx]
		actual := doc.label.index()
		vaderCM.Observe(actual, e.vote.polarity.Label(doc.text).index())
		anewCM.Observe(actual, e.vote.affect.Label(doc.tokens).index())
		votingCM.Observe(actual, e.vote.Classify(doc.text, doc.tokens).index())
	}
	return votingCM.Accuracy(), vaderCM.Accuracy(), anewCM.Accuracy()
}

// crossValidate refits kind on the training part of every fold and returns
// its held-out accuracies.
func (e *Evaluator) crossValidate(ctx context.Context, kind ClassifierKind, docs []evalDoc, folds []Fold) ([]float64, error) {
	scores := make([]float64, len(folds))
	err := e.forEachFold(ctx, len(folds), func(i int) error {
		fold := folds[i]

		trainTokens := make([]TokenSequence, len(fold.Train))
		ys := make([]Label, len(fold.Train))
		for j, idx := range fold.Train {
			trainTokens[j] = docs[idx].tokens
			ys[j] = docs[idx].label
		}
		pipeline := fitTFIDF(trainTokens)

		xs := make([]sparseVector, len(trainTokens))
		for j, tokens := range trainTokens {
			xs[j] = pipeline.transform(tokens)
		}

		m, err := newModel(kind)
		if err != nil {
			return err
		}
		if err := m.fit(xs, ys, pipeline.vocab.Dim()); err != nil {
			return fmt.Errorf("%s fold %d: %w", kind.Abbrev(), i, err)
		}

		cm := mlmetrics.NewConfusionMatrix()
		for _, idx := range fold.Test {
			predicted := m.classify(pipeline.transform(docs[idx].tokens))
			cm.Observe(docs[idx].label.index(), predicted.index())
		}
		scores[i] = cm.Accuracy()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return scores, nil
}

// tfidfPipeline turns token sequences into L2-normalized TF-IDF vectors over
// the vocabulary of the documents it was fitted on.
type tfidfPipeline struct {
	vocab   *Vocabulary
	weights *tfidf.TFIDF
}

// idSet is a document as the set of its term ids.
type idSet []int

func (d idSet) IDs() []int { return []int(d) }

func fitTFIDF(docs []TokenSequence) *tfidfPipeline {
	p := &tfidfPipeline{vocab: NewVocabulary(), weights: tfidf.New()}
	for _, tokens := range docs {
		seen := make(map[int]bool, len(tokens))
		var ids idSet
		for _, tok := range tokens {
			id := p.vocab.Add(tok)
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
		p.weights.Add(ids)
	}
	p.weights.CalculateIDF()
	return p
}

func (p *tfidfPipeline) transform(tokens TokenSequence) sparseVector {
	counts := make(map[int]float64, len(tokens))
	for _, tok := range tokens {
		if id, ok := p.vocab.ID(tok); ok {
			counts[id]++
		}
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	sv := sparseVector{ids: ids, vals: make([]float64, len(ids))}
	for i, id := range ids {
		sv.vals[i] = counts[id] * p.weights.IDF[id]
	}
	if norm := math.Sqrt(sv.sqNorm()); norm > 0 {
		for i := range sv.vals {
			sv.vals[i] /= norm
		}
	}
	return sv
}
