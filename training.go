package ytsentiment

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/bsm/mlmetrics"
	"github.com/sirupsen/logrus"
)

// TrainerState is the position of a Trainer in its training cycle.
type TrainerState int

const (
	Idle TrainerState = iota
	SplitBuilt
	Training
	Persisted
)

func (s TrainerState) String() string {
	switch s {
	case Idle:
		return "idle"
	case SplitBuilt:
		return "split built"
	case Training:
		return "training"
	case Persisted:
		return "persisted"
	}
	return fmt.Sprintf("TrainerState(%d)", int(s))
}

// TrainingConfig contains configuration for classifier training
type TrainingConfig struct {
	CorpusPath string   // Root of the labeled corpus; empty when none is available
	MaxDocs    int      // Document cap over the four subsets, or Unlimited
	Roster     []string // Classifier names; empty means DefaultRoster
	Parallel   bool     // Fit the classifiers of a roster concurrently
	Progress   ProgressFunc
}

// DefaultTrainingConfig returns a default training configuration
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		MaxDocs: Unlimited,
	}
}

// TrainingReport describes one fitted classifier.
type TrainingReport struct {
	Kind     ClassifierKind
	Accuracy float64 // Held-out accuracy on the test split
	Duration time.Duration
}

// Trainer builds labeled splits, fits classifiers and keeps them in a
// ClassifierStore, which doubles as a cache across runs.
type Trainer struct {
	config  TrainingConfig
	store   ClassifierStore
	console Console

	mu      sync.Mutex
	state   TrainerState
	split   *trainingSplit
	trained *ClassifierSet
}

type trainingSplit struct {
	train, test []LabeledFeatures
}

// NewTrainer creates a trainer. A nil console discards status lines.
func NewTrainer(config TrainingConfig, store ClassifierStore, console Console) *Trainer {
	return &Trainer{
		config:  config,
		store:   store,
		console: consoleOrDiscard(console),
		trained: NewClassifierSet(),
	}
}

// State returns the current state.
func (t *Trainer) State() TrainerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Trainer) setState(s TrainerState) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

// BuildSplit reads the four corpus subsets, each capped at MaxDocs/4, and
// returns the labeled feature sets of the train and test subsets, negatives
// first. The split is built once per Trainer.
func (t *Trainer) BuildSplit(ctx context.Context) (train, test []LabeledFeatures, err error) {
	t.mu.Lock()
	if t.split != nil {
		split := t.split
		t.mu.Unlock()
		return split.train, split.test, nil
	}
	t.mu.Unlock()

	if t.config.CorpusPath == "" {
		return nil, nil, fmt.Errorf("%w: no corpus path configured", ErrCorpusRead)
	}
	reader, err := NewCorpusReader(t.config.CorpusPath)
	if err != nil {
		return nil, nil, err
	}

	limit := subsetCap(t.config.MaxDocs)
	read := func(subset string, label Label) ([]LabeledFeatures, error) {
		docs, err := reader.readCapped(ctx, subset, limit)
		if err != nil {
			return nil, err
		}
		out := make([]LabeledFeatures, len(docs))
		for i, text := range docs {
			out[i] = NewDocument(text, WithLabel(label), WithSegmentation(false)).Labeled()
		}
		return out, nil
	}

	parts := make(map[string][]LabeledFeatures, 4)
	for _, s := range []struct {
		subset string
		label  Label
	}{
		{TrainNeg, Negative}, {TrainPos, Positive}, {TestNeg, Negative}, {TestPos, Positive},
	} {
		parts[s.subset], err = read(s.subset, s.label)
		if err != nil {
			return nil, nil, err
		}
	}

	split := &trainingSplit{
		train: append(parts[TrainNeg], parts[TrainPos]...),
		test:  append(parts[TestNeg], parts[TestPos]...),
	}

	t.mu.Lock()
	t.split = split
	t.state = SplitBuilt
	t.mu.Unlock()

	report(t.console, logrus.Fields{"train": len(split.train), "test": len(split.test)},
		"> Dataset split: %d training and %d test documents", len(split.train), len(split.test))
	return split.train, split.test, nil
}

// Train fits, evaluates and persists every classifier of roster. The whole
// roster is parsed before anything is trained, so an unknown name aborts
// the run with ErrInvalidClassifier. An empty roster uses the configured
// one, or DefaultRoster.
func (t *Trainer) Train(ctx context.Context, roster []string) (*ClassifierSet, []TrainingReport, error) {
	if len(roster) == 0 {
		roster = t.config.Roster
	}
	kinds, err := ParseRoster(roster)
	if err != nil {
		report(t.console, nil, "> Invalid classifier name")
		return nil, nil, err
	}
	report(t.console, nil, "> Selected classifiers: %v", kinds)

	train, test, err := t.BuildSplit(ctx)
	if err != nil {
		return nil, nil, err
	}

	t.setState(Training)
	defer t.setState(Idle)

	progress := newProgressCounter(t.config.Progress)
	step := 100 / float64(len(kinds))

	classifiers := make([]Classifier, len(kinds))
	reports := make([]TrainingReport, len(kinds))

	fitOne := func(i int) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		kind := kinds[i]
		report(t.console, logrus.Fields{"classifier": kind.String()}, "> Training the classifier: %s", kind)
		start := time.Now()

		c, err := NewClassifier(kind)
		if err != nil {
			return err
		}
		if err := c.Train(train); err != nil {
			return err
		}
		acc := Accuracy(c, test)
		report(t.console, logrus.Fields{"classifier": kind.String(), "accuracy": acc},
			"> %s accuracy percent: %.2f%%", kind.Title(), acc*100)

		if err := PersistClassifier(t.store, c); err != nil {
			return fmt.Errorf("persisting %s: %w", kind, err)
		}

		classifiers[i] = c
		reports[i] = TrainingReport{Kind: kind, Accuracy: acc, Duration: time.Since(start)}
		progress.add(step)
		report(t.console, logrus.Fields{"classifier": kind.String()},
			"> Training %s finished in %s", kind, reports[i].Duration.Round(time.Second))
		return nil
	}

	if t.config.Parallel {
		var wg sync.WaitGroup
		errs := make([]error, len(kinds))
		for i := range kinds {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = fitOne(i)
			}(i)
		}
		wg.Wait()
		if err := errors.Join(errs...); err != nil {
			return nil, nil, err
		}
	} else {
		for i := range kinds {
			if err := fitOne(i); err != nil {
				return nil, nil, err
			}
		}
	}

	t.setState(Persisted)

	t.mu.Lock()
	for _, c := range classifiers {
		t.trained.Add(c)
	}
	t.mu.Unlock()

	progress.finish()
	return NewClassifierSet(classifiers...), reports, nil
}

// TrainedClassifiers returns everything this Trainer has fitted so far.
func (t *Trainer) TrainedClassifiers() *ClassifierSet {
	t.mu.Lock()
	defer t.mu.Unlock()
	return NewClassifierSet(t.trained.Classifiers()...)
}

// GetClassifiers loads the configured roster from the store when every
// classifier is persisted, and trains it otherwise. With no corpus path and
// a missing artifact it fails with ErrCorpusMissing.
func (t *Trainer) GetClassifiers(ctx context.Context) (*ClassifierSet, error) {
	kinds, err := ParseRoster(t.config.Roster)
	if err != nil {
		return nil, err
	}

	names, err := t.store.Names()
	if err != nil {
		return nil, err
	}

	missing := false
	for _, kind := range kinds {
		if !names[kind.String()] {
			missing = true
			break
		}
	}

	if missing {
		if t.config.CorpusPath == "" {
			return nil, ErrCorpusMissing
		}
		report(t.console, nil, "> Training the classifiers:")
		set, _, err := t.Train(ctx, t.config.Roster)
		return set, err
	}

	report(t.console, nil, "> Getting the trained classifiers:")
	set := NewClassifierSet()
	for i, kind := range kinds {
		c, err := LoadClassifier(t.store, kind)
		if errors.Is(err, fs.ErrNotExist) {
			if t.config.CorpusPath == "" {
				return nil, ErrCorpusMissing
			}
			set, _, err := t.Train(ctx, t.config.Roster)
			return set, err
		}
		if err != nil {
			return nil, err
		}
		report(t.console, nil, "  %d. %s", i+1, kind)
		set.Add(c)
	}
	report(t.console, nil, "  %d. vader classifier", len(kinds)+1)
	report(t.console, nil, "  %d. anew classifier", len(kinds)+2)
	return set, nil
}

// Accuracy returns the fraction of examples c labels correctly.
func Accuracy(c Classifier, examples []LabeledFeatures) float64 {
	if len(examples) == 0 {
		return 0
	}
	cm := mlmetrics.NewConfusionMatrix()
	for _, ex := range examples {
		cm.Observe(ex.Label.index(), c.Classify(ex.Features).index())
	}
	return cm.Accuracy()
}
