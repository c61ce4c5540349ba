package ytsentiment

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"sort"
	"testing"
)

func checkFolds(t *testing.T, folds []Fold, n int) {
	t.Helper()
	seen := make([]int, n)
	for i, f := range folds {
		if len(f.Train)+len(f.Test) != n {
			t.Errorf("fold %d covers %d items, want %d", i, len(f.Train)+len(f.Test), n)
		}
		inTest := make(map[int]bool, len(f.Test))
		for _, idx := range f.Test {
			inTest[idx] = true
			seen[idx]++
		}
		for _, idx := range f.Train {
			if inTest[idx] {
				t.Errorf("fold %d: item %d in both train and test", i, idx)
			}
		}
	}
	for idx, count := range seen {
		if count != 1 {
			t.Errorf("item %d tested %d times, want once", idx, count)
		}
	}
}

func TestKFold(t *testing.T) {
	tests := []struct {
		n, k  int
		sizes []int
	}{
		{10, 3, []int{4, 3, 3}},
		{10, 5, []int{2, 2, 2, 2, 2}},
		{7, 7, []int{1, 1, 1, 1, 1, 1, 1}},
		{5, 2, []int{3, 2}},
	}

	for _, tt := range tests {
		folds, err := KFold(tt.n, tt.k)
		if err != nil {
			t.Fatalf("KFold(%d, %d): %v", tt.n, tt.k, err)
		}
		if len(folds) != tt.k {
			t.Fatalf("KFold(%d, %d) returned %d folds", tt.n, tt.k, len(folds))
		}
		checkFolds(t, folds, tt.n)

		next := 0
		for i, f := range folds {
			if len(f.Test) != tt.sizes[i] {
				t.Errorf("KFold(%d, %d) fold %d has %d test items, want %d", tt.n, tt.k, i, len(f.Test), tt.sizes[i])
			}
			for _, idx := range f.Test {
				if idx != next {
					t.Errorf("KFold(%d, %d) fold %d is not contiguous", tt.n, tt.k, i)
				}
				next++
			}
		}
	}

	for _, bad := range [][2]int{{10, 1}, {10, 0}, {3, 4}} {
		if _, err := KFold(bad[0], bad[1]); err == nil {
			t.Errorf("KFold(%d, %d) should fail", bad[0], bad[1])
		}
	}
}

func TestStratifiedKFold(t *testing.T) {
	var labels []Label
	for i := 0; i < 12; i++ {
		labels = append(labels, Negative)
	}
	for i := 0; i < 8; i++ {
		labels = append(labels, Positive)
	}

	folds, err := StratifiedKFold(labels, 4)
	if err != nil {
		t.Fatal(err)
	}
	checkFolds(t, folds, len(labels))

	for i, f := range folds {
		var pos, neg int
		for _, idx := range f.Test {
			if labels[idx] == Positive {
				pos++
			} else {
				neg++
			}
		}
		if neg != 3 || pos != 2 {
			t.Errorf("fold %d holds %d negative and %d positive items, want 3 and 2", i, neg, pos)
		}
		if !sort.IntsAreSorted(f.Test) || !sort.IntsAreSorted(f.Train) {
			t.Errorf("fold %d indices are not sorted", i)
		}
	}

	if _, err := StratifiedKFold(labels[:3], 4); err == nil {
		t.Error("expected an error when k exceeds the item count")
	}
	if _, err := StratifiedKFold(labels, 1); err == nil {
		t.Error("expected an error for k < 2")
	}
}

func TestMethodAccuracy(t *testing.T) {
	m := MethodAccuracy{Name: MethodVoting, Folds: []float64{0.5, 1.0}}
	if math.Abs(m.Mean()-0.75) > 1e-12 {
		t.Errorf("Mean() = %f, want 0.75", m.Mean())
	}
	if math.Abs(m.Std()-0.25) > 1e-12 {
		t.Errorf("Std() = %f, want 0.25", m.Std())
	}

	empty := MethodAccuracy{Name: MethodANEW}
	if !math.IsNaN(empty.Mean()) || !math.IsNaN(empty.Std()) {
		t.Error("empty fold list should give NaN")
	}
}

func TestEvaluate(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		var progress progressRecorder
		config := DefaultEvaluationConfig()
		config.CorpusPath = writeCorpus(t, 10)
		config.Parallel = parallel
		config.Progress = progress.record

		result, err := NewEvaluator(config, nil, nil).Evaluate(context.Background(), 4)
		if err != nil {
			t.Fatalf("Evaluate: %v", err)
		}

		want := []string{MethodVoting, "NuSVC", "LR", "MNB", MethodVADER, MethodANEW}
		if len(result.Methods) != len(want) {
			t.Fatalf("got %d methods, want %d", len(result.Methods), len(want))
		}
		for i, m := range result.Methods {
			if m.Name != want[i] {
				t.Errorf("method %d is %s, want %s", i, m.Name, want[i])
			}
			if len(m.Folds) != 4 {
				t.Errorf("%s has %d folds, want 4", m.Name, len(m.Folds))
			}
			for _, acc := range m.Folds {
				if acc < 0 || acc > 1 {
					t.Errorf("%s fold accuracy %f outside [0, 1]", m.Name, acc)
				}
			}
		}

		if m, ok := result.Method("MNB"); !ok || m.Mean() < 0.9 {
			t.Errorf("MNB cross-validated accuracy %.2f, want >= 0.9", m.Mean())
		}
		if _, ok := result.Method("SVC"); ok {
			t.Error("SVC was not configured for cross-validation")
		}
		progress.check(t)
	}
}

func TestEvaluateErrors(t *testing.T) {
	config := DefaultEvaluationConfig()
	config.CorpusPath = filepath.Join(t.TempDir(), "missing")
	if _, err := NewEvaluator(config, nil, nil).Evaluate(context.Background(), 4); !errors.Is(err, ErrCorpusRead) {
		t.Errorf("missing corpus error = %v, want ErrCorpusRead", err)
	}

	config.CorpusPath = writeCorpus(t, 1)
	if _, err := NewEvaluator(config, nil, nil).Evaluate(context.Background(), 10); err == nil {
		t.Error("expected an error when k exceeds the corpus size")
	}
}

func TestTFIDFPipeline(t *testing.T) {
	docs := []TokenSequence{
		{"guitar", "melody", "melody"},
		{"guitar", "noise"},
	}
	p := fitTFIDF(docs)

	if p.vocab.Len() != 3 {
		t.Fatalf("vocabulary holds %d words, want 3", p.vocab.Len())
	}

	v := p.transform(TokenSequence{"melody", "melody", "noise", "unknownword"})
	if len(v.ids) != 2 {
		t.Fatalf("transform kept %d ids, want 2", len(v.ids))
	}
	if math.Abs(v.sqNorm()-1) > 1e-9 {
		t.Errorf("vector norm² = %f, want 1", v.sqNorm())
	}
	// melody occurs twice with the same idf as noise
	if v.vals[0] <= v.vals[1] {
		t.Errorf("melody weight %f should exceed noise weight %f", v.vals[0], v.vals[1])
	}

	if empty := p.transform(TokenSequence{"unknownword"}); len(empty.ids) != 0 {
		t.Errorf("unknown tokens produced %v", empty.ids)
	}
}
