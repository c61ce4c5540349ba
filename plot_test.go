package ytsentiment

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAccuracyPlot(t *testing.T) {
	result := EvaluationResult{Methods: []MethodAccuracy{
		{Name: MethodVoting, Folds: []float64{0.71, 0.74, 0.69, 0.72}},
		{Name: "MNB", Folds: []float64{0.80, 0.82, 0.79, 0.81}},
		{Name: MethodVADER, Folds: []float64{0.65, 0.66, 0.64, 0.70}},
	}}

	path := filepath.Join(t.TempDir(), "accuracy.png")
	if err := SaveAccuracyPlot(result, path); err != nil {
		t.Fatalf("SaveAccuracyPlot: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}

	if err := SaveAccuracyPlot(EvaluationResult{}, filepath.Join(t.TempDir(), "empty.png")); err == nil {
		t.Error("expected an error for a result without methods")
	}
}
