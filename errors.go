package ytsentiment

import "errors"

var (
	// ErrCorpusRead is returned when the corpus location is missing or
	// unreadable.
	ErrCorpusRead = errors.New("corpus unreadable")

	// ErrInvalidClassifier is returned for a roster entry that does not
	// name a known classifier.
	ErrInvalidClassifier = errors.New("invalid classifier")

	// ErrCorpusMissing is returned when a classifier is neither persisted
	// nor trainable because no corpus path was configured.
	ErrCorpusMissing = errors.New("no persisted classifier and no corpus to train one")

	// ErrDegenerateInterval marks a zero-width source range in Rescale. It
	// is recovered locally and never returned to callers of the ensemble.
	ErrDegenerateInterval = errors.New("degenerate interval")

	// ErrUntrained is returned when a classifier is used before training.
	ErrUntrained = errors.New("classifier not trained")
)
