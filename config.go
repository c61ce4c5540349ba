package ytsentiment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the file configuration of the command-line front end.
type Config struct {
	CorpusPath    string   `yaml:"corpus_path"`
	MaxDocs       int      `yaml:"max_docs"`
	Classifiers   []string `yaml:"classifiers"`
	Folds         int      `yaml:"folds"`
	ClassifierDir string   `yaml:"classifier_dir"`
	AffectLexicon string   `yaml:"affect_lexicon"`
	MongoURL      string   `yaml:"mongo_url"`
	LogLevel      string   `yaml:"log_level"`
	Parallel      bool     `yaml:"parallel"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		MaxDocs:       Unlimited,
		Folds:         10,
		ClassifierDir: "classifiers",
		MongoURL:      "mongodb://localhost:27017",
		LogLevel:      "info",
	}
}

// LoadConfig reads a YAML file over the defaults. Keys absent from the file
// keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a run.
func (c Config) Validate() error {
	if c.MaxDocs < Unlimited {
		return fmt.Errorf("max_docs must be -1 or non-negative, got %d", c.MaxDocs)
	}
	if c.Folds < 2 {
		return fmt.Errorf("folds must be at least 2, got %d", c.Folds)
	}
	if _, err := ParseRoster(c.Classifiers); err != nil {
		return err
	}
	return nil
}

// TrainingConfig derives the trainer configuration.
func (c Config) TrainingConfig() TrainingConfig {
	tc := DefaultTrainingConfig()
	tc.CorpusPath = c.CorpusPath
	tc.MaxDocs = c.MaxDocs
	tc.Roster = c.Classifiers
	tc.Parallel = c.Parallel
	return tc
}

// EvaluationConfig derives the evaluator configuration.
func (c Config) EvaluationConfig() EvaluationConfig {
	ec := DefaultEvaluationConfig()
	ec.CorpusPath = c.CorpusPath
	ec.MaxDocs = c.MaxDocs
	ec.Parallel = c.Parallel
	return ec
}
