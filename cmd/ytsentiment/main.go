package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/sirupsen/logrus"

	"github.com/tsawler/ytsentiment"
)

var (
	configFile string
	corpusPath string
	maxDocs    int
	roster     string
	folds      int
	plotFile   string
	keyword    string
	minLikes   float64
	maxLikes   float64
	topWords   int
)

var logger = logrus.New()

// setup merges the config file and command-line flags.
func setup() (ytsentiment.Config, error) {
	cfg := ytsentiment.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = ytsentiment.LoadConfig(configFile); err != nil {
			return cfg, err
		}
	}
	if corpusPath != "" {
		cfg.CorpusPath = corpusPath
	}
	if maxDocs != 0 {
		cfg.MaxDocs = maxDocs
	}
	if roster != "" {
		cfg.Classifiers = strings.Split(roster, ",")
	}
	if folds != 0 {
		cfg.Folds = folds
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, err
	}
	logger.SetLevel(level)
	return cfg, cfg.Validate()
}

func progressLogger(stage string) ytsentiment.ProgressFunc {
	return func(done float64) {
		logger.WithField("stage", stage).Debugf("progress %.0f%%", done)
	}
}

// affectLexicon loads the built-in lexicon merged with path. Without a
// path only the small built-in lexicon is available, so it warns.
func affectLexicon(log logrus.FieldLogger, path string) (*ytsentiment.AffectLexicon, error) {
	lexicon, err := ytsentiment.LoadAffectLexiconWithExternal(path)
	if err != nil {
		return nil, err
	}
	if path == "" {
		log.WithField("words", lexicon.Size()).Warn(
			"affect_lexicon is not set: using the built-in lexicon, comments without a known word get valence 0 and vote negative")
	}
	return lexicon, nil
}

// voteClassifier loads or trains the roster and builds the ensemble.
func voteClassifier(ctx context.Context, cfg ytsentiment.Config) (*ytsentiment.VoteClassifier, error) {
	lexicon, err := affectLexicon(logger, cfg.AffectLexicon)
	if err != nil {
		return nil, err
	}

	tc := cfg.TrainingConfig()
	tc.Progress = progressLogger("train")
	trainer := ytsentiment.NewTrainer(tc, ytsentiment.NewFileStore(cfg.ClassifierDir), ytsentiment.NewLogConsole(logger))
	classifiers, err := trainer.GetClassifiers(ctx)
	if err != nil {
		return nil, err
	}
	return ytsentiment.NewVoteClassifier(classifiers, nil, ytsentiment.NewAffectScorer(lexicon)), nil
}

func runTrain(cmd *commander.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	tc := cfg.TrainingConfig()
	tc.Progress = progressLogger("train")
	trainer := ytsentiment.NewTrainer(tc, ytsentiment.NewFileStore(cfg.ClassifierDir), ytsentiment.NewLogConsole(logger))

	_, reports, err := trainer.Train(context.Background(), cfg.Classifiers)
	if err != nil {
		return err
	}
	for _, r := range reports {
		fmt.Printf("%-25s %6.2f%%  %s\n", r.Kind, r.Accuracy*100, r.Duration)
	}
	return nil
}

func runEvaluate(cmd *commander.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	ctx := context.Background()

	vote, err := voteClassifier(ctx, cfg)
	if err != nil {
		return err
	}
	ec := cfg.EvaluationConfig()
	ec.Progress = progressLogger("evaluate")
	result, err := ytsentiment.NewEvaluator(ec, vote, ytsentiment.NewLogConsole(logger)).Evaluate(ctx, cfg.Folds)
	if err != nil {
		return err
	}
	for _, m := range result.Methods {
		fmt.Printf("%-7s %f (%f)\n", m.Name, m.Mean(), m.Std())
	}
	if plotFile != "" {
		return ytsentiment.SaveAccuracyPlot(result, plotFile)
	}
	return nil
}

func runAnalyze(cmd *commander.Command, args []string) error {
	if keyword == "" {
		return fmt.Errorf("analyze: -keyword is required")
	}
	cfg, err := setup()
	if err != nil {
		return err
	}
	ctx := context.Background()

	vote, err := voteClassifier(ctx, cfg)
	if err != nil {
		return err
	}
	source, err := ytsentiment.DialMongo(cfg.MongoURL, keyword)
	if err != nil {
		return err
	}
	defer source.Close()

	analyzer := ytsentiment.NewAnalyzer(vote, ytsentiment.NewLogConsole(logger), progressLogger("analyze"))
	result, err := analyzer.Analyze(ctx, source, ytsentiment.LikeRange{Min: minLikes, Max: maxLikes})
	if err != nil {
		return err
	}
	for _, r := range result.Comments {
		fmt.Printf("%+.3f  %.2f  %s: %s\n", r.Sentiment, r.Confidence, r.Author, r.Text)
	}
	for _, wc := range result.MostCommon(topWords) {
		fmt.Printf("%-20s %d\n", wc.Word, wc.Count)
	}
	return nil
}

func runScore(cmd *commander.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("score: no text given")
	}
	cfg, err := setup()
	if err != nil {
		return err
	}
	vote, err := voteClassifier(context.Background(), cfg)
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	r := ytsentiment.NewAnalyzer(vote, nil, nil).Score(text)
	fmt.Printf("sentiment:  %+.3f\nconfidence: %.2f\narousal:    %.2f\n", r.Sentiment, r.Confidence, r.Arousal)
	return nil
}

func commonFlags(cmd *commander.Command) {
	cmd.Flag.StringVar(&configFile, "config", "", "YAML configuration file")
	cmd.Flag.StringVar(&corpusPath, "corpus", "", "Labeled corpus root (train/pos, train/neg, test/pos, test/neg)")
	cmd.Flag.IntVar(&maxDocs, "max", 0, "Document cap; -1 reads every document")
	cmd.Flag.StringVar(&roster, "classifiers", "", "Comma separated classifier names")
}

func newCommand(name, short, long string, run func(*commander.Command, []string) error) *commander.Command {
	cmd := &commander.Command{
		Run:       run,
		UsageLine: name + " [options]",
		Short:     short,
		Long:      long,
		Flag:      *flag.NewFlagSet(name, flag.ExitOnError),
	}
	commonFlags(cmd)
	return cmd
}

func main() {
	train := newCommand("train", "train and persist the classifier roster", `
train fits every classifier of the roster on the corpus split, reports its
held-out accuracy and stores it in the classifier directory.

	$ ytsentiment train -corpus ./aclImdb -max 2000
`, runTrain)

	evaluate := newCommand("evaluate", "cross-validate the ensemble and its members", `
evaluate runs k-fold cross-validation of the voting ensemble, the lexicon
scorers and the individual classifiers.

	$ ytsentiment evaluate -corpus ./aclImdb -k 10 -plot accuracy.png
`, runEvaluate)
	evaluate.Flag.IntVar(&folds, "k", 0, "Number of folds")
	evaluate.Flag.StringVar(&plotFile, "plot", "", "Write a box plot of the results")

	analyze := newCommand("analyze", "score the stored comments of a keyword", `
analyze scores every stored comment of a search keyword and prints the most
frequent words.

	$ ytsentiment analyze -keyword "guitar lesson" -min-likes 1
`, runAnalyze)
	analyze.Flag.StringVar(&keyword, "keyword", "", "Search keyword whose comments are analyzed")
	analyze.Flag.Float64Var(&minLikes, "min-likes", 0, "Minimum like count")
	analyze.Flag.Float64Var(&maxLikes, "max-likes", 1e12, "Maximum like count")
	analyze.Flag.IntVar(&topWords, "top", 20, "Number of frequent words to print")

	score := newCommand("score", "score a single comment", `
score prints the ensemble sentiment and confidence of the given text.

	$ ytsentiment score "this drummer is amazing"
`, runScore)

	root := &commander.Command{
		UsageLine:   "ytsentiment <command> [options]",
		Short:       "YouTube comment sentiment analysis",
		Subcommands: []*commander.Command{train, evaluate, analyze, score},
		Flag:        *flag.NewFlagSet("ytsentiment", flag.ExitOnError),
	}

	if err := root.Dispatch(os.Args[1:]); err != nil {
		logger.Errorf("**err**: %v", err)
		os.Exit(1)
	}
}
