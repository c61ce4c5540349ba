package ytsentiment

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// LikeRange selects comments by like count, bounds included.
type LikeRange struct {
	Min float64
	Max float64
}

// AnyLikes accepts every comment.
var AnyLikes = LikeRange{Min: 0, Max: math.Inf(1)}

// Contains reports whether likes lies within the range.
func (r LikeRange) Contains(likes float64) bool {
	return r.Min <= likes && likes <= r.Max
}

// CommentResult is the scored form of one comment.
type CommentResult struct {
	Video      string
	Author     string
	Time       string
	Text       string
	Likes      float64
	Sentiment  float64 // Mean ensemble vote, about [-1, 1]
	Confidence float64 // Share of voters agreeing with the majority
	Arousal    float64 // Mean affect arousal, 0 when no token matched
	Sentences  []string
}

// AnalysisResult is the outcome of an analysis session.
type AnalysisResult struct {
	Comments []CommentResult
	Pool     *TokenPool // Tokens of every analyzed comment
	Duration time.Duration
}

// MostCommon returns the n most frequent words across all comments.
func (r AnalysisResult) MostCommon(n int) []WordCount {
	return r.Pool.MostCommon(n)
}

// Analyzer scores stored comments with the voting ensemble.
type Analyzer struct {
	vote     *VoteClassifier
	console  Console
	progress ProgressFunc
}

// NewAnalyzer creates an analyzer scoring with vote; nil votes with the
// lexicon scorers alone.
func NewAnalyzer(vote *VoteClassifier, console Console, progress ProgressFunc) *Analyzer {
	if vote == nil {
		vote = NewVoteClassifier(nil, nil, nil)
	}
	return &Analyzer{
		vote:     vote,
		console:  consoleOrDiscard(console),
		progress: progress,
	}
}

// Score scores a single comment text.
func (a *Analyzer) Score(text string) CommentResult {
	r, _ := a.score(text)
	return r
}

func (a *Analyzer) score(text string) (CommentResult, TokenSequence) {
	doc := NewDocument(text)
	sentiment, confidence := a.vote.Score(text, doc.Tokens())
	return CommentResult{
		Text:       text,
		Sentiment:  sentiment,
		Confidence: confidence,
		Arousal:    a.vote.affect.Score(doc.Tokens()).Arousal,
		Sentences:  doc.Sentences(),
	}, doc.Tokens()
}

// Analyze scores every comment of source whose like count is within likes
// and accumulates the tokens of the scored comments.
func (a *Analyzer) Analyze(ctx context.Context, source CommentSource, likes LikeRange) (AnalysisResult, error) {
	start := time.Now()
	videos, err := source.Videos(ctx)
	if err != nil {
		return AnalysisResult{}, err
	}

	result := AnalysisResult{Pool: NewTokenPool()}
	progress := newProgressCounter(a.progress)

	for _, video := range videos {
		if len(video.Comments) == 0 {
			progress.add(100 / float64(len(videos)))
			continue
		}
		step := 100 / float64(len(videos)) / float64(len(video.Comments))

		for _, comment := range video.Comments {
			select {
			case <-ctx.Done():
				return AnalysisResult{}, ctx.Err()
			default:
			}

			if likeCount := float64(comment.Likes); likes.Contains(likeCount) {
				r, tokens := a.score(comment.Text)
				r.Video = video.Title
				r.Author = comment.Author
				r.Time = comment.Time
				r.Likes = likeCount
				result.Comments = append(result.Comments, r)
				result.Pool.Append(tokens)
			}
			progress.add(step)
		}
	}

	result.Duration = time.Since(start)
	report(a.console, logrus.Fields{"comments": len(result.Comments), "videos": len(videos)},
		"> Data processed in %s", result.Duration.Round(time.Second))
	progress.finish()
	return result, nil
}
