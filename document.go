package ytsentiment

import (
	"strings"
	"sync"

	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// A DocOpt represents a setting that changes the document creation process.
//
// For example, it might attach a ground-truth label:
//
//	doc := ytsentiment.NewDocument("...", ytsentiment.WithLabel(ytsentiment.Positive))
type DocOpt func(doc *Document, opts *DocOpts)

// DocOpts controls the Document creation process.
type DocOpts struct {
	Segment bool // If true, split the text into sentences
}

// WithLabel attaches a ground-truth label to the document.
func WithLabel(label Label) DocOpt {
	return func(doc *Document, opts *DocOpts) {
		doc.Label = label
	}
}

// WithSegmentation can enable (the default) or disable sentence segmentation.
func WithSegmentation(include bool) DocOpt {
	return func(doc *Document, opts *DocOpts) {
		opts.Segment = include
	}
}

// A Document is a raw comment or corpus text with its normalized tokens. It
// is immutable once created.
type Document struct {
	Text  string
	Label Label

	tokens    TokenSequence
	features  WordFeatureSet
	sentences []string
}

// Tokens returns the document's normalized tokens.
func (doc *Document) Tokens() TokenSequence {
	return doc.tokens
}

// Features returns the document's word-feature set.
func (doc *Document) Features() WordFeatureSet {
	return doc.features
}

// Sentences returns the document's sentences, or nil when segmentation was
// disabled.
func (doc *Document) Sentences() []string {
	return doc.sentences
}

// Labeled pairs the document's features with its label.
func (doc *Document) Labeled() LabeledFeatures {
	return LabeledFeatures{Features: doc.features, Label: doc.Label}
}

var defaultOpts = DocOpts{
	Segment: true,
}

// NewDocument creates a Document according to the user-specified options.
func NewDocument(text string, opts ...DocOpt) *Document {
	doc := Document{Text: text}

	base := defaultOpts
	for _, applyOpt := range opts {
		applyOpt(&doc, &base)
	}

	doc.tokens = Normalize(text)
	doc.features = WordFeatures(doc.tokens)
	if base.Segment {
		doc.sentences = segment(text)
	}
	return &doc
}

var (
	segmenterOnce sync.Once
	segmenter     *sentences.DefaultSentenceTokenizer
	segmenterErr  error
)

// segment splits text into trimmed, non-empty sentences. If the English
// model fails to load the whole text is treated as a single sentence.
func segment(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	segmenterOnce.Do(func() {
		segmenter, segmenterErr = english.NewSentenceTokenizer(nil)
	})
	if segmenterErr != nil {
		return []string{strings.TrimSpace(text)}
	}

	var out []string
	for _, s := range segmenter.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}
