package ytsentiment

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// trimSet holds the punctuation stripped from both ends of every token.
const trimSet = ":,.!?"

// minTokenLength is the shortest token (in runes) kept by Normalize.
const minTokenLength = 3

// TokenTester reports whether a lowercased token must be dropped.
type TokenTester func(string) bool

// exclusions are evaluated in order; a token matching any of them is dropped.
var exclusions = []TokenTester{
	func(w string) bool { return !isAlpha(w) },
	func(w string) bool { return utf8.RuneCountInString(w) < minTokenLength },
	func(w string) bool { return strings.HasPrefix(w, "#") },
	func(w string) bool { return strings.HasPrefix(w, "+") },
	func(w string) bool { return strings.HasPrefix(w, "@") },
	func(w string) bool { return strings.HasPrefix(w, "http") || strings.HasPrefix(w, "www") },
	isStopword,
}

// Normalize splits raw comment text on whitespace, lowercases and trims each
// token, and drops stopwords, non-alphabetic tokens, short tokens, hashtags,
// boosted hashtags, mentions and links. Empty input yields an empty sequence.
func Normalize(text string) TokenSequence {
	fields := strings.Fields(text)
	tokens := make(TokenSequence, 0, len(fields))

	for _, field := range fields {
		word := strings.Trim(strings.ToLower(field), trimSet)
		if excluded(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func excluded(word string) bool {
	for _, test := range exclusions {
		if test(word) {
			return true
		}
	}
	return false
}

func isAlpha(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

var featureWordRE = regexp.MustCompile(`^[a-zA-Z_]*$`)

// WordFeatures converts tokens into a boolean bag-of-words. Tokens that are
// not plain ASCII words are skipped rather than mapped to an empty key.
func WordFeatures(tokens TokenSequence) WordFeatureSet {
	features := make(WordFeatureSet, len(tokens))
	for _, token := range tokens {
		if token == "" || !featureWordRE.MatchString(token) {
			continue
		}
		features[strings.ToLower(token)] = true
	}
	return features
}

// A TokenPool is the cumulative accumulator of normalized tokens across an
// analysis session. The caller owns it and appends each comment's tokens.
type TokenPool struct {
	mu     sync.RWMutex
	tokens []string
	counts map[string]int
}

// NewTokenPool creates an empty pool.
func NewTokenPool() *TokenPool {
	return &TokenPool{counts: make(map[string]int)}
}

// Append adds a token sequence to the pool.
func (tp *TokenPool) Append(tokens TokenSequence) {
	if len(tokens) == 0 {
		return
	}
	tp.mu.Lock()
	defer tp.mu.Unlock()

	tp.tokens = append(tp.tokens, tokens...)
	for _, t := range tokens {
		tp.counts[t]++
	}
}

// Tokens returns a copy of every token appended so far, in order.
func (tp *TokenPool) Tokens() TokenSequence {
	tp.mu.RLock()
	defer tp.mu.RUnlock()

	out := make(TokenSequence, len(tp.tokens))
	copy(out, tp.tokens)
	return out
}

// Len returns the number of tokens in the pool.
func (tp *TokenPool) Len() int {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return len(tp.tokens)
}

// Frequencies returns a copy of the word counts.
func (tp *TokenPool) Frequencies() map[string]int {
	tp.mu.RLock()
	defer tp.mu.RUnlock()

	out := make(map[string]int, len(tp.counts))
	for w, c := range tp.counts {
		out[w] = c
	}
	return out
}

// WordCount is a word with its number of occurrences.
type WordCount struct {
	Word  string
	Count int
}

// MostCommon returns the n most frequent words, ordered by count and then
// alphabetically. n <= 0 returns every word.
func (tp *TokenPool) MostCommon(n int) []WordCount {
	tp.mu.RLock()
	counts := make([]WordCount, 0, len(tp.counts))
	for w, c := range tp.counts {
		counts = append(counts, WordCount{Word: w, Count: c})
	}
	tp.mu.RUnlock()

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Word < counts[j].Word
	})
	if n > 0 && n < len(counts) {
		counts = counts[:n]
	}
	return counts
}
