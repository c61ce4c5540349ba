package ytsentiment

import (
	"strings"
	"sync"

	"github.com/bbalet/stopwords"
)

// englishStopwords is the fixed NLTK English list. It replaces the
// bbalet/stopwords English dictionary, so words such as "well" or "first"
// that the library would also drop are kept.
var englishStopwords = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "you're",
	"you've", "you'll", "you'd", "your", "yours", "yourself", "yourselves", "he",
	"him", "his", "himself", "she", "she's", "her", "hers", "herself", "it", "it's",
	"its", "itself", "they", "them", "their", "theirs", "themselves", "what", "which",
	"who", "whom", "this", "that", "that'll", "these", "those", "am", "is", "are",
	"was", "were", "be", "been", "being", "have", "has", "had", "having", "do",
	"does", "did", "doing", "a", "an", "the", "and", "but", "if", "or", "because",
	"as", "until", "while", "of", "at", "by", "for", "with", "about", "against",
	"between", "into", "through", "during", "before", "after", "above", "below",
	"to", "from", "up", "down", "in", "out", "on", "off", "over", "under", "again",
	"further", "then", "once", "here", "there", "when", "where", "why", "how", "all",
	"any", "both", "each", "few", "more", "most", "other", "some", "such", "no",
	"nor", "not", "only", "own", "same", "so", "than", "too", "very", "s", "t",
	"can", "will", "just", "don", "don't", "should", "should've", "now", "d", "ll",
	"m", "o", "re", "ve", "y", "ain", "aren", "aren't", "couldn", "couldn't",
	"didn", "didn't", "doesn", "doesn't", "hadn", "hadn't", "hasn", "hasn't",
	"haven", "haven't", "isn", "isn't", "ma", "mightn", "mightn't", "mustn",
	"mustn't", "needn", "needn't", "shan", "shan't", "shouldn", "shouldn't", "wasn",
	"wasn't", "weren", "weren't", "won", "won't", "wouldn", "wouldn't",
}

var (
	stopwordOnce sync.Once

	// word -> bool, memoized bbalet/stopwords answers
	stopwordCache sync.Map
)

func loadStopwords() {
	stopwords.LoadStopWordsFromString(strings.Join(englishStopwords, "\n"), "en", "\n")
}

// isStopword reports whether word is on the fixed English list.
func isStopword(word string) bool {
	stopwordOnce.Do(loadStopwords)
	if cached, ok := stopwordCache.Load(word); ok {
		return cached.(bool)
	}
	// The library strips dictionary words, so a stopword cleans to nothing.
	cleaned := strings.TrimSpace(stopwords.CleanString(word, "en", false))
	stop := cleaned == ""
	stopwordCache.Store(word, stop)
	return stop
}

// Stopwords returns the fixed English stopword list.
func Stopwords() []string {
	out := make([]string, len(englishStopwords))
	copy(out, englishStopwords)
	return out
}
