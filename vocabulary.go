package ytsentiment

import (
	"sort"

	"github.com/chewxy/lingo/corpus"
)

// Vocabulary assigns stable integer ids to feature words. Words are interned
// in a lingo corpus; the corpus ids are mapped onto a dense index so that
// vectors carry no slots for the corpus' reserved words. Adding the same
// words in the same order reproduces the ids exactly.
type Vocabulary struct {
	corpus *corpus.Corpus
	index  map[int]int // corpus id -> dense id
	words  []string
}

// NewVocabulary creates an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{corpus: corpus.New(), index: make(map[int]int)}
}

// vocabularyFromWords rebuilds a vocabulary from its persisted word order.
func vocabularyFromWords(words []string) *Vocabulary {
	v := NewVocabulary()
	for _, w := range words {
		v.Add(w)
	}
	return v
}

// Add registers word and returns its id.
func (v *Vocabulary) Add(word string) int {
	cid, ok := v.corpus.Id(word)
	if !ok {
		cid = v.corpus.Add(word)
	}
	if id, ok := v.index[cid]; ok {
		return id
	}
	id := len(v.words)
	v.index[cid] = id
	v.words = append(v.words, word)
	return id
}

// ID returns the id of a known word.
func (v *Vocabulary) ID(word string) (int, bool) {
	cid, ok := v.corpus.Id(word)
	if !ok {
		return 0, false
	}
	id, ok := v.index[cid]
	return id, ok
}

// Dim is the length of dense vectors indexed by this vocabulary.
func (v *Vocabulary) Dim() int {
	return len(v.words)
}

// Len returns the number of words added.
func (v *Vocabulary) Len() int {
	return len(v.words)
}

// Words returns the words in id order.
func (v *Vocabulary) Words() []string {
	out := make([]string, len(v.words))
	copy(out, v.words)
	return out
}

// encode maps the present, known words of fs onto a binary sparse vector.
// Unknown words are ignored.
func (v *Vocabulary) encode(fs WordFeatureSet) sparseVector {
	ids := make([]int, 0, len(fs))
	for w, present := range fs {
		if !present {
			continue
		}
		if id, ok := v.ID(w); ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	vals := make([]float64, len(ids))
	for i := range vals {
		vals[i] = 1
	}
	return sparseVector{ids: ids, vals: vals}
}

// sparseVector is a feature vector holding only its non-zero entries.
type sparseVector struct {
	ids  []int
	vals []float64
}

// dot returns the inner product with a dense weight slice.
func (sv sparseVector) dot(w []float64) float64 {
	var sum float64
	for i, id := range sv.ids {
		sum += w[id] * sv.vals[i]
	}
	return sum
}

// sqNorm returns the squared euclidean norm.
func (sv sparseVector) sqNorm() float64 {
	var sum float64
	for _, v := range sv.vals {
		sum += v * v
	}
	return sum
}
