package ytsentiment

import (
	"reflect"
	"sync"
	"testing"
)

func TestNormalizeCleanInputUnchanged(t *testing.T) {
	tests := []TokenSequence{
		{"guitar", "drummer", "melody"},
		{"melody", "guitar"},
		{"drummer"},
		{},
	}

	for _, want := range tests {
		text := ""
		for i, w := range want {
			if i > 0 {
				text += " "
			}
			text += w
		}
		got := Normalize(text)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Normalize(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestNormalizeExclusions(t *testing.T) {
	got := Normalize("I love this guitar #great @user http://x.com")

	for _, excluded := range []string{"#great", "great", "@user", "user", "http://x.com", "i", "this"} {
		for _, tok := range got {
			if tok == excluded {
				t.Errorf("token %q should have been excluded, got %v", excluded, got)
			}
		}
	}

	found := false
	for _, tok := range got {
		if tok == "guitar" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected guitar in %v", got)
	}
}

func TestNormalizeRules(t *testing.T) {
	tests := []struct {
		text     string
		expected TokenSequence
		desc     string
	}{
		{"", TokenSequence{}, "Empty text"},
		{"   \t\n ", TokenSequence{}, "Whitespace only"},
		{"GUITAR Drummer", TokenSequence{"guitar", "drummer"}, "Lowercased"},
		{"guitar!!! drummer, melody.", TokenSequence{"guitar", "drummer", "melody"}, "Trailing punctuation"},
		{"...guitar?", TokenSequence{"guitar"}, "Leading punctuation"},
		{"guitar2 rock'n'roll drummer", TokenSequence{"drummer"}, "Non-alphabetic"},
		{"ok no guitar", TokenSequence{"guitar"}, "Too short"},
		{"+boosted #tag @someone drummer", TokenSequence{"drummer"}, "Hashtags and mentions"},
		{"www.example.com https://example.com melody", TokenSequence{"melody"}, "Links"},
		{"the and melody because", TokenSequence{"melody"}, "Stopwords"},
		{"well played, please upload the last part first", TokenSequence{"well", "played", "please", "upload", "last", "part", "first"}, "Words outside the stopword list"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := Normalize(tt.text)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Normalize(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestWordFeatures(t *testing.T) {
	features := WordFeatures(TokenSequence{"guitar", "café", "melody", "guitar", ""})

	expected := WordFeatureSet{"guitar": true, "melody": true}
	if !reflect.DeepEqual(features, expected) {
		t.Errorf("WordFeatures = %v, want %v", features, expected)
	}
	if words := features.Words(); !reflect.DeepEqual(words, []string{"guitar", "melody"}) {
		t.Errorf("Words() = %v", words)
	}
}

func TestStopwords(t *testing.T) {
	for _, w := range []string{"the", "and", "i", "this", "because"} {
		if !isStopword(w) {
			t.Errorf("expected %q to be a stopword", w)
		}
	}
	for _, w := range englishStopwords {
		if !isStopword(w) {
			t.Errorf("list entry %q not treated as a stopword", w)
		}
	}
	// words outside the fixed list carry sentiment and are kept
	for _, w := range []string{"guitar", "drummer", "melody", "well", "please", "first", "last", "great"} {
		if isStopword(w) {
			t.Errorf("did not expect %q to be a stopword", w)
		}
	}

	list := Stopwords()
	list[0] = "changed"
	if Stopwords()[0] == "changed" {
		t.Error("Stopwords must return a copy")
	}
}

func TestTokenPool(t *testing.T) {
	pool := NewTokenPool()
	pool.Append(Normalize(""))
	if pool.Len() != 0 {
		t.Fatalf("empty append changed the pool: %d tokens", pool.Len())
	}

	pool.Append(TokenSequence{"guitar", "melody"})
	pool.Append(TokenSequence{"guitar", "drummer"})
	pool.Append(TokenSequence{"guitar", "melody"})

	if pool.Len() != 6 {
		t.Errorf("Len() = %d, want 6", pool.Len())
	}

	freq := pool.Frequencies()
	if freq["guitar"] != 3 || freq["melody"] != 2 || freq["drummer"] != 1 {
		t.Errorf("unexpected frequencies %v", freq)
	}

	want := []WordCount{{"guitar", 3}, {"melody", 2}, {"drummer", 1}}
	if got := pool.MostCommon(0); !reflect.DeepEqual(got, want) {
		t.Errorf("MostCommon(0) = %v, want %v", got, want)
	}
	if got := pool.MostCommon(2); !reflect.DeepEqual(got, want[:2]) {
		t.Errorf("MostCommon(2) = %v, want %v", got, want[:2])
	}

	tokens := pool.Tokens()
	tokens[0] = "changed"
	if pool.Tokens()[0] != "guitar" {
		t.Error("Tokens must return a copy")
	}
}

func TestTokenPoolConcurrentAppend(t *testing.T) {
	pool := NewTokenPool()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Append(TokenSequence{"guitar", "melody"})
		}()
	}
	wg.Wait()

	if pool.Len() != 40 {
		t.Errorf("Len() = %d, want 40", pool.Len())
	}
	if pool.Frequencies()["guitar"] != 20 {
		t.Errorf("guitar count = %d, want 20", pool.Frequencies()["guitar"])
	}
}

func BenchmarkNormalize(b *testing.B) {
	text := "This drummer is absolutely AMAZING!!! Check www.example.com #drums @band"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Normalize(text)
	}
}
