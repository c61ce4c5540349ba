package ytsentiment

import (
	"context"
	"math"
	"testing"

	"gopkg.in/mgo.v2/bson"
)

func TestParseLikes(t *testing.T) {
	tests := []struct {
		in       string
		expected float64
		wantErr  bool
	}{
		{"", 0, false},
		{"12", 12, false},
		{" 7 ", 7, false},
		{"1,234", 1234, false},
		{"1.2K", 1200, false},
		{"3m", 3e6, false},
		{"lots", 0, true},
		{"K", 0, true},
	}

	for _, tt := range tests {
		got, err := parseLikes(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseLikes(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil || math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("parseLikes(%q) = %f, %v; want %f", tt.in, got, err, tt.expected)
		}
	}
}

func TestLikeCountBSON(t *testing.T) {
	tests := []struct {
		value    interface{}
		expected LikeCount
	}{
		{5, 5},
		{int64(70000000000), 70000000000},
		{2.5, 2.5},
		{"1.2K", 1200},
		{nil, 0},
	}

	for _, tt := range tests {
		raw, err := bson.Marshal(bson.M{"cid": "c1", "text": "nice riff", "nr_likes": tt.value})
		if err != nil {
			t.Fatal(err)
		}
		var c Comment
		if err := bson.Unmarshal(raw, &c); err != nil {
			t.Fatalf("Unmarshal(%v): %v", tt.value, err)
		}
		if c.Likes != tt.expected || c.CID != "c1" || c.Text != "nice riff" {
			t.Errorf("nr_likes %v decoded as %+v", tt.value, c)
		}
	}

	raw, _ := bson.Marshal(bson.M{"nr_likes": "many"})
	var c Comment
	if err := bson.Unmarshal(raw, &c); err == nil {
		t.Error("expected an error for an unparsable like count")
	}
}

func testVideos() StaticSource {
	return StaticSource{
		{
			ID:    "v1",
			Title: "Guitar lesson",
			Comments: []Comment{
				{CID: "a", Author: "ann", Text: "I love this guitar lesson, amazing melody!", Likes: 10},
				{CID: "b", Author: "bob", Text: "Boring and awful, worst lesson ever.", Likes: 0},
			},
		},
		{ID: "v2", Title: "Empty video"},
		{
			ID:    "v3",
			Title: "Drum cover",
			Comments: []Comment{
				{CID: "c", Author: "cid", Text: "The drummer is wonderful. Great cover!", Likes: 250},
			},
		},
	}
}

func TestAnalyze(t *testing.T) {
	var progress progressRecorder
	analyzer := NewAnalyzer(nil, nil, progress.record)

	result, err := analyzer.Analyze(context.Background(), testVideos(), AnyLikes)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Comments) != 3 {
		t.Fatalf("analyzed %d comments, want 3", len(result.Comments))
	}

	first := result.Comments[0]
	if first.Video != "Guitar lesson" || first.Author != "ann" || first.Likes != 10 {
		t.Errorf("unexpected metadata %+v", first)
	}
	if first.Sentiment <= result.Comments[1].Sentiment {
		t.Errorf("positive comment %.3f should outscore negative %.3f", first.Sentiment, result.Comments[1].Sentiment)
	}
	for _, r := range result.Comments {
		if r.Confidence < 0.5 || r.Confidence > 1 {
			t.Errorf("confidence %.2f outside [0.5, 1] for %q", r.Confidence, r.Text)
		}
	}
	if got := len(result.Comments[2].Sentences); got != 2 {
		t.Errorf("got %d sentences, want 2: %v", got, result.Comments[2].Sentences)
	}

	if result.Pool.Len() == 0 {
		t.Error("token pool is empty")
	}
	if top := result.MostCommon(1); len(top) != 1 || top[0].Word != "lesson" || top[0].Count != 2 {
		t.Errorf("MostCommon(1) = %v", top)
	}
	progress.check(t)
}

func TestAnalyzeLikeFilter(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil, nil)

	result, err := analyzer.Analyze(context.Background(), testVideos(), LikeRange{Min: 10, Max: 100})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Comments) != 1 || result.Comments[0].Author != "ann" {
		t.Errorf("like filter kept %+v", result.Comments)
	}
	for _, wc := range result.MostCommon(0) {
		if wc.Word == "drummer" {
			t.Error("tokens of a filtered comment reached the pool")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := analyzer.Analyze(ctx, testVideos(), AnyLikes); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}

func TestScore(t *testing.T) {
	r := NewAnalyzer(nil, nil, nil).Score("I love this song. The guitar is amazing!")
	if r.Sentiment <= 0 {
		t.Errorf("sentiment %.3f, want positive", r.Sentiment)
	}
	if r.Arousal <= 0 {
		t.Errorf("arousal %.3f, want positive", r.Arousal)
	}
	if len(r.Sentences) != 2 {
		t.Errorf("sentences %v", r.Sentences)
	}
}
