package ytsentiment

import (
	"reflect"
	"testing"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument("Great guitar tone. The drummer is amazing!")

	if want := []string{"Great guitar tone.", "The drummer is amazing!"}; !reflect.DeepEqual(doc.Sentences(), want) {
		t.Errorf("Sentences() = %q, want %q", doc.Sentences(), want)
	}
	if doc.Label != Unlabeled {
		t.Errorf("Label = %q, want unlabeled", doc.Label)
	}
	if !doc.Features()["guitar"] || !doc.Features()["drummer"] {
		t.Errorf("Features() = %v", doc.Features())
	}
	if !reflect.DeepEqual(WordFeatures(doc.Tokens()), doc.Features()) {
		t.Error("features do not match tokens")
	}
}

func TestDocumentOptions(t *testing.T) {
	doc := NewDocument("Great guitar tone. The drummer is amazing!", WithSegmentation(false), WithLabel(Positive))
	if doc.Sentences() != nil {
		t.Errorf("segmentation disabled, got %q", doc.Sentences())
	}

	lf := doc.Labeled()
	if lf.Label != Positive || !lf.Features["guitar"] {
		t.Errorf("Labeled() = %+v", lf)
	}

	if empty := NewDocument("   "); empty.Sentences() != nil || len(empty.Tokens()) != 0 {
		t.Errorf("blank document: sentences %q tokens %v", empty.Sentences(), empty.Tokens())
	}
}
