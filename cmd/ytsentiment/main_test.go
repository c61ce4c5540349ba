package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestAffectLexiconWarning(t *testing.T) {
	log, hook := test.NewNullLogger()

	lexicon, err := affectLexicon(log, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(hook.Entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(hook.Entries))
	}
	entry := hook.LastEntry()
	if entry.Level != logrus.WarnLevel {
		t.Errorf("level %s, want warning", entry.Level)
	}
	if entry.Data["words"] != lexicon.Size() {
		t.Errorf("words field %v, want %d", entry.Data["words"], lexicon.Size())
	}

	hook.Reset()
	path := filepath.Join(t.TempDir(), "anew.json")
	data := []byte(`{"words": [{"word": "riff", "valence": 7.1, "arousal": 6.0, "dominance": 5.5}]}`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	lexicon, err = affectLexicon(log, path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := lexicon.Lookup("riff"); !ok {
		t.Error("external entry was not merged")
	}
	if len(hook.Entries) != 0 {
		t.Errorf("unexpected log entries with an external lexicon: %v", hook.Entries)
	}

	if _, err := affectLexicon(log, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing lexicon file")
	}
}
