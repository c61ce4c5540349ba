package ytsentiment

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// stateVersion is bumped whenever the layout of ClassifierState changes.
const stateVersion = 1

// ClassifierState is the serialized form of a trained classifier. Every
// per-feature slice has length Dim and is indexed by vocabulary id; the
// vocabulary is rebuilt by adding Vocabulary in order, which reproduces the
// ids. Class index 0 is negative and 1 is positive.
//
// Which fields are set depends on Kind:
//
//	MultinomialNB      LogPrior, FeatureLogProb
//	BernoulliNB        LogPrior, FeatureLogProb, NegLogProb
//	LogisticRegression Weights, Bias
//	SVC, NuSVC         Weights, Bias, PlattA, PlattB
type ClassifierState struct {
	Kind       ClassifierKind
	Version    int
	Vocabulary []string
	Dim        int

	Weights []float64
	Bias    float64

	LogPrior       [2]float64
	FeatureLogProb [2][]float64
	NegLogProb     [2][]float64

	PlattA float64
	PlattB float64
}

// MarshalClassifier encodes a trained classifier.
func MarshalClassifier(c Classifier) ([]byte, error) {
	bow, ok := c.(*bagOfWords)
	if !ok {
		return nil, fmt.Errorf("cannot marshal classifier of type %T", c)
	}
	if !bow.trained {
		return nil, ErrUntrained
	}

	state := ClassifierState{
		Kind:       bow.kind,
		Version:    stateVersion,
		Vocabulary: bow.vocab.Words(),
		Dim:        bow.vocab.Dim(),
	}
	bow.model.save(&state)

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&state); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", bow.kind, err)
	}
	return buf.Bytes(), nil
}

// UnmarshalClassifier decodes a classifier produced by MarshalClassifier.
func UnmarshalClassifier(data []byte) (Classifier, error) {
	var state ClassifierState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return nil, fmt.Errorf("decoding classifier: %w", err)
	}
	if state.Version != stateVersion {
		return nil, fmt.Errorf("classifier state version %d, want %d", state.Version, stateVersion)
	}

	m, err := newModel(state.Kind)
	if err != nil {
		return nil, err
	}

	vocab := vocabularyFromWords(state.Vocabulary)
	if vocab.Dim() != state.Dim {
		return nil, fmt.Errorf("%s: vocabulary dimension %d, want %d", state.Kind, vocab.Dim(), state.Dim)
	}
	if err := m.restore(&state); err != nil {
		return nil, fmt.Errorf("%s: %w", state.Kind, err)
	}
	return &bagOfWords{kind: state.Kind, vocab: vocab, model: m, trained: true}, nil
}

// A ClassifierStore persists serialized classifiers by name.
type ClassifierStore interface {
	Persist(name string, data []byte) error
	Load(name string) ([]byte, error)
	Names() (map[string]bool, error)
}

const artifactExt = ".gob"

// FileStore keeps one <name>.gob file per classifier in Dir. Writes go to a
// temporary file that is renamed into place, so a loader never observes a
// partial artifact. Writers to the same name are serialized.
type FileStore struct {
	Dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locks == nil {
		s.locks = make(map[string]*sync.Mutex)
	}
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

// Persist atomically writes data under name.
func (s *FileStore) Persist(name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	l := s.lock(name)
	l.Lock()
	defer l.Unlock()

	if err := os.MkdirAll(s.Dir, os.ModePerm); err != nil {
		return err
	}

	tmpPath := filepath.Join(s.Dir, "."+name+"-"+uuid.NewString()+".tmp")
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}

	published := false
	defer func() {
		if !published {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.Dir, name+artifactExt)); err != nil {
		return fmt.Errorf("publishing %s: %w", name, err)
	}
	published = true

	// the rename is durable once the directory entry is
	if err := syncDir(s.Dir); err != nil {
		return fmt.Errorf("publishing %s: %w", name, err)
	}
	return nil
}

// syncDir fsyncs a directory so renamed entries survive a crash.
func syncDir(path string) error {
	d, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("sync dir open %s: %w", path, err)
	}
	if err := d.Sync(); err != nil {
		d.Close()
		return fmt.Errorf("sync dir %s: %w", path, err)
	}
	return d.Close()
}

// Load reads the artifact stored under name. A missing artifact yields an
// error wrapping fs.ErrNotExist.
func (s *FileStore) Load(name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(os.DirFS(s.Dir), name+artifactExt)
	if err != nil {
		return nil, fmt.Errorf("loading classifier %s: %w", name, err)
	}
	return data, nil
}

// Names lists the persisted classifier names. A missing directory holds no
// classifiers.
func (s *FileStore) Names() (map[string]bool, error) {
	names := make(map[string]bool)
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return names, nil
	}
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		file := entry.Name()
		if entry.IsDir() || strings.HasPrefix(file, ".") || filepath.Ext(file) != artifactExt {
			continue
		}
		names[strings.TrimSuffix(file, artifactExt)] = true
	}
	return names, nil
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid classifier name %q", name)
	}
	return nil
}

// PersistClassifier marshals c and stores it under its kind name.
func PersistClassifier(store ClassifierStore, c Classifier) error {
	data, err := MarshalClassifier(c)
	if err != nil {
		return err
	}
	return store.Persist(c.Kind().String(), data)
}

// LoadClassifier reads and decodes the classifier of the given kind.
func LoadClassifier(store ClassifierStore, kind ClassifierKind) (Classifier, error) {
	data, err := store.Load(kind.String())
	if err != nil {
		return nil, err
	}
	c, err := UnmarshalClassifier(data)
	if err != nil {
		return nil, err
	}
	if c.Kind() != kind {
		return nil, fmt.Errorf("artifact %s holds a %s classifier", kind, c.Kind())
	}
	return c, nil
}
