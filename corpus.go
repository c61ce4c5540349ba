package ytsentiment

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
)

// Unlimited disables the document cap.
const Unlimited = -1

// Corpus subsets, one plain-text document per *.txt file.
const (
	TrainPos = "train/pos"
	TrainNeg = "train/neg"
	TestPos  = "test/pos"
	TestNeg  = "test/neg"
)

// CorpusReader reads labeled documents laid out as the four subset
// directories under a root.
type CorpusReader struct {
	Path string
	fsys fs.FS
}

// NewCorpusReader opens the corpus rooted at dir. A missing or unreadable
// root fails with ErrCorpusRead.
func NewCorpusReader(dir string) (*CorpusReader, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpusRead, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrCorpusRead, dir)
	}
	return &CorpusReader{Path: dir, fsys: os.DirFS(dir)}, nil
}

// CorpusReaderFS reads a corpus from an arbitrary file system.
func CorpusReaderFS(fsys fs.FS) *CorpusReader {
	return &CorpusReader{Path: ".", fsys: fsys}
}

// ReadSubset returns every document of subset, in file name order. A subset
// directory that does not exist holds no documents.
func (cr *CorpusReader) ReadSubset(subset string) ([]string, error) {
	return cr.readCapped(context.Background(), subset, Unlimited)
}

// subsetFiles lists the *.txt files of subset sorted by name.
func (cr *CorpusReader) subsetFiles(subset string) ([]string, error) {
	files, err := fs.Glob(cr.fsys, path.Join(subset, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpusRead, err)
	}
	sort.Strings(files)
	return files, nil
}

// readCapped reads at most limit documents of subset; Unlimited reads all.
func (cr *CorpusReader) readCapped(ctx context.Context, subset string, limit int) ([]string, error) {
	files, err := cr.subsetFiles(subset)
	if err != nil {
		return nil, err
	}
	if limit != Unlimited && len(files) > limit {
		files = files[:limit]
	}

	docs := make([]string, 0, len(files))
	for _, file := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		data, err := fs.ReadFile(cr.fsys, file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrCorpusRead, file, err)
		}
		docs = append(docs, string(data))
	}
	return docs, nil
}

// subsetCap returns the per-subset limit of a split: maxDocs/4, or Unlimited.
func subsetCap(maxDocs int) int {
	if maxDocs == Unlimited {
		return Unlimited
	}
	if maxDocs < 0 {
		return 0
	}
	return maxDocs / 4
}

// LabeledText is a raw document and its label.
type LabeledText struct {
	Text  string
	Label Label
}

// Labeled returns the whole corpus as one labeled sequence: negatives first
// (train then test), then positives. Each class is capped at maxDocs/2.
func (cr *CorpusReader) Labeled(ctx context.Context, maxDocs int) ([]LabeledText, error) {
	limit := Unlimited
	if maxDocs != Unlimited {
		limit = maxDocs / 2
		if maxDocs < 0 {
			limit = 0
		}
	}

	var out []LabeledText
	for _, class := range []struct {
		label   Label
		subsets []string
	}{
		{Negative, []string{TrainNeg, TestNeg}},
		{Positive, []string{TrainPos, TestPos}},
	} {
		remaining := limit
		for _, subset := range class.subsets {
			if remaining == 0 {
				break
			}
			docs, err := cr.readCapped(ctx, subset, remaining)
			if err != nil {
				return nil, err
			}
			for _, doc := range docs {
				out = append(out, LabeledText{Text: doc, Label: class.label})
			}
			if remaining != Unlimited {
				remaining -= len(docs)
			}
		}
	}
	return out, nil
}
