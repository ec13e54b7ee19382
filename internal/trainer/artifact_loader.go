package trainer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"brandreco/business/validation"
)

// ArtifactLoader satisfies validation.SimilarityTrainer by deserializing a
// similarity artifact trained out-of-process. Fit ignores the incoming
// train hits: the model owner retrains on its own schedule and ships the
// artifact file alongside the validation run.
type ArtifactLoader struct {
	Path string
}

func NewArtifactLoader(path string) *ArtifactLoader {
	return &ArtifactLoader{Path: path}
}

type artifactFile struct {
	Index   []string    `json:"index"`
	Entries []fileEntry `json:"entries"`
}

type fileEntry struct {
	Row int     `json:"row"`
	Col int     `json:"col"`
	Val float64 `json:"val"`
}

func (l *ArtifactLoader) Fit(ctx context.Context, _ []validation.Hit) (validation.SimilarityArtifact, error) {
	if err := ctx.Err(); err != nil {
		return validation.SimilarityArtifact{}, fmt.Errorf("context error: %w", err)
	}

	raw, err := os.ReadFile(l.Path)
	if err != nil {
		return validation.SimilarityArtifact{}, fmt.Errorf("failed to read similarity artifact %s: %w", l.Path, err)
	}

	var file artifactFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return validation.SimilarityArtifact{}, fmt.Errorf("failed to parse similarity artifact %s: %w", l.Path, err)
	}
	if len(file.Index) == 0 {
		return validation.SimilarityArtifact{}, fmt.Errorf("similarity artifact %s has an empty segment index", l.Path)
	}

	index := validation.NewSegmentIndex()
	for _, id := range file.Index {
		index.Add(id)
	}

	n := index.Len()
	entries := make([]validation.Entry, 0, len(file.Entries))
	for _, e := range file.Entries {
		if e.Row < 0 || e.Row >= n || e.Col < 0 || e.Col >= n {
			return validation.SimilarityArtifact{}, fmt.Errorf(
				"similarity artifact %s entry (%d,%d) outside %dx%d matrix", l.Path, e.Row, e.Col, n, n)
		}
		entries = append(entries, validation.Entry{Row: e.Row, Col: e.Col, Val: e.Val})
	}

	return validation.SimilarityArtifact{
		Matrix: validation.NewCSRFromEntries(n, entries),
		Index:  index,
	}, nil
}
