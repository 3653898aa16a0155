// Package search keeps an in-memory full-text index over saved recommendations.
package search

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/ChamsBouzaiene/harvest/internal/session"
)

// DefaultLimit caps the number of hits returned when the caller passes k <= 0.
const DefaultLimit = 20

// Hit is one matching recommendation.
type Hit struct {
	ID    string
	Score float64
}

// Index is a BM25 index over recommendation titles and bodies.
// It is not safe for concurrent use.
type Index struct {
	index   bleve.Index
	indexed map[string]struct{}
}

// NewIndex creates an empty in-memory index.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	return &Index{index: idx, indexed: make(map[string]struct{})}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	recMapping := bleve.NewDocumentMapping()

	kindField := bleve.NewTextFieldMapping()
	kindField.Analyzer = keyword.Name
	kindField.Store = true
	recMapping.AddFieldMappingsAt("kind", kindField)

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = en.AnalyzerName
	recMapping.AddFieldMappingsAt("title", titleField)

	bodyField := bleve.NewTextFieldMapping()
	bodyField.Analyzer = en.AnalyzerName
	recMapping.AddFieldMappingsAt("body", bodyField)

	createdField := bleve.NewDateTimeFieldMapping()
	recMapping.AddFieldMappingsAt("created_at", createdField)

	indexMapping.DefaultMapping = recMapping
	return indexMapping
}

// Add indexes one record.
func (x *Index) Add(rec session.RecommendationRecord) error {
	doc := map[string]interface{}{
		"kind":       string(rec.Kind),
		"title":      rec.Title,
		"body":       rec.Body,
		"created_at": rec.CreatedAt,
	}
	if err := x.index.Index(rec.ID, doc); err != nil {
		return fmt.Errorf("failed to index recommendation %s: %w", rec.ID, err)
	}
	x.indexed[rec.ID] = struct{}{}
	return nil
}

// Remove drops a record from the index. Unknown IDs are ignored.
func (x *Index) Remove(id string) error {
	if _, ok := x.indexed[id]; !ok {
		return nil
	}
	if err := x.index.Delete(id); err != nil {
		return fmt.Errorf("failed to remove recommendation %s: %w", id, err)
	}
	delete(x.indexed, id)
	return nil
}

// Sync makes the index hold exactly records.
func (x *Index) Sync(records []session.RecommendationRecord) error {
	want := make(map[string]struct{}, len(records))
	for _, rec := range records {
		want[rec.ID] = struct{}{}
	}
	for id := range x.indexed {
		if _, ok := want[id]; !ok {
			if err := x.Remove(id); err != nil {
				return err
			}
		}
	}
	for _, rec := range records {
		if _, ok := x.indexed[rec.ID]; ok {
			continue
		}
		if err := x.Add(rec); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of indexed records.
func (x *Index) Len() int { return len(x.indexed) }

// Search matches q against titles and bodies, optionally restricted to one
// kind, and returns at most k hits best first.
func (x *Index) Search(q string, kind session.RecommendationKind, k int) ([]Hit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	if k <= 0 {
		k = DefaultLimit
	}

	title := bleve.NewMatchQuery(q)
	title.SetField("title")
	title.SetBoost(2)
	body := bleve.NewMatchQuery(q)
	body.SetField("body")

	var combined query.Query = bleve.NewDisjunctionQuery(title, body)
	if kind != "" {
		kindQuery := bleve.NewTermQuery(string(kind))
		kindQuery.SetField("kind")
		combined = bleve.NewConjunctionQuery(combined, kindQuery)
	}

	req := bleve.NewSearchRequest(combined)
	req.Size = k
	req.SortBy([]string{"-_score", "-created_at", "_id"})

	res, err := x.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, Hit{ID: h.ID, Score: h.Score})
	}
	return hits, nil
}

// Close releases the index.
func (x *Index) Close() error {
	return x.index.Close()
}
