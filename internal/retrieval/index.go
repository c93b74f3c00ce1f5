package retrieval

import (
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
)

// chunkEntry is the shape indexed into Bleve per chunk.
type chunkEntry struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
}

// indexHit is one scored match from the chunk index.
type indexHit struct {
	ID    string
	Score float64
}

// ChunkIndex is a Bleve full-text index over document chunks.
type ChunkIndex struct {
	index bleve.Index
}

// NewChunkIndex creates or opens the Bleve index at path. An existing index
// is reused so unchanged documents are not re-indexed across restarts.
func NewChunkIndex(path string) (*ChunkIndex, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so policy terms
	// match exactly as asked.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("filename", textFieldMapping)
	im.AddDocumentMapping("chunk", docMapping)
	im.DefaultType = "chunk"
	im.DefaultMapping = docMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open chunk index: %w", openErr)
		}
		return &ChunkIndex{index: index}, nil
	}
	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create chunk index: %w", err)
	}
	return &ChunkIndex{index: index}, nil
}

// Index indexes one chunk by ID.
func (ci *ChunkIndex) Index(id string, entry *chunkEntry) error {
	return ci.index.Index(id, entry)
}

// Delete removes a chunk from the index.
func (ci *ChunkIndex) Delete(id string) error {
	return ci.index.Delete(id)
}

// Search runs a match query over chunk content and returns up to limit
// scored hits, best first.
func (ci *ChunkIndex) Search(query string, limit int) ([]indexHit, error) {
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	results, err := ci.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("chunk search failed: %w", err)
	}
	hits := make([]indexHit, len(results.Hits))
	for i, hit := range results.Hits {
		hits[i] = indexHit{ID: hit.ID, Score: hit.Score}
	}
	return hits, nil
}

// Close closes the underlying index.
func (ci *ChunkIndex) Close() error {
	return ci.index.Close()
}
