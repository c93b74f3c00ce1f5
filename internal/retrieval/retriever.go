package retrieval

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/govgpt/govgpt/internal/models"
)

// Chunking windows are in words.
const (
	defaultChunkSize    = 200
	defaultChunkOverlap = 40
)

// Retriever is the document-retrieval collaborator. A nil *Retriever is a
// valid, always-empty retriever, so the pipeline works before any documents
// are indexed or when retrieval is disabled.
type Retriever struct {
	store        *Store
	index        *ChunkIndex
	chunkSize    int
	chunkOverlap int
	logger       *zap.Logger
}

// NewRetriever wires the store and index. chunkSize/chunkOverlap of 0 use
// the defaults.
func NewRetriever(store *Store, index *ChunkIndex, chunkSize, chunkOverlap int, logger *zap.Logger) *Retriever {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = defaultChunkOverlap
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{
		store:        store,
		index:        index,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger,
	}
}

// Search returns up to limit scored chunks for the query. An uninitialized
// retriever returns an empty slice, never an error.
func (r *Retriever) Search(ctx context.Context, query string, limit int) ([]models.Chunk, error) {
	if r == nil || r.index == nil || r.store == nil {
		return []models.Chunk{}, nil
	}
	hits, err := r.index.Search(query, limit)
	if err != nil {
		return nil, err
	}
	chunks := make([]models.Chunk, 0, len(hits))
	for _, hit := range hits {
		stored, err := r.store.GetChunk(ctx, hit.ID)
		if err != nil {
			// Index and store can briefly disagree during re-indexing.
			r.logger.Debug("indexed chunk missing from store", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		chunks = append(chunks, models.Chunk{
			Text:     stored.Content,
			Filename: stored.Filename,
			Score:    hit.Score,
		})
	}
	return chunks, nil
}

// IndexDocument chunks, stores, and indexes a document, returning the
// document ID. An existing document with the same ID is replaced.
func (r *Retriever) IndexDocument(ctx context.Context, input *models.DocumentInput) (string, error) {
	if input.Content == "" {
		return "", fmt.Errorf("document content cannot be empty")
	}
	if input.Filename == "" {
		return "", fmt.Errorf("document filename cannot be empty")
	}
	id := input.ID
	if id == "" {
		id = uuid.New().String()
	}

	// Replacing a document must also drop its old chunks from the index.
	oldIDs, err := r.store.ChunkIDsByDocument(ctx, id)
	if err != nil {
		return "", err
	}
	for _, oldID := range oldIDs {
		if err := r.index.Delete(oldID); err != nil {
			return "", err
		}
	}

	doc := &models.Document{ID: id, Filename: input.Filename, Content: input.Content}
	chunks := r.chunk(id, input.Filename, input.Content)
	if err := r.store.SaveDocument(ctx, doc, chunks); err != nil {
		return "", fmt.Errorf("failed to store document: %w", err)
	}
	for _, c := range chunks {
		if err := r.index.Index(c.ID, &chunkEntry{Content: c.Content, Filename: c.Filename}); err != nil {
			return "", fmt.Errorf("failed to index chunk: %w", err)
		}
	}
	r.logger.Debug("indexed document",
		zap.String("id", id),
		zap.String("filename", input.Filename),
		zap.Int("chunks", len(chunks)),
	)
	return id, nil
}

// IndexFile reads a plain-text file and indexes it. Only extensions in exts
// (or any text file when exts is empty) are accepted; byte formats like PDF
// are out of scope here.
func (r *Retriever) IndexFile(ctx context.Context, path string, exts []string) error {
	if len(exts) > 0 && !matchExtension(path, exts) {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return nil
	}
	_, err = r.IndexDocument(ctx, &models.DocumentInput{
		ID:       FileDocID(path),
		Filename: filepath.Base(path),
		Content:  content,
	})
	return err
}

// IndexDirectory walks dir and indexes every file matching exts, returning
// the number of files indexed. File failures are logged and skipped so one
// unreadable file does not abort a bulk ingest.
func (r *Retriever) IndexDirectory(ctx context.Context, dir string, exts []string) (int, error) {
	indexed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || (len(exts) > 0 && !matchExtension(path, exts)) {
			return nil
		}
		if err := r.IndexFile(ctx, path, exts); err != nil {
			r.logger.Warn("skipping file", zap.String("path", path), zap.Error(err))
			return nil
		}
		indexed++
		return nil
	})
	if err != nil {
		return indexed, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return indexed, nil
}

// DeleteDocument removes a document from store and index.
func (r *Retriever) DeleteDocument(ctx context.Context, id string) error {
	ids, err := r.store.ChunkIDsByDocument(ctx, id)
	if err != nil {
		return err
	}
	for _, chunkID := range ids {
		if err := r.index.Delete(chunkID); err != nil {
			return err
		}
	}
	return r.store.DeleteDocument(ctx, id)
}

// Counts returns stored document and chunk counts.
func (r *Retriever) Counts(ctx context.Context) (docs, chunks int64, err error) {
	if r == nil || r.store == nil {
		return 0, 0, nil
	}
	docs, err = r.store.CountDocuments(ctx)
	if err != nil {
		return 0, 0, err
	}
	chunks, err = r.store.CountChunks(ctx)
	return docs, chunks, err
}

// chunk splits content into overlapping word windows.
func (r *Retriever) chunk(docID, filename, content string) []*models.DocumentChunk {
	words := strings.Fields(content)
	if len(words) == 0 {
		return nil
	}
	step := r.chunkSize - r.chunkOverlap
	var chunks []*models.DocumentChunk
	for i, idx := 0, 0; i < len(words); i, idx = i+step, idx+1 {
		end := i + r.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, &models.DocumentChunk{
			ID:         fmt.Sprintf("%s_%s", docID, uuid.New().String()[:8]),
			DocumentID: docID,
			Filename:   filename,
			Content:    strings.Join(words[i:end], " "),
			ChunkIndex: idx,
		})
		if end >= len(words) {
			break
		}
	}
	return chunks
}

// FileDocID returns a stable document ID for an absolute file path, so
// watched files index, update, and delete under the same identity.
func FileDocID(path string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(path)))
	return "file:" + hex.EncodeToString(sum[:])
}

func matchExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
