// Package ingestion loads the knowledge-base content library from cloud
// storage, chunks and categorizes it, and indexes the embedded chunks for
// retrieval.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/nyvo/advisor/internal/repository"
)

// embedBatchSize bounds one embeddings API call.
const embedBatchSize = 64

// Embedder produces embedding vectors for chunk batches.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// ChunkStore is the indexed-chunk side of the ingestion pipeline.
type ChunkStore interface {
	InsertChunk(ctx context.Context, params repository.InsertChunkParams) error
	Stats(ctx context.Context) (*repository.ContentStats, error)
	Clear(ctx context.Context) (int64, error)
}

// Service runs the content-library ingestion pipeline.
type Service struct {
	gcsClient  *storage.Client
	gcsBucket  string
	gcsPrefix  string
	embedder   Embedder
	chunks     ChunkStore
	categories *CategoryConfig
	logger     *slog.Logger
}

func NewService(gcsClient *storage.Client, bucket, prefix string, embedder Embedder, chunks ChunkStore, categories *CategoryConfig, logger *slog.Logger) *Service {
	return &Service{
		gcsClient:  gcsClient,
		gcsBucket:  bucket,
		gcsPrefix:  prefix,
		embedder:   embedder,
		chunks:     chunks,
		categories: categories,
		logger:     logger.With("component", "ingestion_service"),
	}
}

// Report summarises one ingestion run.
type Report struct {
	FilesProcessed int   `json:"files_processed"`
	ChunksIndexed  int   `json:"chunks_indexed"`
	ChunksSkipped  int   `json:"chunks_skipped"`
	Cleared        int64 `json:"cleared"`
}

// IngestLibrary walks the content bucket and indexes every text document.
// With replace set, the existing index is dropped first.
func (s *Service) IngestLibrary(ctx context.Context, replace bool) (*Report, error) {
	report := &Report{}

	if replace {
		cleared, err := s.chunks.Clear(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to clear existing chunks: %w", err)
		}
		report.Cleared = cleared
	}

	it := s.gcsClient.Bucket(s.gcsBucket).Objects(ctx, &storage.Query{Prefix: s.gcsPrefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list content objects: %w", err)
		}
		if !isTextDocument(attrs.Name) {
			continue
		}

		indexed, skipped, err := s.ingestObject(ctx, attrs.Name)
		if err != nil {
			return nil, err
		}
		report.FilesProcessed++
		report.ChunksIndexed += indexed
		report.ChunksSkipped += skipped
	}

	s.logger.InfoContext(ctx, "Content library ingestion finished",
		"files", report.FilesProcessed,
		"chunks_indexed", report.ChunksIndexed,
		"chunks_skipped", report.ChunksSkipped)
	return report, nil
}

func (s *Service) ingestObject(ctx context.Context, objectName string) (indexed, skipped int, err error) {
	reader, err := s.gcsClient.Bucket(s.gcsBucket).Object(objectName).NewReader(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open GCS object %s: %w", objectName, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read GCS object %s: %w", objectName, err)
	}

	chunks := ChunkText(string(data))
	if len(chunks) == 0 {
		s.logger.WarnContext(ctx, "Document produced no usable chunks", "object", objectName)
		return 0, 0, nil
	}

	source := strings.TrimSuffix(path.Base(objectName), path.Ext(objectName))

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		vectors, err := s.embedder.EmbedBatch(ctx, batch)
		if err != nil {
			return indexed, skipped, fmt.Errorf("failed to embed chunks of %s: %w", objectName, err)
		}

		for i, chunk := range batch {
			insertErr := s.chunks.InsertChunk(ctx, repository.InsertChunkParams{
				Source:    source,
				Category:  s.categories.Categorize(chunk),
				ChunkText: chunk,
				Embedding: vectors[i],
			})
			if insertErr != nil {
				s.logger.ErrorContext(ctx, "Failed to index chunk, skipping", "object", objectName, "error", insertErr)
				skipped++
				continue
			}
			indexed++
		}
	}

	s.logger.InfoContext(ctx, "Document indexed", "object", objectName, "chunks", indexed)
	return indexed, skipped, nil
}

// Stats reports the current state of the content index.
func (s *Service) Stats(ctx context.Context) (*repository.ContentStats, error) {
	return s.chunks.Stats(ctx)
}

// Clear drops the whole content index.
func (s *Service) Clear(ctx context.Context) (int64, error) {
	return s.chunks.Clear(ctx)
}

func isTextDocument(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".txt", ".md":
		return true
	}
	return false
}
