package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/classmark/classmark/internal/database"
)

// EmbeddingRepository implements database.EmbeddingCache on PostgreSQL using
// pgvector columns. Vectors stay queryable with the <=> cosine operator for
// ad-hoc inspection even though lookups here go by enrollment.
type EmbeddingRepository struct {
	pool *Pool
}

// NewEmbeddingRepository creates an embedding cache repository over the pool.
func NewEmbeddingRepository(pool *Pool) *EmbeddingRepository {
	return &EmbeddingRepository{pool: pool}
}

func (r *EmbeddingRepository) Get(ctx context.Context, enrollment, fileHash string) (*database.CachedEmbedding, error) {
	var (
		emb database.CachedEmbedding
		vec pgvector.Vector
	)
	err := r.pool.db.QueryRowContext(ctx, `
		SELECT enrollment, file_hash, embedding, dim, model, created_at
		FROM photo_embeddings
		WHERE enrollment = $1 AND file_hash = $2
	`, enrollment, fileHash).Scan(&emb.Enrollment, &emb.FileHash, &vec, &emb.Dim, &emb.Model, &emb.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cached embedding for %s: %w", enrollment, err)
	}

	emb.Embedding = vec.Slice()
	return &emb, nil
}

func (r *EmbeddingRepository) Put(ctx context.Context, emb *database.CachedEmbedding) error {
	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO photo_embeddings (enrollment, file_hash, embedding, dim, model)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (enrollment) DO UPDATE SET
			file_hash = EXCLUDED.file_hash,
			embedding = EXCLUDED.embedding,
			dim = EXCLUDED.dim,
			model = EXCLUDED.model,
			created_at = NOW()
	`, emb.Enrollment, emb.FileHash, pgvector.NewVector(emb.Embedding), emb.Dim, emb.Model)
	if err != nil {
		return fmt.Errorf("failed to store embedding for %s: %w", emb.Enrollment, err)
	}
	return nil
}
