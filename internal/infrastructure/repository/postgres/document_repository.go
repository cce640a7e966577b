package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/study-assistant/internal/core/domain"
	"github.com/kirillkom/study-assistant/internal/core/ports"
)

// DocumentRepository reads the documents table owned by the upload service.
type DocumentRepository struct {
	db *sql.DB
}

var _ ports.DocumentSource = (*DocumentRepository)(nil)

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the documents table for local development. Production
// databases are migrated by the upload service.
func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026101401)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	file_type TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT 'general',
	extracted_text TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_documents_user_category ON documents(user_id, category);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// ListDocuments returns the owner's documents oldest first. The owner
// predicate is always applied.
func (r *DocumentRepository) ListDocuments(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	ownerID := strings.TrimSpace(filter.OwnerID)
	if ownerID == "" {
		return nil, fmt.Errorf("list documents: owner id is required")
	}

	query := `
SELECT filename, extracted_text, file_type, category, user_id
FROM documents
WHERE user_id = $1`
	args := []any{ownerID}
	if filter.Category != "" {
		query += ` AND category = $2`
		args = append(args, string(filter.Category))
	}
	query += `
ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		var (
			doc      domain.Document
			text     sql.NullString
			fileType sql.NullString
			category sql.NullString
		)
		if err := rows.Scan(&doc.Filename, &text, &fileType, &category, &doc.OwnerID); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc.ExtractedText = text.String
		doc.FileType = fileType.String
		doc.Category, _ = domain.ParseCategory(category.String)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}
