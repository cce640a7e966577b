package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/study-assistant/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &DocumentRepository{db: db}, mock, func() { _ = db.Close() }
}

var documentColumns = []string{"filename", "extracted_text", "file_type", "category", "user_id"}

func TestListDocumentsScopesToOwner(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery(`SELECT filename, extracted_text, file_type, category, user_id FROM documents WHERE user_id = \$1 ORDER BY created_at ASC`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(documentColumns).
			AddRow("a.pdf", "alpha", "application/pdf", "research", "user-1").
			AddRow("b.txt", nil, nil, "unknown", "user-1"))

	docs, err := repo.ListDocuments(context.Background(), domain.DocumentFilter{OwnerID: "user-1"})
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].ExtractedText != "alpha" || docs[0].Category != domain.CategoryResearch {
		t.Fatalf("unexpected first document %+v", docs[0])
	}
	if docs[1].ExtractedText != "" || docs[1].Category != domain.CategoryGeneral || docs[1].OwnerID != "user-1" {
		t.Fatalf("unexpected second document %+v", docs[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListDocumentsAppliesCategory(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery(`WHERE user_id = \$1 AND category = \$2`).
		WithArgs("user-1", "pyq").
		WillReturnRows(sqlmock.NewRows(documentColumns))

	docs, err := repo.ListDocuments(context.Background(), domain.DocumentFilter{OwnerID: "user-1", Category: domain.CategoryPYQ})
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if docs == nil || len(docs) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", docs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListDocumentsRequiresOwner(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	if _, err := repo.ListDocuments(context.Background(), domain.DocumentFilter{Category: domain.CategoryNotes}); err == nil {
		t.Fatalf("expected error without owner")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no query expected: %v", err)
	}
}

func TestListDocumentsWrapsQueryError(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT filename").WillReturnError(errors.New("connection reset"))

	_, err := repo.ListDocuments(context.Background(), domain.DocumentFilter{OwnerID: "user-1"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestEnsureSchemaTakesAdvisoryLock(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WithArgs(int64(2026101401)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS documents`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
