package postgres

import (
	"context"
	"database/sql"

	"github.com/Desarrollo-Prime/server-bigc/internal/model"
	"github.com/Desarrollo-Prime/server-bigc/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, company_id, area_id, user_id, name, description, file_name, file_extension, storage_path, size, content_type, status_id, created_at, created_by, modified_at, modified_by`

func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var d model.Document
	var areaID sql.NullInt64
	var desc sql.NullString
	if err := row.Scan(
		&d.ID,
		&d.CompanyID,
		&areaID,
		&d.UserID,
		&d.Name,
		&desc,
		&d.FileName,
		&d.FileExtension,
		&d.StoragePath,
		&d.Size,
		&d.ContentType,
		&d.StatusID,
		&d.CreatedAt,
		&d.CreatedBy,
		&d.ModifiedAt,
		&d.ModifiedBy,
	); err != nil {
		return nil, err
	}
	d.AreaID = areaID.Int64
	d.Description = desc.String
	return &d, nil
}

// nullableID maps a zero id to SQL NULL.
func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (company_id, area_id, user_id, name, description, file_name, file_extension, storage_path, size, content_type, status_id, created_at, created_by, modified_at, modified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + documentColumns + `
	`
	return scanDocument(r.db.QueryRowContext(ctx, q,
		doc.CompanyID,
		nullableID(doc.AreaID),
		doc.UserID,
		doc.Name,
		doc.Description,
		doc.FileName,
		doc.FileExtension,
		doc.StoragePath,
		doc.Size,
		doc.ContentType,
		doc.StatusID,
		doc.CreatedAt,
		doc.CreatedBy,
		doc.ModifiedAt,
		doc.ModifiedBy,
	))
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1
	`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// FindByNameInScope fetches a document with the given name in the same
// company/area scope.
func (r *DocumentPostgres) FindByNameInScope(ctx context.Context, name string, companyID, areaID int64) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE name = $1 AND company_id = $2 AND area_id IS NOT DISTINCT FROM $3
		LIMIT 1
	`
	return scanDocument(r.db.QueryRowContext(ctx, q, name, companyID, nullableID(areaID)))
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	// Count total rows
	const qCount = `SELECT COUNT(*) FROM documents`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	// Fetch page
	const qList = `
		SELECT ` + documentColumns + `
		FROM documents
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// Update persists mutable metadata fields and audit columns.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) error {
	const q = `
		UPDATE documents
		SET company_id = $2, area_id = $3, name = $4, description = $5, status_id = $6, modified_at = $7, modified_by = $8
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q,
		doc.ID,
		doc.CompanyID,
		nullableID(doc.AreaID),
		doc.Name,
		doc.Description,
		doc.StatusID,
		doc.ModifiedAt,
		doc.ModifiedBy,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	// Ignore rows affected to keep behavior simple (no business logic).
	_, _ = res.RowsAffected()
	return nil
}
