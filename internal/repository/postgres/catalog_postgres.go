package postgres

import (
	"context"
	"database/sql"

	"github.com/Desarrollo-Prime/server-bigc/internal/model"
	"github.com/Desarrollo-Prime/server-bigc/internal/repository"
)

// CompanyPostgres is a PostgreSQL implementation of repository.CompanyRepository.
type CompanyPostgres struct {
	db *sql.DB
}

// NewCompanyPostgres creates a new CompanyPostgres repository.
func NewCompanyPostgres(db *sql.DB) *CompanyPostgres {
	return &CompanyPostgres{db: db}
}

var _ repository.CompanyRepository = (*CompanyPostgres)(nil)

const companyColumns = `id, name, enabled, created_at, created_by, modified_at, modified_by`

// FindByID fetches a single company by id.
func (r *CompanyPostgres) FindByID(ctx context.Context, id int64) (*model.Company, error) {
	const q = `
		SELECT ` + companyColumns + `
		FROM companies
		WHERE id = $1
	`
	var c model.Company
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID,
		&c.Name,
		&c.Enabled,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.ModifiedAt,
		&c.ModifiedBy,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all companies ordered by id.
func (r *CompanyPostgres) List(ctx context.Context) ([]model.Company, error) {
	const q = `
		SELECT ` + companyColumns + `
		FROM companies
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := make([]model.Company, 0)
	for rows.Next() {
		var c model.Company
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Enabled,
			&c.CreatedAt,
			&c.CreatedBy,
			&c.ModifiedAt,
			&c.ModifiedBy,
		); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// AreaPostgres is a PostgreSQL implementation of repository.AreaRepository.
type AreaPostgres struct {
	db *sql.DB
}

// NewAreaPostgres creates a new AreaPostgres repository.
func NewAreaPostgres(db *sql.DB) *AreaPostgres {
	return &AreaPostgres{db: db}
}

var _ repository.AreaRepository = (*AreaPostgres)(nil)

const areaColumns = `id, company_id, name, description, created_at, created_by, modified_at, modified_by`

func scanArea(row interface{ Scan(...any) error }) (*model.Area, error) {
	var a model.Area
	var desc sql.NullString
	if err := row.Scan(
		&a.ID,
		&a.CompanyID,
		&a.Name,
		&desc,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.ModifiedAt,
		&a.ModifiedBy,
	); err != nil {
		return nil, err
	}
	a.Description = desc.String
	return &a, nil
}

// Create inserts a new area row and returns the stored record.
func (r *AreaPostgres) Create(ctx context.Context, a *model.Area) (*model.Area, error) {
	const q = `
		INSERT INTO areas (company_id, name, description, created_at, created_by, modified_at, modified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + areaColumns + `
	`
	return scanArea(r.db.QueryRowContext(ctx, q,
		a.CompanyID,
		a.Name,
		a.Description,
		a.CreatedAt,
		a.CreatedBy,
		a.ModifiedAt,
		a.ModifiedBy,
	))
}

// FindByID fetches a single area by id.
func (r *AreaPostgres) FindByID(ctx context.Context, id int64) (*model.Area, error) {
	const q = `
		SELECT ` + areaColumns + `
		FROM areas
		WHERE id = $1
	`
	return scanArea(r.db.QueryRowContext(ctx, q, id))
}

// List returns all areas ordered by id.
func (r *AreaPostgres) List(ctx context.Context) ([]model.Area, error) {
	const q = `
		SELECT ` + areaColumns + `
		FROM areas
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	areas := make([]model.Area, 0)
	for rows.Next() {
		a, err := scanArea(rows)
		if err != nil {
			return nil, err
		}
		areas = append(areas, *a)
	}
	return areas, rows.Err()
}

// Update persists mutable fields and audit columns.
func (r *AreaPostgres) Update(ctx context.Context, a *model.Area) error {
	const q = `
		UPDATE areas
		SET company_id = $2, name = $3, description = $4, modified_at = $5, modified_by = $6
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q,
		a.ID,
		a.CompanyID,
		a.Name,
		a.Description,
		a.ModifiedAt,
		a.ModifiedBy,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an area by id.
func (r *AreaPostgres) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM areas WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DocumentStatusPostgres is a PostgreSQL implementation of
// repository.DocumentStatusRepository.
type DocumentStatusPostgres struct {
	db *sql.DB
}

// NewDocumentStatusPostgres creates a new DocumentStatusPostgres repository.
func NewDocumentStatusPostgres(db *sql.DB) *DocumentStatusPostgres {
	return &DocumentStatusPostgres{db: db}
}

var _ repository.DocumentStatusRepository = (*DocumentStatusPostgres)(nil)

const statusColumns = `id, name, description, created_at, created_by, modified_at, modified_by`

// FindByID fetches a single document status by id.
func (r *DocumentStatusPostgres) FindByID(ctx context.Context, id int64) (*model.DocumentStatus, error) {
	const q = `
		SELECT ` + statusColumns + `
		FROM document_statuses
		WHERE id = $1
	`
	var s model.DocumentStatus
	var desc sql.NullString
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID,
		&s.Name,
		&desc,
		&s.CreatedAt,
		&s.CreatedBy,
		&s.ModifiedAt,
		&s.ModifiedBy,
	); err != nil {
		return nil, err
	}
	s.Description = desc.String
	return &s, nil
}

// List returns all document statuses ordered by id.
func (r *DocumentStatusPostgres) List(ctx context.Context) ([]model.DocumentStatus, error) {
	const q = `
		SELECT ` + statusColumns + `
		FROM document_statuses
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := make([]model.DocumentStatus, 0)
	for rows.Next() {
		var s model.DocumentStatus
		var desc sql.NullString
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&desc,
			&s.CreatedAt,
			&s.CreatedBy,
			&s.ModifiedAt,
			&s.ModifiedBy,
		); err != nil {
			return nil, err
		}
		s.Description = desc.String
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}
