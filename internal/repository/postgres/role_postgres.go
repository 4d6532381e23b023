package postgres

import (
	"context"
	"database/sql"

	"github.com/Desarrollo-Prime/server-bigc/internal/model"
	"github.com/Desarrollo-Prime/server-bigc/internal/repository"
)

// RolePostgres is a PostgreSQL implementation of repository.RoleRepository.
type RolePostgres struct {
	db *sql.DB
}

// NewRolePostgres creates a new RolePostgres repository.
func NewRolePostgres(db *sql.DB) *RolePostgres {
	return &RolePostgres{db: db}
}

var _ repository.RoleRepository = (*RolePostgres)(nil)

const roleColumns = `id, name, enable, created_at, created_by, modified_at, modified_by`

// FindEnabledByName fetches an enabled role by its exact name.
func (r *RolePostgres) FindEnabledByName(ctx context.Context, name string) (*model.Role, error) {
	const q = `
		SELECT ` + roleColumns + `
		FROM roles
		WHERE name = $1 AND enable = TRUE
	`
	var ro model.Role
	if err := r.db.QueryRowContext(ctx, q, name).Scan(
		&ro.ID,
		&ro.Name,
		&ro.Enable,
		&ro.CreatedAt,
		&ro.CreatedBy,
		&ro.ModifiedAt,
		&ro.ModifiedBy,
	); err != nil {
		return nil, err
	}
	return &ro, nil
}

// List returns all roles ordered by id.
func (r *RolePostgres) List(ctx context.Context) ([]model.Role, error) {
	const q = `
		SELECT ` + roleColumns + `
		FROM roles
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]model.Role, 0)
	for rows.Next() {
		var ro model.Role
		if err := rows.Scan(
			&ro.ID,
			&ro.Name,
			&ro.Enable,
			&ro.CreatedAt,
			&ro.CreatedBy,
			&ro.ModifiedAt,
			&ro.ModifiedBy,
		); err != nil {
			return nil, err
		}
		roles = append(roles, ro)
	}
	return roles, rows.Err()
}
