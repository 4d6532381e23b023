package postgres

import (
	"context"
	"database/sql"

	"github.com/Desarrollo-Prime/server-bigc/internal/model"
	"github.com/Desarrollo-Prime/server-bigc/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, company_id, first_name, last_name, email, user_name, password, phone, enable, blocked, created_at, created_by, modified_at, modified_by`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	if err := row.Scan(
		&u.ID,
		&u.CompanyID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.UserName,
		&u.Password,
		&u.Phone,
		&u.Enable,
		&u.Blocked,
		&u.CreatedAt,
		&u.CreatedBy,
		&u.ModifiedAt,
		&u.ModifiedBy,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// roleNames resolves the role names assigned to a user, ordered by
// assignment id so the projection is stable.
func (r *UserPostgres) roleNames(ctx context.Context, userID int64) ([]string, error) {
	const q = `
		SELECT ro.name
		FROM user_roles ur
		JOIN roles ro ON ro.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY ur.id
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// FindActiveByUsername fetches an enabled, unblocked user by exact
// username, with resolved roles. Disabled or blocked rows are filtered
// in the query so they are indistinguishable from missing ones.
func (r *UserPostgres) FindActiveByUsername(ctx context.Context, userName string) (*model.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE user_name = $1 AND enable = TRUE AND blocked = FALSE
	`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, userName))
	if err != nil {
		return nil, err
	}
	if u.Roles, err = r.roleNames(ctx, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// FindByID fetches a single user by id, with resolved roles.
func (r *UserPostgres) FindByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	if u.Roles, err = r.roleNames(ctx, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// FindByUsernameOrEmail fetches any user matching either value.
func (r *UserPostgres) FindByUsernameOrEmail(ctx context.Context, userName, email string) (*model.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE user_name = $1 OR email = $2
		LIMIT 1
	`
	return scanUser(r.db.QueryRowContext(ctx, q, userName, email))
}

// FindByEmail fetches the user holding the exact email, any state.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// FindByUsername fetches the user holding the exact username, any state.
func (r *UserPostgres) FindByUsername(ctx context.Context, userName string) (*model.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE user_name = $1
	`
	return scanUser(r.db.QueryRowContext(ctx, q, userName))
}

// List returns all users with resolved roles.
func (r *UserPostgres) List(ctx context.Context) ([]model.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Roles, err = r.roleNames(ctx, users[i].ID); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (company_id, first_name, last_name, email, user_name, password, phone, enable, blocked, created_at, created_by, modified_at, modified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + userColumns + `
	`
	return scanUser(r.db.QueryRowContext(ctx, q,
		u.CompanyID,
		u.FirstName,
		u.LastName,
		u.Email,
		u.UserName,
		u.Password,
		u.Phone,
		u.Enable,
		u.Blocked,
		u.CreatedAt,
		u.CreatedBy,
		u.ModifiedAt,
		u.ModifiedBy,
	))
}

// Update persists mutable profile fields and audit columns.
func (r *UserPostgres) Update(ctx context.Context, u *model.User) error {
	const q = `
		UPDATE users
		SET company_id = $2, first_name = $3, last_name = $4, email = $5, user_name = $6, password = $7, phone = $8, enable = $9, blocked = $10, modified_at = $11, modified_by = $12
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q,
		u.ID,
		u.CompanyID,
		u.FirstName,
		u.LastName,
		u.Email,
		u.UserName,
		u.Password,
		u.Phone,
		u.Enable,
		u.Blocked,
		u.ModifiedAt,
		u.ModifiedBy,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the user and its role assignments.
func (r *UserPostgres) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1`, id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ReplaceRole drops all assignments for the user and records one new one.
func (r *UserPostgres) ReplaceRole(ctx context.Context, userID, roleID int64, modifiedBy string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return err
	}
	return r.AssignRole(ctx, userID, roleID, modifiedBy)
}

// AssignRole records one role assignment with audit columns.
func (r *UserPostgres) AssignRole(ctx context.Context, userID, roleID int64, createdBy string) error {
	const q = `
		INSERT INTO user_roles (user_id, role_id, created_at, created_by)
		VALUES ($1, $2, now(), $3)
	`
	_, err := r.db.ExecContext(ctx, q, userID, roleID, createdBy)
	return err
}
