package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/Desarrollo-Prime/server-bigc/internal/model"
)

var userRowColumns = []string{
	"id", "company_id", "first_name", "last_name", "email", "user_name",
	"password", "phone", "enable", "blocked", "created_at", "created_by",
	"modified_at", "modified_by",
}

func userRow(id int64, userName string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(userRowColumns).
		AddRow(id, int64(1), "Ana", "Gomez", userName+"@x.io", userName,
			"$2a$10$hash", "", true, false, now, "system", now, "system")
}

func roleRows(names ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"name"})
	for _, n := range names {
		rows.AddRow(n)
	}
	return rows
}

func TestUserPostgres_FindActiveByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found with roles", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("admin").
			WillReturnRows(userRow(1, "admin"))
		mock.ExpectQuery("SELECT ro.name").
			WithArgs(int64(1)).
			WillReturnRows(roleRows(model.RoleSuperAdmin))

		u, err := repo.FindActiveByUsername(ctx, "admin")

		assert.NoError(t, err)
		assert.Equal(t, "admin", u.UserName)
		assert.Equal(t, []string{model.RoleSuperAdmin}, u.Roles)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing or inactive user", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.FindActiveByUsername(ctx, "ghost")

		assert.Nil(t, u)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("ana@x.io").
			WillReturnRows(userRow(5, "ana"))

		u, err := repo.FindByEmail(ctx, "ana@x.io")

		assert.NoError(t, err)
		assert.Equal(t, int64(5), u.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no match", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("nobody@x.io").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.FindByEmail(ctx, "nobody@x.io")

		assert.Nil(t, u)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})
}

func TestUserPostgres_FindByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("ana").
			WillReturnRows(userRow(5, "ana"))

		u, err := repo.FindByUsername(ctx, "ana")

		assert.NoError(t, err)
		assert.Equal(t, "ana", u.UserName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no match", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.FindByUsername(ctx, "ghost")

		assert.Nil(t, u)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})
}

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	u := &model.User{
		CompanyID: 1,
		FirstName: "Ana",
		LastName:  "Gomez",
		Email:     "ana@x.io",
		UserName:  "ana",
		Password:  "$2a$10$hash",
		Enable:    true,
		CreatedAt: now,
		CreatedBy: "admin",
	}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(u.CompanyID, u.FirstName, u.LastName, u.Email, u.UserName,
			u.Password, u.Phone, u.Enable, u.Blocked, u.CreatedAt, u.CreatedBy,
			u.ModifiedAt, u.ModifiedBy).
		WillReturnRows(userRow(7, "ana"))

	stored, err := repo.Create(ctx, u)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), stored.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	u := &model.User{ID: 3, CompanyID: 1, UserName: "ana", Email: "ana@x.io"}

	t.Run("updated", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, u))
	})

	t.Run("no row matched", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, u)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})
}

func TestUserPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("deletes assignments first", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM user_roles").
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM users").
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, 3))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM user_roles").
			WithArgs(int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM users").
			WithArgs(int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(ctx, 9)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})
}

func TestUserPostgres_ReplaceRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM user_roles").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs(int64(3), int64(2), "admin").
		WillReturnResult(sqlmock.NewResult(1, 1))

	assert.NoError(t, repo.ReplaceRole(ctx, 3, 2, "admin"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
