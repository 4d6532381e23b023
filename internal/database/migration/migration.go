package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Desarrollo-Prime/server-bigc/internal/auth"
	"github.com/Desarrollo-Prime/server-bigc/internal/model"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_companies",
		SQL: `CREATE TABLE IF NOT EXISTS companies (
  id          BIGSERIAL   PRIMARY KEY,
  name        TEXT        NOT NULL UNIQUE,
  enabled     BOOLEAN     NOT NULL DEFAULT TRUE,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  created_by  TEXT        NOT NULL DEFAULT 'system',
  modified_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  modified_by TEXT        NOT NULL DEFAULT 'system'
);`,
	},
	{
		Name: "create_table_areas",
		SQL: `CREATE TABLE IF NOT EXISTS areas (
  id          BIGSERIAL   PRIMARY KEY,
  company_id  BIGINT      NOT NULL REFERENCES companies (id),
  name        TEXT        NOT NULL,
  description TEXT,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  created_by  TEXT        NOT NULL DEFAULT 'system',
  modified_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  modified_by TEXT        NOT NULL DEFAULT 'system',
  UNIQUE (company_id, name)
);`,
	},
	{
		Name: "create_table_roles",
		SQL: `CREATE TABLE IF NOT EXISTS roles (
  id          BIGSERIAL   PRIMARY KEY,
  name        TEXT        NOT NULL UNIQUE,
  enable      BOOLEAN     NOT NULL DEFAULT TRUE,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  created_by  TEXT        NOT NULL DEFAULT 'system',
  modified_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  modified_by TEXT        NOT NULL DEFAULT 'system'
);`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id          BIGSERIAL   PRIMARY KEY,
  company_id  BIGINT      NOT NULL REFERENCES companies (id),
  first_name  TEXT        NOT NULL,
  last_name   TEXT        NOT NULL,
  email       TEXT        NOT NULL UNIQUE,
  user_name   TEXT        NOT NULL UNIQUE,
  password    TEXT        NOT NULL,
  phone       TEXT        NOT NULL DEFAULT '',
  enable      BOOLEAN     NOT NULL DEFAULT TRUE,
  blocked     BOOLEAN     NOT NULL DEFAULT FALSE,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  created_by  TEXT        NOT NULL DEFAULT 'system',
  modified_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  modified_by TEXT        NOT NULL DEFAULT 'system'
);`,
	},
	{
		Name: "create_table_user_roles",
		SQL: `CREATE TABLE IF NOT EXISTS user_roles (
  id         BIGSERIAL   PRIMARY KEY,
  user_id    BIGINT      NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  role_id    BIGINT      NOT NULL REFERENCES roles (id),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  created_by TEXT        NOT NULL DEFAULT 'system',
  UNIQUE (user_id, role_id)
);`,
	},
	{
		Name: "create_table_document_statuses",
		SQL: `CREATE TABLE IF NOT EXISTS document_statuses (
  id          BIGSERIAL   PRIMARY KEY,
  name        TEXT        NOT NULL UNIQUE,
  description TEXT,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  created_by  TEXT        NOT NULL DEFAULT 'system',
  modified_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  modified_by TEXT        NOT NULL DEFAULT 'system'
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id             BIGSERIAL   PRIMARY KEY,
  company_id     BIGINT      NOT NULL REFERENCES companies (id),
  area_id        BIGINT      REFERENCES areas (id),
  user_id        BIGINT      NOT NULL REFERENCES users (id),
  name           TEXT        NOT NULL,
  description    TEXT,
  file_name      TEXT        NOT NULL,
  file_extension TEXT        NOT NULL,
  storage_path   TEXT        NOT NULL UNIQUE,
  size           BIGINT      NOT NULL CHECK (size >= 0),
  content_type   TEXT        NOT NULL,
  status_id      BIGINT      NOT NULL REFERENCES document_statuses (id),
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  created_by     TEXT        NOT NULL DEFAULT 'system',
  modified_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  modified_by    TEXT        NOT NULL DEFAULT 'system'
);`,
	},
	{
		Name: "create_index_documents_company_area",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_company_area ON documents (company_id, area_id);`,
	},
	{
		Name: "create_index_documents_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_status ON documents (status_id);`,
	},
	{
		Name: "create_index_user_roles_user",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_user_roles_user ON user_roles (user_id);`,
	},
	{
		Name: "seed_roles",
		SQL: `INSERT INTO roles (name) VALUES
  ('SuperAdministrador'),
  ('Administrador'),
  ('Usuario')
ON CONFLICT (name) DO NOTHING;`,
	},
	{
		Name: "seed_document_statuses",
		SQL: `INSERT INTO document_statuses (name, description) VALUES
  ('Vigente', 'Current approved version'),
  ('Obsoleto', 'Superseded by a newer version'),
  ('En Revision', 'Pending review')
ON CONFLICT (name) DO NOTHING;`,
	},
	{
		Name: "seed_default_company",
		SQL: `INSERT INTO companies (name) VALUES
  ('Principal')
ON CONFLICT (name) DO NOTHING;`,
	},
}

// EnsureMigrated checks if the 'users' table exists and runs migrations if it doesn't.
// On a fresh database it also seeds a bootstrap administrator account.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.users') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	if err := seedAdmin(ctx, db); err != nil {
		logJSON(loc, map[string]any{
			"component":      "database",
			"event":          "db_migration_failed",
			"status":         "error",
			"migration_step": "seed_admin_user",
			"error_message":  err.Error(),
			"db_host":        dbHost,
			"duration_ms":    time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("migration step seed_admin_user failed: %w", err)
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

// seedAdmin creates the bootstrap SuperAdministrador account so a fresh
// deployment has a way to log in. The password must be rotated on first
// use. Hashing happens here rather than in the SQL steps because bcrypt
// hashes are salted.
func seedAdmin(ctx context.Context, db *sql.DB) error {
	hash, err := auth.HashPassword("Admin123*")
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	var userID int64
	err = db.QueryRowContext(ctx, `
INSERT INTO users (company_id, first_name, last_name, email, user_name, password, created_by)
SELECT c.id, 'Admin', 'Principal', 'admin@principal.local', 'admin', $1, 'system'
FROM companies c WHERE c.name = 'Principal'
ON CONFLICT (user_name) DO NOTHING
RETURNING id`, hash).Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return fmt.Errorf("insert bootstrap user: %w", err)
	}

	_, err = db.ExecContext(ctx, `
INSERT INTO user_roles (user_id, role_id, created_by)
SELECT $1, r.id, 'system' FROM roles r WHERE r.name = $2
ON CONFLICT (user_id, role_id) DO NOTHING`, userID, model.RoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("assign bootstrap role: %w", err)
	}
	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
