package repository

import (
	"context"

	"github.com/Desarrollo-Prime/server-bigc/internal/model"
)

// UserRepository defines data access for user accounts and their role
// assignments. No business logic here — strictly persistence operations.
// Every Find* that returns a user resolves its role names.
type UserRepository interface {
	// FindActiveByUsername returns the user with the given username
	// only if enable=true and blocked=false. The auth core depends on
	// this filter happening in the query: a disabled or blocked row
	// must look identical to a missing one.
	FindActiveByUsername(ctx context.Context, userName string) (*model.User, error)

	// FindByID returns a user by id regardless of enable/blocked state.
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByUsernameOrEmail returns any user matching either value,
	// used for the uniqueness check before create. It does not resolve
	// roles.
	FindByUsernameOrEmail(ctx context.Context, userName, email string) (*model.User, error)

	// FindByEmail returns the user holding the exact email, any state.
	// Uniqueness check only, no role resolution.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByUsername returns the user holding the exact username, any
	// state. Uniqueness check only, no role resolution.
	FindByUsername(ctx context.Context, userName string) (*model.User, error)

	// List returns all users with resolved roles.
	List(ctx context.Context) ([]model.User, error)

	// Create inserts the user row and returns it with the generated id.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// Update persists mutable profile fields and audit columns.
	Update(ctx context.Context, u *model.User) error

	// Delete removes the user and its role assignments.
	Delete(ctx context.Context, id int64) error

	// ReplaceRole drops all role assignments for the user and records a
	// single new one.
	ReplaceRole(ctx context.Context, userID, roleID int64, modifiedBy string) error

	// AssignRole records one role assignment.
	AssignRole(ctx context.Context, userID, roleID int64, createdBy string) error
}

// RoleRepository reads the role catalog.
type RoleRepository interface {
	// FindEnabledByName returns an enabled role by its exact name.
	FindEnabledByName(ctx context.Context, name string) (*model.Role, error)

	// List returns all roles.
	List(ctx context.Context) ([]model.Role, error)
}
