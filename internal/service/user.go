package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Desarrollo-Prime/server-bigc/internal/auth"
	"github.com/Desarrollo-Prime/server-bigc/internal/model"
	"github.com/Desarrollo-Prime/server-bigc/internal/repository"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrUsernameTaken    = errors.New("username already registered")
	ErrInvalidRole      = errors.New("role is not valid")
	ErrRoleChangeDenied = errors.New("only a SuperAdministrador may change roles")
)

// CreateUserInput carries the fields accepted when registering a user.
type CreateUserInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	UserName  string `json:"user_name"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	CompanyID int64  `json:"company_id"`
	RoleName  string `json:"role_name"`
}

// UpdateUserInput carries optional fields for a user update. Nil means
// "leave unchanged".
type UpdateUserInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	UserName  *string `json:"user_name"`
	Password  *string `json:"password"`
	Phone     *string `json:"phone"`
	Enable    *bool   `json:"enable"`
	Blocked   *bool   `json:"blocked"`
	RoleName  *string `json:"role_name"`
}

// UserService defines the use cases for managing user accounts.
type UserService interface {
	// Create registers a new user with a single role assignment.
	// Passwords are always stored bcrypt-hashed.
	Create(ctx context.Context, in CreateUserInput, createdBy string) (*model.User, error)

	// List returns all users with resolved roles, credentials stripped.
	List(ctx context.Context) ([]model.User, error)

	// Get returns a single user by id, credentials stripped.
	Get(ctx context.Context, id int64) (*model.User, error)

	// Update applies the provided fields. A role change is only honored
	// when the acting user holds SuperAdministrador.
	Update(ctx context.Context, id int64, in UpdateUserInput, modifiedBy string, actorRoles []string) (*model.User, error)

	// Delete removes a user and its role assignments.
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	users repository.UserRepository
	roles repository.RoleRepository
}

// NewUserService constructs a new UserService.
func NewUserService(users repository.UserRepository, roles repository.RoleRepository) UserService {
	return &userService{users: users, roles: roles}
}

func (s *userService) Create(ctx context.Context, in CreateUserInput, createdBy string) (*model.User, error) {
	existing, err := s.users.FindByUsernameOrEmail(ctx, in.UserName, in.Email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		if existing.Email == in.Email {
			return nil, ErrEmailTaken
		}
		return nil, ErrUsernameTaken
	}

	role, err := s.roles.FindEnabledByName(ctx, in.RoleName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidRole
		}
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		CompanyID:  in.CompanyID,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		UserName:   in.UserName,
		Password:   hash,
		Phone:      in.Phone,
		Enable:     true,
		Blocked:    false,
		CreatedAt:  now,
		CreatedBy:  createdBy,
		ModifiedAt: now,
		ModifiedBy: createdBy,
	}
	stored, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.users.AssignRole(ctx, stored.ID, role.ID, createdBy); err != nil {
		return nil, err
	}
	return s.Get(ctx, stored.ID)
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].Sanitized()
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (s *userService) Update(ctx context.Context, id int64, in UpdateUserInput, modifiedBy string, actorRoles []string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if in.Email != nil && *in.Email != user.Email {
		if other, err := s.users.FindByEmail(ctx, *in.Email); err == nil && other.ID != id {
			return nil, ErrEmailTaken
		} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		user.Email = *in.Email
	}
	if in.UserName != nil && *in.UserName != user.UserName {
		if other, err := s.users.FindByUsername(ctx, *in.UserName); err == nil && other.ID != id {
			return nil, ErrUsernameTaken
		} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		user.UserName = *in.UserName
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Enable != nil {
		user.Enable = *in.Enable
	}
	if in.Blocked != nil {
		user.Blocked = *in.Blocked
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = hash
	}

	var newRole *model.Role
	if in.RoleName != nil {
		if !auth.Authorize([]string{model.RoleSuperAdmin}, actorRoles) {
			return nil, ErrRoleChangeDenied
		}
		newRole, err = s.roles.FindEnabledByName(ctx, *in.RoleName)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrInvalidRole
			}
			return nil, err
		}
	}

	user.ModifiedAt = time.Now().UTC()
	user.ModifiedBy = modifiedBy
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	// The role assignment is replaced only once the profile write has
	// landed, so a failed update leaves the previous role intact.
	if newRole != nil {
		if err := s.users.ReplaceRole(ctx, user.ID, newRole.ID, modifiedBy); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
