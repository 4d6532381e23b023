package model

import "time"

// User represents an account capable of authenticating.
// Password carries the stored credential hash and is never serialized;
// Roles holds the resolved role names for the account and is populated
// by the repository from the user_roles join.
type User struct {
	ID         int64     `json:"id"`
	CompanyID  int64     `json:"company_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	UserName   string    `json:"user_name"`
	Password   string    `json:"-"`
	Phone      string    `json:"phone"`
	Enable     bool      `json:"enable"`
	Blocked    bool      `json:"blocked"`
	CreatedAt  time.Time `json:"created_at"`
	CreatedBy  string    `json:"created_by"`
	ModifiedAt time.Time `json:"modified_at"`
	ModifiedBy string    `json:"modified_by"`
	Roles      []string  `json:"roles"`
}

// Sanitized returns a copy of the user with the credential hash removed.
// Everything that leaves the auth layer goes through this.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
