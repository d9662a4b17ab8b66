package model

import (
	"context"
	"time"
)

// Authorities granted to users
const (
	AuthorityAdmin = "ROLE_ADMIN"
	AuthorityUser  = "ROLE_USER"
)

// User is an account that may access the REST API.
// As long as no users exist the API is open; once one user exists every
// request under /api must be authenticated.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdDate"`
	UpdatedAt time.Time `json:"lastModifiedDate"`

	// Login is the unique name used to authenticate
	Login string `gorm:"uniqueIndex;size:50" json:"login"`
	// PasswordHash stores a PHC-formatted argon2id hash of the password
	PasswordHash string `json:"-"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Email        string `json:"email,omitempty"`
	// Admin grants ROLE_ADMIN in addition to ROLE_USER
	Admin bool `json:"-"`
	// Activated users may log in; deactivated accounts are kept but rejected
	Activated bool `json:"activated"`
}

// Authorities returns the roles of the user
func (u User) Authorities() []string {
	if u.Admin {
		return []string{AuthorityAdmin, AuthorityUser}
	}
	return []string{AuthorityUser}
}

// UserUpdate holds the optional changes applied by UsersStore.Update
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Admin     *bool
	Activated *bool
}

// UsersStore abstracts CRUD and authentication helpers for user accounts.
type UsersStore interface {
	// Count returns the number of users present in the store
	Count(ctx context.Context) (int64, error)
	// List returns all users (without password hashes)
	List(ctx context.Context) ([]User, error)
	// Get returns a user by login
	Get(ctx context.Context, login string) (*User, error)
	// Create creates an activated user; the implementation must hash the password
	Create(ctx context.Context, u User, password string) (*User, error)
	// Update applies the non-nil fields of the update
	Update(ctx context.Context, login string, update UserUpdate) (*User, error)
	// Delete deletes a user by login
	Delete(ctx context.Context, login string) error
	// Authenticate checks a login/password combo and returns the user
	Authenticate(ctx context.Context, login, password string) (*User, error)
}
