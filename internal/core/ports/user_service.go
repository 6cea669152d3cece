package ports

import "context"

// UserView is the read-only outward projection of a user. It never carries
// the password hash.
type UserView struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    *string  `json:"email"`
	Name     string   `json:"name"`
	Roles    []string `json:"roles"`
	Enabled  bool     `json:"enabled"`
}

// CreateUserInput carries the fields for a new account. Roles are raw tokens
// parsed against the closed enumeration by the service.
type CreateUserInput struct {
	Username string
	Password string
	Name     string
	Email    *string
	Roles    []string
}

// UpdateUserInput is a whole-state replacement: the submitted name, email,
// roles and enabled flag overwrite the stored values. Username is immutable
// and therefore absent.
type UpdateUserInput struct {
	Name    string
	Email   *string
	Roles   []string
	Enabled *bool
}

// UserService orchestrates account operations. It is stateless apart from its
// store and hasher collaborators; every call is one logical unit of work.
type UserService interface {
	ListUsers(ctx context.Context) ([]UserView, error)
	GetUserByID(ctx context.Context, id int64) (*UserView, error)
	GetUserByUsername(ctx context.Context, username string) (*UserView, error)
	// GetUserByName returns the first (and only) substring match on the
	// display name.
	GetUserByName(ctx context.Context, name string) (*UserView, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*UserView, error)
	UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (*UserView, error)
	DeleteUser(ctx context.Context, id int64) error
	ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error
}

// PasswordHasher is the one-way credential hashing contract. Hash salts per
// call, so equal inputs produce different outputs — callers must never
// compare hashes for equality. Verify fails with domain.ErrInvalidCredential
// on mismatch.
type PasswordHasher interface {
	Hash(rawPassword string) (string, error)
	Verify(rawPassword, hash string) error
}
