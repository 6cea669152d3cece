package handler

// Request payloads for the /api/users routes. Domain invariants (email
// shape, password strength, role tokens) are enforced by the core; the
// validator tags only gate structurally unusable requests.

type createUserRequest struct {
	Username string   `json:"username" validate:"required,max=254"`
	Password string   `json:"password" validate:"required"`
	Name     string   `json:"name"`
	Email    *string  `json:"email"`
	Roles    []string `json:"roles"`
}

// updateUserRequest is a whole-state replacement: submitted values overwrite
// the stored ones, roles included. Username is immutable and absent here.
// A null or omitted enabled flag re-enables the account.
type updateUserRequest struct {
	Name    string   `json:"name"`
	Email   *string  `json:"email"`
	Roles   []string `json:"roles"`
	Enabled *bool    `json:"enabled"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}
