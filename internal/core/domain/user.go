package domain

import (
	"regexp"
	"sort"
)

// Intentionally permissive: any non-empty local part, "@", any non-empty
// remainder. Full RFC validation is not a goal.
var emailPattern = regexp.MustCompile(`^.+@.+$`)

// User is the aggregate root for the account domain. The username is fixed at
// construction; every other field changes only through the explicit mutators
// below. The role set is owned by the aggregate and exposed whole — there is
// no single-role add or remove.
type User struct {
	id           int64
	username     string
	passwordHash string
	name         string
	email        *string
	roles        map[Role]struct{}
	enabled      bool
}

// UserConfig assembles a User. Username is required; everything else is
// optional and defaulted per the aggregate's invariants (email absent, roles
// empty, enabled true). ID stays zero until the store assigns one.
type UserConfig struct {
	ID           int64
	Username     string
	PasswordHash string
	Name         string
	Email        *string
	Roles        []Role
	Enabled      *bool
}

// NewUser validates the configuration and constructs the aggregate.
// A non-nil email that does not match the shape rule fails with
// ErrMalformedEmail; a role outside the closed enumeration fails with
// ErrUnknownRole.
func NewUser(cfg UserConfig) (*User, error) {
	if cfg.Username == "" {
		return nil, ErrUsernameRequired
	}
	if cfg.Email != nil && !emailPattern.MatchString(*cfg.Email) {
		return nil, ErrMalformedEmail
	}

	roles := make(map[Role]struct{}, len(cfg.Roles))
	for _, r := range cfg.Roles {
		if _, err := ParseRole(string(r)); err != nil {
			return nil, err
		}
		roles[r] = struct{}{}
	}

	enabled := true
	if cfg.Enabled != nil {
		enabled = *cfg.Enabled
	}

	return &User{
		id:           cfg.ID,
		username:     cfg.Username,
		passwordHash: cfg.PasswordHash,
		name:         cfg.Name,
		email:        cfg.Email,
		roles:        roles,
		enabled:      enabled,
	}, nil
}

func (u *User) ID() int64            { return u.id }
func (u *User) Username() string     { return u.username }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Name() string         { return u.name }
func (u *User) Email() *string       { return u.email }
func (u *User) Enabled() bool        { return u.enabled }

// Roles returns the role set in stable (sorted) order.
func (u *User) Roles() []Role {
	out := make([]Role, 0, len(u.roles))
	for r := range u.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ChangePassword replaces the stored hash unconditionally. Verifying the old
// password and hashing the new one are the caller's responsibility.
func (u *User) ChangePassword(newHash string) {
	u.passwordHash = newHash
}

// UpdateRoles replaces the role set wholesale. nil clears to the empty set.
func (u *User) UpdateRoles(newRoles []Role) {
	roles := make(map[Role]struct{}, len(newRoles))
	for _, r := range newRoles {
		roles[r] = struct{}{}
	}
	u.roles = roles
}

// UpdateName replaces the display name. Name content is not validated.
func (u *User) UpdateName(newName string) {
	u.name = newName
}

// UpdateEmail validates the new address like construction does. On failure
// the prior email is left unchanged. nil clears the address.
func (u *User) UpdateEmail(newEmail *string) error {
	if newEmail != nil && !emailPattern.MatchString(*newEmail) {
		return ErrMalformedEmail
	}
	u.email = newEmail
	return nil
}

// UpdateEnabled sets the flag; nil coerces to true so the observable state is
// never unset.
func (u *User) UpdateEnabled(flag *bool) {
	u.enabled = flag == nil || *flag
}
