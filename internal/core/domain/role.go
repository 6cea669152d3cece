package domain

import (
	"fmt"
	"strings"
)

// Role is one member of the closed authority enumeration.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleCashier Role = "CASHIER"
	RoleManager Role = "MANAGER"
)

// ParseRole resolves a role token case-insensitively against the closed
// enumeration. Unrecognized tokens fail with ErrUnknownRole.
func ParseRole(token string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(token))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleCashier:
		return RoleCashier, nil
	case RoleManager:
		return RoleManager, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, token)
}

// ParseRoles resolves a list of role tokens. The first unrecognized token
// aborts the whole parse so callers never end up with a partial role set.
func ParseRoles(tokens []string) ([]Role, error) {
	roles := make([]Role, 0, len(tokens))
	for _, t := range tokens {
		r, err := ParseRole(t)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, nil
}
