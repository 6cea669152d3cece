package service

import (
	"github.com/retailops/user-management/internal/core/domain"
	"github.com/retailops/user-management/internal/core/ports"
)

// Pure, stateless translations between the aggregate, the persisted record
// and the outward view. Performed around each store interaction; no side
// effects.

func recordToDomain(rec *ports.UserRecord) (*domain.User, error) {
	roles := make([]domain.Role, 0, len(rec.Authorities()))
	for _, a := range rec.Authorities() {
		r, err := domain.ParseRole(a.Authority)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}

	enabled := rec.Enabled
	return domain.NewUser(domain.UserConfig{
		ID:           rec.ID,
		Username:     rec.Username,
		PasswordHash: rec.Password,
		Name:         rec.Name,
		Email:        rec.Email,
		Roles:        roles,
		Enabled:      &enabled,
	})
}

func domainToRecord(u *domain.User) *ports.UserRecord {
	rec := &ports.UserRecord{
		ID:       u.ID(),
		Username: u.Username(),
		Password: u.PasswordHash(),
		Name:     u.Name(),
		Email:    u.Email(),
		Enabled:  u.Enabled(),
	}
	rec.AddRoles(roleTokens(u))
	return rec
}

func domainToView(u *domain.User) *ports.UserView {
	return &ports.UserView{
		ID:       u.ID(),
		Username: u.Username(),
		Email:    u.Email(),
		Name:     u.Name(),
		Roles:    roleTokens(u),
		Enabled:  u.Enabled(),
	}
}

func roleTokens(u *domain.User) []string {
	roles := u.Roles()
	tokens := make([]string, 0, len(roles))
	for _, r := range roles {
		tokens = append(tokens, string(r))
	}
	return tokens
}
