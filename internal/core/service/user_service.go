package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/retailops/user-management/internal/core/domain"
	"github.com/retailops/user-management/internal/core/ports"
)

// UserService orchestrates account operations: load → validate → mutate →
// persist → project. Domain failures are translated into the stable
// ports.BusinessError codes; store and hashing failures propagate unmapped.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, logger: logger}
}

func (s *UserService) ListUsers(ctx context.Context) ([]ports.UserView, error) {
	recs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ports.UserView, 0, len(recs))
	for i := range recs {
		u, err := recordToDomain(&recs[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *domainToView(u))
	}
	return views, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*ports.UserView, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFound(err, "User not found.")
	}
	return s.project(rec)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*ports.UserView, error) {
	rec, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, s.notFound(err, "User not found.")
	}
	return s.project(rec)
}

// GetUserByName returns the first substring match on the display name. The
// at-most-one contract comes from the store; see the repository docs.
func (s *UserService) GetUserByName(ctx context.Context, name string) (*ports.UserView, error) {
	rec, err := s.repo.FindByNameContaining(ctx, name)
	if err != nil {
		return nil, s.notFound(err, "User not found.")
	}
	return s.project(rec)
}

func (s *UserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*ports.UserView, error) {
	exists, err := s.repo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ports.NewBusinessError(ports.CodeUsernameExist, "Username already exist. Failed to create user.")
	}

	if err := ValidatePassword(in.Password); err != nil {
		return nil, ports.NewBusinessError(ports.CodeInvalidFormat, err.Error()+". Failed to create user.")
	}

	roles, err := domain.ParseRoles(in.Roles)
	if err != nil {
		return nil, ports.NewBusinessError(ports.CodeInvalidFormat, err.Error()+". Failed to create user.")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := domain.NewUser(domain.UserConfig{
		Username:     in.Username,
		PasswordHash: hash,
		Name:         in.Name,
		Email:        in.Email,
		Roles:        roles,
	})
	if err != nil {
		return nil, ports.NewBusinessError(ports.CodeInvalidFormat, err.Error()+". Failed to create user.")
	}

	saved, err := s.repo.Save(ctx, domainToRecord(user))
	if err != nil {
		if errors.Is(err, domain.ErrUsernameExists) {
			return nil, ports.NewBusinessError(ports.CodeUsernameExist, "Username already exist. Failed to create user.")
		}
		return nil, err
	}

	s.logger.Info().Str("username", in.Username).Int64("user_id", saved.ID).Msg("user created")
	return s.project(saved)
}

// UpdateUser applies name, email, roles and enabled-flag mutations in that
// order, then persists the merged record. The input is a whole-state
// replacement; roles in particular are replaced, never merged.
func (s *UserService) UpdateUser(ctx context.Context, id int64, in ports.UpdateUserInput) (*ports.UserView, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFound(err, "User not found. Failed to update user.")
	}

	user, err := recordToDomain(rec)
	if err != nil {
		return nil, err
	}

	user.UpdateName(in.Name)

	if err := user.UpdateEmail(in.Email); err != nil {
		return nil, ports.NewBusinessError(ports.CodeInvalidFormat, err.Error()+". Failed to update user.")
	}

	roles, err := domain.ParseRoles(in.Roles)
	if err != nil {
		return nil, ports.NewBusinessError(ports.CodeInvalidFormat, err.Error()+". Failed to update user.")
	}
	user.UpdateRoles(roles)

	user.UpdateEnabled(in.Enabled)

	saved, err := s.repo.Save(ctx, domainToRecord(user))
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", id).Msg("user updated")
	return s.project(saved)
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ports.NewBusinessError(ports.CodeUserNotFound, "User not found. Failed to delete user.")
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

// ChangePassword verifies the old password against the stored hash before
// validating and hashing the new one. Validation precedes the persisting
// write, so a failure leaves the stored hash untouched.
func (s *UserService) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.notFound(err, "User not found. Failed to change password.")
	}

	user, err := recordToDomain(rec)
	if err != nil {
		return err
	}

	if err := s.hasher.Verify(oldPassword, user.PasswordHash()); err != nil {
		return ports.NewBusinessError(ports.CodeInvalidOldPassword, "Wrong old password. Failed to change password.")
	}

	if err := ValidatePassword(newPassword); err != nil {
		return ports.NewBusinessError(ports.CodeInvalidFormat, err.Error()+". Failed to change password.")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	user.ChangePassword(hash)

	if _, err := s.repo.Save(ctx, domainToRecord(user)); err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", id).Msg("password changed")
	return nil
}

func (s *UserService) project(rec *ports.UserRecord) (*ports.UserView, error) {
	user, err := recordToDomain(rec)
	if err != nil {
		return nil, err
	}
	return domainToView(user), nil
}

func (s *UserService) notFound(err error, msg string) error {
	if errors.Is(err, domain.ErrUserNotFound) {
		return ports.NewBusinessError(ports.CodeUserNotFound, msg)
	}
	return err
}
