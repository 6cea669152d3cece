package ports

import "context"

// UserRepository defines the persistence contract for user records. Lookups
// that find nothing return domain.ErrUserNotFound; Save returns
// domain.ErrUsernameExists when the unique username constraint is violated.
//
// Username uniqueness and per-record update atomicity are the store's
// responsibility — callers hold no locks.
type UserRepository interface {
	FindAll(ctx context.Context) ([]UserRecord, error)
	FindByID(ctx context.Context, id int64) (*UserRecord, error)
	FindByUsername(ctx context.Context, username string) (*UserRecord, error)
	// FindByNameContaining returns at most one record whose name contains
	// the given substring. The single-result contract is deliberate.
	FindByNameContaining(ctx context.Context, name string) (*UserRecord, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// Save inserts when the record has no id yet, updates otherwise. The
	// returned record carries the store-assigned id.
	Save(ctx context.Context, rec *UserRecord) (*UserRecord, error)
	DeleteByID(ctx context.Context, id int64) error
}
