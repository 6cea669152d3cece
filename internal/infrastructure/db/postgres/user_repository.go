package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailops/user-management/internal/core/domain"
	"github.com/retailops/user-management/internal/core/ports"
)

// UserRepository is the PostgreSQL implementation of ports.UserRepository.
// Records span two tables: users, and one authority row per granted role
// linked by username. Username uniqueness is enforced by the schema.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

var _ ports.UserRepository = (*UserRepository)(nil)

const selectUser = `SELECT id, username, password, COALESCE(name, ''), email, enabled FROM users`

func (r *UserRepository) FindAll(ctx context.Context) ([]ports.UserRecord, error) {
	rows, err := r.pool.Query(ctx, selectUser+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("find all users: %w", err)
	}
	defer rows.Close()

	var recs []ports.UserRecord
	for rows.Next() {
		rec, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find all users: %w", err)
	}

	for i := range recs {
		if err := r.loadAuthorities(ctx, &recs[i]); err != nil {
			return nil, err
		}
	}
	return recs, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*ports.UserRecord, error) {
	return r.findOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*ports.UserRecord, error) {
	return r.findOne(ctx, selectUser+` WHERE username = $1`, username)
}

// FindByNameContaining returns the first substring match only. The LIMIT 1
// is part of the documented contract, not an optimisation.
func (r *UserRepository) FindByNameContaining(ctx context.Context, name string) (*ports.UserRecord, error) {
	return r.findOne(ctx, selectUser+` WHERE name LIKE '%' || $1 || '%' ORDER BY id LIMIT 1`, name)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by username: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by id: %w", err)
	}
	return exists, nil
}

// Save inserts when the record has no id, updates otherwise. The user row
// and its authority rows are written in one transaction; on update the
// authority rows are replaced wholesale to match the record.
func (r *UserRepository) Save(ctx context.Context, rec *ports.UserRecord) (*ports.UserRecord, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("save user: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if rec.ID == 0 {
		err = tx.QueryRow(ctx,
			`INSERT INTO users (username, password, name, email, enabled) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			rec.Username, rec.Password, rec.Name, rec.Email, rec.Enabled,
		).Scan(&rec.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, domain.ErrUsernameExists
			}
			return nil, fmt.Errorf("insert user: %w", err)
		}
	} else {
		// username is immutable; it is never part of the update set.
		res, err := tx.Exec(ctx,
			`UPDATE users SET password = $1, name = $2, email = $3, enabled = $4 WHERE id = $5`,
			rec.Password, rec.Name, rec.Email, rec.Enabled, rec.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		if res.RowsAffected() == 0 {
			return nil, domain.ErrUserNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM authorities WHERE username = $1`, rec.Username); err != nil {
			return nil, fmt.Errorf("clear authorities: %w", err)
		}
	}

	for _, a := range rec.Authorities() {
		if _, err := tx.Exec(ctx,
			`INSERT INTO authorities (username, authority) VALUES ($1, $2)`,
			rec.Username, a.Authority,
		); err != nil {
			return nil, fmt.Errorf("insert authority: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("save user: commit: %w", err)
	}
	return rec, nil
}

func (r *UserRepository) DeleteByID(ctx context.Context, id int64) error {
	// authority rows follow via ON DELETE CASCADE
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*ports.UserRecord, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("find user: %w", err)
		}
		return nil, domain.ErrUserNotFound
	}

	rec, err := scanUser(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()

	if err := r.loadAuthorities(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *UserRepository) loadAuthorities(ctx context.Context, rec *ports.UserRecord) error {
	rows, err := r.pool.Query(ctx,
		`SELECT authority FROM authorities WHERE username = $1 ORDER BY authority`, rec.Username)
	if err != nil {
		return fmt.Errorf("load authorities: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return fmt.Errorf("scan authority: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load authorities: %w", err)
	}

	rec.AddRoles(roles)
	return nil
}

func scanUser(rows pgx.Rows) (*ports.UserRecord, error) {
	rec := &ports.UserRecord{}
	if err := rows.Scan(&rec.ID, &rec.Username, &rec.Password, &rec.Name, &rec.Email, &rec.Enabled); err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return rec, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
