package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"booking-api/internal/model"
)

const userColumns = `id, fullname, email, phone_number, username, password_hash, role, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PhoneNumber, &u.Username,
		&u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if errors.Is(err, pgx.ErrNoRows) || invalidText(err) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	return r.findOne(ctx, `id = $1`, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findOne(ctx, `lower(email) = lower($1)`, strings.TrimSpace(email))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	return r.findOne(ctx, `username = $1`, strings.TrimSpace(username))
}

func (r *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email string, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1) OR username = $2)`,
		strings.TrimSpace(email), strings.TrimSpace(username)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	created, err := scanUser(r.pool.QueryRow(ctx,
		`INSERT INTO users (id, fullname, email, phone_number, username, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+userColumns,
		u.ID, u.FullName, u.Email, u.PhoneNumber, u.Username, u.PasswordHash, u.Role))
	if uniqueViolation(err, "") {
		return model.User{}, model.ErrUserAlreadyExists
	}
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET
		    fullname      = COALESCE($2, fullname),
		    email         = COALESCE($3, email),
		    phone_number  = COALESCE($4, phone_number),
		    password_hash = COALESCE($5, password_hash),
		    updated_at    = now()
		 WHERE id = $1`,
		id, patch.FullName, patch.Email, patch.PhoneNumber, patch.PasswordHash)
	if uniqueViolation(err, "") {
		return model.ErrUserAlreadyExists
	}
	if invalidText(err) {
		return model.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	if invalidText(err) {
		return model.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// UpdateRole changes a user's role, refusing to demote the last admin.
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role string) error {
	return r.withAdminGuard(ctx, id, role != model.RoleAdmin, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `UPDATE users SET role = $2, updated_at = now() WHERE id = $1`, id, role)
		return err
	})
}

// Delete removes a user, refusing to delete the last admin.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.withAdminGuard(ctx, id, true, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		return err
	})
}

// withAdminGuard runs apply in a transaction that holds row locks on every admin and
// on the target, so two concurrent demotions cannot both see "another admin left".
func (r *UserRepository) withAdminGuard(ctx context.Context, id string, removesAdmin bool, apply func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin admin guard: %w", err)
	}
	defer tx.Rollback(ctx)

	var admins int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM (
		    SELECT id FROM users WHERE role = 'admin' ORDER BY id FOR UPDATE
		 ) AS locked`).Scan(&admins)
	if err != nil {
		return fmt.Errorf("lock admins: %w", err)
	}

	var current string
	err = tx.QueryRow(ctx, `SELECT role FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) || invalidText(err) {
		return model.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("lock user: %w", err)
	}

	if removesAdmin && current == model.RoleAdmin && admins <= 1 {
		return model.ErrLastAdmin
	}

	if err := apply(tx); err != nil {
		return fmt.Errorf("apply user change: %w", err)
	}

	return tx.Commit(ctx)
}

// ListExcludingRole returns users whose role differs from role, newest first.
func (r *UserRepository) ListExcludingRole(ctx context.Context, role string) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE role <> $1 ORDER BY created_at DESC`, role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (r *UserRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE created_at >= $1`, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count new users: %w", err)
	}
	return count, nil
}

func (r *UserRepository) CountByRole(ctx context.Context) ([]model.RoleCount, error) {
	rows, err := r.pool.Query(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role ORDER BY role`)
	if err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}
	defer rows.Close()

	counts := make([]model.RoleCount, 0, 2)
	for rows.Next() {
		var rc model.RoleCount
		if err := rows.Scan(&rc.Role, &rc.Count); err != nil {
			return nil, fmt.Errorf("scan role count: %w", err)
		}
		counts = append(counts, rc)
	}
	return counts, rows.Err()
}
