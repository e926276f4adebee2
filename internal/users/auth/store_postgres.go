// Copyright (c) 2026 Writory. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/writory/internal/platform/apperr"
	"github.com/taibuivan/writory/internal/platform/database/schema"
	"github.com/taibuivan/writory/internal/platform/dberr"
)

// # Postgres Implementation

// PostgresUserRepository is the pgx-backed implementation of [UserRepository].
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository constructs a user repository on top of the shared pool.
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// FindByID returns the account with the given ID.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserAccount.ID,
		schema.UserAccount.Username,
		schema.UserAccount.Email,
		schema.UserAccount.Password,
		schema.UserAccount.CreatedAt,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table,
		schema.UserAccount.ID,
	)

	return repository.scanOne(context, query, id)
}

// FindByUsername returns the account with the given username.
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserAccount.ID,
		schema.UserAccount.Username,
		schema.UserAccount.Email,
		schema.UserAccount.Password,
		schema.UserAccount.CreatedAt,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table,
		schema.UserAccount.Username,
	)

	return repository.scanOne(context, query, username)
}

// Create persists a brand-new user account.
//
// A unique-constraint violation on the username is surfaced as a validation
// error: the service pre-checks uniqueness, but two racing signups can still
// collide here and the constraint is the final arbiter.
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.ID,
		schema.UserAccount.Username,
		schema.UserAccount.Email,
		schema.UserAccount.Password,
		schema.UserAccount.CreatedAt,
		schema.UserAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.ValidationError("Username already exists")
		}
		return dberr.Wrap(err, "user_create")
	}

	return nil
}

// UpdatePassword replaces only the password hash and bumps updatedat.
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = NOW()
		WHERE %s = $2`,
		schema.UserAccount.Table,
		schema.UserAccount.Password,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	commandTag, err := repository.pool.Exec(context, query, newHash, userID)
	if err != nil {
		return dberr.Wrap(err, "user_update_password")
	}

	if commandTag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// scanOne runs a single-row account query and hydrates the entity.
func (repository *PostgresUserRepository) scanOne(context context.Context, query string, argument any) (*User, error) {
	var user User

	err := repository.pool.QueryRow(context, query, argument).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "user_find")
	}

	return &user, nil
}
