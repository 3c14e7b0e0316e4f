// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
	"github.com/taibuivan/cadenza/internal/platform/database/schema"
	"github.com/taibuivan/cadenza/internal/platform/dberr"
	"github.com/taibuivan/cadenza/internal/platform/postgres"
	"github.com/taibuivan/cadenza/internal/platform/sec"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] and [sec.IdentityStore].
type PostgresUserRepository struct {
	db postgres.Querier
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var userColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
	schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
	schema.UserAccount.PasswordHash, schema.UserAccount.Role, schema.UserAccount.DisplayName,
	schema.UserAccount.AvatarURL, schema.UserAccount.Bio,
	schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
)

/*
Create persists a new user record into the users.account table.

Returns:
  - error: apperr.Conflict naming the taken field, or wrapped storage errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		schema.UserAccount.Table, userColumns)

	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	_, err := repository.db.Exec(context, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role,
		user.DisplayName, user.AvatarURL, user.Bio, user.CreatedAt, user.UpdatedAt,
	)

	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, schema.ConstraintAccountEmail):
		return apperr.Conflict("Email is already registered")
	case dberr.IsUniqueViolation(err, schema.ConstraintAccountUsername):
		return apperr.Conflict("Username is already taken")
	default:
		return dberr.Wrap(err, "User", "create_user")
	}
}

/*
FindByID retrieves a live user record by primary key.
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		userColumns, schema.UserAccount.Table, schema.UserAccount.ID, schema.UserAccount.DeletedAt)

	return repository.scanOne(context, "find_user_by_id", query, id)
}

/*
FindByLogin retrieves a live user record by email or username.
*/
func (repository *PostgresUserRepository) FindByLogin(context context.Context, login string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE (LOWER(%s) = LOWER($1) OR LOWER(%s) = LOWER($1)) AND %s IS NULL LIMIT 1`,
		userColumns, schema.UserAccount.Table,
		schema.UserAccount.Email, schema.UserAccount.Username, schema.UserAccount.DeletedAt)

	return repository.scanOne(context, "find_user_by_login", query, login)
}

/*
FindIdentity implements [sec.IdentityStore]. Soft-deleted accounts are
reported as not found.
*/
func (repository *PostgresUserRepository) FindIdentity(context context.Context, id string) (*sec.Identity, error) {
	user, err := repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

func (repository *PostgresUserRepository) scanOne(context context.Context, action, query string, argument any) (*User, error) {
	user := &User{}
	err := repository.db.QueryRow(context, query, argument).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role,
		&user.DisplayName, &user.AvatarURL, &user.Bio, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User", action)
	}
	return user, nil
}
