// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/cadenza/internal/platform/database/schema"
	"github.com/taibuivan/cadenza/internal/platform/dberr"
	"github.com/taibuivan/cadenza/internal/platform/postgres"
	"github.com/taibuivan/cadenza/internal/users/auth"
)

// PostgresAccountRepository implements [Repository] on users.account.
type PostgresAccountRepository struct {
	db    postgres.Querier
	users *auth.PostgresUserRepository
}

// NewAccountRepository creates a new Postgres implementation for profile management.
func NewAccountRepository(db postgres.Querier) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db, users: auth.NewUserRepository(db)}
}

// FindByID delegates to the credential store, which owns the row mapping.
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	return repository.users.FindByID(context, id)
}

/*
UpdateProfile builds a SET clause from the non-nil fields only.

Returns:
  - error: apperr.NotFound if the account is gone
*/
func (repository *PostgresAccountRepository) UpdateProfile(context context.Context, id string, input UpdateProfileInput) (*auth.User, error) {
	assignments := []string{fmt.Sprintf("%s = $2", schema.UserAccount.UpdatedAt)}
	arguments := []any{id, time.Now().UTC()}

	if input.DisplayName != nil {
		arguments = append(arguments, strings.TrimSpace(*input.DisplayName))
		assignments = append(assignments, fmt.Sprintf("%s = $%d", schema.UserAccount.DisplayName, len(arguments)))
	}
	if input.Bio != nil {
		arguments = append(arguments, strings.TrimSpace(*input.Bio))
		assignments = append(assignments, fmt.Sprintf("%s = $%d", schema.UserAccount.Bio, len(arguments)))
	}

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.Table, strings.Join(assignments, ", "),
		schema.UserAccount.ID, schema.UserAccount.DeletedAt)

	if err := repository.execOne(context, "update_profile", query, arguments...); err != nil {
		return nil, err
	}

	return repository.FindByID(context, id)
}

/*
SetAvatar swaps the avatar URL in one statement and returns the old value.
*/
func (repository *PostgresAccountRepository) SetAvatar(context context.Context, id, avatarURL string) (string, error) {
	query := fmt.Sprintf(`
		UPDATE %[1]s AS current
		SET %[2]s = $2, %[3]s = $3
		FROM (SELECT %[4]s, %[2]s FROM %[1]s WHERE %[4]s = $1 FOR UPDATE) AS previous
		WHERE current.%[4]s = previous.%[4]s AND current.%[5]s IS NULL
		RETURNING previous.%[2]s`,
		schema.UserAccount.Table, schema.UserAccount.AvatarURL, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt)

	var previous string
	if err := repository.db.QueryRow(context, query, id, avatarURL, time.Now().UTC()).Scan(&previous); err != nil {
		return "", dberr.Wrap(err, "User", "set_avatar")
	}
	return previous, nil
}

// SoftDelete stamps deletedat on a live account.
func (repository *PostgresAccountRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.Table, schema.UserAccount.DeletedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt)

	return repository.execOne(context, "soft_delete_account", query, id, time.Now().UTC())
}

// execOne runs an update that must touch exactly one live row.
func (repository *PostgresAccountRepository) execOne(context context.Context, action, query string, arguments ...any) error {
	tag, err := repository.db.Exec(context, query, arguments...)
	if err != nil {
		return dberr.Wrap(err, "User", action)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User", action)
	}
	return nil
}
