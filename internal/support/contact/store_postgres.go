// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/cadenza/internal/platform/database/schema"
	"github.com/taibuivan/cadenza/internal/platform/dberr"
	"github.com/taibuivan/cadenza/internal/platform/postgres"
)

// PostgresMessageRepository implements [Repository] over support.contactmessage.
type PostgresMessageRepository struct {
	db postgres.Querier
}

// NewMessageRepository creates a new Postgres contact message store.
func NewMessageRepository(db postgres.Querier) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

// Create inserts a message.
func (repository *PostgresMessageRepository) Create(context context.Context, message *Message) error {
	table := schema.SupportContactMessage
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		table.Table, table.ID, table.Name, table.Email, table.Subject, table.Message, table.IPAddress, table.CreatedAt)

	message.CreatedAt = time.Now().UTC()

	_, err := repository.db.Exec(context, query,
		message.ID, message.Name, message.Email, message.Subject, message.Body, message.IPAddress, message.CreatedAt)
	return dberr.Wrap(err, "Contact message", "create_contact_message")
}
