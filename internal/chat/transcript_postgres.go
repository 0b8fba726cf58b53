package chat

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/JaimeStill/clarus/pkg/query"
	"github.com/JaimeStill/clarus/pkg/repository"
)

var entryProjection = query.
	NewProjectionMap("public", "chat_messages", "m").
	Project("id", "ID").
	Project("role", "Role").
	Project("content", "Content").
	Project("mode", "Mode").
	Project("created_at", "CreatedAt")

var newestFirst = []query.SortField{
	{Field: "CreatedAt", Descending: true},
	{Field: "ID", Descending: true},
}

type postgresTranscript struct {
	db *sql.DB
}

// NewPostgresTranscript returns a Transcript over the chat_messages table.
func NewPostgresTranscript(db *sql.DB) Transcript {
	return &postgresTranscript{db: db}
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	err := s.Scan(&e.ID, &e.Role, &e.Content, &e.Mode, &e.CreatedAt)
	return e, err
}

func (p *postgresTranscript) Append(ctx context.Context, entries ...Entry) error {
	q := `
		INSERT INTO chat_messages (id, role, content, mode, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := repository.WithTx(ctx, p.db, func(tx *sql.Tx) (struct{}, error) {
		for _, e := range entries {
			if err := repository.ExecExpectOne(ctx, tx, q, e.ID, e.Role, e.Content, e.Mode, e.CreatedAt); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("insert chat messages: %w", err)
	}
	return nil
}

func (p *postgresTranscript) List(ctx context.Context, limit int) ([]Entry, error) {
	q, args := query.NewBuilder(entryProjection, newestFirst...).Limit(limit).Build()

	entries, err := repository.QueryMany(ctx, p.db, q, args, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query chat messages: %w", err)
	}
	slices.Reverse(entries)
	return entries, nil
}
