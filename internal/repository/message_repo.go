package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"ai-chatbot/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) error
	ListBySession(ctx context.Context, session string) ([]domain.Message, error)
	ListSessions(ctx context.Context) ([]string, error)
	DeleteSession(ctx context.Context, session string) (int64, error)
	DeleteAll(ctx context.Context) error
}

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Create(ctx context.Context, message domain.Message) error {
	const query = `
		INSERT INTO messages (id, sender, text, timestamp, session)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.Sender,
		message.Text,
		message.Timestamp,
		message.Session,
	)
	return err
}

func (r *PgMessageRepository) ListBySession(ctx context.Context, session string) ([]domain.Message, error) {
	const query = `
		SELECT id, sender, text, timestamp, session
		FROM messages
		WHERE session = $1
		ORDER BY timestamp ASC
	`

	rows, err := r.pool.Query(ctx, query, session)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		err = rows.Scan(
			&msg.ID,
			&msg.Sender,
			&msg.Text,
			&msg.Timestamp,
			&msg.Session,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *PgMessageRepository) ListSessions(ctx context.Context) ([]string, error) {
	const query = `
		SELECT DISTINCT session
		FROM messages
		ORDER BY session ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var session string
		if err = rows.Scan(&session); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *PgMessageRepository) DeleteSession(ctx context.Context, session string) (int64, error) {
	const query = `
		DELETE FROM messages
		WHERE session = $1
	`

	tag, err := r.pool.Exec(ctx, query, session)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgMessageRepository) DeleteAll(ctx context.Context) error {
	const query = `DELETE FROM messages`
	_, err := r.pool.Exec(ctx, query)
	return err
}
