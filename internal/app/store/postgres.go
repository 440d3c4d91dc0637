/*
Package store provides the persistence implementations behind the chat core's
ParticipantStore and MessageStore contracts.

This file contains the PostgreSQL implementation over a pgx connection pool.
Atomicity of the conditional eviction comes from the single DELETE statement's
WHERE clause rather than from an application-side lock.
*/
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"batepapo/internal/app/chat"
	"batepapo/internal/app/db"
)

// PostgresParticipants is the PostgreSQL-backed ParticipantStore.
type PostgresParticipants struct {
	pool *pgxpool.Pool
}

// NewPostgresParticipants constructs a participant store over pool.
func NewPostgresParticipants(pool *pgxpool.Pool) *PostgresParticipants {
	return &PostgresParticipants{pool: pool}
}

// Insert adds a new participant row, mapping the unique violation on the
// primary key to chat.ErrParticipantExists.
func (s *PostgresParticipants) Insert(ctx context.Context, p chat.Participant) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO participants (name, last_status) VALUES ($1, $2)`,
		p.Name, p.LastStatus,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return chat.ErrParticipantExists
		}
		return err
	}
	return nil
}

// Get returns the participant by name.
func (s *PostgresParticipants) Get(ctx context.Context, name string) (chat.Participant, error) {
	var p chat.Participant
	err := s.pool.QueryRow(ctx,
		`SELECT name, last_status FROM participants WHERE name = $1`,
		name,
	).Scan(&p.Name, &p.LastStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return chat.Participant{}, chat.ErrParticipantUnknown
		}
		return chat.Participant{}, err
	}
	return p, nil
}

// Touch sets the participant's last_status to at.
func (s *PostgresParticipants) Touch(ctx context.Context, name string, at time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE participants SET last_status = $2 WHERE name = $1`,
		name, at,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return chat.ErrParticipantUnknown
	}
	return nil
}

// List returns all participants ordered by name.
func (s *PostgresParticipants) List(ctx context.Context) ([]chat.Participant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, last_status FROM participants ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []chat.Participant
	for rows.Next() {
		var p chat.Participant
		if err := rows.Scan(&p.Name, &p.LastStatus); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Remove deletes the participant iff its last_status is strictly before
// seenBefore. The conditional DELETE is a single statement, so a concurrent
// heartbeat UPDATE cannot be lost between check and delete.
func (s *PostgresParticipants) Remove(ctx context.Context, name string, seenBefore time.Time) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM participants WHERE name = $1 AND last_status < $2`,
		name, seenBefore,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// PostgresMessages is the PostgreSQL-backed MessageStore. The seq column
// preserves insertion order.
type PostgresMessages struct {
	pool *pgxpool.Pool
}

// NewPostgresMessages constructs a message store over pool.
func NewPostgresMessages(pool *pgxpool.Pool) *PostgresMessages {
	return &PostgresMessages{pool: pool}
}

// Append stores m at the end of the log.
func (s *PostgresMessages) Append(ctx context.Context, m chat.Message) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO messages (id, from_name, to_name, body, kind, time_label)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.From, m.To, m.Text, m.Kind, m.Time,
	)
	return err
}

// Get returns the message by id.
func (s *PostgresMessages) Get(ctx context.Context, id string) (chat.Message, error) {
	var m chat.Message
	err := s.pool.QueryRow(ctx,
		`SELECT id, from_name, to_name, body, kind, time_label
		 FROM messages WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.From, &m.To, &m.Text, &m.Kind, &m.Time)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return chat.Message{}, chat.ErrMessageUnknown
		}
		return chat.Message{}, err
	}
	return m, nil
}

// Delete removes the message by id.
func (s *PostgresMessages) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return chat.ErrMessageUnknown
	}
	return nil
}

// List returns all messages in insertion order.
func (s *PostgresMessages) List(ctx context.Context) ([]chat.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, from_name, to_name, body, kind, time_label
		 FROM messages ORDER BY seq`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.From, &m.To, &m.Text, &m.Kind, &m.Time); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
