package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hoa-backend/internal/domain"
	"hoa-backend/pkg/database"
)

type PostgresPollRepository struct {
	db *database.PostgresDB
}

func NewPollRepository(db *database.PostgresDB) *PostgresPollRepository {
	return &PostgresPollRepository{db: db}
}

// Create persists a new poll
func (r *PostgresPollRepository) Create(ctx context.Context, poll *domain.Poll) error {
	query := `
		INSERT INTO polls (title, description, options, allow_multiple_votes, expires_at, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		poll.Title,
		poll.Description,
		poll.Options,
		poll.AllowMultipleVotes,
		poll.ExpiresAt,
		poll.IsActive,
		poll.CreatedBy,
		poll.CreatedAt,
		poll.UpdatedAt,
	).Scan(&poll.ID)

	if err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}

	return nil
}

// GetByID retrieves a poll by ID
func (r *PostgresPollRepository) GetByID(ctx context.Context, id int64) (*domain.Poll, error) {
	var poll domain.Poll
	query := `
		SELECT id, title, description, options, allow_multiple_votes, expires_at, is_active, created_by, created_at, updated_at
		FROM polls
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&poll.ID,
		&poll.Title,
		&poll.Description,
		&poll.Options,
		&poll.AllowMultipleVotes,
		&poll.ExpiresAt,
		&poll.IsActive,
		&poll.CreatedBy,
		&poll.CreatedAt,
		&poll.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	return &poll, nil
}

// List retrieves all polls, newest first
func (r *PostgresPollRepository) List(ctx context.Context) ([]domain.Poll, error) {
	query := `
		SELECT id, title, description, options, allow_multiple_votes, expires_at, is_active, created_by, created_at, updated_at
		FROM polls
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	var polls []domain.Poll
	for rows.Next() {
		var poll domain.Poll
		err := rows.Scan(
			&poll.ID,
			&poll.Title,
			&poll.Description,
			&poll.Options,
			&poll.AllowMultipleVotes,
			&poll.ExpiresAt,
			&poll.IsActive,
			&poll.CreatedBy,
			&poll.CreatedAt,
			&poll.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
	}

	return polls, rows.Err()
}

// Update writes all mutable columns of the poll
func (r *PostgresPollRepository) Update(ctx context.Context, poll *domain.Poll) error {
	query := `
		UPDATE polls
		SET title = $2, description = $3, options = $4, allow_multiple_votes = $5, expires_at = $6, is_active = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		poll.ID,
		poll.Title,
		poll.Description,
		poll.Options,
		poll.AllowMultipleVotes,
		poll.ExpiresAt,
		poll.IsActive,
		poll.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// Delete removes the poll row
func (r *PostgresPollRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	return nil
}
