package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hoa-backend/internal/domain"
	"hoa-backend/pkg/database"
)

type PostgresVoteRepository struct {
	db *database.PostgresDB
}

func NewVoteRepository(db *database.PostgresDB) *PostgresVoteRepository {
	return &PostgresVoteRepository{db: db}
}

// Upsert inserts a vote or overwrites the selection of the existing
// (poll, user) row. created_at is intentionally not touched on conflict, the
// original vote time survives resubmission.
func (r *PostgresVoteRepository) Upsert(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO poll_votes (poll_id, user_id, selected_options, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (poll_id, user_id)
		DO UPDATE SET selected_options = EXCLUDED.selected_options
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		vote.PollID,
		vote.UserID,
		vote.SelectedOptions,
		vote.CreatedAt,
	).Scan(&vote.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert vote: %w", err)
	}

	return nil
}

// GetByPollAndUser retrieves one resident's vote on a poll
func (r *PostgresVoteRepository) GetByPollAndUser(ctx context.Context, pollID, userID int64) (*domain.Vote, error) {
	var vote domain.Vote
	query := `
		SELECT poll_id, user_id, selected_options, created_at
		FROM poll_votes
		WHERE poll_id = $1 AND user_id = $2
	`

	err := r.db.Pool.QueryRow(ctx, query, pollID, userID).Scan(
		&vote.PollID,
		&vote.UserID,
		&vote.SelectedOptions,
		&vote.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}

	return &vote, nil
}

// ListByPoll retrieves all votes for a poll
func (r *PostgresVoteRepository) ListByPoll(ctx context.Context, pollID int64) ([]domain.Vote, error) {
	return r.list(ctx, `
		SELECT poll_id, user_id, selected_options, created_at
		FROM poll_votes
		WHERE poll_id = $1
	`, pollID)
}

// ListAll retrieves every vote in one scan. Batch tally reads group the
// result by poll in memory rather than querying per poll.
func (r *PostgresVoteRepository) ListAll(ctx context.Context) ([]domain.Vote, error) {
	return r.list(ctx, `
		SELECT poll_id, user_id, selected_options, created_at
		FROM poll_votes
	`)
}

// ListByUser retrieves all of a resident's votes
func (r *PostgresVoteRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Vote, error) {
	return r.list(ctx, `
		SELECT poll_id, user_id, selected_options, created_at
		FROM poll_votes
		WHERE user_id = $1
	`, userID)
}

// DeleteByPoll removes all votes for a poll
func (r *PostgresVoteRepository) DeleteByPoll(ctx context.Context, pollID int64) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM poll_votes WHERE poll_id = $1`, pollID)
	if err != nil {
		return fmt.Errorf("failed to delete votes: %w", err)
	}
	return nil
}

func (r *PostgresVoteRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Vote, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		var vote domain.Vote
		err := rows.Scan(
			&vote.PollID,
			&vote.UserID,
			&vote.SelectedOptions,
			&vote.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, vote)
	}

	return votes, rows.Err()
}
