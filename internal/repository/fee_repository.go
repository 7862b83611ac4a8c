package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hoa-backend/internal/domain"
	"hoa-backend/pkg/database"
)

type PostgresFeeRepository struct {
	db *database.PostgresDB
}

func NewFeeRepository(db *database.PostgresDB) *PostgresFeeRepository {
	return &PostgresFeeRepository{db: db}
}

const feeColumns = `id, resident_id, year, name, amount, due_date, fee_type, status,
	reason, description, address, date_issued, created_at, updated_at`

// Create persists a fee or fine row
func (r *PostgresFeeRepository) Create(ctx context.Context, fee *domain.Fee) error {
	query := `
		INSERT INTO fees (resident_id, year, name, amount, due_date, fee_type, status,
			reason, description, address, date_issued, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		fee.ResidentID,
		fee.Year,
		fee.Name,
		fee.Amount,
		fee.DueDate,
		fee.FeeType,
		fee.Status,
		fee.Reason,
		fee.Description,
		fee.Address,
		fee.DateIssued,
		fee.CreatedAt,
		fee.UpdatedAt,
	).Scan(&fee.ID)

	if err != nil {
		return fmt.Errorf("failed to create fee: %w", err)
	}

	return nil
}

// GetByID retrieves a fee or fine by ID
func (r *PostgresFeeRepository) GetByID(ctx context.Context, id int64) (*domain.Fee, error) {
	query := fmt.Sprintf(`SELECT %s FROM fees WHERE id = $1`, feeColumns)

	row := r.db.Pool.QueryRow(ctx, query, id)
	fee, err := scanFee(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fee: %w", err)
	}

	return fee, nil
}

// ListFees retrieves every row that is not a fine
func (r *PostgresFeeRepository) ListFees(ctx context.Context) ([]domain.Fee, error) {
	query := fmt.Sprintf(`SELECT %s FROM fees WHERE fee_type <> $1 ORDER BY date_issued DESC`, feeColumns)
	return r.list(ctx, query, domain.FeeTypeFine)
}

// ListFines retrieves every fine row
func (r *PostgresFeeRepository) ListFines(ctx context.Context) ([]domain.Fee, error) {
	query := fmt.Sprintf(`SELECT %s FROM fees WHERE fee_type = $1 ORDER BY date_issued DESC`, feeColumns)
	return r.list(ctx, query, domain.FeeTypeFine)
}

// ListFeesByResident retrieves a resident's non-fine rows
func (r *PostgresFeeRepository) ListFeesByResident(ctx context.Context, residentID int64) ([]domain.Fee, error) {
	query := fmt.Sprintf(`SELECT %s FROM fees WHERE resident_id = $1 AND fee_type <> $2 ORDER BY date_issued DESC`, feeColumns)
	return r.list(ctx, query, residentID, domain.FeeTypeFine)
}

// ListFinesByResident retrieves a resident's fine rows
func (r *PostgresFeeRepository) ListFinesByResident(ctx context.Context, residentID int64) ([]domain.Fee, error) {
	query := fmt.Sprintf(`SELECT %s FROM fees WHERE resident_id = $1 AND fee_type = $2 ORDER BY date_issued DESC`, feeColumns)
	return r.list(ctx, query, residentID, domain.FeeTypeFine)
}

// UpdateStatus sets the status of a fee/fine row
func (r *PostgresFeeRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE fees SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update fee status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PostgresFeeRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Fee, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list fees: %w", err)
	}
	defer rows.Close()

	var fees []domain.Fee
	for rows.Next() {
		fee, err := scanFee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fee: %w", err)
		}
		fees = append(fees, *fee)
	}

	return fees, rows.Err()
}

func scanFee(row pgx.Row) (*domain.Fee, error) {
	var fee domain.Fee
	err := row.Scan(
		&fee.ID,
		&fee.ResidentID,
		&fee.Year,
		&fee.Name,
		&fee.Amount,
		&fee.DueDate,
		&fee.FeeType,
		&fee.Status,
		&fee.Reason,
		&fee.Description,
		&fee.Address,
		&fee.DateIssued,
		&fee.CreatedAt,
		&fee.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &fee, nil
}
