package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hoa-backend/internal/domain"
	"hoa-backend/pkg/database"
)

type PostgresPaymentRepository struct {
	db *database.PostgresDB
}

func NewPaymentRepository(db *database.PostgresDB) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db}
}

const paymentColumns = `id, resident_id, fee_id, fine_id, amount, currency, status, fee_type,
	payment_method, external_payment_id, payment_date, description, metadata, created_at, updated_at`

// Create persists a new payment record
func (r *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (resident_id, fee_id, fine_id, amount, currency, status, fee_type,
			payment_method, external_payment_id, payment_date, description, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		payment.ResidentID,
		payment.FeeID,
		payment.FineID,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.FeeType,
		payment.PaymentMethod,
		payment.ExternalPaymentID,
		payment.PaymentDate,
		payment.Description,
		payment.Metadata,
		payment.CreatedAt,
		payment.UpdatedAt,
	).Scan(&payment.ID)

	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// GetByExternalID retrieves a payment by its processor-facing identifier
func (r *PostgresPaymentRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE external_payment_id = $1`, paymentColumns)

	row := r.db.Pool.QueryRow(ctx, query, externalID)
	payment, err := scanPayment(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return payment, nil
}

// ListByResident retrieves a resident's full payment history
func (r *PostgresPaymentRepository) ListByResident(ctx context.Context, residentID int64) ([]domain.Payment, error) {
	query := fmt.Sprintf(`SELECT %s FROM payments WHERE resident_id = $1 ORDER BY payment_date DESC`, paymentColumns)

	rows, err := r.db.Pool.Query(ctx, query, residentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, *payment)
	}

	return payments, rows.Err()
}

// UpdateStatus patches a payment's status by external ID
func (r *PostgresPaymentRepository) UpdateStatus(ctx context.Context, externalID, status string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE payments SET status = $2, updated_at = now() WHERE external_payment_id = $1`,
		externalID, status)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// HasPaidAnnualFee reports whether a settled annual-fee payment exists for
// the resident in the given year
func (r *PostgresPaymentRepository) HasPaidAnnualFee(ctx context.Context, residentID int64, year int) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payments
			WHERE resident_id = $1
			  AND fee_type = $2
			  AND status = $3
			  AND EXTRACT(YEAR FROM payment_date) = $4
		)
	`

	err := r.db.Pool.QueryRow(ctx, query,
		residentID, domain.AnnualFeeName, domain.PaymentStatusPaid, year,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check annual fee payment: %w", err)
	}

	return exists, nil
}

// GetStats aggregates the resident's payment history by status
func (r *PostgresPaymentRepository) GetStats(ctx context.Context, residentID int64) (*domain.PaymentStats, error) {
	stats := &domain.PaymentStats{ResidentID: residentID}
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status = $2), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = $3), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = $4), 0),
			COUNT(*),
			COUNT(*) FILTER (WHERE status = $2)
		FROM payments
		WHERE resident_id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query,
		residentID,
		domain.PaymentStatusSucceeded,
		domain.PaymentStatusPending,
		domain.PaymentStatusFailed,
	).Scan(
		&stats.TotalPaid,
		&stats.TotalPending,
		&stats.TotalFailed,
		&stats.TotalTransactions,
		&stats.SuccessfulTransactions,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment stats: %w", err)
	}

	return stats, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var payment domain.Payment
	err := row.Scan(
		&payment.ID,
		&payment.ResidentID,
		&payment.FeeID,
		&payment.FineID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.FeeType,
		&payment.PaymentMethod,
		&payment.ExternalPaymentID,
		&payment.PaymentDate,
		&payment.Description,
		&payment.Metadata,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
