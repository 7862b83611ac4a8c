package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hoa-backend/internal/domain"
	"hoa-backend/pkg/database"
)

type PostgresResidentRepository struct {
	db *database.PostgresDB
}

func NewResidentRepository(db *database.PostgresDB) *PostgresResidentRepository {
	return &PostgresResidentRepository{db: db}
}

const residentColumns = `id, first_name, last_name, email, password_hash, address, unit_number,
	is_resident, is_renter, is_board_member, is_active, is_blocked, block_reason, created_at, updated_at`

// Create persists a new resident
func (r *PostgresResidentRepository) Create(ctx context.Context, resident *domain.Resident) error {
	query := `
		INSERT INTO residents (first_name, last_name, email, password_hash, address, unit_number,
			is_resident, is_renter, is_board_member, is_active, is_blocked, block_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		resident.FirstName,
		resident.LastName,
		resident.Email,
		resident.PasswordHash,
		resident.Address,
		resident.UnitNumber,
		resident.IsResident,
		resident.IsRenter,
		resident.IsBoardMember,
		resident.IsActive,
		resident.IsBlocked,
		resident.BlockReason,
		resident.CreatedAt,
		resident.UpdatedAt,
	).Scan(&resident.ID)

	if err != nil {
		return fmt.Errorf("failed to create resident: %w", err)
	}

	return nil
}

// GetByID retrieves a resident by ID
func (r *PostgresResidentRepository) GetByID(ctx context.Context, id int64) (*domain.Resident, error) {
	query := fmt.Sprintf(`SELECT %s FROM residents WHERE id = $1`, residentColumns)
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves a resident by email
func (r *PostgresResidentRepository) GetByEmail(ctx context.Context, email string) (*domain.Resident, error) {
	query := fmt.Sprintf(`SELECT %s FROM residents WHERE email = $1`, residentColumns)
	return r.getOne(ctx, query, email)
}

// List retrieves all residents
func (r *PostgresResidentRepository) List(ctx context.Context) ([]domain.Resident, error) {
	query := fmt.Sprintf(`SELECT %s FROM residents ORDER BY last_name, first_name`, residentColumns)

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list residents: %w", err)
	}
	defer rows.Close()

	var residents []domain.Resident
	for rows.Next() {
		resident, err := scanResident(rows)
		if err != nil {
			return nil, err
		}
		residents = append(residents, *resident)
	}

	return residents, rows.Err()
}

// Update writes all mutable columns of the resident
func (r *PostgresResidentRepository) Update(ctx context.Context, resident *domain.Resident) error {
	query := `
		UPDATE residents
		SET first_name = $2, last_name = $3, email = $4, password_hash = $5, address = $6, unit_number = $7,
			is_resident = $8, is_renter = $9, is_board_member = $10, is_active = $11,
			is_blocked = $12, block_reason = $13, updated_at = $14
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		resident.ID,
		resident.FirstName,
		resident.LastName,
		resident.Email,
		resident.PasswordHash,
		resident.Address,
		resident.UnitNumber,
		resident.IsResident,
		resident.IsRenter,
		resident.IsBoardMember,
		resident.IsActive,
		resident.IsBlocked,
		resident.BlockReason,
		resident.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update resident: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// Delete removes the resident row
func (r *PostgresResidentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM residents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resident: %w", err)
	}
	return nil
}

func (r *PostgresResidentRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.Resident, error) {
	row := r.db.Pool.QueryRow(ctx, query, arg)
	resident, err := scanResident(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resident: %w", err)
	}
	return resident, nil
}

func scanResident(row pgx.Row) (*domain.Resident, error) {
	var resident domain.Resident
	err := row.Scan(
		&resident.ID,
		&resident.FirstName,
		&resident.LastName,
		&resident.Email,
		&resident.PasswordHash,
		&resident.Address,
		&resident.UnitNumber,
		&resident.IsResident,
		&resident.IsRenter,
		&resident.IsBoardMember,
		&resident.IsActive,
		&resident.IsBlocked,
		&resident.BlockReason,
		&resident.CreatedAt,
		&resident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &resident, nil
}
