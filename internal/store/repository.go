package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for plan and account persistence.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// GetAccount retrieves the configured account.
	// Returns ErrAccountNotFound if no account has been set.
	GetAccount(ctx context.Context) (*Account, error)

	// SetAccount creates or replaces the account credentials.
	SetAccount(ctx context.Context, name, patToken string) error

	// DeleteAccount removes the account.
	// Returns ErrAccountNotFound if no account exists.
	DeleteAccount(ctx context.Context) error

	// ListPlans retrieves all stored plans ordered by name.
	ListPlans(ctx context.Context) ([]PlanRecord, error)

	// GetPlan retrieves a plan by name.
	// Returns ErrPlanNotFound if the plan does not exist.
	GetPlan(ctx context.Context, name string) (*PlanRecord, error)

	// CreatePlan inserts a new plan, initially disabled.
	// Returns ErrPlanExists if a plan with the same name already exists.
	CreatePlan(ctx context.Context, name, document string) (*PlanRecord, error)

	// UpdatePlan replaces the YAML document of an existing plan.
	// Returns ErrPlanNotFound if the plan does not exist.
	UpdatePlan(ctx context.Context, name, document string) (*PlanRecord, error)

	// SetPlanEnabled flips the enabled flag of an existing plan.
	// Returns ErrPlanNotFound if the plan does not exist.
	SetPlanEnabled(ctx context.Context, name string, enabled bool) error

	// DeletePlan removes a plan by name.
	// Returns ErrPlanNotFound if the plan does not exist.
	DeletePlan(ctx context.Context, name string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// The account table is constrained to a single row via id = 1.
const accountRowID = 1

// GetAccount retrieves the configured account.
func (r *SQLiteRepository) GetAccount(ctx context.Context) (*Account, error) {
	query := `
		SELECT name, pat_token, created_at, updated_at
		FROM account
		WHERE id = ?`

	var a Account
	err := r.db.QueryRowContext(ctx, query, accountRowID).Scan(
		&a.Name, &a.PatToken, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: querying account: %w", ErrUnavailable, err)
	}
	return &a, nil
}

// SetAccount creates or replaces the account credentials.
func (r *SQLiteRepository) SetAccount(ctx context.Context, name, patToken string) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO account (id, name, pat_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			pat_token = excluded.pat_token,
			updated_at = excluded.updated_at`

	if _, err := r.db.ExecContext(ctx, query, accountRowID, name, patToken, now, now); err != nil {
		return fmt.Errorf("%w: setting account: %w", ErrUnavailable, err)
	}
	return nil
}

// DeleteAccount removes the account.
func (r *SQLiteRepository) DeleteAccount(ctx context.Context) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM account WHERE id = ?`, accountRowID)
	if err != nil {
		return fmt.Errorf("%w: deleting account: %w", ErrUnavailable, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking account delete: %w", err)
	}
	if rows == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// ListPlans retrieves all stored plans ordered by name.
func (r *SQLiteRepository) ListPlans(ctx context.Context) ([]PlanRecord, error) {
	query := `
		SELECT name, enabled, document, created_at, updated_at
		FROM plans
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying plans: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	var plans []PlanRecord
	for rows.Next() {
		var p PlanRecord
		if err := rows.Scan(&p.Name, &p.Enabled, &p.Document, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return plans, nil
}

// GetPlan retrieves a plan by name.
func (r *SQLiteRepository) GetPlan(ctx context.Context, name string) (*PlanRecord, error) {
	query := `
		SELECT name, enabled, document, created_at, updated_at
		FROM plans
		WHERE name = ?`

	var p PlanRecord
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&p.Name, &p.Enabled, &p.Document, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("%w: querying plan %q: %w", ErrUnavailable, name, err)
	}
	return &p, nil
}

// CreatePlan inserts a new plan, initially disabled.
func (r *SQLiteRepository) CreatePlan(ctx context.Context, name, document string) (*PlanRecord, error) {
	now := time.Now().UTC()
	query := `
		INSERT INTO plans (name, enabled, document, created_at, updated_at)
		VALUES (?, 0, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, name, document, now, now); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrPlanExists
		}
		return nil, fmt.Errorf("%w: creating plan %q: %w", ErrUnavailable, name, err)
	}

	return &PlanRecord{
		Name:      name,
		Enabled:   false,
		Document:  document,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdatePlan replaces the YAML document of an existing plan.
func (r *SQLiteRepository) UpdatePlan(ctx context.Context, name, document string) (*PlanRecord, error) {
	now := time.Now().UTC()
	query := `
		UPDATE plans
		SET document = ?, updated_at = ?
		WHERE name = ?`

	result, err := r.db.ExecContext(ctx, query, document, now, name)
	if err != nil {
		return nil, fmt.Errorf("%w: updating plan %q: %w", ErrUnavailable, name, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking plan update: %w", err)
	}
	if rows == 0 {
		return nil, ErrPlanNotFound
	}

	return r.GetPlan(ctx, name)
}

// SetPlanEnabled flips the enabled flag of an existing plan.
func (r *SQLiteRepository) SetPlanEnabled(ctx context.Context, name string, enabled bool) error {
	query := `
		UPDATE plans
		SET enabled = ?, updated_at = ?
		WHERE name = ?`

	result, err := r.db.ExecContext(ctx, query, enabled, time.Now().UTC(), name)
	if err != nil {
		return fmt.Errorf("%w: setting plan %q enabled=%t: %w", ErrUnavailable, name, enabled, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking plan enable: %w", err)
	}
	if rows == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// DeletePlan removes a plan by name.
func (r *SQLiteRepository) DeletePlan(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("%w: deleting plan %q: %w", ErrUnavailable, name, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking plan delete: %w", err)
	}
	if rows == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint error.
// String matching avoids importing the driver's error types here.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
