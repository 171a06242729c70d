package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mstagni/pacplan/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO pac.users (username, email, created_at, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, user.Username, user.Email).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, created_at, updated_at
		FROM pac.users
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

const planColumns = `id, user_id, name, initial_capital, time_horizon_days, daily_return_rate,
		contribution_amount, contribution_frequency, contribution_interval_days, start_date,
		return_overrides, contribution_overrides, active, created_at, updated_at`

// CreatePlan stores a new investment plan with its override maps
func (r *Repository) CreatePlan(plan *models.Plan) error {
	returnOv, contribOv, err := marshalOverrides(plan)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO pac.plans (id, user_id, name, initial_capital, time_horizon_days, daily_return_rate,
			contribution_amount, contribution_frequency, contribution_interval_days, start_date,
			return_overrides, contribution_overrides, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err = r.db.QueryRow(query,
		plan.ID, plan.UserID, plan.Name,
		plan.Config.InitialCapital, plan.Config.TimeHorizonDays, plan.Config.DailyReturnRate,
		plan.Config.Contribution.Amount, plan.Config.Contribution.Frequency,
		plan.Config.Contribution.IntervalDays, plan.Config.Contribution.StartDate,
		returnOv, contribOv, plan.Active).
		Scan(&plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

// FindPlanByID retrieves a plan with its override maps
func (r *Repository) FindPlanByID(id string) (*models.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM pac.plans WHERE id = $1`
	plan, err := scanPlan(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}
	return plan, nil
}

// ListPlansByUser retrieves all plans owned by a user, newest first
func (r *Repository) ListPlansByUser(userID int64) ([]*models.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM pac.plans WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	plans := []*models.Plan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

// ListActivePlans retrieves every active plan across users, for the
// contribution reminder job
func (r *Repository) ListActivePlans() ([]*models.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM pac.plans WHERE active = TRUE ORDER BY created_at`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}
	defer rows.Close()

	plans := []*models.Plan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}
	return plans, nil
}

// UpdatePlan replaces a plan's configuration and override maps in full
func (r *Repository) UpdatePlan(plan *models.Plan) error {
	returnOv, contribOv, err := marshalOverrides(plan)
	if err != nil {
		return err
	}
	query := `
		UPDATE pac.plans
		SET name = $2, initial_capital = $3, time_horizon_days = $4, daily_return_rate = $5,
			contribution_amount = $6, contribution_frequency = $7, contribution_interval_days = $8,
			start_date = $9, return_overrides = $10, contribution_overrides = $11, active = $12,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`
	err = r.db.QueryRow(query,
		plan.ID, plan.Name,
		plan.Config.InitialCapital, plan.Config.TimeHorizonDays, plan.Config.DailyReturnRate,
		plan.Config.Contribution.Amount, plan.Config.Contribution.Frequency,
		plan.Config.Contribution.IntervalDays, plan.Config.Contribution.StartDate,
		returnOv, contribOv, plan.Active).
		Scan(&plan.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("plan %s: %w", plan.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return nil
}

// DeletePlan removes a plan
func (r *Repository) DeletePlan(id string) error {
	result, err := r.db.Exec(`DELETE FROM pac.plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*models.Plan, error) {
	plan := &models.Plan{}
	var returnOv, contribOv []byte
	err := row.Scan(
		&plan.ID, &plan.UserID, &plan.Name,
		&plan.Config.InitialCapital, &plan.Config.TimeHorizonDays, &plan.Config.DailyReturnRate,
		&plan.Config.Contribution.Amount, &plan.Config.Contribution.Frequency,
		&plan.Config.Contribution.IntervalDays, &plan.Config.Contribution.StartDate,
		&returnOv, &contribOv, &plan.Active, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(returnOv, &plan.ReturnOverrides); err != nil {
		return nil, fmt.Errorf("failed to decode return overrides: %w", err)
	}
	if err := json.Unmarshal(contribOv, &plan.ContributionOverrides); err != nil {
		return nil, fmt.Errorf("failed to decode contribution overrides: %w", err)
	}
	return plan, nil
}

func marshalOverrides(plan *models.Plan) ([]byte, []byte, error) {
	returnOv, err := json.Marshal(plan.ReturnOverrides)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode return overrides: %w", err)
	}
	contribOv, err := json.Marshal(plan.ContributionOverrides)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode contribution overrides: %w", err)
	}
	return returnOv, contribOv, nil
}
