package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mstagni/pacplan/internal/models"
	"github.com/mstagni/pacplan/internal/projection"
	"github.com/mstagni/pacplan/internal/repository"
)

// Sentinel errors used by handlers to pick response codes.
var (
	ErrInvalid   = errors.New("invalid input")
	ErrForbidden = errors.New("forbidden")
)

// Service handles business logic
type Service struct {
	repo  *repository.Repository
	log   *logrus.Logger
	rates RateSource
	spot  SpotSource
}

// RateSource provides the current EUR/USD reference rate.
type RateSource interface {
	EURUSD() (float64, error)
}

// SpotSource provides a BTC spot price in USD.
type SpotSource interface {
	SpotPriceUSD() (float64, error)
}

// NewService initializes a new service. rates and spot may be nil; trade
// stats then skip their EUR valuation fields.
func NewService(repo *repository.Repository, log *logrus.Logger, rates RateSource, spot SpotSource) *Service {
	return &Service{repo: repo, log: log, rates: rates, spot: spot}
}

// RegisterUser creates a new plan owner
func (s *Service) RegisterUser(username, email string) (*models.User, error) {
	if username == "" || email == "" {
		return nil, fmt.Errorf("username and email are required: %w", ErrInvalid)
	}

	user := &models.User{
		Username: username,
		Email:    email,
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// CreatePlan validates and stores a new investment plan for the user
func (s *Service) CreatePlan(userID int64, name string, cfg models.InvestmentConfig, returnOv, contribOv models.DayOverrides) (*models.Plan, error) {
	if name == "" {
		return nil, fmt.Errorf("plan name is required: %w", ErrInvalid)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindUserByID(userID); err != nil {
		return nil, err
	}

	plan := &models.Plan{
		ID:                    uuid.NewString(),
		UserID:                userID,
		Name:                  name,
		Config:                cfg,
		ReturnOverrides:       returnOv,
		ContributionOverrides: contribOv,
		Active:                true,
	}
	if err := s.repo.CreatePlan(plan); err != nil {
		return nil, err
	}

	s.log.Infof("Plan created for user %d: %s (%s)", userID, plan.Name, plan.ID)
	return plan, nil
}

// GetPlan retrieves a plan owned by the user
func (s *Service) GetPlan(userID int64, planID string) (*models.Plan, error) {
	plan, err := s.repo.FindPlanByID(planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, fmt.Errorf("plan does not belong to user: %w", ErrForbidden)
	}
	return plan, nil
}

// ListPlans retrieves all plans owned by the user
func (s *Service) ListPlans(userID int64) ([]*models.Plan, error) {
	return s.repo.ListPlansByUser(userID)
}

// UpdatePlan replaces the configuration and override maps of a plan in full.
// Projections are always recomputed from stored inputs, so no derived state
// needs touching here.
func (s *Service) UpdatePlan(userID int64, planID, name string, cfg models.InvestmentConfig, returnOv, contribOv models.DayOverrides, active bool) (*models.Plan, error) {
	plan, err := s.GetPlan(userID, planID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("plan name is required: %w", ErrInvalid)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	plan.Name = name
	plan.Config = cfg
	plan.ReturnOverrides = returnOv
	plan.ContributionOverrides = contribOv
	plan.Active = active
	if err := s.repo.UpdatePlan(plan); err != nil {
		return nil, err
	}

	s.log.Infof("Plan updated for user %d: %s", userID, plan.ID)
	return plan, nil
}

// DeletePlan removes a plan owned by the user
func (s *Service) DeletePlan(userID int64, planID string) error {
	if _, err := s.GetPlan(userID, planID); err != nil {
		return err
	}
	if err := s.repo.DeletePlan(planID); err != nil {
		return err
	}
	s.log.Infof("Plan deleted for user %d: %s", userID, planID)
	return nil
}

// ProjectPlan loads a stored plan and runs a fresh projection over it
func (s *Service) ProjectPlan(userID int64, planID string) (*models.ProjectionResult, error) {
	plan, err := s.GetPlan(userID, planID)
	if err != nil {
		return nil, err
	}
	records := projection.Project(plan.Config, plan.ReturnOverrides, plan.ContributionOverrides)
	return &models.ProjectionResult{
		Records: records,
		Summary: projection.Summarize(records),
	}, nil
}

// Preview runs a projection over ad-hoc inputs without persisting anything.
// Degenerate inputs pass through to the engine, which yields an empty ledger
// for a non-positive horizon.
func (s *Service) Preview(cfg models.InvestmentConfig, returnOv, contribOv models.DayOverrides) *models.ProjectionResult {
	records := projection.Project(cfg, returnOv, contribOv)
	return &models.ProjectionResult{
		Records: records,
		Summary: projection.Summarize(records),
	}
}

func validateConfig(cfg models.InvestmentConfig) error {
	if cfg.TimeHorizonDays < 1 {
		return fmt.Errorf("time horizon must be at least 1 day: %w", ErrInvalid)
	}
	if cfg.Contribution.Amount < 0 {
		return fmt.Errorf("contribution amount cannot be negative: %w", ErrInvalid)
	}
	switch cfg.Contribution.Frequency {
	case models.FrequencyNone, models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly:
	case models.FrequencyCustom:
		if cfg.Contribution.IntervalDays < 1 {
			return fmt.Errorf("custom frequency requires a positive interval: %w", ErrInvalid)
		}
	default:
		return fmt.Errorf("unknown contribution frequency %q: %w", cfg.Contribution.Frequency, ErrInvalid)
	}
	if cfg.Contribution.StartDate.IsZero() {
		return fmt.Errorf("start date is required: %w", ErrInvalid)
	}
	return nil
}
