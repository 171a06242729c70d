// Package scheduler runs the daily contribution reminder job. It reuses the
// projection engine's cadence arithmetic so reminders and projected ledgers
// can never disagree about which day a contribution falls on.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/mstagni/pacplan/internal/config"
	"github.com/mstagni/pacplan/internal/models"
	"github.com/mstagni/pacplan/internal/projection"
	"github.com/mstagni/pacplan/internal/repository"
	"github.com/mstagni/pacplan/internal/utils/email"
)

// Scheduler owns the cron instance behind periodic jobs
type Scheduler struct {
	cron   *cron.Cron
	repo   *repository.Repository
	sender *email.Sender
	log    *logrus.Logger
	spec   string
	now    func() time.Time
}

// New initializes a scheduler with the reminder job spec from configuration
func New(cfg *config.Config, repo *repository.Repository, sender *email.Sender, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		repo:   repo,
		sender: sender,
		log:    log,
		spec:   cfg.ReminderCron,
		now:    time.Now,
	}
}

// Start registers the reminder job and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runReminders); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infof("Scheduler started with reminder spec %q", s.spec)
	return nil
}

// Stop stops the cron loop and waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// runReminders walks active plans and emails owners whose plan schedules a
// contribution today. Send failures are logged per plan, never fatal.
func (s *Scheduler) runReminders() {
	plans, err := s.repo.ListActivePlans()
	if err != nil {
		s.log.Errorf("Reminder job failed to list plans: %v", err)
		return
	}

	today := s.now()
	sent := 0
	for _, plan := range plans {
		amount, due := ReminderAmount(plan, today)
		if !due {
			continue
		}
		user, err := s.repo.FindUserByID(plan.UserID)
		if err != nil {
			s.log.Errorf("Reminder job failed to load user %d: %v", plan.UserID, err)
			continue
		}
		if err := s.sender.SendContributionReminder(user.Email, user.Username, plan.Name, today, amount); err != nil {
			continue
		}
		sent++
	}
	s.log.Infof("Reminder job finished: %d plans checked, %d reminders sent", len(plans), sent)
}

// ReminderAmount resolves the contribution due on the given date, if any.
// Contribution overrides are consulted the same way the engine consults
// them: an override of 0 suppresses the reminder, a nonzero override
// replaces the scheduled amount.
func ReminderAmount(plan *models.Plan, date time.Time) (float64, bool) {
	day := projection.DayIndex(plan.Config, date)
	if day == 0 {
		return 0, false
	}
	if v, ok := plan.ContributionOverrides[day]; ok {
		return v, v != 0
	}
	if projection.IsContributionDay(plan.Config.Contribution, day) && plan.Config.Contribution.Amount > 0 {
		return plan.Config.Contribution.Amount, true
	}
	return 0, false
}
