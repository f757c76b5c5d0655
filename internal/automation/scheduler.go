package automation

import (
	"context"
	"log"
	"strings"
	"time"

	statement "owner-portal/internal/statement/domain"
)

// Scheduler fires the monthly statement batch and the weekly digest. The
// loop ticks once a minute and matches wall-clock time in UTC.
type Scheduler struct {
	runner   *Runner
	schedule ScheduleConfig
	logger   *log.Logger
}

// NewScheduler constructs a Scheduler.
func NewScheduler(runner *Runner, schedule ScheduleConfig, logger *log.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		schedule: schedule,
		logger:   logger,
	}
}

// Start begins the scheduler loop. Blocks until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	if s == nil || s.runner == nil {
		return
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.tick(ctx, now.UTC())
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	if s.statementsDue(now) {
		period := PreviousPeriod(now)
		s.logf("event=statement_batch_start period=%s", period)
		s.runner.RunMonthlyStatements(ctx, period)
	}
	if s.digestDue(now) {
		s.logf("event=digest_batch_start")
		s.runner.RunWeeklyDigest(ctx, now)
	}
}

// statementsDue reports whether the monthly batch fires at this minute.
func (s *Scheduler) statementsDue(now time.Time) bool {
	if now.Day() != s.schedule.StatementsDay {
		return false
	}
	return atMatches(now, s.schedule.StatementsAt)
}

// digestDue reports whether the weekly digest fires at this minute.
func (s *Scheduler) digestDue(now time.Time) bool {
	if !strings.EqualFold(now.Weekday().String(), s.schedule.DigestWeekday) {
		return false
	}
	return atMatches(now, s.schedule.DigestAt)
}

func atMatches(now time.Time, at string) bool {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return false
	}
	return now.Hour() == t.Hour() && now.Minute() == t.Minute()
}

// PreviousPeriod returns the billing period preceding now.
func PreviousPeriod(now time.Time) statement.Period {
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return statement.Period{Year: prev.Year(), Month: prev.Month()}
}

func (s *Scheduler) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
