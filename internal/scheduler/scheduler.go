package scheduler

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"garage-backend/internal/timeutil"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs at 00:10 on the first day of every month
const DefaultSchedule = "10 0 1 * *"

const jobTimeout = 5 * time.Minute

// ReportJob builds one kind of monthly report for the given period
type ReportJob func(ctx context.Context, month, year int) error

// ReportScheduler pre-generates the previous month's reports on a cron schedule
type ReportScheduler struct {
	cronScheduler *cron.Cron
	schedule      string
	jobs          map[string]ReportJob
	jobID         cron.EntryID
	now           func() time.Time
}

func New(schedule string, jobs map[string]ReportJob) *ReportScheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &ReportScheduler{
		cronScheduler: cron.New(cron.WithLocation(timeutil.ICT)),
		schedule:      schedule,
		jobs:          jobs,
		now:           timeutil.Now,
	}
}

// Start registers the job and starts the cron loop
func (s *ReportScheduler) Start() error {
	var err error
	s.jobID, err = s.cronScheduler.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("error scheduling report job: %w", err)
	}

	s.cronScheduler.Start()
	log.Printf("[Scheduler] Monthly report job scheduled (%s)", s.schedule)
	return nil
}

// Stop waits for a running job to finish
func (s *ReportScheduler) Stop() {
	ctx := s.cronScheduler.Stop()
	<-ctx.Done()
	log.Println("[Scheduler] Stopped")
}

// RunOnce generates every report kind for the month before now and returns
// how many succeeded. One failing kind does not stop the others.
func (s *ReportScheduler) RunOnce(ctx context.Context) int {
	now := s.now()
	month, year := timeutil.PreviousMonth(int(now.Month()), now.Year())

	kinds := make([]string, 0, len(s.jobs))
	for kind := range s.jobs {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	done := 0
	for _, kind := range kinds {
		if err := s.jobs[kind](ctx, month, year); err != nil {
			log.Printf("[Scheduler] Failed to generate %s report for %02d/%d: %v", kind, month, year, err)
			continue
		}
		done++
		log.Printf("[Scheduler] %s report for %02d/%d ready", kind, month, year)
	}
	return done
}
