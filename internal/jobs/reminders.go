package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"healthapp-server/internal/models"
	"healthapp-server/internal/scheduling"
)

// ReminderJob periodically sends reminders for tomorrow's confirmed
// appointments. It is a plain caller of the scheduler, not part of the
// scheduling core itself.
type ReminderJob struct {
	scheduler    *scheduling.Scheduler
	appointments scheduling.AppointmentStore
	interval     time.Duration
	log          zerolog.Logger
	now          func() time.Time
}

// NewReminderJob creates a job sweeping every interval.
func NewReminderJob(scheduler *scheduling.Scheduler, appointments scheduling.AppointmentStore, interval time.Duration, log zerolog.Logger) *ReminderJob {
	return &ReminderJob{
		scheduler:    scheduler,
		appointments: appointments,
		interval:     interval,
		log:          log.With().Str("component", "reminder-job").Logger(),
		now:          time.Now,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (j *ReminderJob) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *ReminderJob) sweep() {
	tomorrow := models.DateOf(j.now()).AddDays(1)
	due, err := j.appointments.FindDueReminders(tomorrow)
	if err != nil {
		j.log.Error().Err(err).Msg("failed to list due reminders")
		return
	}

	for _, a := range due {
		if err := j.scheduler.SendReminder(a.ID); err != nil {
			j.log.Error().Err(err).Str("appointment", a.ID).Msg("failed to send reminder")
		}
	}
	if len(due) > 0 {
		j.log.Info().Int("count", len(due)).Str("date", tomorrow.String()).Msg("reminder sweep complete")
	}
}
