package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/jobtrackio/jobtrack-api/config"
	pginfra "github.com/jobtrackio/jobtrack-api/internal/infrastructure/postgres"
	"github.com/jobtrackio/jobtrack-api/pkg/helpers"
	"github.com/jobtrackio/jobtrack-api/pkg/mailer"
)

// Scans for follow-ups due in the next 24 hours and enqueues one reminder
// email per job. Intended to run once a day from cron.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-reminders", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; nothing to do")
		return
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer pub.Close()

	repo := pginfra.NewJobRepository(pool)
	now := time.Now()
	due, err := repo.DueFollowUps(ctx, now, now.Add(24*time.Hour))
	if err != nil {
		log.Fatalf("failed to query follow-ups: %v", err)
	}

	sent := 0
	for _, d := range due {
		job := mailer.EmailJob{
			To:       d.Email,
			Template: mailer.TemplateFollowUpReminder,
			Data: map[string]any{
				"Position": d.Position,
				"Company":  d.Company,
				"FollowUp": d.FollowUp.Format("Jan 2, 2006"),
			},
		}
		if err := pub.PublishJSON(ctx, job); err != nil {
			logger.WithError(err).WithField("job_id", d.JobID).Warn("reminder enqueue failed")
			continue
		}
		sent++
	}
	logger.WithField("due", len(due)).WithField("enqueued", sent).Info("follow-up reminders processed")
}
