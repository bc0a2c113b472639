package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deppfellow/jobly/internal/lib/email"
	"github.com/deppfellow/jobly/internal/model"
	"github.com/hibiken/asynq"
)

// Queue names, by priority.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// TaskJobPosted is emitted after a job is created.
const TaskJobPosted = "posting:created"

// JobPostedPayload is the JSON stored in Redis for TaskJobPosted.
type JobPostedPayload struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	CompanyHandle string `json:"company_handle"`
}

// NewJobPostedTask builds the task announcing job.
//
// It retries three times and runs on the low queue: the notification is
// informational and must not compete with anything urgent.
func NewJobPostedTask(job *model.Job) (*asynq.Task, error) {
	payload, err := json.Marshal(JobPostedPayload{
		ID:            job.ID,
		Title:         job.Title,
		CompanyHandle: job.CompanyHandle,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskJobPosted,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueLow),
		asynq.Timeout(30*time.Second),
	), nil
}

func (s *Service) handleJobPostedTask(ctx context.Context, t *asynq.Task) error {
	var p JobPostedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// A payload that does not decode will never succeed; skip retries.
		return fmt.Errorf("failed to unmarshal job posted payload: %v: %w", err, asynq.SkipRetry)
	}

	log := s.logger.With().
		Str("type", TaskJobPosted).
		Int("job_id", p.ID).
		Str("company_handle", p.CompanyHandle).
		Logger()

	if s.notifyEmail == "" {
		log.Debug().Msg("no notification address configured, skipping job posted email")
		return nil
	}

	log.Info().Msg("processing job posted task")

	err := s.notifier.SendJobPostedEmail(ctx, s.notifyEmail, email.JobPosted{
		ID:            p.ID,
		Title:         p.Title,
		CompanyHandle: p.CompanyHandle,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to send job posted email")
		return err
	}

	log.Info().Msg("sent job posted email")
	return nil
}
