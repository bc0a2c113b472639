// Package tasks runs background work on asynq.
//
// asynq is a Redis-backed queue: the API enqueues tasks through a
// Client and a Server pulls them from Redis and runs the registered
// handler for each task type.
package tasks

import (
	"context"

	"github.com/deppfellow/jobly/internal/config"
	"github.com/deppfellow/jobly/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Notifier sends the emails task handlers produce.
type Notifier interface {
	SendJobPostedEmail(ctx context.Context, to string, posted email.JobPosted) error
}

// Service holds the asynq client (enqueue side) and server (worker side).
type Service struct {
	// Client enqueues tasks into Redis.
	Client *asynq.Client

	server *asynq.Server
	logger *zerolog.Logger

	notifier    Notifier
	notifyEmail string
}

// NewService creates a Service backed by the configured Redis.
//
// Workers are spread over three weighted queues; out of ten workers roughly
// six serve "critical", three "default" and one "low".
func NewService(logger *zerolog.Logger, cfg *config.Config) *Service {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				QueueCritical: 6,
				QueueDefault:  3,
				QueueLow:      1,
			},
			Logger: newAsynqLogger(logger),
		},
	)

	return &Service{
		Client:      asynq.NewClient(redisOpt),
		server:      server,
		logger:      logger,
		notifier:    email.NewClient(cfg, logger),
		notifyEmail: cfg.Integration.NotifyEmail,
	}
}

// Mux routes each task type to its handler.
func (s *Service) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskJobPosted, s.handleJobPostedTask)
	return mux
}

// Start launches the workers. asynq's Server.Start does not block; workers
// run until Stop.
func (s *Service) Start() error {
	s.logger.Info().Msg("starting background task server")
	return s.server.Start(s.Mux())
}

// Stop waits for running tasks to finish and closes the Redis connections.
func (s *Service) Stop() {
	s.logger.Info().Msg("stopping background task server")
	s.server.Shutdown()
	if err := s.Client.Close(); err != nil {
		s.logger.Error().Err(err).Msg("failed to close task client")
	}
}
