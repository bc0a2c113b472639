package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/deppfellow/jobly/internal/lib/email"
	"github.com/deppfellow/jobly/internal/model"
	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	to     []string
	posted []email.JobPosted
	err    error
}

func (f *fakeNotifier) SendJobPostedEmail(_ context.Context, to string, posted email.JobPosted) error {
	f.to = append(f.to, to)
	f.posted = append(f.posted, posted)
	return f.err
}

func newTestService(notifier Notifier, notifyEmail string) *Service {
	logger := zerolog.Nop()
	return &Service{logger: &logger, notifier: notifier, notifyEmail: notifyEmail}
}

func TestNewJobPostedTask(t *testing.T) {
	task, err := NewJobPostedTask(&model.Job{ID: 3, Title: "Engineer", CompanyHandle: "acme"})
	require.NoError(t, err)

	assert.Equal(t, TaskJobPosted, task.Type())

	var p JobPostedPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, JobPostedPayload{ID: 3, Title: "Engineer", CompanyHandle: "acme"}, p)
}

func TestHandleJobPostedTaskSendsEmail(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(notifier, "ops@example.com")
	task, err := NewJobPostedTask(&model.Job{ID: 3, Title: "Engineer", CompanyHandle: "acme"})
	require.NoError(t, err)

	require.NoError(t, svc.handleJobPostedTask(context.Background(), task))

	assert.Equal(t, []string{"ops@example.com"}, notifier.to)
	assert.Equal(t, []email.JobPosted{{ID: 3, Title: "Engineer", CompanyHandle: "acme"}}, notifier.posted)
}

func TestHandleJobPostedTaskWithoutRecipient(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(notifier, "")
	task, err := NewJobPostedTask(&model.Job{ID: 3})
	require.NoError(t, err)

	require.NoError(t, svc.handleJobPostedTask(context.Background(), task))
	assert.Empty(t, notifier.to)
}

func TestHandleJobPostedTaskErrors(t *testing.T) {
	svc := newTestService(&fakeNotifier{err: errors.New("smtp down")}, "ops@example.com")
	task, err := NewJobPostedTask(&model.Job{ID: 3})
	require.NoError(t, err)
	assert.Error(t, svc.handleJobPostedTask(context.Background(), task))

	bad := asynq.NewTask(TaskJobPosted, []byte("{not json"))
	err = svc.handleJobPostedTask(context.Background(), bad)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestAsynqLoggerWritesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	newAsynqLogger(&logger).Warn("queue ", "paused")

	assert.Contains(t, buf.String(), `"component":"asynq"`)
	assert.Contains(t, buf.String(), `"message":"queue paused"`)
}
