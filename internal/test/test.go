package test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"

	"podbooker/internal/db"
	"podbooker/internal/mailer"
	"podbooker/internal/notify"
)

// MockTaskEnqueuer is a mock implementation of tasks.TaskEnqueuer for testing.
type MockTaskEnqueuer struct {
	EnqueuedTasks []*asynq.Task
	Err           error
}

func (m *MockTaskEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.EnqueuedTasks = append(m.EnqueuedTasks, task)
	return &asynq.TaskInfo{ID: "test-task-id", Queue: "default"}, nil
}

// MockMailer is a mock implementation of mailer.Mailer for testing.
type MockMailer struct {
	Sent []mailer.Message
	Err  error
}

func (m *MockMailer) Send(ctx context.Context, msg mailer.Message) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// MockBroker is a mock implementation of notify.Broker for testing.
type MockBroker struct {
	Published []notify.GuestEvent
	Events    chan notify.GuestEvent
}

func (m *MockBroker) Publish(ctx context.Context, ev notify.GuestEvent) error {
	m.Published = append(m.Published, ev)
	return nil
}

func (m *MockBroker) Subscribe(ctx context.Context) (<-chan notify.GuestEvent, func()) {
	if m.Events == nil {
		m.Events = make(chan notify.GuestEvent, 8)
	}
	return m.Events, func() {}
}

// NewMockStore returns a Store backed by a sqlmock connection.
func NewMockStore(t *testing.T) (*db.Store, sqlmock.Sqlmock) {
	mockDb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { mockDb.Close() })

	return db.NewStore(sqlx.NewDb(mockDb, "sqlmock")), mock
}
