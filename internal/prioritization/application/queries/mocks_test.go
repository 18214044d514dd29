package queries

import (
	"context"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Save(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindPending(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mapCache is an in-memory AnalysisCache for tests.
type mapCache struct {
	entries map[string]*AnalysisDTO
	hits    int
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*AnalysisDTO)}
}

func (c *mapCache) Get(_ context.Context, userID uuid.UUID, fingerprint string) (*AnalysisDTO, bool) {
	dto, ok := c.entries[userID.String()+":"+fingerprint]
	if ok {
		c.hits++
	}
	return dto, ok
}

func (c *mapCache) Set(_ context.Context, userID uuid.UUID, fingerprint string, analysis *AnalysisDTO) {
	c.sets++
	c.entries[userID.String()+":"+fingerprint] = analysis
}

// capturePublisher records routing keys of published events.
type capturePublisher struct {
	keys []string
}

func (p *capturePublisher) Publish(_ context.Context, routingKey string, _ []byte) error {
	p.keys = append(p.keys, routingKey)
	return nil
}

func (p *capturePublisher) Close() error { return nil }
