package agent

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/mq"
	"github.com/shaiso/Conveyor/internal/repo"
)

// --- Fakes ---

// fakeStore — in-memory DeployStore.
type fakeStore struct {
	mu      sync.Mutex
	deploys map[uuid.UUID]*domain.Deploy
}

func newFakeStore(deploys ...*domain.Deploy) *fakeStore {
	s := &fakeStore{deploys: make(map[uuid.UUID]*domain.Deploy)}
	for _, d := range deploys {
		copied := *d
		s.deploys[d.ID] = &copied
	}
	return s
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Deploy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deploys[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (s *fakeStore) Update(_ context.Context, d *domain.Deploy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deploys[d.ID]; !ok {
		return repo.ErrNotFound
	}
	copied := *d
	s.deploys[d.ID] = &copied
	return nil
}

func (s *fakeStore) ListDue(_ context.Context, now time.Time, limit int) ([]domain.Deploy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []domain.Deploy
	for _, d := range s.deploys {
		if d.Status == domain.DeployStatusPending && d.IsDue(now) && len(due) < limit {
			due = append(due, *d)
		}
	}
	return due, nil
}

func (s *fakeStore) get(t *testing.T, id uuid.UUID) *domain.Deploy {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deploys[id]
	if !ok {
		t.Fatalf("deploy %s not in store", id)
	}
	copied := *d
	return &copied
}

// fakePublisher запоминает опубликованные события.
type fakePublisher struct {
	mu        sync.Mutex
	completed []mq.DeployCompletedPayload
	err       error
}

func (p *fakePublisher) PublishDeployCompleted(_ context.Context, payload mq.DeployCompletedPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.completed = append(p.completed, payload)
	return nil
}

// succeedingExecutor возвращает фиксированные записи шагов.
func succeedingExecutor(records []domain.StepRecord) Executor {
	return func(_ context.Context, _ domain.DeploySpec, _ func(domain.StepRecord)) ([]domain.StepRecord, error) {
		return records, nil
	}
}

// failingExecutor возвращает ошибку после записанных шагов.
func failingExecutor(records []domain.StepRecord, err error) Executor {
	return func(_ context.Context, _ domain.DeploySpec, _ func(domain.StepRecord)) ([]domain.StepRecord, error) {
		return records, err
	}
}

func pendingDeploy() *domain.Deploy {
	spec := domain.DefaultSpec()
	return domain.NewDeploy(spec)
}

// --- Agent tests ---

func TestNew_Defaults(t *testing.T) {
	a := New(Config{})

	if a.activeDeploys == nil {
		t.Error("activeDeploys should be initialized")
	}
	if a.serviceLocks == nil {
		t.Error("serviceLocks should be initialized")
	}
	if a.pollInterval != defaultPollInterval {
		t.Errorf("expected default poll interval %v, got %v", defaultPollInterval, a.pollInterval)
	}
	if a.batchSize != defaultBatchSize {
		t.Errorf("expected default batch size %d, got %d", defaultBatchSize, a.batchSize)
	}
	if a.executor == nil {
		t.Error("executor should default to LocalExecutor")
	}
}

func TestNew_CustomConfig(t *testing.T) {
	a := New(Config{
		PollInterval: 5 * time.Second,
		BatchSize:    3,
	})

	if a.pollInterval != 5*time.Second {
		t.Errorf("expected poll interval 5s, got %v", a.pollInterval)
	}
	if a.batchSize != 3 {
		t.Errorf("expected batch size 3, got %d", a.batchSize)
	}
}

func TestAgent_ActiveDeploys(t *testing.T) {
	a := New(Config{})
	id := uuid.New()

	if a.ActiveDeploysCount() != 0 {
		t.Error("should have no active deploys initially")
	}
	if a.isDeployActive(id) {
		t.Error("deploy should not be active initially")
	}

	if err := a.addActiveDeploy(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ActiveDeploysCount() != 1 {
		t.Error("should have 1 active deploy")
	}
	if !a.isDeployActive(id) {
		t.Error("deploy should be active")
	}

	if err := a.addActiveDeploy(id); !errors.Is(err, ErrDeployAlreadyActive) {
		t.Errorf("expected ErrDeployAlreadyActive, got %v", err)
	}

	a.removeActiveDeploy(id)
	if a.isDeployActive(id) {
		t.Error("deploy should not be active after removal")
	}
}

func TestAgent_ServiceLock(t *testing.T) {
	a := New(Config{})

	first := a.serviceLock("svc-a")
	second := a.serviceLock("svc-a")
	other := a.serviceLock("svc-b")

	if first != second {
		t.Error("same service should share one lock")
	}
	if first == other {
		t.Error("different services should have different locks")
	}
}

func TestProcessDeploy_Success(t *testing.T) {
	d := pendingDeploy()
	store := newFakeStore(d)
	pub := &fakePublisher{}

	records := []domain.StepRecord{
		{Name: "ensure-privilege", Outcome: domain.StepSkipped},
		{Name: "start-service", Outcome: domain.StepChanged},
	}

	a := New(Config{
		Deploys:   store,
		Publisher: pub,
		Executor:  succeedingExecutor(records),
	})

	if err := a.processDeploy(context.Background(), d.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := store.get(t, d.ID)
	if stored.Status != domain.DeployStatusSucceeded {
		t.Errorf("expected SUCCEEDED, got %s", stored.Status)
	}
	if stored.StartedAt == nil || stored.FinishedAt == nil {
		t.Error("timestamps should be set")
	}
	if len(stored.Steps) != 2 {
		t.Errorf("expected 2 step records, got %d", len(stored.Steps))
	}

	if len(pub.completed) != 1 {
		t.Fatalf("expected 1 completed event, got %d", len(pub.completed))
	}
	event := pub.completed[0]
	if event.DeployID != d.ID {
		t.Error("completed event should carry deploy ID")
	}
	if event.Status != domain.DeployStatusSucceeded {
		t.Errorf("expected SUCCEEDED in event, got %s", event.Status)
	}

	if a.isDeployActive(d.ID) {
		t.Error("deploy should not stay active after processing")
	}
}

func TestProcessDeploy_PipelineFailure(t *testing.T) {
	d := pendingDeploy()
	store := newFakeStore(d)
	pub := &fakePublisher{}

	records := []domain.StepRecord{
		{Name: "check-runtime", Outcome: domain.StepFailed, Error: "python runtime not found"},
	}
	runErr := errors.New("step check-runtime: python runtime not found")

	a := New(Config{
		Deploys:   store,
		Publisher: pub,
		Executor:  failingExecutor(records, runErr),
	})

	// Ошибка pipeline записывается в deploy, не возвращается
	if err := a.processDeploy(context.Background(), d.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := store.get(t, d.ID)
	if stored.Status != domain.DeployStatusFailed {
		t.Errorf("expected FAILED, got %s", stored.Status)
	}
	if stored.Error == "" {
		t.Error("deploy error should be recorded")
	}
	if len(stored.Steps) != 1 {
		t.Errorf("expected 1 step record, got %d", len(stored.Steps))
	}

	if len(pub.completed) != 1 {
		t.Fatalf("expected 1 completed event, got %d", len(pub.completed))
	}
	if pub.completed[0].Status != domain.DeployStatusFailed {
		t.Errorf("expected FAILED in event, got %s", pub.completed[0].Status)
	}
	if pub.completed[0].Error == "" {
		t.Error("completed event should carry error text")
	}
}

func TestProcessDeploy_NotFound(t *testing.T) {
	a := New(Config{
		Deploys:  newFakeStore(),
		Executor: succeedingExecutor(nil),
	})

	err := a.processDeploy(context.Background(), uuid.New())
	if !errors.Is(err, ErrDeployNotFound) {
		t.Errorf("expected ErrDeployNotFound, got %v", err)
	}
}

func TestProcessDeploy_NotPending(t *testing.T) {
	d := pendingDeploy()
	d.Status = domain.DeployStatusRunning
	store := newFakeStore(d)

	a := New(Config{
		Deploys:  store,
		Executor: succeedingExecutor(nil),
	})

	err := a.processDeploy(context.Background(), d.ID)
	if !errors.Is(err, ErrDeployNotPending) {
		t.Errorf("expected ErrDeployNotPending, got %v", err)
	}
}

func TestProcessDeploy_NotDueYet(t *testing.T) {
	d := pendingDeploy()
	notBefore := time.Now().Add(time.Hour)
	d.NotBefore = &notBefore
	store := newFakeStore(d)

	executed := false
	a := New(Config{
		Deploys: store,
		Executor: func(_ context.Context, _ domain.DeploySpec, _ func(domain.StepRecord)) ([]domain.StepRecord, error) {
			executed = true
			return nil, nil
		},
	})

	if err := a.processDeploy(context.Background(), d.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if executed {
		t.Error("pipeline should not run before maintenance window")
	}
	if store.get(t, d.ID).Status != domain.DeployStatusPending {
		t.Error("deploy should stay PENDING until due")
	}
}

func TestHandleDeployRequested(t *testing.T) {
	d := pendingDeploy()
	store := newFakeStore(d)
	pub := &fakePublisher{}

	a := New(Config{
		Deploys:   store,
		Publisher: pub,
		Executor:  succeedingExecutor(nil),
	})

	// Payload после json-декодирования приходит как map
	delivery := &mq.Delivery{
		Message: mq.Message{
			ID:   uuid.New().String(),
			Type: mq.MessageTypeDeployRequested,
			Payload: map[string]any{
				"deploy_id": d.ID.String(),
			},
		},
	}

	if err := a.handleDeployRequested(context.Background(), delivery); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.get(t, d.ID).Status != domain.DeployStatusSucceeded {
		t.Error("deploy should be processed from the event")
	}
}

func TestHandleDeployRequested_NotPendingIsAcked(t *testing.T) {
	d := pendingDeploy()
	d.Status = domain.DeployStatusSucceeded
	store := newFakeStore(d)

	a := New(Config{
		Deploys:  store,
		Executor: succeedingExecutor(nil),
	})

	delivery := &mq.Delivery{
		Message: mq.Message{
			ID:      uuid.New().String(),
			Type:    mq.MessageTypeDeployRequested,
			Payload: map[string]any{"deploy_id": d.ID.String()},
		},
	}

	// Повтор ничего не изменит — handler не должен возвращать ошибку
	if err := a.handleDeployRequested(context.Background(), delivery); err != nil {
		t.Fatalf("expected nil for already finished deploy, got %v", err)
	}
}

func TestPoll_RunsDueDeploys(t *testing.T) {
	due := pendingDeploy()
	later := pendingDeploy()
	notBefore := time.Now().Add(time.Hour)
	later.NotBefore = &notBefore

	store := newFakeStore(due, later)
	a := New(Config{
		Deploys:  store,
		Executor: succeedingExecutor(nil),
	})

	a.poll(context.Background())

	if store.get(t, due.ID).Status != domain.DeployStatusSucceeded {
		t.Error("due deploy should be executed by poll")
	}
	if store.get(t, later.ID).Status != domain.DeployStatusPending {
		t.Error("deferred deploy should stay PENDING")
	}
}
