package agent

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/mq"
	"github.com/shaiso/Conveyor/internal/pipeline"
	"github.com/shaiso/Conveyor/internal/repo"
	"github.com/shaiso/Conveyor/internal/steps"
)

// Default configuration values.
const (
	defaultPollInterval = 10 * time.Second
	defaultBatchSize    = 20
)

// DeployStore — операции с историей deploys, нужные агенту.
type DeployStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deploy, error)
	Update(ctx context.Context, d *domain.Deploy) error
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Deploy, error)
}

// CompletionPublisher публикует событие о завершённом deploy.
type CompletionPublisher interface {
	PublishDeployCompleted(ctx context.Context, payload mq.DeployCompletedPayload) error
}

// Executor выполняет pipeline для одного deploy.
type Executor func(ctx context.Context, spec domain.DeploySpec, onStep func(domain.StepRecord)) ([]domain.StepRecord, error)

// LocalExecutor возвращает Executor, выполняющий шаги на этом хосте.
func LocalExecutor(logger *slog.Logger) Executor {
	return func(ctx context.Context, spec domain.DeploySpec, onStep func(domain.StepRecord)) ([]domain.StepRecord, error) {
		env := steps.NewEnv(spec, logger)
		runner := pipeline.NewRunner(pipeline.Config{
			Steps:  steps.Sequence(env),
			Logger: logger,
			OnStep: onStep,
		})
		return runner.Run(ctx)
	}
}

// Agent выполняет deploys на хосте.
//
// Agent:
//   - Получает новые deploys из очереди RabbitMQ (event-driven)
//   - Периодически проверяет pending deploys в БД (polling fallback)
//   - Выполняет pipeline шагов и записывает результат
//   - Публикует deploy.completed
type Agent struct {
	deploys   DeployStore
	publisher CompletionPublisher
	conn      *mq.Connection
	executor  Executor

	// Active deploys — deploys в процессе выполнения
	activeDeploys map[uuid.UUID]struct{}
	mu            sync.RWMutex

	// serviceLocks сериализует deploys одной службы
	serviceLocks   map[string]*sync.Mutex
	serviceLocksMu sync.Mutex

	consumer *mq.Consumer

	pollInterval time.Duration
	batchSize    int

	// Lifecycle
	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	stopped    bool
	stoppedMu  sync.RWMutex
}

// Config — конфигурация Agent.
type Config struct {
	Deploys   DeployStore
	Publisher CompletionPublisher
	Conn      *mq.Connection

	// Executor — выполнение pipeline (default: LocalExecutor).
	Executor Executor

	// Polling configuration
	PollInterval time.Duration // интервал polling (default: 10s)
	BatchSize    int           // количество deploys за один poll (default: 20)

	Logger *slog.Logger
}

// New создаёт новый Agent.
func New(cfg Config) *Agent {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	executor := cfg.Executor
	if executor == nil {
		executor = LocalExecutor(logger)
	}

	return &Agent{
		deploys:       cfg.Deploys,
		publisher:     cfg.Publisher,
		conn:          cfg.Conn,
		executor:      executor,
		activeDeploys: make(map[uuid.UUID]struct{}),
		serviceLocks:  make(map[string]*sync.Mutex),
		pollInterval:  pollInterval,
		batchSize:     batchSize,
		logger:        logger,
	}
}

// Start запускает Agent.
//
// Запускает:
//   - Consumer для deploys.requested
//   - Polling горутину для fallback и отложенных deploys
func (a *Agent) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.cancelFunc = cancel

	a.logger.Info("starting agent",
		"poll_interval", a.pollInterval,
		"batch_size", a.batchSize,
	)

	// Без RabbitMQ работаем только через polling
	if a.conn != nil {
		// Prefetch=1: по одному deploy за раз
		a.consumer = mq.NewConsumer(a.conn, a.logger, mq.ConsumerConfig{
			Queue:    mq.QueueDeploysRequested,
			Handler:  a.handleDeployRequested,
			Prefetch: 1,
		})

		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("deploy consumer error", "error", err)
			}
		}()
	} else {
		a.logger.Warn("message queue not configured, polling only")
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.pollLoop(ctx)
	}()

	a.logger.Info("agent started")
	return nil
}

// Stop останавливает Agent.
func (a *Agent) Stop() {
	a.stoppedMu.Lock()
	a.stopped = true
	a.stoppedMu.Unlock()

	a.logger.Info("stopping agent...")

	if a.cancelFunc != nil {
		a.cancelFunc()
	}

	if a.consumer != nil {
		a.consumer.Stop()
	}

	a.wg.Wait()

	a.logger.Info("agent stopped",
		"active_deploys", len(a.activeDeploys),
	)
}

// IsStopped проверяет, остановлен ли Agent.
func (a *Agent) IsStopped() bool {
	a.stoppedMu.RLock()
	defer a.stoppedMu.RUnlock()
	return a.stopped
}

// pollLoop — цикл polling для fallback.
func (a *Agent) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	// Первый poll сразу при старте (подхватываем deploys,
	// созданные пока агент был выключен)
	a.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.poll(ctx)
		}
	}
}

// poll выполняет один цикл polling.
func (a *Agent) poll(ctx context.Context) {
	deploys, err := a.deploys.ListDue(ctx, time.Now(), a.batchSize)
	if err != nil {
		a.logger.Error("failed to list due deploys", "error", err)
		return
	}

	if len(deploys) == 0 {
		return
	}

	a.logger.Debug("poll found due deploys", "count", len(deploys))

	for i := range deploys {
		d := &deploys[i]

		if a.isDeployActive(d.ID) {
			continue
		}

		if err := a.processDeploy(ctx, d.ID); err != nil {
			a.logger.Error("failed to process deploy from poll",
				"deploy_id", d.ID,
				"error", err,
			)
		}
	}
}

// isDeployActive проверяет, находится ли deploy в обработке.
func (a *Agent) isDeployActive(id uuid.UUID) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, exists := a.activeDeploys[id]
	return exists
}

// addActiveDeploy добавляет deploy в активные.
func (a *Agent) addActiveDeploy(id uuid.UUID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.activeDeploys[id]; exists {
		return ErrDeployAlreadyActive
	}

	a.activeDeploys[id] = struct{}{}
	return nil
}

// removeActiveDeploy удаляет deploy из активных.
func (a *Agent) removeActiveDeploy(id uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.activeDeploys, id)
}

// ActiveDeploysCount возвращает количество активных deploys.
func (a *Agent) ActiveDeploysCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.activeDeploys)
}

// serviceLock возвращает mutex для указанной службы.
// Deploys одной службы не должны перекрываться: оба трогают
// один и тот же каталог и одну регистрацию в SCM.
func (a *Agent) serviceLock(serviceName string) *sync.Mutex {
	a.serviceLocksMu.Lock()
	defer a.serviceLocksMu.Unlock()

	lock, ok := a.serviceLocks[serviceName]
	if !ok {
		lock = &sync.Mutex{}
		a.serviceLocks[serviceName] = lock
	}
	return lock
}

var _ DeployStore = (*repo.DeployRepo)(nil)
