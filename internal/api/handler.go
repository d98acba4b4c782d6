package api

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/repo"
)

// DeployStore — операции с историей deploys, нужные API.
type DeployStore interface {
	Create(ctx context.Context, d *domain.Deploy) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deploy, error)
	List(ctx context.Context, filter repo.DeployFilter) ([]domain.Deploy, error)
}

// RequestPublisher публикует событие о новом deploy.
type RequestPublisher interface {
	PublishDeployRequested(ctx context.Context, deployID uuid.UUID) error
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	deploys   DeployStore
	publisher RequestPublisher
	token     string
	logger    *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Deploys   DeployStore
	Publisher RequestPublisher

	// Token — bearer-токен для всех маршрутов.
	// Пустой токен отключает проверку.
	Token string

	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		deploys:   cfg.Deploys,
		publisher: cfg.Publisher,
		token:     cfg.Token,
		logger:    logger,
	}
}
