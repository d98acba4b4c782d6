package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Conveyor/internal/domain"
)

// DeployRepo — репозиторий истории deploys.
type DeployRepo struct {
	pool *pgxpool.Pool
}

// NewDeployRepo создаёт новый DeployRepo.
func NewDeployRepo(pool *pgxpool.Pool) *DeployRepo {
	return &DeployRepo{pool: pool}
}

// Create сохраняет новый deploy.
func (r *DeployRepo) Create(ctx context.Context, d *domain.Deploy) error {
	specJSON, err := json.Marshal(d.Spec)
	if err != nil {
		return fmt.Errorf("marshal spec: %w", err)
	}

	query := `
		INSERT INTO deploys (id, spec, status, not_before, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.pool.Exec(ctx, query,
		d.ID,
		specJSON,
		d.Status,
		d.NotBefore,
		d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert deploy: %w", err)
	}
	return nil
}

// GetByID возвращает deploy по ID.
func (r *DeployRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deploy, error) {
	query := `
		SELECT id, spec, status, not_before, started_at, finished_at,
		       error, steps, created_at
		FROM deploys
		WHERE id = $1
	`
	return scanDeploy(r.pool.QueryRow(ctx, query, id))
}

// Update обновляет статус и результаты deploy.
func (r *DeployRepo) Update(ctx context.Context, d *domain.Deploy) error {
	stepsJSON, err := json.Marshal(d.Steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}

	query := `
		UPDATE deploys
		SET status = $2, started_at = $3, finished_at = $4, error = $5, steps = $6
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		d.ID,
		d.Status,
		d.StartedAt,
		d.FinishedAt,
		nullString(d.Error),
		stepsJSON,
	)
	if err != nil {
		return fmt.Errorf("update deploy: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List возвращает список deploys с фильтрацией.
func (r *DeployRepo) List(ctx context.Context, filter DeployFilter) ([]domain.Deploy, error) {
	query := `
		SELECT id, spec, status, not_before, started_at, finished_at,
		       error, steps, created_at
		FROM deploys
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query,
		nullString(string(filter.Status)),
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list deploys: %w", err)
	}
	defer rows.Close()

	return collectDeploys(rows)
}

// ListDue возвращает PENDING deploys, чьё maintenance window
// уже наступило (или не задано), в порядке создания.
func (r *DeployRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Deploy, error) {
	query := `
		SELECT id, spec, status, not_before, started_at, finished_at,
		       error, steps, created_at
		FROM deploys
		WHERE status = 'PENDING'
		  AND (not_before IS NULL OR not_before <= $1)
		ORDER BY created_at ASC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due deploys: %w", err)
	}
	defer rows.Close()

	return collectDeploys(rows)
}

// --- Helpers ---

// DeployFilter — параметры фильтрации deploys.
type DeployFilter struct {
	Status domain.DeployStatus
	Limit  int
	Offset int
}

// rowScanner покрывает pgx.Row и pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeploy(row rowScanner) (*domain.Deploy, error) {
	var d domain.Deploy
	var specJSON []byte
	var stepsJSON []byte
	var deployError *string

	err := row.Scan(
		&d.ID,
		&specJSON,
		&d.Status,
		&d.NotBefore,
		&d.StartedAt,
		&d.FinishedAt,
		&deployError,
		&stepsJSON,
		&d.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan deploy: %w", err)
	}

	if err := json.Unmarshal(specJSON, &d.Spec); err != nil {
		return nil, fmt.Errorf("unmarshal spec: %w", err)
	}

	if stepsJSON != nil {
		if err := json.Unmarshal(stepsJSON, &d.Steps); err != nil {
			return nil, fmt.Errorf("unmarshal steps: %w", err)
		}
	}

	if deployError != nil {
		d.Error = *deployError
	}

	return &d, nil
}

func collectDeploys(rows pgx.Rows) ([]domain.Deploy, error) {
	var deploys []domain.Deploy
	for rows.Next() {
		d, err := scanDeploy(rows)
		if err != nil {
			return nil, err
		}
		deploys = append(deploys, *d)
	}
	return deploys, rows.Err()
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
