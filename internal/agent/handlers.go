package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/mq"
	"github.com/shaiso/Conveyor/internal/repo"
	"github.com/shaiso/Conveyor/internal/telemetry"
)

// handleDeployRequested обрабатывает событие о новом deploy.
func (a *Agent) handleDeployRequested(ctx context.Context, delivery *mq.Delivery) error {
	payload, err := mq.ParsePayload[mq.DeployRequestedPayload](&delivery.Message)
	if err != nil {
		a.logger.Error("failed to parse deploy.requested payload", "error", err)
		return err
	}

	a.logger.Debug("received deploy.requested event", "deploy_id", payload.DeployID)

	if a.isDeployActive(payload.DeployID) {
		a.logger.Debug("deploy already active, skipping", "deploy_id", payload.DeployID)
		return nil
	}

	if err := a.processDeploy(ctx, payload.DeployID); err != nil {
		// Нефатальные случаи ack'аем: повтор ничего не изменит
		if errors.Is(err, ErrDeployNotPending) || errors.Is(err, ErrDeployAlreadyActive) {
			a.logger.Debug("deploy not processed", "deploy_id", payload.DeployID, "reason", err)
			return nil
		}
		a.logger.Error("failed to process deploy", "deploy_id", payload.DeployID, "error", err)
		return err
	}

	return nil
}

// processDeploy выполняет один deploy целиком.
//
// Ошибка pipeline — не ошибка обработки: она записывается в Deploy
// (status FAILED) и публикуется в deploy.completed. Ошибку возвращают
// только инфраструктурные сбои (БД недоступна и т.п.).
func (a *Agent) processDeploy(ctx context.Context, deployID uuid.UUID) error {
	// 1. Загружаем deploy из БД
	d, err := a.deploys.GetByID(ctx, deployID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrDeployNotFound, deployID)
		}
		return fmt.Errorf("get deploy: %w", err)
	}

	// 2. Проверяем статус
	if d.Status != domain.DeployStatusPending {
		return ErrDeployNotPending
	}

	// 3. Maintenance window ещё не наступило — оставляем деплой
	// в PENDING, его подхватит poll
	if !d.IsDue(time.Now()) {
		a.logger.Debug("deploy not due yet",
			"deploy_id", d.ID,
			"not_before", d.NotBefore,
		)
		return nil
	}

	// 4. Добавляем в активные
	if err := a.addActiveDeploy(d.ID); err != nil {
		return err
	}
	defer a.removeActiveDeploy(d.ID)

	// 5. Deploys одной службы — строго по одному
	lock := a.serviceLock(d.Spec.ServiceName)
	lock.Lock()
	defer lock.Unlock()

	// 6. Переводим в RUNNING
	d.MarkRunning()
	if err := a.deploys.Update(ctx, d); err != nil {
		return fmt.Errorf("update deploy to running: %w", err)
	}

	logger := telemetry.WithDeployID(a.logger, d.ID.String())
	logger.Info("deploy started",
		"service", d.Spec.ServiceName,
		"app_dir", d.Spec.AppDir,
	)

	telemetry.ActiveDeploys.Inc()
	defer telemetry.ActiveDeploys.Dec()

	// 7. Выполняем pipeline
	records, runErr := a.executor(ctx, d.Spec, nil)

	if runErr != nil {
		d.MarkFailed(records, runErr.Error())
		logger.Warn("deploy failed",
			"error", runErr,
			"steps_run", len(records),
			"duration", d.Duration(),
		)
	} else {
		d.MarkSucceeded(records)
		logger.Info("deploy succeeded",
			"steps_run", len(records),
			"duration", d.Duration(),
		)
	}

	telemetry.ObserveDeploy(string(d.Status), d.Duration())

	// 8. Записываем результат
	if err := a.deploys.Update(ctx, d); err != nil {
		return fmt.Errorf("update deploy result: %w", err)
	}

	// 9. Публикуем deploy.completed
	a.publishCompleted(ctx, d)

	return nil
}

// publishCompleted публикует событие о завершении deploy.
// Результат уже в БД, поэтому сбой публикации — только warning.
func (a *Agent) publishCompleted(ctx context.Context, d *domain.Deploy) {
	if a.publisher == nil {
		return
	}

	payload := mq.DeployCompletedPayload{
		DeployID:    d.ID,
		ServiceName: d.Spec.ServiceName,
		Status:      d.Status,
		Error:       d.Error,
	}

	if err := a.publisher.PublishDeployCompleted(ctx, payload); err != nil {
		a.logger.Warn("failed to publish deploy.completed",
			"deploy_id", d.ID,
			"error", err,
		)
	}
}
