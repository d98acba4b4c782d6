package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/telemetry"
)

// Step — один идемпотентный шаг развёртывания.
//
// Run опрашивает текущее состояние хоста и действует только
// при необходимости. Возвращает:
//   - (StepChanged, nil) — состояние изменено
//   - (StepSkipped, nil) — требуемое состояние уже достигнуто
//   - (StepWarned, err) — предупреждение, run продолжается;
//     err описывает причину и попадает в StepRecord.Error
//   - (StepFailed, err) — фатальная ошибка, run прерывается
type Step interface {
	// Name — стабильное имя шага для логов, метрик и истории.
	Name() string

	Run(ctx context.Context) (domain.StepOutcome, error)
}

// Runner выполняет шаги последовательно с fail-fast семантикой.
type Runner struct {
	steps  []Step
	logger *slog.Logger

	// onStep вызывается после каждого шага (вывод статусной строки в CLI).
	onStep func(domain.StepRecord)
}

// Config — конфигурация Runner.
type Config struct {
	Steps  []Step
	Logger *slog.Logger

	// OnStep — необязательный callback после каждого шага.
	OnStep func(domain.StepRecord)
}

// NewRunner создаёт Runner.
func NewRunner(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		steps:  cfg.Steps,
		logger: logger,
		onStep: cfg.OnStep,
	}
}

// Run выполняет все шаги по порядку.
//
// Возвращает записи выполненных шагов (при ошибке — до фатального
// включительно) и ошибку первого фатального шага, обёрнутую именем
// шага. Retry и отката нет.
func (r *Runner) Run(ctx context.Context) ([]domain.StepRecord, error) {
	records := make([]domain.StepRecord, 0, len(r.steps))

	for _, step := range r.steps {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		logger := telemetry.WithStep(r.logger, step.Name())
		logger.Debug("running step")

		start := time.Now()
		outcome, err := step.Run(ctx)
		elapsed := time.Since(start)

		rec := domain.StepRecord{
			Name:     step.Name(),
			Outcome:  outcome,
			Duration: elapsed,
		}
		if err != nil {
			rec.Error = err.Error()
		}

		telemetry.ObserveStep(step.Name(), string(outcome), elapsed)

		switch outcome {
		case domain.StepFailed:
			records = append(records, rec)
			r.notify(rec)
			logger.Error("step failed", "error", err, "duration", elapsed)
			return records, fmt.Errorf("step %s: %w", step.Name(), err)
		case domain.StepWarned:
			logger.Warn("step warning", "warning", rec.Error, "duration", elapsed)
		default:
			logger.Info("step done", "outcome", outcome, "duration", elapsed)
		}

		records = append(records, rec)
		r.notify(rec)
	}

	return records, nil
}

func (r *Runner) notify(rec domain.StepRecord) {
	if r.onStep != nil {
		r.onStep(rec)
	}
}
