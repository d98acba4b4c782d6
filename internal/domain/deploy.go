package domain

import (
	"time"

	"github.com/google/uuid"
)

// Deploy — экземпляр выполнения развёртывания.
//
// Deploy создаётся когда:
//   - Оператор запускает conveyor-cli deploy локально
//   - CI или оператор отправляет запрос агенту (API/MQ)
//
// Deploy хранит параметры, статус и результаты всех шагов.
// Отката нет: прерванный run оставляет хост в частично
// изменённом состоянии, а Steps показывают, докуда он дошёл.
type Deploy struct {
	// ID — уникальный идентификатор deploy.
	ID uuid.UUID `json:"id"`

	// Spec — параметры развёртывания.
	Spec DeploySpec `json:"spec"`

	// Status — текущий статус выполнения.
	Status DeployStatus `json:"status"`

	// NotBefore — не выполнять раньше этого времени
	// (maintenance window). Nil — выполнять сразу.
	NotBefore *time.Time `json:"not_before,omitempty"`

	// StartedAt — время начала выполнения pipeline.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения (успешного или с ошибкой).
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Error — текст ошибки, если deploy завершился FAILED.
	Error string `json:"error,omitempty"`

	// Steps — результаты шагов в порядке выполнения.
	// При fail-fast содержит шаги до первого фатального включительно.
	Steps []StepRecord `json:"steps,omitempty"`

	// CreatedAt — время создания deploy.
	CreatedAt time.Time `json:"created_at"`
}

// StepRecord — результат одного шага pipeline.
type StepRecord struct {
	// Name — имя шага (ensure-privilege, stop-service, ...).
	Name string `json:"name"`

	// Outcome — исход шага.
	Outcome StepOutcome `json:"outcome"`

	// Error — текст ошибки или предупреждения.
	Error string `json:"error,omitempty"`

	// Duration — длительность шага.
	Duration time.Duration `json:"duration"`
}

// NewDeploy создаёт Deploy в статусе PENDING.
func NewDeploy(spec DeploySpec) *Deploy {
	return &Deploy{
		ID:        uuid.New(),
		Spec:      spec,
		Status:    DeployStatusPending,
		CreatedAt: time.Now(),
	}
}

// IsDue возвращает true, если deploy можно выполнять в момент now.
func (d *Deploy) IsDue(now time.Time) bool {
	return d.NotBefore == nil || !now.Before(*d.NotBefore)
}

// Duration возвращает продолжительность выполнения.
// Возвращает 0, если deploy ещё не завершён.
func (d *Deploy) Duration() time.Duration {
	if d.StartedAt == nil || d.FinishedAt == nil {
		return 0
	}
	return d.FinishedAt.Sub(*d.StartedAt)
}

// MarkRunning переводит deploy в статус RUNNING.
func (d *Deploy) MarkRunning() {
	now := time.Now()
	d.Status = DeployStatusRunning
	d.StartedAt = &now
}

// MarkSucceeded переводит deploy в статус SUCCEEDED.
func (d *Deploy) MarkSucceeded(steps []StepRecord) {
	now := time.Now()
	d.Status = DeployStatusSucceeded
	d.FinishedAt = &now
	d.Steps = steps
}

// MarkFailed переводит deploy в статус FAILED с ошибкой.
func (d *Deploy) MarkFailed(steps []StepRecord, err string) {
	now := time.Now()
	d.Status = DeployStatusFailed
	d.FinishedAt = &now
	d.Steps = steps
	d.Error = err
}
