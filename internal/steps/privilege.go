package steps

import (
	"context"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/host"
	"github.com/shaiso/Conveyor/internal/pipeline"
)

// EnsurePrivilege проверяет права администратора.
//
// Выполняется первым: без elevation ни одна операция со службами
// не пройдёт, и лучше упасть до любых изменений на хосте.
type EnsurePrivilege struct {
	env *Env
}

// NewEnsurePrivilege создаёт шаг проверки привилегий.
func NewEnsurePrivilege(env *Env) *EnsurePrivilege {
	return &EnsurePrivilege{env: env}
}

func (s *EnsurePrivilege) Name() string { return "ensure-privilege" }

// Run возвращает Skipped при наличии прав: проверка не меняет
// состояние хоста.
func (s *EnsurePrivilege) Run(ctx context.Context) (domain.StepOutcome, error) {
	if !host.IsElevated(ctx, s.env.Runner) {
		return domain.StepFailed, pipeline.ErrNotElevated
	}
	return domain.StepSkipped, nil
}
