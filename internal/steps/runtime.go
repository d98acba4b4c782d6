package steps

import (
	"context"
	"fmt"
	"os"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/pipeline"
)

// CheckRuntime проверяет наличие интерпретатора Python.
//
// Проверяется до создания venv и мутаций таблицы служб:
// без интерпретатора run бессмыслен.
type CheckRuntime struct {
	env *Env
}

// NewCheckRuntime создаёт шаг проверки интерпретатора.
func NewCheckRuntime(env *Env) *CheckRuntime {
	return &CheckRuntime{env: env}
}

func (s *CheckRuntime) Name() string { return "check-runtime" }

func (s *CheckRuntime) Run(ctx context.Context) (domain.StepOutcome, error) {
	path := s.env.Spec.PythonPath

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return domain.StepFailed, fmt.Errorf("%w: %s", pipeline.ErrRuntimeMissing, path)
	}
	return domain.StepSkipped, nil
}
