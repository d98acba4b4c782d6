package steps

import (
	"context"
	"fmt"
	"os"

	"github.com/shaiso/Conveyor/internal/domain"
)

// EnsureVenv создаёт изолированное окружение под директорией приложения.
//
// Существующий venv переиспользуется: `python -m venv` поверх
// живого окружения не нужен и только тратит время.
type EnsureVenv struct {
	env *Env
}

// NewEnsureVenv создаёт шаг подготовки venv.
func NewEnsureVenv(env *Env) *EnsureVenv {
	return &EnsureVenv{env: env}
}

func (s *EnsureVenv) Name() string { return "ensure-venv" }

func (s *EnsureVenv) Run(ctx context.Context) (domain.StepOutcome, error) {
	if _, err := os.Stat(s.env.Spec.VenvPython()); err == nil {
		return domain.StepSkipped, nil
	}

	_, err := s.env.Runner.Run(ctx, s.env.Spec.PythonPath, "-m", "venv", s.env.Spec.VenvDir())
	if err != nil {
		return domain.StepFailed, fmt.Errorf("create venv: %w", err)
	}
	return domain.StepChanged, nil
}
