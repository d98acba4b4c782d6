package steps

import (
	"context"
	"fmt"
	"os"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/pipeline"
)

// InstallDeps устанавливает зависимости приложения в venv.
//
// Отсутствующий манифест — предупреждение, а не ошибка: run
// продолжается. Ненулевой код pip install — фатально.
type InstallDeps struct {
	env *Env
}

// NewInstallDeps создаёт шаг установки зависимостей.
func NewInstallDeps(env *Env) *InstallDeps {
	return &InstallDeps{env: env}
}

func (s *InstallDeps) Name() string { return "install-deps" }

func (s *InstallDeps) Run(ctx context.Context) (domain.StepOutcome, error) {
	manifest := s.env.Spec.RequirementsPath()

	if _, err := os.Stat(manifest); err != nil {
		return domain.StepWarned, fmt.Errorf("dependency manifest not found: %s", manifest)
	}

	ctx, cancel := context.WithTimeout(ctx, s.env.Spec.InstallTimeout)
	defer cancel()

	_, err := s.env.Runner.Run(ctx, s.env.Spec.VenvPip(), "install", "-r", manifest)
	if err != nil {
		return domain.StepFailed, fmt.Errorf("%w: %v", pipeline.ErrDependencyInstall, err)
	}
	return domain.StepChanged, nil
}
