package steps

import (
	"context"
	"fmt"
	"os"

	"github.com/shaiso/Conveyor/internal/domain"
)

// EnsureAppDir создаёт целевую директорию приложения.
//
// Существующая директория переиспользуется и никогда не очищается:
// повторное развёртывание накладывается поверх.
type EnsureAppDir struct {
	env *Env
}

// NewEnsureAppDir создаёт шаг подготовки директории.
func NewEnsureAppDir(env *Env) *EnsureAppDir {
	return &EnsureAppDir{env: env}
}

func (s *EnsureAppDir) Name() string { return "ensure-app-dir" }

func (s *EnsureAppDir) Run(ctx context.Context) (domain.StepOutcome, error) {
	dir := s.env.Spec.AppDir

	if info, err := os.Stat(dir); err == nil {
		if !info.IsDir() {
			return domain.StepFailed, fmt.Errorf("%s exists and is not a directory", dir)
		}
		return domain.StepSkipped, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.StepFailed, fmt.Errorf("create app dir: %w", err)
	}
	return domain.StepChanged, nil
}
