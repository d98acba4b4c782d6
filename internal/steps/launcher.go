package steps

import (
	"context"
	"fmt"
	"os"

	"github.com/shaiso/Conveyor/internal/domain"
)

// WriteLauncher записывает стартовый скрипт службы.
//
// Скрипт перезаписывается безусловно при каждом run: он генерируется
// из DeploySpec, и устаревшая копия хуже, чем лишняя запись файла.
type WriteLauncher struct {
	env *Env
}

// NewWriteLauncher создаёт шаг генерации стартового скрипта.
func NewWriteLauncher(env *Env) *WriteLauncher {
	return &WriteLauncher{env: env}
}

func (s *WriteLauncher) Name() string { return "write-launcher" }

func (s *WriteLauncher) Run(ctx context.Context) (domain.StepOutcome, error) {
	content := LauncherScript(s.env.Spec)

	if err := os.WriteFile(s.env.Spec.LauncherPath(), []byte(content), 0o755); err != nil {
		return domain.StepFailed, fmt.Errorf("write launcher script: %w", err)
	}
	return domain.StepChanged, nil
}

// LauncherScript возвращает содержимое стартового скрипта.
//
// Скрипт активирует venv и запускает входную точку приложения;
// под службой он работает без pause и установки зависимостей.
func LauncherScript(spec domain.DeploySpec) string {
	return fmt.Sprintf("@echo off\r\n"+
		"cd /d %s\r\n"+
		"call venv\\Scripts\\activate.bat\r\n"+
		"python %s\r\n",
		spec.AppDir, spec.EntryPoint)
}
