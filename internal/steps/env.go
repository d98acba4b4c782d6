package steps

import (
	"log/slog"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/fetch"
	"github.com/shaiso/Conveyor/internal/host"
	"github.com/shaiso/Conveyor/internal/pipeline"
	"github.com/shaiso/Conveyor/internal/winsvc"
)

// Env — общие коллабораторы шагов одного deploy.
type Env struct {
	// Spec — параметры развёртывания.
	Spec domain.DeploySpec

	// Runner — выполнение внешних команд на хосте.
	Runner host.CommandRunner

	// Svc — менеджер Windows-служб.
	Svc winsvc.Manager

	// Fetcher — скачивание NSSM.
	Fetcher *fetch.Fetcher

	// Logger — базовый логгер deploy.
	Logger *slog.Logger
}

// log возвращает логгер Env, либо глобальный.
func (e *Env) log() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// NewEnv создаёт Env с реальными коллабораторами.
func NewEnv(spec domain.DeploySpec, logger *slog.Logger) *Env {
	if logger == nil {
		logger = slog.Default()
	}
	runner := host.NewExecRunner()
	return &Env{
		Spec:    spec,
		Runner:  runner,
		Svc:     winsvc.NewNSSM(runner, spec.NSSMExe(), logger),
		Fetcher: fetch.NewFetcher(nil, logger),
		Logger:  logger,
	}
}

// Sequence возвращает шаги deploy в порядке выполнения.
func Sequence(env *Env) []pipeline.Step {
	return []pipeline.Step{
		NewEnsurePrivilege(env),
		NewStopService(env),
		NewEnsureAppDir(env),
		NewCheckRuntime(env),
		NewEnsureVenv(env),
		NewInstallDeps(env),
		NewWriteLauncher(env),
		NewEnsureNSSM(env),
		NewRegisterService(env),
		NewStartService(env),
	}
}
