package agent

import "errors"

// Ошибки агента.
var (
	// ErrDeployNotFound — deploy не найден в БД.
	ErrDeployNotFound = errors.New("deploy not found")

	// ErrDeployAlreadyActive — deploy уже обрабатывается.
	ErrDeployAlreadyActive = errors.New("deploy already being processed")

	// ErrDeployNotPending — deploy не в статусе PENDING.
	ErrDeployNotPending = errors.New("deploy is not in PENDING status")

	// ErrAgentStopped — агент остановлен.
	ErrAgentStopped = errors.New("agent stopped")
)
