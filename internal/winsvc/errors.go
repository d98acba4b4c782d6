package winsvc

import "errors"

// Ошибки пакета winsvc.
var (
	// ErrNotInstalled — службы с таким именем нет в таблице служб.
	ErrNotInstalled = errors.New("service not installed")

	// ErrWaitTimeout — служба не перешла в целевое состояние
	// до истечения таймаута.
	ErrWaitTimeout = errors.New("timed out waiting for service state")
)
