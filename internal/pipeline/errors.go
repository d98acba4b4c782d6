package pipeline

import "errors"

// Фатальные условия pipeline.
var (
	// ErrNotElevated — процесс запущен без прав администратора.
	// Проверяется первым шагом до любых изменений на хосте.
	ErrNotElevated = errors.New("administrative privileges required")

	// ErrRuntimeMissing — интерпретатор Python отсутствует
	// по настроенному пути.
	ErrRuntimeMissing = errors.New("python runtime not found")

	// ErrDependencyInstall — pip install завершился с ошибкой.
	// Отсутствие самого манифеста — не ошибка, а предупреждение.
	ErrDependencyInstall = errors.New("dependency install failed")

	// ErrToolAcquisition — не удалось скачать или распаковать NSSM.
	ErrToolAcquisition = errors.New("service wrapper acquisition failed")

	// ErrServiceStart — служба не перешла в Running за отведённое время.
	ErrServiceStart = errors.New("service failed to start")
)
