package domain

// DeployStatus — статус выполнения deploy.
//
// Жизненный цикл:
//
//	PENDING → RUNNING → SUCCEEDED
//	                  ↘ FAILED
type DeployStatus string

const (
	// DeployStatusPending — deploy создан, но ещё не начал выполняться
	// (в том числе ожидает maintenance window).
	DeployStatusPending DeployStatus = "PENDING"

	// DeployStatusRunning — pipeline выполняется.
	DeployStatusRunning DeployStatus = "RUNNING"

	// DeployStatusSucceeded — все шаги прошли, служба запущена.
	DeployStatusSucceeded DeployStatus = "SUCCEEDED"

	// DeployStatusFailed — один из шагов завершился фатальной ошибкой.
	DeployStatusFailed DeployStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s DeployStatus) IsTerminal() bool {
	switch s {
	case DeployStatusSucceeded, DeployStatusFailed:
		return true
	default:
		return false
	}
}

// StepOutcome — результат одного шага pipeline.
//
// Каждый шаг сначала опрашивает текущее состояние хоста
// и действует только при необходимости, поэтому различаются
// "сделал" и "уже было сделано".
type StepOutcome string

const (
	// StepChanged — шаг изменил состояние хоста.
	StepChanged StepOutcome = "CHANGED"

	// StepSkipped — требуемое состояние уже достигнуто, действий не было.
	StepSkipped StepOutcome = "SKIPPED"

	// StepWarned — шаг завершился с предупреждением, run продолжается.
	// Единственный такой случай — отсутствующий манифест зависимостей.
	StepWarned StepOutcome = "WARNED"

	// StepFailed — фатальная ошибка, run прерван.
	StepFailed StepOutcome = "FAILED"
)

// ServiceState — состояние Windows-службы из таблицы служб.
type ServiceState string

const (
	// ServiceNotInstalled — службы с таким именем нет.
	ServiceNotInstalled ServiceState = "NOT_INSTALLED"

	// ServiceRunning — служба запущена.
	ServiceRunning ServiceState = "RUNNING"

	// ServiceStopped — служба установлена, но остановлена.
	ServiceStopped ServiceState = "STOPPED"

	// ServicePaused — служба приостановлена.
	ServicePaused ServiceState = "PAUSED"

	// ServicePending — переходное состояние (старт/остановка в процессе).
	ServicePending ServiceState = "PENDING"

	// ServiceUnknown — статус не удалось распознать.
	ServiceUnknown ServiceState = "UNKNOWN"
)
