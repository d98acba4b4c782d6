package winsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/host"
)

// Параметры poll-ожидания состояния службы.
const (
	waitInitialDelay = 250 * time.Millisecond
	waitMaxDelay     = 4 * time.Second
)

// Manager — операции над Windows-службой.
type Manager interface {
	// State возвращает текущее состояние службы.
	// Отсутствие службы — ServiceNotInstalled, не ошибка.
	State(ctx context.Context, name string) (domain.ServiceState, error)

	// Stop останавливает службу и ждёт состояния Stopped не дольше timeout.
	Stop(ctx context.Context, name string, timeout time.Duration) error

	// Start запускает службу (без ожидания).
	Start(ctx context.Context, name string) error

	// Remove удаляет службу из таблицы служб.
	Remove(ctx context.Context, name string) error

	// Install регистрирует новую службу.
	Install(ctx context.Context, cfg InstallConfig) error

	// WaitState ждёт целевое состояние, опрашивая с растущей задержкой.
	WaitState(ctx context.Context, name string, want domain.ServiceState, timeout time.Duration) error
}

// InstallConfig — параметры регистрации службы.
type InstallConfig struct {
	// Name — имя службы.
	Name string

	// Command — исполняемый файл, который оборачивает NSSM
	// (стартовый скрипт приложения).
	Command string

	// WorkingDir — рабочая директория службы (AppDirectory).
	WorkingDir string

	// Description — описание в таблице служб.
	Description string
}

// NSSM — Manager поверх nssm.exe и sc.exe.
type NSSM struct {
	runner host.CommandRunner
	// nssmPath — путь к nssm.exe; известен из DeploySpec
	// ещё до того, как бинарник скачан.
	nssmPath string
	logger   *slog.Logger
}

// NewNSSM создаёт NSSM-менеджер.
func NewNSSM(runner host.CommandRunner, nssmPath string, logger *slog.Logger) *NSSM {
	if logger == nil {
		logger = slog.Default()
	}
	return &NSSM{
		runner:   runner,
		nssmPath: nssmPath,
		logger:   logger,
	}
}

// State опрашивает состояние через sc query.
func (m *NSSM) State(ctx context.Context, name string) (domain.ServiceState, error) {
	out, err := m.runner.Run(ctx, "sc", "query", name)
	if err != nil {
		if isNotInstalledOutput(out) || isNotInstalledOutput(errOutput(err)) {
			return domain.ServiceNotInstalled, nil
		}
		return domain.ServiceUnknown, fmt.Errorf("query service %s: %w", name, err)
	}
	return parseScState(out), nil
}

// Stop останавливает службу и ждёт Stopped.
// Уже остановленная служба — не ошибка.
func (m *NSSM) Stop(ctx context.Context, name string, timeout time.Duration) error {
	state, err := m.State(ctx, name)
	if err != nil {
		return err
	}
	switch state {
	case domain.ServiceNotInstalled:
		return ErrNotInstalled
	case domain.ServiceStopped:
		return nil
	}

	if _, err := m.runner.Run(ctx, "sc", "stop", name); err != nil {
		return fmt.Errorf("stop service %s: %w", name, err)
	}

	return m.WaitState(ctx, name, domain.ServiceStopped, timeout)
}

// Start запускает службу через nssm.
func (m *NSSM) Start(ctx context.Context, name string) error {
	if _, err := m.runner.Run(ctx, m.nssmPath, "start", name); err != nil {
		return fmt.Errorf("start service %s: %w", name, err)
	}
	return nil
}

// Remove удаляет службу через nssm remove ... confirm.
func (m *NSSM) Remove(ctx context.Context, name string) error {
	if _, err := m.runner.Run(ctx, m.nssmPath, "remove", name, "confirm"); err != nil {
		return fmt.Errorf("remove service %s: %w", name, err)
	}
	return nil
}

// Install регистрирует службу и настраивает рабочую директорию,
// описание и автозапуск.
func (m *NSSM) Install(ctx context.Context, cfg InstallConfig) error {
	if _, err := m.runner.Run(ctx, m.nssmPath, "install", cfg.Name, cfg.Command); err != nil {
		return fmt.Errorf("install service %s: %w", cfg.Name, err)
	}

	settings := [][]string{
		{"set", cfg.Name, "AppDirectory", cfg.WorkingDir},
		{"set", cfg.Name, "Description", cfg.Description},
		{"set", cfg.Name, "Start", "SERVICE_AUTO_START"},
	}
	for _, args := range settings {
		if _, err := m.runner.Run(ctx, m.nssmPath, args...); err != nil {
			return fmt.Errorf("configure service %s (%s): %w", cfg.Name, args[2], err)
		}
	}

	m.logger.Info("service registered",
		"service", cfg.Name,
		"command", cfg.Command,
	)
	return nil
}

// WaitState опрашивает состояние с растущей задержкой до дедлайна.
func (m *NSSM) WaitState(ctx context.Context, name string, want domain.ServiceState, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	delay := waitInitialDelay
	for {
		state, err := m.State(ctx, name)
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if state == want {
			return nil
		}

		m.logger.Debug("waiting for service state",
			"service", name,
			"current", state,
			"want", want,
			"next_poll", delay,
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s is %s, want %s", ErrWaitTimeout, name, state, want)
		case <-time.After(delay):
		}

		delay = min(delay*2, waitMaxDelay)
	}
}

// parseScState извлекает состояние из вывода sc query.
//
// Ожидаемая строка:
//
//	STATE              : 4  RUNNING
func parseScState(out string) domain.ServiceState {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "STATE") {
			continue
		}
		switch {
		case strings.Contains(line, "RUNNING"):
			return domain.ServiceRunning
		case strings.Contains(line, "STOPPED"):
			return domain.ServiceStopped
		case strings.Contains(line, "PAUSED"):
			return domain.ServicePaused
		case strings.Contains(line, "PENDING"):
			return domain.ServicePending
		}
	}
	return domain.ServiceUnknown
}

// isNotInstalledOutput распознаёт "службы не существует" в выводе sc.
// sc query возвращает код 1060 (FAILED 1060) для отсутствующей службы.
func isNotInstalledOutput(out string) bool {
	return strings.Contains(out, "1060") ||
		strings.Contains(out, "does not exist")
}

func errOutput(err error) string {
	var cmdErr *host.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Output
	}
	return ""
}
