package winsvc

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/host"
)

const scRunningOutput = `
SERVICE_NAME: STIAS-StockAnalysis
        TYPE               : 10  WIN32_OWN_PROCESS
        STATE              : 4  RUNNING
                                (STOPPABLE, NOT_PAUSABLE, ACCEPTS_SHUTDOWN)
        WIN32_EXIT_CODE    : 0  (0x0)
`

const scStoppedOutput = `
SERVICE_NAME: STIAS-StockAnalysis
        TYPE               : 10  WIN32_OWN_PROCESS
        STATE              : 1  STOPPED
        WIN32_EXIT_CODE    : 0  (0x0)
`

const scNotInstalledOutput = `[SC] EnumQueryServicesStatus:OpenService FAILED 1060:

The specified service does not exist as an installed service.
`

// scriptedRunner — фейковый CommandRunner с заранее заданными ответами.
type scriptedRunner struct {
	// responses: ключ — первая часть команды ("sc query", "nssm install", ...)
	responses map[string]scriptedResponse
	calls     []string
}

type scriptedResponse struct {
	out string
	err error
}

func (r *scriptedRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	key := name
	if len(args) > 0 {
		key += " " + args[0]
	}
	r.calls = append(r.calls, key)

	resp, ok := r.responses[key]
	if !ok {
		return "", nil
	}
	return resp.out, resp.err
}

func TestParseScState(t *testing.T) {
	cases := []struct {
		out  string
		want domain.ServiceState
	}{
		{scRunningOutput, domain.ServiceRunning},
		{scStoppedOutput, domain.ServiceStopped},
		{"STATE : 2 START_PENDING", domain.ServicePending},
		{"STATE : 7 PAUSED", domain.ServicePaused},
		{"garbage", domain.ServiceUnknown},
	}

	for _, c := range cases {
		if got := parseScState(c.out); got != c.want {
			t.Errorf("parseScState(%q) = %s, want %s", c.out[:min(len(c.out), 30)], got, c.want)
		}
	}
}

func TestState_NotInstalled(t *testing.T) {
	runner := &scriptedRunner{responses: map[string]scriptedResponse{
		"sc query": {
			out: scNotInstalledOutput,
			err: &host.CommandError{Name: "sc", Output: scNotInstalledOutput, Err: errors.New("exit status 1060")},
		},
	}}

	m := NewNSSM(runner, `C:\STIAS\nssm\nssm.exe`, nil)
	state, err := m.State(context.Background(), "STIAS-StockAnalysis")
	if err != nil {
		t.Fatalf("missing service must not be an error: %v", err)
	}
	if state != domain.ServiceNotInstalled {
		t.Errorf("expected NOT_INSTALLED, got %s", state)
	}
}

func TestStop_AlreadyStopped(t *testing.T) {
	runner := &scriptedRunner{responses: map[string]scriptedResponse{
		"sc query": {out: scStoppedOutput},
	}}

	m := NewNSSM(runner, `C:\nssm.exe`, nil)
	if err := m.Stop(context.Background(), "svc", time.Second); err != nil {
		t.Fatalf("stopping a stopped service must be a no-op: %v", err)
	}

	for _, call := range runner.calls {
		if call == "sc stop" {
			t.Error("sc stop must not be invoked for a stopped service")
		}
	}
}

func TestStop_NotInstalled(t *testing.T) {
	runner := &scriptedRunner{responses: map[string]scriptedResponse{
		"sc query": {
			out: scNotInstalledOutput,
			err: &host.CommandError{Name: "sc", Output: scNotInstalledOutput, Err: errors.New("exit status 1060")},
		},
	}}

	m := NewNSSM(runner, `C:\nssm.exe`, nil)
	err := m.Stop(context.Background(), "svc", time.Second)
	if !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("expected ErrNotInstalled, got %v", err)
	}
}

func TestInstall_ConfiguresService(t *testing.T) {
	runner := &scriptedRunner{responses: map[string]scriptedResponse{}}

	m := NewNSSM(runner, `C:\STIAS\nssm\nssm.exe`, nil)
	err := m.Install(context.Background(), InstallConfig{
		Name:        "STIAS-StockAnalysis",
		Command:     `C:\STIAS\start_service.bat`,
		WorkingDir:  `C:\STIAS`,
		Description: "stock analysis",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// install + три set
	var installs, sets int
	for _, call := range runner.calls {
		switch {
		case strings.HasSuffix(call, "install"):
			installs++
		case strings.HasSuffix(call, "set"):
			sets++
		}
	}
	if installs != 1 {
		t.Errorf("expected 1 nssm install, got %d", installs)
	}
	if sets != 3 {
		t.Errorf("expected 3 nssm set calls, got %d", sets)
	}
}

func TestWaitState_Timeout(t *testing.T) {
	runner := &scriptedRunner{responses: map[string]scriptedResponse{
		"sc query": {out: scStoppedOutput},
	}}

	m := NewNSSM(runner, `C:\nssm.exe`, nil)
	err := m.WaitState(context.Background(), "svc", domain.ServiceRunning, 300*time.Millisecond)
	if !errors.Is(err, ErrWaitTimeout) {
		t.Fatalf("expected ErrWaitTimeout, got %v", err)
	}
	// Сообщение должно называть фактическое состояние
	if !strings.Contains(err.Error(), "STOPPED") {
		t.Errorf("timeout error should name the observed state: %v", err)
	}
}

func TestWaitState_Reached(t *testing.T) {
	runner := &scriptedRunner{responses: map[string]scriptedResponse{
		"sc query": {out: scRunningOutput},
	}}

	m := NewNSSM(runner, `C:\nssm.exe`, nil)
	if err := m.WaitState(context.Background(), "svc", domain.ServiceRunning, time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
