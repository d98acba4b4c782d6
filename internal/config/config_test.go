package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shaiso/Conveyor/internal/domain"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	// Запускаемся из пустой директории — conveyor.yaml нет
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Deploy.AppDir != domain.DefaultAppDir {
		t.Errorf("expected default app dir, got %s", cfg.Deploy.AppDir)
	}
	if cfg.Deploy.ServiceName != domain.DefaultServiceName {
		t.Errorf("expected default service name, got %s", cfg.Deploy.ServiceName)
	}
	if cfg.Deploy.NSSMURL != domain.DefaultNSSMURL {
		t.Errorf("expected default nssm url, got %s", cfg.Deploy.NSSMURL)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("explicitly named config file must exist")
	}
}

func TestLoad_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conveyor.yaml")
	content := `
deploy:
  app_dir: D:\apps\stias
  service_name: MyService
  python_path: D:\python\python.exe
  port: 8000
  stop_timeout: 15s
agent:
  url: http://deploy-host:8084
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Deploy.AppDir != `D:\apps\stias` {
		t.Errorf("app_dir not loaded: %s", cfg.Deploy.AppDir)
	}
	if cfg.Deploy.Port != 8000 {
		t.Errorf("port not loaded: %d", cfg.Deploy.Port)
	}
	if cfg.Deploy.StopTimeout != 15*time.Second {
		t.Errorf("stop_timeout not loaded: %s", cfg.Deploy.StopTimeout)
	}
	if cfg.Agent.URL != "http://deploy-host:8084" {
		t.Errorf("agent url not loaded: %s", cfg.Agent.URL)
	}

	// Незаданные поля добиваются дефолтами
	if cfg.Deploy.EntryPoint != domain.DefaultEntryPoint {
		t.Errorf("entry point should default, got %s", cfg.Deploy.EntryPoint)
	}
	if cfg.Deploy.StartTimeout != domain.DefaultStartTimeout {
		t.Errorf("start timeout should default, got %s", cfg.Deploy.StartTimeout)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conveyor.yaml")
	if err := os.WriteFile(path, []byte("deploy:\n  service_name: FromFile\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONVEYOR_SERVICE_NAME", "FromEnv")
	t.Setenv("CONVEYOR_PORT", "9000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Deploy.ServiceName != "FromEnv" {
		t.Errorf("env must override file, got %s", cfg.Deploy.ServiceName)
	}
	if cfg.Deploy.Port != 9000 {
		t.Errorf("env port must apply, got %d", cfg.Deploy.Port)
	}
}
