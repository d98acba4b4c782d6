package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/Conveyor/internal/domain"
)

// DefaultFile — имя конфиг-файла, который ищется в текущей директории.
const DefaultFile = "conveyor.yaml"

// Config — конфигурация CLI.
type Config struct {
	// Deploy — параметры развёртывания.
	Deploy domain.DeploySpec

	// Agent — параметры подключения к удалённому агенту.
	Agent AgentConfig
}

// AgentConfig — подключение к conveyor-agent.
type AgentConfig struct {
	// URL — адрес API агента.
	URL string
}

// fileSchema — YAML-представление конфига.
// Длительности задаются строками ("30s", "5m").
type fileSchema struct {
	Deploy struct {
		AppDir         string `yaml:"app_dir"`
		ServiceName    string `yaml:"service_name"`
		PythonPath     string `yaml:"python_path"`
		EntryPoint     string `yaml:"entry_point"`
		Port           int    `yaml:"port"`
		NSSMURL        string `yaml:"nssm_url"`
		Description    string `yaml:"description"`
		StopTimeout    string `yaml:"stop_timeout"`
		StartTimeout   string `yaml:"start_timeout"`
		InstallTimeout string `yaml:"install_timeout"`
	} `yaml:"deploy"`
	Agent struct {
		URL string `yaml:"url"`
	} `yaml:"agent"`
}

// Load загружает конфигурацию.
//
// path == "" — ищется DefaultFile; его отсутствие не ошибка,
// применяются значения по умолчанию. Явно заданный path обязан
// существовать.
func Load(path string) (*Config, error) {
	cfg := &Config{Deploy: domain.DefaultSpec()}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := applyFile(cfg, path, data); err != nil {
			return nil, err
		}
	case os.IsNotExist(err) && !explicit:
		// Нет файла — работаем на дефолтах
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)
	cfg.Deploy.Normalize()

	return cfg, nil
}

func applyFile(cfg *Config, path string, data []byte) error {
	var file fileSchema
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	d := file.Deploy
	setString(&cfg.Deploy.AppDir, d.AppDir)
	setString(&cfg.Deploy.ServiceName, d.ServiceName)
	setString(&cfg.Deploy.PythonPath, d.PythonPath)
	setString(&cfg.Deploy.EntryPoint, d.EntryPoint)
	setString(&cfg.Deploy.NSSMURL, d.NSSMURL)
	setString(&cfg.Deploy.Description, d.Description)
	if d.Port != 0 {
		cfg.Deploy.Port = d.Port
	}

	durations := []struct {
		raw  string
		name string
		dst  *time.Duration
	}{
		{d.StopTimeout, "stop_timeout", &cfg.Deploy.StopTimeout},
		{d.StartTimeout, "start_timeout", &cfg.Deploy.StartTimeout},
		{d.InstallTimeout, "install_timeout", &cfg.Deploy.InstallTimeout},
	}
	for _, item := range durations {
		if item.raw == "" {
			continue
		}
		dur, err := time.ParseDuration(item.raw)
		if err != nil {
			return fmt.Errorf("parse config %s: %s: %w", path, item.name, err)
		}
		*item.dst = dur
	}

	setString(&cfg.Agent.URL, file.Agent.URL)
	return nil
}

// applyEnv накладывает переменные окружения CONVEYOR_* поверх файла.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CONVEYOR_APP_DIR"); v != "" {
		cfg.Deploy.AppDir = v
	}
	if v := os.Getenv("CONVEYOR_SERVICE_NAME"); v != "" {
		cfg.Deploy.ServiceName = v
	}
	if v := os.Getenv("CONVEYOR_PYTHON"); v != "" {
		cfg.Deploy.PythonPath = v
	}
	if v := os.Getenv("CONVEYOR_ENTRY_POINT"); v != "" {
		cfg.Deploy.EntryPoint = v
	}
	if v := os.Getenv("CONVEYOR_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Deploy.Port = port
		}
	}
	if v := os.Getenv("CONVEYOR_NSSM_URL"); v != "" {
		cfg.Deploy.NSSMURL = v
	}
	if v := os.Getenv("CONVEYOR_AGENT_URL"); v != "" {
		cfg.Agent.URL = v
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
