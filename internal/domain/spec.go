package domain

import (
	"errors"
	"path/filepath"
	"time"
)

// Значения по умолчанию для DeploySpec.
const (
	DefaultAppDir      = `C:\STIAS`
	DefaultServiceName = "STIAS-StockAnalysis"
	DefaultPythonPath  = `C:\Python311\python.exe`
	DefaultEntryPoint  = "app.py"
	DefaultPort        = 5000

	// DefaultNSSMURL — фиксированный релиз NSSM, скачиваемый
	// когда nssm.exe отсутствует на хосте.
	DefaultNSSMURL = "https://nssm.cc/release/nssm-2.24.zip"

	DefaultStopTimeout    = 30 * time.Second
	DefaultStartTimeout   = 60 * time.Second
	DefaultInstallTimeout = 10 * time.Minute
)

// DeploySpec — параметры одного развёртывания.
//
// Spec полностью описывает, что и куда ставим:
// целевая директория, имя службы, интерпретатор, входная точка.
// Заполняется из конфига/флагов CLI или из API-запроса.
type DeploySpec struct {
	// AppDir — целевая директория приложения на хосте.
	// Создаётся при отсутствии; существующая переиспользуется.
	AppDir string `json:"app_dir"`

	// ServiceName — имя Windows-службы.
	ServiceName string `json:"service_name"`

	// PythonPath — путь к интерпретатору Python на хосте.
	PythonPath string `json:"python_path"`

	// EntryPoint — входной скрипт приложения относительно AppDir.
	EntryPoint string `json:"entry_point"`

	// Port — порт, на котором приложение слушает после старта.
	// Используется только для итоговой сводки (адрес доступа);
	// сам порт не проверяется.
	Port int `json:"port"`

	// NSSMURL — откуда скачивать NSSM, если он отсутствует.
	NSSMURL string `json:"nssm_url,omitempty"`

	// Description — описание службы в таблице служб.
	Description string `json:"description,omitempty"`

	// StopTimeout — предел ожидания остановки существующей службы.
	StopTimeout time.Duration `json:"stop_timeout,omitempty"`

	// StartTimeout — предел ожидания статуса Running после старта.
	StartTimeout time.Duration `json:"start_timeout,omitempty"`

	// InstallTimeout — предел на pip install.
	InstallTimeout time.Duration `json:"install_timeout,omitempty"`
}

// Ошибки валидации DeploySpec.
var (
	ErrSpecNoAppDir      = errors.New("deploy spec: app_dir is required")
	ErrSpecNoServiceName = errors.New("deploy spec: service_name is required")
	ErrSpecNoPython      = errors.New("deploy spec: python_path is required")
)

// DefaultSpec возвращает DeploySpec со значениями по умолчанию.
func DefaultSpec() DeploySpec {
	return DeploySpec{
		AppDir:         DefaultAppDir,
		ServiceName:    DefaultServiceName,
		PythonPath:     DefaultPythonPath,
		EntryPoint:     DefaultEntryPoint,
		Port:           DefaultPort,
		NSSMURL:        DefaultNSSMURL,
		Description:    "Stock technical indicator analysis web service",
		StopTimeout:    DefaultStopTimeout,
		StartTimeout:   DefaultStartTimeout,
		InstallTimeout: DefaultInstallTimeout,
	}
}

// Normalize заполняет незаданные поля значениями по умолчанию.
func (s *DeploySpec) Normalize() {
	def := DefaultSpec()
	if s.EntryPoint == "" {
		s.EntryPoint = def.EntryPoint
	}
	if s.Port == 0 {
		s.Port = def.Port
	}
	if s.NSSMURL == "" {
		s.NSSMURL = def.NSSMURL
	}
	if s.Description == "" {
		s.Description = def.Description
	}
	if s.StopTimeout <= 0 {
		s.StopTimeout = def.StopTimeout
	}
	if s.StartTimeout <= 0 {
		s.StartTimeout = def.StartTimeout
	}
	if s.InstallTimeout <= 0 {
		s.InstallTimeout = def.InstallTimeout
	}
}

// Validate проверяет обязательные поля.
func (s *DeploySpec) Validate() error {
	if s.AppDir == "" {
		return ErrSpecNoAppDir
	}
	if s.ServiceName == "" {
		return ErrSpecNoServiceName
	}
	if s.PythonPath == "" {
		return ErrSpecNoPython
	}
	return nil
}

// VenvDir — директория изолированного окружения под AppDir.
func (s *DeploySpec) VenvDir() string {
	return filepath.Join(s.AppDir, "venv")
}

// VenvPython — интерпретатор внутри изолированного окружения.
func (s *DeploySpec) VenvPython() string {
	return filepath.Join(s.VenvDir(), "Scripts", "python.exe")
}

// VenvPip — pip внутри изолированного окружения.
func (s *DeploySpec) VenvPip() string {
	return filepath.Join(s.VenvDir(), "Scripts", "pip.exe")
}

// RequirementsPath — путь к манифесту зависимостей.
func (s *DeploySpec) RequirementsPath() string {
	return filepath.Join(s.AppDir, "requirements.txt")
}

// LauncherPath — путь к генерируемому стартовому скрипту.
func (s *DeploySpec) LauncherPath() string {
	return filepath.Join(s.AppDir, "start_service.bat")
}

// NSSMDir — директория с распакованным NSSM.
func (s *DeploySpec) NSSMDir() string {
	return filepath.Join(s.AppDir, "nssm")
}

// NSSMExe — путь к nssm.exe.
func (s *DeploySpec) NSSMExe() string {
	return filepath.Join(s.NSSMDir(), "nssm.exe")
}
