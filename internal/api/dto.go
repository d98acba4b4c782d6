package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
)

// Deploy DTOs

// CreateDeployRequest — запрос на создание deploy.
//
// Все поля необязательны: пропущенные берутся из значений по
// умолчанию. Window — cron-выражение maintenance window; deploy
// будет выполнен не раньше ближайшего срабатывания.
type CreateDeployRequest struct {
	AppDir      string `json:"app_dir,omitempty"`
	ServiceName string `json:"service_name,omitempty"`
	PythonPath  string `json:"python_path,omitempty"`
	EntryPoint  string `json:"entry_point,omitempty"`
	Port        int    `json:"port,omitempty"`
	NSSMURL     string `json:"nssm_url,omitempty"`
	Description string `json:"description,omitempty"`

	Window string `json:"window,omitempty"`
}

// Spec собирает DeploySpec из запроса поверх значений по умолчанию.
func (r *CreateDeployRequest) Spec() domain.DeploySpec {
	spec := domain.DefaultSpec()
	if r.AppDir != "" {
		spec.AppDir = r.AppDir
	}
	if r.ServiceName != "" {
		spec.ServiceName = r.ServiceName
	}
	if r.PythonPath != "" {
		spec.PythonPath = r.PythonPath
	}
	if r.EntryPoint != "" {
		spec.EntryPoint = r.EntryPoint
	}
	if r.Port != 0 {
		spec.Port = r.Port
	}
	if r.NSSMURL != "" {
		spec.NSSMURL = r.NSSMURL
	}
	if r.Description != "" {
		spec.Description = r.Description
	}
	return spec
}

// DeployResponse — ответ с deploy.
type DeployResponse struct {
	ID         uuid.UUID           `json:"id"`
	Spec       domain.DeploySpec   `json:"spec"`
	Status     string              `json:"status"`
	NotBefore  *time.Time          `json:"not_before,omitempty"`
	StartedAt  *time.Time          `json:"started_at,omitempty"`
	FinishedAt *time.Time          `json:"finished_at,omitempty"`
	Error      string              `json:"error,omitempty"`
	Steps      []StepRecordReply   `json:"steps,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// StepRecordReply — результат шага в ответе API.
type StepRecordReply struct {
	Name     string `json:"name"`
	Outcome  string `json:"outcome"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
}

// DeployFromDomain конвертирует domain.Deploy в DeployResponse.
func DeployFromDomain(d domain.Deploy) DeployResponse {
	resp := DeployResponse{
		ID:         d.ID,
		Spec:       d.Spec,
		Status:     string(d.Status),
		NotBefore:  d.NotBefore,
		StartedAt:  d.StartedAt,
		FinishedAt: d.FinishedAt,
		Error:      d.Error,
		CreatedAt:  d.CreatedAt,
	}
	for _, s := range d.Steps {
		resp.Steps = append(resp.Steps, StepRecordReply{
			Name:     s.Name,
			Outcome:  string(s.Outcome),
			Error:    s.Error,
			Duration: s.Duration.String(),
		})
	}
	return resp
}
