package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/repo"
	"github.com/shaiso/Conveyor/internal/window"
)

// CreateDeploy создаёт новый deploy.
// POST /api/v1/deploys
func (h *Handler) CreateDeploy(w http.ResponseWriter, r *http.Request) {
	var req CreateDeployRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	spec := req.Spec()
	spec.Normalize()
	if err := spec.Validate(); err != nil {
		BadRequest(w, err.Error())
		return
	}

	deploy := domain.NewDeploy(spec)

	// Maintenance window: откладываем до ближайшего срабатывания
	if req.Window != "" {
		next, err := window.Next(req.Window, time.Now())
		if err != nil {
			BadRequest(w, fmt.Sprintf("invalid window expression: %v", err))
			return
		}
		deploy.NotBefore = &next
	}

	if err := h.deploys.Create(r.Context(), deploy); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	// Публикуем событие в очередь
	if h.publisher != nil {
		if err := h.publisher.PublishDeployRequested(r.Context(), deploy.ID); err != nil {
			h.logger.Warn("failed to publish deploy.requested", "deploy_id", deploy.ID, "error", err)
			// Deploy создан в БД — агент подхватит через polling
		}
	}

	Created(w, DeployFromDomain(*deploy))
}

// GetDeploy возвращает deploy по ID.
// GET /api/v1/deploys/{id}
func (h *Handler) GetDeploy(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid deploy id")
		return
	}

	deploy, err := h.deploys.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "deploy not found") {
		return
	}

	Success(w, DeployFromDomain(*deploy))
}

// ListDeploys возвращает список deploys с фильтрацией.
// GET /api/v1/deploys?status=...&limit=...&offset=...
func (h *Handler) ListDeploys(w http.ResponseWriter, r *http.Request) {
	filter := repo.DeployFilter{Limit: 50}

	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = domain.DeployStatus(status)
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	deploys, err := h.deploys.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]DeployResponse, len(deploys))
	for i, d := range deploys {
		result[i] = DeployFromDomain(d)
	}

	List(w, result, len(result))
}
