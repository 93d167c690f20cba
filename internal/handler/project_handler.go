package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

// ProjectServiceInterface はプロジェクトハンドラーが必要とするサービスインターフェース。
type ProjectServiceInterface interface {
	List(ctx context.Context, includeHidden bool) ([]*model.Project, error)
	Get(ctx context.Context, id string) (*model.Project, error)
	Create(ctx context.Context, in *model.ProjectInput) (*model.Project, error)
	Update(ctx context.Context, id string, patch *model.ProjectPatch) (*model.Project, error)
	Delete(ctx context.Context, id string) error
	ToggleVisibility(ctx context.Context, id string) (*model.Project, error)
	ToggleFeatured(ctx context.Context, id string) (*model.Project, error)
	Reorder(ctx context.Context, ids []string) ([]*model.Project, error)
}

// ProjectHandler はプロジェクト管理のHTTPハンドラー。
type ProjectHandler struct {
	service ProjectServiceInterface
}

// NewProjectHandler はProjectHandlerを生成する。
func NewProjectHandler(service ProjectServiceInterface) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// List はプロジェクト一覧を返す。
// GET /api/projects?all=true
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context(), includeHidden(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// Get はプロジェクト詳細を返す。
// GET /api/projects/{id}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create はプロジェクトを作成する。
// POST /api/projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ProjectInput
	if !decodeJSON(w, r, &in) {
		return
	}

	p, err := h.service.Create(r.Context(), &in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Update はプロジェクトを部分更新する。
// PUT /api/projects/{id}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.ProjectPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	p, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &patch)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete はプロジェクトを削除する。
// DELETE /api/projects/{id}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Project deleted successfully"})
}

// ToggleVisibility は公開状態を反転する。
// PUT /api/projects/{id}/toggle-visibility
func (h *ProjectHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.ToggleVisibility(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ToggleFeatured は注目フラグを反転する。
// PUT /api/projects/{id}/toggle-featured
func (h *ProjectHandler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.ToggleFeatured(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Reorder はプロジェクトを並び替える。
// PUT /api/projects/reorder
func (h *ProjectHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	projects, err := h.service.Reorder(r.Context(), req.ids())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}
