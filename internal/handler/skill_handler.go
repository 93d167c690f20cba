package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

// SkillServiceInterface はスキルハンドラーが必要とするサービスインターフェース。
type SkillServiceInterface interface {
	ListCategories(ctx context.Context, includeHidden bool) ([]*model.SkillCategory, error)
	GetCategory(ctx context.Context, id string) (*model.SkillCategory, error)
	CreateCategory(ctx context.Context, in *model.SkillCategoryInput) (*model.SkillCategory, error)
	UpdateCategory(ctx context.Context, id string, patch *model.SkillCategoryPatch) (*model.SkillCategory, error)
	DeleteCategory(ctx context.Context, id string) error
	ToggleCategoryVisibility(ctx context.Context, id string) (*model.SkillCategory, error)
	ReorderCategories(ctx context.Context, ids []string) ([]*model.SkillCategory, error)

	GetSkill(ctx context.Context, id string) (*model.Skill, error)
	CreateSkill(ctx context.Context, in *model.SkillInput) (*model.Skill, error)
	UpdateSkill(ctx context.Context, id string, patch *model.SkillPatch) (*model.Skill, error)
	DeleteSkill(ctx context.Context, id string) error
	ToggleSkillVisibility(ctx context.Context, id string) (*model.Skill, error)
	ListSkills(ctx context.Context, categoryID string, includeHidden bool) ([]*model.Skill, error)
	ReorderSkills(ctx context.Context, categoryID string, ids []string) ([]*model.Skill, error)
}

// SkillHandler はスキルカテゴリとスキルのHTTPハンドラー。
type SkillHandler struct {
	service SkillServiceInterface
}

// NewSkillHandler はSkillHandlerを生成する。
func NewSkillHandler(service SkillServiceInterface) *SkillHandler {
	return &SkillHandler{service: service}
}

// --- カテゴリ ---

// ListCategories はカテゴリ一覧をスキル付きで返す。
// GET /api/skills?all=true
func (h *SkillHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context(), includeHidden(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// GetCategory はカテゴリ詳細を返す。
// GET /api/skills/categories/{id}
func (h *SkillHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateCategory はカテゴリを作成する。
// POST /api/skills/categories
func (h *SkillHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in model.SkillCategoryInput
	if !decodeJSON(w, r, &in) {
		return
	}

	c, err := h.service.CreateCategory(r.Context(), &in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCategory はカテゴリを部分更新する。
// PUT /api/skills/categories/{id}
func (h *SkillHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var patch model.SkillCategoryPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	c, err := h.service.UpdateCategory(r.Context(), chi.URLParam(r, "id"), &patch)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCategory はカテゴリを属するスキルごと削除する。
// DELETE /api/skills/categories/{id}
func (h *SkillHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Skill category deleted successfully"})
}

// ToggleCategoryVisibility はカテゴリの公開状態を反転する。
// PUT /api/skills/categories/{id}/toggle-visibility
func (h *SkillHandler) ToggleCategoryVisibility(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.ToggleCategoryVisibility(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ReorderCategories はカテゴリを並び替える。
// PUT /api/skills/categories/reorder
func (h *SkillHandler) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	categories, err := h.service.ReorderCategories(r.Context(), req.ids())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// --- スキル ---

// ListSkills はカテゴリ内のスキル一覧を返す。
// GET /api/skills/categories/{id}/skills?all=true
func (h *SkillHandler) ListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.service.ListSkills(r.Context(), chi.URLParam(r, "id"), includeHidden(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, skills)
}

// ReorderSkills はカテゴリ内のスキルを並び替える。
// PUT /api/skills/categories/{id}/reorder
func (h *SkillHandler) ReorderSkills(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	skills, err := h.service.ReorderSkills(r.Context(), chi.URLParam(r, "id"), req.ids())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, skills)
}

// GetSkill はスキル詳細を返す。
// GET /api/skills/{id}
func (h *SkillHandler) GetSkill(w http.ResponseWriter, r *http.Request) {
	sk, err := h.service.GetSkill(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sk)
}

// CreateSkill はスキルを作成する。
// POST /api/skills
func (h *SkillHandler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	var in model.SkillInput
	if !decodeJSON(w, r, &in) {
		return
	}

	sk, err := h.service.CreateSkill(r.Context(), &in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sk)
}

// UpdateSkill はスキルを部分更新する。
// PUT /api/skills/{id}
func (h *SkillHandler) UpdateSkill(w http.ResponseWriter, r *http.Request) {
	var patch model.SkillPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	sk, err := h.service.UpdateSkill(r.Context(), chi.URLParam(r, "id"), &patch)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sk)
}

// DeleteSkill はスキルを削除する。
// DELETE /api/skills/{id}
func (h *SkillHandler) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSkill(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Skill deleted successfully"})
}

// ToggleSkillVisibility はスキルの公開状態を反転する。
// PUT /api/skills/{id}/toggle-visibility
func (h *SkillHandler) ToggleSkillVisibility(w http.ResponseWriter, r *http.Request) {
	sk, err := h.service.ToggleSkillVisibility(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sk)
}
