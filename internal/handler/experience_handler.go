package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

// ExperienceServiceInterface は職歴ハンドラーが必要とするサービスインターフェース。
type ExperienceServiceInterface interface {
	List(ctx context.Context, includeHidden bool) ([]*model.Experience, error)
	Get(ctx context.Context, id string) (*model.Experience, error)
	Create(ctx context.Context, in *model.ExperienceInput) (*model.Experience, error)
	Update(ctx context.Context, id string, patch *model.ExperiencePatch) (*model.Experience, error)
	Delete(ctx context.Context, id string) error
	ToggleVisibility(ctx context.Context, id string) (*model.Experience, error)
	Reorder(ctx context.Context, ids []string) ([]*model.Experience, error)
}

// ExperienceHandler は職歴管理のHTTPハンドラー。
type ExperienceHandler struct {
	service ExperienceServiceInterface
}

// NewExperienceHandler はExperienceHandlerを生成する。
func NewExperienceHandler(service ExperienceServiceInterface) *ExperienceHandler {
	return &ExperienceHandler{service: service}
}

// createExperienceRequest は職歴作成リクエストのボディ。日付は文字列で受け取る。
type createExperienceRequest struct {
	JobTitle    string  `json:"jobTitle"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Description string  `json:"description"`
	IsVisible   *bool   `json:"isVisible"`
	Order       *int    `json:"order"`
}

// updateExperienceRequest は職歴更新リクエストのボディ。
// endDateにnullを指定すると「現在も在籍」に戻る。
type updateExperienceRequest struct {
	JobTitle    *string                `json:"jobTitle"`
	Company     *string                `json:"company"`
	Location    *string                `json:"location"`
	StartDate   *string                `json:"startDate"`
	EndDate     model.Nullable[string] `json:"endDate"`
	Description *string                `json:"description"`
	IsVisible   *bool                  `json:"isVisible"`
	Order       *int                   `json:"order"`
}

// dateLayouts は受け付ける日付形式。
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDate はISO 8601の日付または日時を解析する。
func parseDate(field, value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, model.NewValidationError(field + " must be an ISO 8601 date")
}

func (req *createExperienceRequest) toInput() (*model.ExperienceInput, error) {
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	in := &model.ExperienceInput{
		JobTitle:    req.JobTitle,
		Company:     req.Company,
		Location:    req.Location,
		StartDate:   start,
		Description: req.Description,
		IsVisible:   req.IsVisible,
		Order:       req.Order,
	}
	if req.EndDate != nil && *req.EndDate != "" {
		end, err := parseDate("endDate", *req.EndDate)
		if err != nil {
			return nil, err
		}
		in.EndDate = &end
	}
	return in, nil
}

func (req *updateExperienceRequest) toPatch() (*model.ExperiencePatch, error) {
	patch := &model.ExperiencePatch{
		JobTitle:    req.JobTitle,
		Company:     req.Company,
		Location:    req.Location,
		Description: req.Description,
		IsVisible:   req.IsVisible,
		Order:       req.Order,
	}
	if req.StartDate != nil {
		start, err := parseDate("startDate", *req.StartDate)
		if err != nil {
			return nil, err
		}
		patch.StartDate = &start
	}
	if req.EndDate.Set {
		if req.EndDate.Value == nil || *req.EndDate.Value == "" {
			patch.EndDate = model.NullableNull[time.Time]()
		} else {
			end, err := parseDate("endDate", *req.EndDate.Value)
			if err != nil {
				return nil, err
			}
			patch.EndDate = model.NullableOf(end)
		}
	}
	return patch, nil
}

// List は職歴一覧を返す。
// GET /api/experience?all=true
func (h *ExperienceHandler) List(w http.ResponseWriter, r *http.Request) {
	experiences, err := h.service.List(r.Context(), includeHidden(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, experiences)
}

// Get は職歴詳細を返す。
// GET /api/experience/{id}
func (h *ExperienceHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Create は職歴を作成する。
// POST /api/experience
func (h *ExperienceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createExperienceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	e, err := h.service.Create(r.Context(), in)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// Update は職歴を部分更新する。
// PUT /api/experience/{id}
func (h *ExperienceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateExperienceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	e, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Delete は職歴を削除する。
// DELETE /api/experience/{id}
func (h *ExperienceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Experience deleted successfully"})
}

// ToggleVisibility は公開状態を反転する。
// PUT /api/experience/{id}/toggle-visibility
func (h *ExperienceHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.ToggleVisibility(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Reorder は職歴を並び替える。
// PUT /api/experience/reorder
func (h *ExperienceHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	experiences, err := h.service.Reorder(r.Context(), req.ids())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, experiences)
}
