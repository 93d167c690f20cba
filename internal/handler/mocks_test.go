package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

// withURLParam はchiのURLパラメータをリクエストに設定する。
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// --- プロジェクト ---

type mockProjectService struct {
	listFn    func(ctx context.Context, includeHidden bool) ([]*model.Project, error)
	getFn     func(ctx context.Context, id string) (*model.Project, error)
	createFn  func(ctx context.Context, in *model.ProjectInput) (*model.Project, error)
	updateFn  func(ctx context.Context, id string, patch *model.ProjectPatch) (*model.Project, error)
	deleteFn  func(ctx context.Context, id string) error
	reorderFn func(ctx context.Context, ids []string) ([]*model.Project, error)
}

func (m *mockProjectService) List(ctx context.Context, includeHidden bool) ([]*model.Project, error) {
	if m.listFn != nil {
		return m.listFn(ctx, includeHidden)
	}
	return []*model.Project{}, nil
}

func (m *mockProjectService) Get(ctx context.Context, id string) (*model.Project, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, model.NewNotFoundError("Project", id)
}

func (m *mockProjectService) Create(ctx context.Context, in *model.ProjectInput) (*model.Project, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return &model.Project{ID: "p-new", Title: in.Title}, nil
}

func (m *mockProjectService) Update(ctx context.Context, id string, patch *model.ProjectPatch) (*model.Project, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	return &model.Project{ID: id}, nil
}

func (m *mockProjectService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockProjectService) ToggleVisibility(_ context.Context, id string) (*model.Project, error) {
	return &model.Project{ID: id}, nil
}

func (m *mockProjectService) ToggleFeatured(_ context.Context, id string) (*model.Project, error) {
	return &model.Project{ID: id, Featured: true}, nil
}

func (m *mockProjectService) Reorder(ctx context.Context, ids []string) ([]*model.Project, error) {
	if m.reorderFn != nil {
		return m.reorderFn(ctx, ids)
	}
	return []*model.Project{}, nil
}

// --- 職歴 ---

type mockExperienceService struct {
	createFn func(ctx context.Context, in *model.ExperienceInput) (*model.Experience, error)
	updateFn func(ctx context.Context, id string, patch *model.ExperiencePatch) (*model.Experience, error)
}

func (m *mockExperienceService) List(context.Context, bool) ([]*model.Experience, error) {
	return []*model.Experience{}, nil
}

func (m *mockExperienceService) Get(_ context.Context, id string) (*model.Experience, error) {
	return &model.Experience{ID: id}, nil
}

func (m *mockExperienceService) Create(ctx context.Context, in *model.ExperienceInput) (*model.Experience, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return &model.Experience{ID: "e-new"}, nil
}

func (m *mockExperienceService) Update(ctx context.Context, id string, patch *model.ExperiencePatch) (*model.Experience, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	return &model.Experience{ID: id}, nil
}

func (m *mockExperienceService) Delete(context.Context, string) error { return nil }

func (m *mockExperienceService) ToggleVisibility(_ context.Context, id string) (*model.Experience, error) {
	return &model.Experience{ID: id}, nil
}

func (m *mockExperienceService) Reorder(context.Context, []string) ([]*model.Experience, error) {
	return []*model.Experience{}, nil
}

// --- スキル ---

type mockSkillService struct {
	listCategoriesFn func(ctx context.Context, includeHidden bool) ([]*model.SkillCategory, error)
	reorderSkillsFn  func(ctx context.Context, categoryID string, ids []string) ([]*model.Skill, error)
	deleteCategoryFn func(ctx context.Context, id string) error
}

func (m *mockSkillService) ListCategories(ctx context.Context, includeHidden bool) ([]*model.SkillCategory, error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn(ctx, includeHidden)
	}
	return []*model.SkillCategory{}, nil
}

func (m *mockSkillService) GetCategory(_ context.Context, id string) (*model.SkillCategory, error) {
	return &model.SkillCategory{ID: id, Skills: []*model.Skill{}}, nil
}

func (m *mockSkillService) CreateCategory(_ context.Context, in *model.SkillCategoryInput) (*model.SkillCategory, error) {
	return &model.SkillCategory{ID: "c-new", Name: in.Name, Skills: []*model.Skill{}}, nil
}

func (m *mockSkillService) UpdateCategory(_ context.Context, id string, _ *model.SkillCategoryPatch) (*model.SkillCategory, error) {
	return &model.SkillCategory{ID: id}, nil
}

func (m *mockSkillService) DeleteCategory(ctx context.Context, id string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(ctx, id)
	}
	return nil
}

func (m *mockSkillService) ToggleCategoryVisibility(_ context.Context, id string) (*model.SkillCategory, error) {
	return &model.SkillCategory{ID: id}, nil
}

func (m *mockSkillService) ReorderCategories(context.Context, []string) ([]*model.SkillCategory, error) {
	return []*model.SkillCategory{}, nil
}

func (m *mockSkillService) GetSkill(_ context.Context, id string) (*model.Skill, error) {
	return &model.Skill{ID: id}, nil
}

func (m *mockSkillService) CreateSkill(_ context.Context, in *model.SkillInput) (*model.Skill, error) {
	return &model.Skill{ID: "s-new", CategoryID: in.CategoryID, Name: in.Name}, nil
}

func (m *mockSkillService) UpdateSkill(_ context.Context, id string, _ *model.SkillPatch) (*model.Skill, error) {
	return &model.Skill{ID: id}, nil
}

func (m *mockSkillService) DeleteSkill(context.Context, string) error { return nil }

func (m *mockSkillService) ToggleSkillVisibility(_ context.Context, id string) (*model.Skill, error) {
	return &model.Skill{ID: id}, nil
}

func (m *mockSkillService) ListSkills(context.Context, string, bool) ([]*model.Skill, error) {
	return []*model.Skill{}, nil
}

func (m *mockSkillService) ReorderSkills(ctx context.Context, categoryID string, ids []string) ([]*model.Skill, error) {
	if m.reorderSkillsFn != nil {
		return m.reorderSkillsFn(ctx, categoryID, ids)
	}
	return []*model.Skill{}, nil
}

// --- 問い合わせ ---

type mockMessageService struct {
	submitFn        func(ctx context.Context, in *model.ContactInput) (*model.ContactMessage, error)
	unreadCountFn   func(ctx context.Context) (int, error)
	markAllAsReadFn func(ctx context.Context) (int64, error)
	markAsReadFn    func(ctx context.Context, id string) (*model.ContactMessage, error)
}

func (m *mockMessageService) Submit(ctx context.Context, in *model.ContactInput) (*model.ContactMessage, error) {
	if m.submitFn != nil {
		return m.submitFn(ctx, in)
	}
	return &model.ContactMessage{ID: "m-new", Name: in.Name, Email: in.Email, Message: in.Message}, nil
}

func (m *mockMessageService) List(context.Context) ([]*model.ContactMessage, error) {
	return []*model.ContactMessage{}, nil
}

func (m *mockMessageService) UnreadCount(ctx context.Context) (int, error) {
	if m.unreadCountFn != nil {
		return m.unreadCountFn(ctx)
	}
	return 0, nil
}

func (m *mockMessageService) MarkAsRead(ctx context.Context, id string) (*model.ContactMessage, error) {
	if m.markAsReadFn != nil {
		return m.markAsReadFn(ctx, id)
	}
	return &model.ContactMessage{ID: id, IsRead: true}, nil
}

func (m *mockMessageService) MarkAllAsRead(ctx context.Context) (int64, error) {
	if m.markAllAsReadFn != nil {
		return m.markAllAsReadFn(ctx)
	}
	return 0, nil
}

func (m *mockMessageService) Delete(context.Context, string) error { return nil }

// --- 自己紹介 ---

type mockAboutService struct {
	updateFn func(ctx context.Context, in *model.AboutInput) (*model.About, error)
}

func (m *mockAboutService) GetAbout(context.Context) (*model.About, error) {
	return &model.About{ID: "default", Content: []model.AboutParagraph{}}, nil
}

func (m *mockAboutService) UpdateAbout(ctx context.Context, in *model.AboutInput) (*model.About, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, in)
	}
	return &model.About{ID: "default"}, nil
}
