package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

// --- プロジェクト ---

func TestProjectHandler_Create(t *testing.T) {
	var got *model.ProjectInput
	svc := &mockProjectService{
		createFn: func(_ context.Context, in *model.ProjectInput) (*model.Project, error) {
			got = in
			return &model.Project{ID: "p1", Title: in.Title, TechStack: in.TechStack}, nil
		},
	}
	h := NewProjectHandler(svc)

	body := `{"title":"Portfolio","description":"A portfolio site","techStack":["Go","React"],"featured":true}`
	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if got == nil || got.Title != "Portfolio" {
		t.Fatalf("service received %+v", got)
	}
	if got.Featured == nil || !*got.Featured {
		t.Error("featured should be passed through")
	}
	if got.Order != nil {
		t.Error("order should be nil when omitted")
	}
}

func TestProjectHandler_Get_NotFound(t *testing.T) {
	h := NewProjectHandler(&mockProjectService{})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/projects/missing", nil), "id", "missing")
	w := httptest.NewRecorder()
	h.Get(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if body := decodeError(t, w); body.Code != model.ErrCodeNotFound {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeNotFound)
	}
}

// nullを指定したフィールドと未指定のフィールドを区別して渡す
func TestProjectHandler_Update_NullableFields(t *testing.T) {
	var gotID string
	var got *model.ProjectPatch
	svc := &mockProjectService{
		updateFn: func(_ context.Context, id string, patch *model.ProjectPatch) (*model.Project, error) {
			gotID, got = id, patch
			return &model.Project{ID: id}, nil
		},
	}
	h := NewProjectHandler(svc)

	body := `{"liveUrl":null,"githubUrl":"https://github.com/example/repo"}`
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/projects/p1", strings.NewReader(body)), "id", "p1")
	w := httptest.NewRecorder()
	h.Update(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotID != "p1" {
		t.Errorf("id = %q, want p1", gotID)
	}
	if !got.LiveURL.Set || got.LiveURL.Value != nil {
		t.Errorf("liveUrl = %+v, want explicit null", got.LiveURL)
	}
	if !got.GithubURL.Set || got.GithubURL.Value == nil {
		t.Errorf("githubUrl = %+v, want value", got.GithubURL)
	}
	if got.ImageURL.Set {
		t.Error("imageUrl should be unset")
	}
	if got.Title != nil {
		t.Error("title should be nil")
	}
}

func TestProjectHandler_Delete(t *testing.T) {
	h := NewProjectHandler(&mockProjectService{})

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/projects/p1", nil), "id", "p1")
	w := httptest.NewRecorder()
	h.Delete(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp messageResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if resp.Message != "Project deleted successfully" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestProjectHandler_Reorder_PassesIDsInOrder(t *testing.T) {
	var got []string
	svc := &mockProjectService{
		reorderFn: func(_ context.Context, ids []string) ([]*model.Project, error) {
			got = ids
			return []*model.Project{{ID: "c"}, {ID: "a"}, {ID: "b"}}, nil
		},
	}
	h := NewProjectHandler(svc)

	body := `{"items":[{"id":"c"},{"id":"a"},{"id":"b"}]}`
	w := httptest.NewRecorder()
	h.Reorder(w, httptest.NewRequest(http.MethodPut, "/api/projects/reorder", strings.NewReader(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if want := []string{"c", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestProjectHandler_Reorder_UnknownID(t *testing.T) {
	svc := &mockProjectService{
		reorderFn: func(context.Context, []string) ([]*model.Project, error) {
			return nil, model.NewValidationError("unknown id: x")
		},
	}
	h := NewProjectHandler(svc)

	w := httptest.NewRecorder()
	h.Reorder(w, httptest.NewRequest(http.MethodPut, "/api/projects/reorder", strings.NewReader(`{"items":[{"id":"x"}]}`)))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestProjectHandler_ServiceFailure_Returns500(t *testing.T) {
	svc := &mockProjectService{
		listFn: func(context.Context, bool) ([]*model.Project, error) {
			return nil, errors.New("connection refused")
		},
	}
	h := NewProjectHandler(svc)

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/api/projects", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Error("internal error detail should not leak")
	}
}

func TestDecodeJSON_BodyTooLarge(t *testing.T) {
	h := NewProjectHandler(&mockProjectService{})

	body := `{"title":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(body)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if body := decodeError(t, w); body.Message != "Request body is too large" {
		t.Errorf("message = %q", body.Message)
	}
}

// --- 職歴 ---

func TestExperienceHandler_Create_ParsesDates(t *testing.T) {
	var got *model.ExperienceInput
	svc := &mockExperienceService{
		createFn: func(_ context.Context, in *model.ExperienceInput) (*model.Experience, error) {
			got = in
			return &model.Experience{ID: "e1"}, nil
		},
	}
	h := NewExperienceHandler(svc)

	body := `{"jobTitle":"Engineer","company":"Acme","location":"Remote","startDate":"2021-04-01","endDate":"2023-03-31T00:00:00Z","description":"Built things"}`
	w := httptest.NewRecorder()
	h.Create(w, httptest.NewRequest(http.MethodPost, "/api/experience", strings.NewReader(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if want := time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC); !got.StartDate.Equal(want) {
		t.Errorf("startDate = %v, want %v", got.StartDate, want)
	}
	if got.EndDate == nil || !got.EndDate.Equal(time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("endDate = %v", got.EndDate)
	}
}

func TestExperienceHandler_Create_InvalidDate(t *testing.T) {
	called := false
	svc := &mockExperienceService{
		createFn: func(context.Context, *model.ExperienceInput) (*model.Experience, error) {
			called = true
			return &model.Experience{}, nil
		},
	}
	h := NewExperienceHandler(svc)

	tests := []struct {
		name string
		body string
	}{
		{"missing start", `{"jobTitle":"Engineer","company":"Acme"}`},
		{"bad start", `{"startDate":"April 2021"}`},
		{"bad end", `{"startDate":"2021-04-01","endDate":"31/03/2023"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Create(w, httptest.NewRequest(http.MethodPost, "/api/experience", strings.NewReader(tt.body)))

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
	if called {
		t.Error("service should not be called for invalid dates")
	}
}

// endDateにnullまたは空文字を指定すると「現在も在籍」に戻る
func TestExperienceHandler_Update_ClearsEndDate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantSet bool
		wantNil bool
	}{
		{"null", `{"endDate":null}`, true, true},
		{"empty string", `{"endDate":""}`, true, true},
		{"value", `{"endDate":"2024-01-31"}`, true, false},
		{"omitted", `{"company":"Acme"}`, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *model.ExperiencePatch
			svc := &mockExperienceService{
				updateFn: func(_ context.Context, id string, patch *model.ExperiencePatch) (*model.Experience, error) {
					got = patch
					return &model.Experience{ID: id}, nil
				},
			}
			h := NewExperienceHandler(svc)

			req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/experience/e1", strings.NewReader(tt.body)), "id", "e1")
			w := httptest.NewRecorder()
			h.Update(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
			}
			if got.EndDate.Set != tt.wantSet {
				t.Errorf("EndDate.Set = %v, want %v", got.EndDate.Set, tt.wantSet)
			}
			if (got.EndDate.Value == nil) != tt.wantNil {
				t.Errorf("EndDate.Value = %v, wantNil %v", got.EndDate.Value, tt.wantNil)
			}
		})
	}
}

// --- スキル ---

func TestSkillHandler_ReorderSkills_UsesCategoryID(t *testing.T) {
	var gotCategory string
	var gotIDs []string
	svc := &mockSkillService{
		reorderSkillsFn: func(_ context.Context, categoryID string, ids []string) ([]*model.Skill, error) {
			gotCategory, gotIDs = categoryID, ids
			return []*model.Skill{{ID: "s2"}, {ID: "s1"}}, nil
		},
	}
	h := NewSkillHandler(svc)

	body := `{"items":[{"id":"s2"},{"id":"s1"}]}`
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/skills/categories/c1/reorder", strings.NewReader(body)), "id", "c1")
	w := httptest.NewRecorder()
	h.ReorderSkills(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotCategory != "c1" {
		t.Errorf("categoryID = %q, want c1", gotCategory)
	}
	if want := []string{"s2", "s1"}; !reflect.DeepEqual(gotIDs, want) {
		t.Errorf("ids = %v, want %v", gotIDs, want)
	}
}

func TestSkillHandler_DeleteCategory(t *testing.T) {
	svc := &mockSkillService{
		deleteCategoryFn: func(_ context.Context, id string) error {
			if id != "c1" {
				return model.NewNotFoundError("Skill category", id)
			}
			return nil
		},
	}
	h := NewSkillHandler(svc)

	tests := []struct {
		id   string
		want int
	}{
		{"c1", http.StatusOK},
		{"missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/skills/categories/"+tt.id, nil), "id", tt.id)
		w := httptest.NewRecorder()
		h.DeleteCategory(w, req)

		if w.Code != tt.want {
			t.Errorf("DeleteCategory(%q) status = %d, want %d", tt.id, w.Code, tt.want)
		}
	}
}

func TestSkillHandler_CreateSkill(t *testing.T) {
	h := NewSkillHandler(&mockSkillService{})

	body := `{"categoryId":"c1","name":"Go"}`
	w := httptest.NewRecorder()
	h.CreateSkill(w, httptest.NewRequest(http.MethodPost, "/api/skills", strings.NewReader(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	var sk model.Skill
	if err := json.NewDecoder(w.Body).Decode(&sk); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if sk.CategoryID != "c1" || sk.Name != "Go" {
		t.Errorf("skill = %+v", sk)
	}
}

// --- 問い合わせ ---

func TestMessageHandler_Submit_Created(t *testing.T) {
	h := NewMessageHandler(&mockMessageService{})

	body := `{"name":"Jane","email":"jane@example.com","message":"Hello there, nice site!"}`
	w := httptest.NewRecorder()
	h.Submit(w, httptest.NewRequest(http.MethodPost, "/api/settings/messages", strings.NewReader(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	var msg model.ContactMessage
	if err := json.NewDecoder(w.Body).Decode(&msg); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if msg.ID == "" || msg.IsRead {
		t.Errorf("message = %+v", msg)
	}
}

func TestMessageHandler_Submit_RateLimited(t *testing.T) {
	svc := &mockMessageService{
		submitFn: func(context.Context, *model.ContactInput) (*model.ContactMessage, error) {
			return nil, model.NewRateLimitedError(30 * time.Minute)
		},
	}
	h := NewMessageHandler(svc)

	body := `{"name":"Jane","email":"jane@example.com","message":"Hello there, nice site!"}`
	w := httptest.NewRecorder()
	h.Submit(w, httptest.NewRequest(http.MethodPost, "/api/settings/messages", strings.NewReader(body)))

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if got := w.Header().Get("Retry-After"); got != "1800" {
		t.Errorf("Retry-After = %q, want 1800", got)
	}
	if body := decodeError(t, w); body.Code != model.ErrCodeRateLimited {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeRateLimited)
	}
}

func TestMessageHandler_Counts(t *testing.T) {
	svc := &mockMessageService{
		unreadCountFn:   func(context.Context) (int, error) { return 4, nil },
		markAllAsReadFn: func(context.Context) (int64, error) { return 4, nil },
	}
	h := NewMessageHandler(svc)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		method  string
	}{
		{"unread count", h.UnreadCount, http.MethodGet},
		{"mark all read", h.MarkAllAsRead, http.MethodPut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler(w, httptest.NewRequest(tt.method, "/api/settings/messages", nil))

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
			}
			var resp countResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if resp.Count != 4 {
				t.Errorf("count = %d, want 4", resp.Count)
			}
		})
	}
}

func TestMessageHandler_MarkAsRead_NotFound(t *testing.T) {
	svc := &mockMessageService{
		markAsReadFn: func(_ context.Context, id string) (*model.ContactMessage, error) {
			return nil, model.NewNotFoundError("Message", id)
		},
	}
	h := NewMessageHandler(svc)

	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/settings/messages/m9/read", nil), "id", "m9")
	w := httptest.NewRecorder()
	h.MarkAsRead(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// --- 自己紹介 ---

func TestAboutHandler_Update(t *testing.T) {
	var got *model.AboutInput
	svc := &mockAboutService{
		updateFn: func(_ context.Context, in *model.AboutInput) (*model.About, error) {
			got = in
			return &model.About{ID: "default", Content: []model.AboutParagraph{{ID: "p1", Text: in.Content[0].Text}}}, nil
		},
	}
	h := NewAboutHandler(svc)

	body := `{"content":[{"text":"I build backend services in Go."}]}`
	w := httptest.NewRecorder()
	h.Update(w, httptest.NewRequest(http.MethodPut, "/api/about", strings.NewReader(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if len(got.Content) != 1 || got.Content[0].ID != nil || got.Content[0].Order != nil {
		t.Errorf("input = %+v", got.Content)
	}
}

func TestAboutHandler_Update_ValidationError(t *testing.T) {
	svc := &mockAboutService{
		updateFn: func(_ context.Context, in *model.AboutInput) (*model.About, error) {
			return nil, in.Validate()
		},
	}
	h := NewAboutHandler(svc)

	w := httptest.NewRecorder()
	h.Update(w, httptest.NewRequest(http.MethodPut, "/api/about", strings.NewReader(`{"content":[{"text":"short"}]}`)))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
