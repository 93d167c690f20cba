// Package project はポートフォリオのプロジェクト管理を提供する。
package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
	"github.com/jcarizon/portfolio-cms-backend/internal/ordering"
	"github.com/jcarizon/portfolio-cms-backend/internal/repository"
)

const entityName = "Project"

// Service はプロジェクトのサービス層。
type Service struct {
	repo   repository.ProjectRepository
	orders *ordering.Manager
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.ProjectRepository, manager *ordering.Manager) *Service {
	return &Service{repo: repo, orders: manager}
}

// List はプロジェクト一覧を返す。includeHiddenがfalseなら公開中のみ。
func (s *Service) List(ctx context.Context, includeHidden bool) ([]*model.Project, error) {
	projects, err := s.repo.List(ctx, includeHidden)
	if err != nil {
		return nil, fmt.Errorf("プロジェクト一覧の取得に失敗しました: %w", err)
	}
	return projects, nil
}

// Get は指定IDのプロジェクトを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Project, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("プロジェクトの取得に失敗しました: %w", err)
	}
	if p == nil {
		return nil, model.NewNotFoundError(entityName, id)
	}
	return p, nil
}

// Create はプロジェクトを作成する。orderが未指定なら末尾に追加する。
func (s *Service) Create(ctx context.Context, in *model.ProjectInput) (*model.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	order, err := s.orders.ResolveOrder(ctx, ordering.ProjectsScope(), in.Order)
	if err != nil {
		return nil, err
	}

	p := &model.Project{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Details:     in.Details,
		ImageURL:    in.ImageURL,
		LiveURL:     in.LiveURL,
		GithubURL:   in.GithubURL,
		TechStack:   in.TechStack,
		Featured:    boolOr(in.Featured, false),
		IsVisible:   boolOr(in.IsVisible, true),
		Order:       order,
	}
	if p.TechStack == nil {
		p.TechStack = []string{}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("プロジェクトの作成に失敗しました: %w", err)
	}

	slog.Info("project created", slog.String("project_id", p.ID), slog.Int("order", p.Order))
	return p, nil
}

// Update は指定されたフィールドのみ更新する。
func (s *Service) Update(ctx context.Context, id string, patch *model.ProjectPatch) (*model.Project, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("プロジェクトの更新に失敗しました: %w", err)
	}
	if p == nil {
		return nil, model.NewNotFoundError(entityName, id)
	}
	return p, nil
}

// Delete は指定IDのプロジェクトを削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("プロジェクトの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewNotFoundError(entityName, id)
	}

	slog.Info("project deleted", slog.String("project_id", id))
	return nil
}

// ToggleVisibility は公開状態を反転する。
func (s *Service) ToggleVisibility(ctx context.Context, id string) (*model.Project, error) {
	p, err := s.repo.ToggleVisibility(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("プロジェクトの公開状態の切り替えに失敗しました: %w", err)
	}
	if p == nil {
		return nil, model.NewNotFoundError(entityName, id)
	}
	return p, nil
}

// ToggleFeatured は注目フラグを反転する。
func (s *Service) ToggleFeatured(ctx context.Context, id string) (*model.Project, error) {
	p, err := s.repo.ToggleFeatured(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("プロジェクトの注目フラグの切り替えに失敗しました: %w", err)
	}
	if p == nil {
		return nil, model.NewNotFoundError(entityName, id)
	}
	return p, nil
}

// Reorder はidsの順に並び替え、更新後の全件一覧を返す。
func (s *Service) Reorder(ctx context.Context, ids []string) ([]*model.Project, error) {
	if err := s.orders.Reorder(ctx, ordering.ProjectsScope(), ids); err != nil {
		return nil, err
	}
	return s.List(ctx, true)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
