// Package skill はスキルカテゴリとスキルの管理を提供する。
// スキルの並び順はカテゴリごとに独立している。
package skill

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
	"github.com/jcarizon/portfolio-cms-backend/internal/ordering"
	"github.com/jcarizon/portfolio-cms-backend/internal/repository"
)

const (
	categoryEntity = "Skill category"
	skillEntity    = "Skill"
)

// Service はスキルカテゴリとスキルのサービス層。
type Service struct {
	categories repository.SkillCategoryRepository
	skills     repository.SkillRepository
	orders     *ordering.Manager
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	categories repository.SkillCategoryRepository,
	skills repository.SkillRepository,
	manager *ordering.Manager,
) *Service {
	return &Service{categories: categories, skills: skills, orders: manager}
}

// ListCategories はカテゴリ一覧をスキル付きで返す。
func (s *Service) ListCategories(ctx context.Context, includeHidden bool) ([]*model.SkillCategory, error) {
	categories, err := s.categories.List(ctx, includeHidden)
	if err != nil {
		return nil, fmt.Errorf("スキルカテゴリ一覧の取得に失敗しました: %w", err)
	}
	return categories, nil
}

// GetCategory は指定IDのカテゴリをスキル付きで返す。
func (s *Service) GetCategory(ctx context.Context, id string) (*model.SkillCategory, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("スキルカテゴリの取得に失敗しました: %w", err)
	}
	if c == nil {
		return nil, model.NewNotFoundError(categoryEntity, id)
	}
	return c, nil
}

// CreateCategory はカテゴリを作成する。
func (s *Service) CreateCategory(ctx context.Context, in *model.SkillCategoryInput) (*model.SkillCategory, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	order, err := s.orders.ResolveOrder(ctx, ordering.SkillCategoriesScope(), in.Order)
	if err != nil {
		return nil, err
	}

	c := &model.SkillCategory{
		ID:        uuid.NewString(),
		Name:      in.Name,
		IsVisible: in.IsVisible == nil || *in.IsVisible,
		Order:     order,
		Skills:    []*model.Skill{},
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("スキルカテゴリの作成に失敗しました: %w", err)
	}

	slog.Info("skill category created", slog.String("category_id", c.ID))
	return c, nil
}

// UpdateCategory は指定されたフィールドのみ更新する。
func (s *Service) UpdateCategory(ctx context.Context, id string, patch *model.SkillCategoryPatch) (*model.SkillCategory, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetCategory(ctx, id); err != nil {
		return nil, err
	}

	c, err := s.categories.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("スキルカテゴリの更新に失敗しました: %w", err)
	}
	if c == nil {
		return nil, model.NewNotFoundError(categoryEntity, id)
	}
	return c, nil
}

// DeleteCategory はカテゴリと属するスキルを削除する。
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}

	deleted, err := s.categories.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("スキルカテゴリの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewNotFoundError(categoryEntity, id)
	}

	slog.Info("skill category deleted", slog.String("category_id", id))
	return nil
}

// ToggleCategoryVisibility はカテゴリの公開状態を反転する。
func (s *Service) ToggleCategoryVisibility(ctx context.Context, id string) (*model.SkillCategory, error) {
	c, err := s.categories.ToggleVisibility(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("スキルカテゴリの公開状態の切り替えに失敗しました: %w", err)
	}
	if c == nil {
		return nil, model.NewNotFoundError(categoryEntity, id)
	}
	return c, nil
}

// ReorderCategories はカテゴリを並び替え、更新後の全件一覧を返す。
func (s *Service) ReorderCategories(ctx context.Context, ids []string) ([]*model.SkillCategory, error) {
	if err := s.orders.Reorder(ctx, ordering.SkillCategoriesScope(), ids); err != nil {
		return nil, err
	}
	return s.ListCategories(ctx, true)
}

// GetSkill は指定IDのスキルを返す。
func (s *Service) GetSkill(ctx context.Context, id string) (*model.Skill, error) {
	sk, err := s.skills.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("スキルの取得に失敗しました: %w", err)
	}
	if sk == nil {
		return nil, model.NewNotFoundError(skillEntity, id)
	}
	return sk, nil
}

// CreateSkill はカテゴリの存在を確認してからスキルを作成する。
// orderが未指定ならカテゴリ内の末尾に追加する。
func (s *Service) CreateSkill(ctx context.Context, in *model.SkillInput) (*model.Skill, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	order, err := s.orders.ResolveOrder(ctx, ordering.SkillsScope(in.CategoryID), in.Order)
	if err != nil {
		return nil, err
	}

	sk := &model.Skill{
		ID:         uuid.NewString(),
		CategoryID: in.CategoryID,
		Name:       in.Name,
		IsVisible:  in.IsVisible == nil || *in.IsVisible,
		Order:      order,
	}
	if err := s.skills.Create(ctx, sk); err != nil {
		return nil, fmt.Errorf("スキルの作成に失敗しました: %w", err)
	}

	slog.Info("skill created",
		slog.String("skill_id", sk.ID),
		slog.String("category_id", sk.CategoryID),
	)
	return sk, nil
}

// UpdateSkill は指定されたフィールドのみ更新する。
func (s *Service) UpdateSkill(ctx context.Context, id string, patch *model.SkillPatch) (*model.Skill, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetSkill(ctx, id); err != nil {
		return nil, err
	}

	sk, err := s.skills.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("スキルの更新に失敗しました: %w", err)
	}
	if sk == nil {
		return nil, model.NewNotFoundError(skillEntity, id)
	}
	return sk, nil
}

// DeleteSkill は指定IDのスキルを削除する。
func (s *Service) DeleteSkill(ctx context.Context, id string) error {
	if _, err := s.GetSkill(ctx, id); err != nil {
		return err
	}

	deleted, err := s.skills.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("スキルの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewNotFoundError(skillEntity, id)
	}
	return nil
}

// ToggleSkillVisibility はスキルの公開状態を反転する。
func (s *Service) ToggleSkillVisibility(ctx context.Context, id string) (*model.Skill, error) {
	sk, err := s.skills.ToggleVisibility(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("スキルの公開状態の切り替えに失敗しました: %w", err)
	}
	if sk == nil {
		return nil, model.NewNotFoundError(skillEntity, id)
	}
	return sk, nil
}

// ListSkills はカテゴリ内のスキルをorder昇順で返す。
func (s *Service) ListSkills(ctx context.Context, categoryID string, includeHidden bool) ([]*model.Skill, error) {
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	skills, err := s.skills.ListByCategory(ctx, categoryID, includeHidden)
	if err != nil {
		return nil, fmt.Errorf("スキル一覧の取得に失敗しました: %w", err)
	}
	return skills, nil
}

// ReorderSkills はカテゴリ内のスキルを並び替え、更新後のカテゴリ内一覧を返す。
// 他カテゴリのスキルIDを含む場合はNotFoundになる。
func (s *Service) ReorderSkills(ctx context.Context, categoryID string, ids []string) ([]*model.Skill, error) {
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	if err := s.orders.Reorder(ctx, ordering.SkillsScope(categoryID), ids); err != nil {
		return nil, err
	}
	return s.ListSkills(ctx, categoryID, true)
}
