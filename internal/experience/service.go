// Package experience は職歴エントリの管理を提供する。
package experience

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
	"github.com/jcarizon/portfolio-cms-backend/internal/ordering"
	"github.com/jcarizon/portfolio-cms-backend/internal/repository"
)

const entityName = "Experience"

// Service は職歴のサービス層。
type Service struct {
	repo   repository.ExperienceRepository
	orders *ordering.Manager
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.ExperienceRepository, manager *ordering.Manager) *Service {
	return &Service{repo: repo, orders: manager}
}

// List は職歴一覧をorder昇順で返す。
func (s *Service) List(ctx context.Context, includeHidden bool) ([]*model.Experience, error) {
	experiences, err := s.repo.List(ctx, includeHidden)
	if err != nil {
		return nil, fmt.Errorf("職歴一覧の取得に失敗しました: %w", err)
	}
	return experiences, nil
}

// Get は指定IDの職歴を返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Experience, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("職歴の取得に失敗しました: %w", err)
	}
	if e == nil {
		return nil, model.NewNotFoundError(entityName, id)
	}
	return e, nil
}

// Create は職歴を作成する。
func (s *Service) Create(ctx context.Context, in *model.ExperienceInput) (*model.Experience, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	order, err := s.orders.ResolveOrder(ctx, ordering.ExperiencesScope(), in.Order)
	if err != nil {
		return nil, err
	}

	e := &model.Experience{
		ID:          uuid.NewString(),
		JobTitle:    in.JobTitle,
		Company:     in.Company,
		Location:    in.Location,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Description: in.Description,
		IsVisible:   in.IsVisible == nil || *in.IsVisible,
		Order:       order,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("職歴の作成に失敗しました: %w", err)
	}

	slog.Info("experience created", slog.String("experience_id", e.ID), slog.Int("order", e.Order))
	return e, nil
}

// Update は指定されたフィールドのみ更新する。
// 更新後の終了日が開始日より前になる場合は拒否する。
func (s *Service) Update(ctx context.Context, id string, patch *model.ExperiencePatch) (*model.Experience, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkDateRange(current, patch); err != nil {
		return nil, err
	}

	e, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("職歴の更新に失敗しました: %w", err)
	}
	if e == nil {
		return nil, model.NewNotFoundError(entityName, id)
	}
	return e, nil
}

// Delete は指定IDの職歴を削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("職歴の削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewNotFoundError(entityName, id)
	}

	slog.Info("experience deleted", slog.String("experience_id", id))
	return nil
}

// ToggleVisibility は公開状態を反転する。
func (s *Service) ToggleVisibility(ctx context.Context, id string) (*model.Experience, error) {
	e, err := s.repo.ToggleVisibility(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("職歴の公開状態の切り替えに失敗しました: %w", err)
	}
	if e == nil {
		return nil, model.NewNotFoundError(entityName, id)
	}
	return e, nil
}

// Reorder はidsの順に並び替え、更新後の全件一覧を返す。
func (s *Service) Reorder(ctx context.Context, ids []string) ([]*model.Experience, error) {
	if err := s.orders.Reorder(ctx, ordering.ExperiencesScope(), ids); err != nil {
		return nil, err
	}
	return s.List(ctx, true)
}

func checkDateRange(current *model.Experience, patch *model.ExperiencePatch) error {
	start := current.StartDate
	if patch.StartDate != nil {
		start = *patch.StartDate
	}
	end := current.EndDate
	if patch.EndDate.Set {
		end = patch.EndDate.Value
	}
	if end != nil && end.Before(start) {
		return model.NewValidationError("endDate must not be before startDate")
	}
	return nil
}
