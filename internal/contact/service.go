// Package contact は公開フォームからの問い合わせ受付と管理画面向けの操作を提供する。
package contact

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jcarizon/portfolio-cms-backend/internal/metrics"
	"github.com/jcarizon/portfolio-cms-backend/internal/model"
	"github.com/jcarizon/portfolio-cms-backend/internal/ratelimit"
	"github.com/jcarizon/portfolio-cms-backend/internal/repository"
	"github.com/jcarizon/portfolio-cms-backend/internal/security"
)

const entityName = "Message"

// Service は問い合わせのサービス層。
type Service struct {
	repo      repository.ContactMessageRepository
	limiter   ratelimit.Limiter
	sanitizer security.TextSanitizer
	metrics   metrics.MetricsCollector
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。metricsはnilでもよい。
func NewService(
	repo repository.ContactMessageRepository,
	limiter ratelimit.Limiter,
	sanitizer security.TextSanitizer,
	m metrics.MetricsCollector,
) *Service {
	return &Service{
		repo:      repo,
		limiter:   limiter,
		sanitizer: sanitizer,
		metrics:   m,
		now:       time.Now,
	}
}

// Submit は問い合わせを受け付ける。
// 送信者のメールアドレスごとに送信数を制限し、超過時はRATE_LIMITEDを返す。
// 入力検証に失敗した送信は制限のカウントに含めない。
func (s *Service) Submit(ctx context.Context, in *model.ContactInput) (*model.ContactMessage, error) {
	clean := &model.ContactInput{
		Name:    s.sanitizer.Sanitize(in.Name),
		Email:   model.NormalizeEmail(in.Email),
		Message: s.sanitizer.Sanitize(in.Message),
	}
	if in.Subject != nil {
		subject := s.sanitizer.Sanitize(*in.Subject)
		if subject != "" {
			clean.Subject = &subject
		}
	}
	if err := clean.Validate(); err != nil {
		return nil, err
	}

	if err := s.limiter.Check(ctx, clean.Email, s.now()); err != nil {
		if model.HasCode(err, model.ErrCodeRateLimited) {
			s.record(metrics.ContactRateLimited)
			return nil, err
		}
		return nil, fmt.Errorf("送信数制限の確認に失敗しました: %w", err)
	}

	msg := &model.ContactMessage{
		ID:      uuid.NewString(),
		Name:    clean.Name,
		Email:   clean.Email,
		Subject: clean.Subject,
		Message: clean.Message,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("問い合わせの保存に失敗しました: %w", err)
	}

	s.record(metrics.ContactAccepted)
	slog.Info("contact message received", slog.String("message_id", msg.ID))
	return msg, nil
}

// List は問い合わせを新しい順に返す。
func (s *Service) List(ctx context.Context) ([]*model.ContactMessage, error) {
	messages, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("問い合わせ一覧の取得に失敗しました: %w", err)
	}
	return messages, nil
}

// UnreadCount は未読件数を返す。
func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	n, err := s.repo.CountUnread(ctx)
	if err != nil {
		return 0, fmt.Errorf("未読件数の取得に失敗しました: %w", err)
	}
	return n, nil
}

// MarkAsRead は問い合わせを既読にする。
func (s *Service) MarkAsRead(ctx context.Context, id string) (*model.ContactMessage, error) {
	msg, err := s.repo.MarkAsRead(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("既読化に失敗しました: %w", err)
	}
	if msg == nil {
		return nil, model.NewNotFoundError(entityName, id)
	}
	return msg, nil
}

// MarkAllAsRead は未読をすべて既読にし、更新件数を返す。
func (s *Service) MarkAllAsRead(ctx context.Context) (int64, error) {
	n, err := s.repo.MarkAllAsRead(ctx)
	if err != nil {
		return 0, fmt.Errorf("一括既読化に失敗しました: %w", err)
	}
	return n, nil
}

// Delete は問い合わせを削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("問い合わせの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewNotFoundError(entityName, id)
	}
	return nil
}

func (s *Service) record(result string) {
	if s.metrics != nil {
		s.metrics.RecordContactSubmission(result)
	}
}
