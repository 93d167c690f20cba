// Package content は自己紹介セクションの取得と更新を提供する。
package content

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
	"github.com/jcarizon/portfolio-cms-backend/internal/repository"
)

// AboutID は自己紹介セクションの固定ID。行は常に1つだけ存在する。
const AboutID = "default"

// defaultParagraphs は初回取得時に作成する段落。
var defaultParagraphs = []string{
	"Software engineer building web applications and the services behind them.",
	"Edit this section from the admin dashboard to introduce yourself.",
}

// Service は自己紹介セクションのサービス層。
type Service struct {
	repo  repository.AboutRepository
	newID func() string
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.AboutRepository) *Service {
	return &Service{repo: repo, newID: uuid.NewString}
}

// GetAbout は自己紹介セクションを返す。存在しない場合は既定内容で作成する。
func (s *Service) GetAbout(ctx context.Context) (*model.About, error) {
	about, err := s.repo.Find(ctx, AboutID)
	if err != nil {
		return nil, fmt.Errorf("自己紹介の取得に失敗しました: %w", err)
	}
	if about != nil {
		return about, nil
	}

	if err := s.repo.CreateIfMissing(ctx, s.defaultAbout()); err != nil {
		return nil, fmt.Errorf("自己紹介の初期化に失敗しました: %w", err)
	}
	slog.Info("about section initialized")

	// 並行して作成された場合も含め、保存済みの行を返す
	about, err = s.repo.Find(ctx, AboutID)
	if err != nil {
		return nil, fmt.Errorf("自己紹介の取得に失敗しました: %w", err)
	}
	if about == nil {
		return nil, model.NewNotFoundError("About", AboutID)
	}
	return about, nil
}

// UpdateAbout は段落一覧を置き換える。
// IDのない段落には新しいIDを振り、orderが未指定なら配列上の位置を使う。
// 保存前にorder昇順に並べ替える。
func (s *Service) UpdateAbout(ctx context.Context, in *model.AboutInput) (*model.About, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetAbout(ctx); err != nil {
		return nil, err
	}

	paragraphs := s.normalize(in.Content)
	about, err := s.repo.UpdateContent(ctx, AboutID, paragraphs)
	if err != nil {
		return nil, fmt.Errorf("自己紹介の更新に失敗しました: %w", err)
	}
	if about == nil {
		return nil, model.NewNotFoundError("About", AboutID)
	}
	return about, nil
}

func (s *Service) normalize(inputs []model.AboutParagraphInput) []model.AboutParagraph {
	paragraphs := make([]model.AboutParagraph, len(inputs))
	for i, p := range inputs {
		id := ""
		if p.ID != nil {
			id = *p.ID
		}
		if id == "" {
			id = s.newID()
		}
		order := i
		if p.Order != nil {
			order = *p.Order
		}
		paragraphs[i] = model.AboutParagraph{ID: id, Text: p.Text, Order: order}
	}
	sort.SliceStable(paragraphs, func(i, j int) bool {
		return paragraphs[i].Order < paragraphs[j].Order
	})
	return paragraphs
}

func (s *Service) defaultAbout() *model.About {
	content := make([]model.AboutParagraph, len(defaultParagraphs))
	for i, text := range defaultParagraphs {
		content[i] = model.AboutParagraph{ID: s.newID(), Text: text, Order: i}
	}
	return &model.About{ID: AboutID, Content: content}
}
