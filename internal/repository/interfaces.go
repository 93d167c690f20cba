// Package repository はデータ永続化のインターフェースとPostgreSQL実装を提供する。
package repository

import (
	"context"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

// AdminRepository は管理者アカウントの永続化インターフェース。
type AdminRepository interface {
	// FindByID は指定IDの管理者を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Admin, error)

	// FindByEmail は正規化済みメールアドレスで管理者を検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)

	// FindByProviderIDOrEmail は外部IdPのsubjectまたはメールアドレスで管理者を検索する。
	// 両方に一致する行がある場合はsubjectが一致する行を優先する。見つからない場合はnilを返す。
	FindByProviderIDOrEmail(ctx context.Context, providerID, email string) (*model.Admin, error)

	// Count は管理者の総数を返す。
	Count(ctx context.Context) (int, error)

	// Create は管理者を作成する。メールアドレスが重複する場合はErrDuplicateを返す。
	Create(ctx context.Context, admin *model.Admin) error

	// CreateIfNoneExist は管理者が1人も存在しない場合に限り作成する。
	// 作成した場合はtrueを返す。同時実行されても作成されるのは1件のみ。
	CreateIfNoneExist(ctx context.Context, admin *model.Admin) (bool, error)

	// LinkProvider は外部IdPの情報を既存の管理者に紐付ける。
	// avatarURLがnilの場合は既存のアバターを維持する。見つからない場合はnilを返す。
	LinkProvider(ctx context.Context, id string, provider model.Provider, providerID string, avatarURL *string) (*model.Admin, error)
}

// ProjectRepository はプロジェクトの永続化インターフェース。
type ProjectRepository interface {
	// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Project, error)

	// List はプロジェクトを featured 降順、order 昇順で返す。
	// includeHiddenがfalseの場合は公開中のもののみ返す。
	List(ctx context.Context, includeHidden bool) ([]*model.Project, error)

	// Create はプロジェクトを作成する。
	Create(ctx context.Context, project *model.Project) error

	// Update は指定されたフィールドのみ更新する。見つからない場合はnilを返す。
	Update(ctx context.Context, id string, patch *model.ProjectPatch) (*model.Project, error)

	// Delete は指定IDのプロジェクトを削除する。削除した場合はtrueを返す。
	Delete(ctx context.Context, id string) (bool, error)

	// ToggleVisibility は公開フラグを反転する。見つからない場合はnilを返す。
	ToggleVisibility(ctx context.Context, id string) (*model.Project, error)

	// ToggleFeatured は注目フラグを反転する。見つからない場合はnilを返す。
	ToggleFeatured(ctx context.Context, id string) (*model.Project, error)
}

// ExperienceRepository は職歴の永続化インターフェース。
type ExperienceRepository interface {
	FindByID(ctx context.Context, id string) (*model.Experience, error)
	List(ctx context.Context, includeHidden bool) ([]*model.Experience, error)
	Create(ctx context.Context, experience *model.Experience) error
	Update(ctx context.Context, id string, patch *model.ExperiencePatch) (*model.Experience, error)
	Delete(ctx context.Context, id string) (bool, error)
	ToggleVisibility(ctx context.Context, id string) (*model.Experience, error)
}

// SkillCategoryRepository はスキルカテゴリの永続化インターフェース。
// 取得系はカテゴリに属するスキルをorder昇順で埋め込んで返す。
type SkillCategoryRepository interface {
	FindByID(ctx context.Context, id string) (*model.SkillCategory, error)
	List(ctx context.Context, includeHidden bool) ([]*model.SkillCategory, error)
	Create(ctx context.Context, category *model.SkillCategory) error
	Update(ctx context.Context, id string, patch *model.SkillCategoryPatch) (*model.SkillCategory, error)

	// Delete はカテゴリを削除する。属するスキルはCASCADE削除される。
	Delete(ctx context.Context, id string) (bool, error)
	ToggleVisibility(ctx context.Context, id string) (*model.SkillCategory, error)
}

// SkillRepository はスキルの永続化インターフェース。
type SkillRepository interface {
	FindByID(ctx context.Context, id string) (*model.Skill, error)
	ListByCategory(ctx context.Context, categoryID string, includeHidden bool) ([]*model.Skill, error)
	Create(ctx context.Context, skill *model.Skill) error
	Update(ctx context.Context, id string, patch *model.SkillPatch) (*model.Skill, error)
	Delete(ctx context.Context, id string) (bool, error)
	ToggleVisibility(ctx context.Context, id string) (*model.Skill, error)
}

// ContactMessageRepository は問い合わせの永続化インターフェース。
type ContactMessageRepository interface {
	// Create は問い合わせを作成する。
	Create(ctx context.Context, msg *model.ContactMessage) error

	// List は問い合わせを新しい順に返す。
	List(ctx context.Context) ([]*model.ContactMessage, error)

	// CountUnread は未読の問い合わせ数を返す。
	CountUnread(ctx context.Context) (int, error)

	// MarkAsRead は既読にする。見つからない場合はnilを返す。
	MarkAsRead(ctx context.Context, id string) (*model.ContactMessage, error)

	// MarkAllAsRead は未読をすべて既読にし、更新件数を返す。
	MarkAllAsRead(ctx context.Context) (int64, error)

	// Delete は指定IDの問い合わせを削除する。削除した場合はtrueを返す。
	Delete(ctx context.Context, id string) (bool, error)
}

// AboutRepository は自己紹介セクションの永続化インターフェース。
type AboutRepository interface {
	// Find は指定IDの自己紹介を取得する。見つからない場合はnilを返す。
	Find(ctx context.Context, id string) (*model.About, error)

	// CreateIfMissing は行が存在しない場合のみ作成する。既存行は変更しない。
	CreateIfMissing(ctx context.Context, about *model.About) error

	// UpdateContent は段落一覧を置き換える。見つからない場合はnilを返す。
	UpdateContent(ctx context.Context, id string, content []model.AboutParagraph) (*model.About, error)
}
