package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

// PostgresAboutRepo はPostgreSQLを使用した自己紹介リポジトリ。
// 段落一覧はJSONB列に保存する。
type PostgresAboutRepo struct {
	db *sql.DB
}

// NewPostgresAboutRepo はPostgresAboutRepoを生成する。
func NewPostgresAboutRepo(db *sql.DB) *PostgresAboutRepo {
	return &PostgresAboutRepo{db: db}
}

func scanAbout(row rowScanner) (*model.About, error) {
	a := &model.About{}
	var raw []byte
	if err := row.Scan(&a.ID, &raw, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &a.Content); err != nil {
		return nil, fmt.Errorf("failed to decode about content: %w", err)
	}
	if a.Content == nil {
		a.Content = []model.AboutParagraph{}
	}
	return a, nil
}

// Find は指定IDの自己紹介を取得する。見つからない場合はnilを返す。
func (r *PostgresAboutRepo) Find(ctx context.Context, id string) (*model.About, error) {
	a, err := scanAbout(r.db.QueryRowContext(ctx,
		`SELECT id, content, updated_at FROM about WHERE id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find about: %w", err)
	}
	return a, nil
}

// CreateIfMissing は行が存在しない場合のみ作成する。既存行は変更しない。
func (r *PostgresAboutRepo) CreateIfMissing(ctx context.Context, a *model.About) error {
	raw, err := json.Marshal(a.Content)
	if err != nil {
		return fmt.Errorf("failed to encode about content: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO about (id, content) VALUES ($1, $2::jsonb) ON CONFLICT (id) DO NOTHING`,
		a.ID, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to insert about: %w", err)
	}
	return nil
}

// UpdateContent は段落一覧を置き換える。見つからない場合はnilを返す。
func (r *PostgresAboutRepo) UpdateContent(ctx context.Context, id string, content []model.AboutParagraph) (*model.About, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to encode about content: %w", err)
	}

	a, err := scanAbout(r.db.QueryRowContext(ctx,
		`UPDATE about SET content = $2::jsonb, updated_at = NOW()
		 WHERE id = $1 RETURNING id, content, updated_at`,
		id, raw,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update about: %w", err)
	}
	return a, nil
}

// compile-time interface check
var _ AboutRepository = (*PostgresAboutRepo)(nil)
