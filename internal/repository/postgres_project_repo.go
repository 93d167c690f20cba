package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

const projectColumns = `id, title, description, details, image_url, live_url, github_url,
	tech_stack, featured, is_visible, sort_order, created_at, updated_at`

// PostgresProjectRepo はPostgreSQLを使用したプロジェクトリポジトリ。
type PostgresProjectRepo struct {
	db *sql.DB
}

// NewPostgresProjectRepo はPostgresProjectRepoを生成する。
func NewPostgresProjectRepo(db *sql.DB) *PostgresProjectRepo {
	return &PostgresProjectRepo{db: db}
}

func scanProject(row rowScanner) (*model.Project, error) {
	p := &model.Project{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Details, &p.ImageURL, &p.LiveURL, &p.GithubURL,
		pq.Array(&p.TechStack), &p.Featured, &p.IsVisible, &p.Order, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	return p, nil
}

// FindByID は指定IDのプロジェクトを取得する。見つからない場合はnilを返す。
func (r *PostgresProjectRepo) FindByID(ctx context.Context, id string) (*model.Project, error) {
	if !validID(id) {
		return nil, nil
	}

	p, err := scanProject(r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return p, nil
}

// List はプロジェクトを featured 降順、order 昇順で返す。
func (r *PostgresProjectRepo) List(ctx context.Context, includeHidden bool) ([]*model.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects
		 WHERE $1 OR is_visible
		 ORDER BY featured DESC, sort_order ASC, created_at ASC`,
		includeHidden,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []*model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}

// Create はプロジェクトを作成する。
func (r *PostgresProjectRepo) Create(ctx context.Context, p *model.Project) error {
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO projects (id, title, description, details, image_url, live_url, github_url,
			tech_stack, featured, is_visible, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at, updated_at`,
		p.ID, p.Title, p.Description, p.Details, p.ImageURL, p.LiveURL, p.GithubURL,
		pq.Array(p.TechStack), p.Featured, p.IsVisible, p.Order,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

// Update は指定されたフィールドのみ更新する。見つからない場合はnilを返す。
func (r *PostgresProjectRepo) Update(ctx context.Context, id string, patch *model.ProjectPatch) (*model.Project, error) {
	if !validID(id) {
		return nil, nil
	}

	b := &updateBuilder{}
	if patch.Title != nil {
		b.set("title", *patch.Title)
	}
	if patch.Description != nil {
		b.set("description", *patch.Description)
	}
	if patch.Details.Set {
		b.set("details", patch.Details.Value)
	}
	if patch.ImageURL.Set {
		b.set("image_url", patch.ImageURL.Value)
	}
	if patch.LiveURL.Set {
		b.set("live_url", patch.LiveURL.Value)
	}
	if patch.GithubURL.Set {
		b.set("github_url", patch.GithubURL.Value)
	}
	if patch.TechStack != nil {
		b.set("tech_stack", pq.Array(*patch.TechStack))
	}
	if patch.Featured != nil {
		b.set("featured", *patch.Featured)
	}
	if patch.IsVisible != nil {
		b.set("is_visible", *patch.IsVisible)
	}
	if patch.Order != nil {
		b.set("sort_order", *patch.Order)
	}

	query, args := b.build("projects", id, projectColumns)
	p, err := scanProject(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return p, nil
}

// Delete は指定IDのプロジェクトを削除する。削除した場合はtrueを返す。
func (r *PostgresProjectRepo) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := rowsAffected(result)
	return n > 0, err
}

// ToggleVisibility は公開フラグを反転する。見つからない場合はnilを返す。
func (r *PostgresProjectRepo) ToggleVisibility(ctx context.Context, id string) (*model.Project, error) {
	return r.toggle(ctx, id, "is_visible")
}

// ToggleFeatured は注目フラグを反転する。見つからない場合はnilを返す。
func (r *PostgresProjectRepo) ToggleFeatured(ctx context.Context, id string) (*model.Project, error) {
	return r.toggle(ctx, id, "featured")
}

func (r *PostgresProjectRepo) toggle(ctx context.Context, id, column string) (*model.Project, error) {
	if !validID(id) {
		return nil, nil
	}

	p, err := scanProject(r.db.QueryRowContext(ctx,
		`UPDATE projects SET `+column+` = NOT `+column+`, updated_at = NOW()
		 WHERE id = $1 RETURNING `+projectColumns,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle project %s: %w", column, err)
	}
	return p, nil
}

// compile-time interface check
var _ ProjectRepository = (*PostgresProjectRepo)(nil)
