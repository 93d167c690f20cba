package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

const (
	skillCategoryColumns = `id, name, is_visible, sort_order, created_at, updated_at`
	skillColumns         = `id, category_id, name, is_visible, sort_order, created_at, updated_at`
)

// PostgresSkillCategoryRepo はPostgreSQLを使用したスキルカテゴリリポジトリ。
type PostgresSkillCategoryRepo struct {
	db *sql.DB
}

// NewPostgresSkillCategoryRepo はPostgresSkillCategoryRepoを生成する。
func NewPostgresSkillCategoryRepo(db *sql.DB) *PostgresSkillCategoryRepo {
	return &PostgresSkillCategoryRepo{db: db}
}

func scanSkillCategory(row rowScanner) (*model.SkillCategory, error) {
	c := &model.SkillCategory{Skills: []*model.Skill{}}
	if err := row.Scan(&c.ID, &c.Name, &c.IsVisible, &c.Order, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func scanSkill(row rowScanner) (*model.Skill, error) {
	s := &model.Skill{}
	if err := row.Scan(&s.ID, &s.CategoryID, &s.Name, &s.IsVisible, &s.Order, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

// FindByID は指定IDのカテゴリを全スキル付きで取得する。見つからない場合はnilを返す。
func (r *PostgresSkillCategoryRepo) FindByID(ctx context.Context, id string) (*model.SkillCategory, error) {
	if !validID(id) {
		return nil, nil
	}

	c, err := scanSkillCategory(r.db.QueryRowContext(ctx,
		`SELECT `+skillCategoryColumns+` FROM skill_categories WHERE id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find skill category: %w", err)
	}

	if err := r.attachSkills(ctx, []*model.SkillCategory{c}, true); err != nil {
		return nil, err
	}
	return c, nil
}

// List はカテゴリをorder昇順で、スキルを埋め込んで返す。
// includeHiddenがfalseの場合はカテゴリ・スキルとも公開中のもののみ返す。
func (r *PostgresSkillCategoryRepo) List(ctx context.Context, includeHidden bool) ([]*model.SkillCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+skillCategoryColumns+` FROM skill_categories
		 WHERE $1 OR is_visible
		 ORDER BY sort_order ASC, created_at ASC`,
		includeHidden,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list skill categories: %w", err)
	}
	defer rows.Close()

	categories := []*model.SkillCategory{}
	for rows.Next() {
		c, err := scanSkillCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan skill category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate skill categories: %w", err)
	}

	if err := r.attachSkills(ctx, categories, includeHidden); err != nil {
		return nil, err
	}
	return categories, nil
}

// attachSkills はカテゴリ群に属するスキルを1クエリで取得して埋め込む。
func (r *PostgresSkillCategoryRepo) attachSkills(ctx context.Context, categories []*model.SkillCategory, includeHidden bool) error {
	if len(categories) == 0 {
		return nil
	}

	ids := make([]string, len(categories))
	byID := make(map[string]*model.SkillCategory, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
		byID[c.ID] = c
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+skillColumns+` FROM skills
		 WHERE category_id = ANY($1::uuid[]) AND ($2 OR is_visible)
		 ORDER BY sort_order ASC, created_at ASC`,
		pq.Array(ids), includeHidden,
	)
	if err != nil {
		return fmt.Errorf("failed to list skills for categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return fmt.Errorf("failed to scan skill row: %w", err)
		}
		if c, ok := byID[s.CategoryID]; ok {
			c.Skills = append(c.Skills, s)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate skills: %w", err)
	}
	return nil
}

// Create はカテゴリを作成する。
func (r *PostgresSkillCategoryRepo) Create(ctx context.Context, c *model.SkillCategory) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO skill_categories (id, name, is_visible, sort_order)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		c.ID, c.Name, c.IsVisible, c.Order,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert skill category: %w", err)
	}
	if c.Skills == nil {
		c.Skills = []*model.Skill{}
	}
	return nil
}

// Update は指定されたフィールドのみ更新する。見つからない場合はnilを返す。
func (r *PostgresSkillCategoryRepo) Update(ctx context.Context, id string, patch *model.SkillCategoryPatch) (*model.SkillCategory, error) {
	if !validID(id) {
		return nil, nil
	}

	b := &updateBuilder{}
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.IsVisible != nil {
		b.set("is_visible", *patch.IsVisible)
	}
	if patch.Order != nil {
		b.set("sort_order", *patch.Order)
	}

	query, args := b.build("skill_categories", id, skillCategoryColumns)
	c, err := scanSkillCategory(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update skill category: %w", err)
	}
	if err := r.attachSkills(ctx, []*model.SkillCategory{c}, true); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete はカテゴリを削除する。属するスキルはCASCADE削除される。
func (r *PostgresSkillCategoryRepo) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM skill_categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete skill category: %w", err)
	}
	n, err := rowsAffected(result)
	return n > 0, err
}

// ToggleVisibility は公開フラグを反転する。見つからない場合はnilを返す。
func (r *PostgresSkillCategoryRepo) ToggleVisibility(ctx context.Context, id string) (*model.SkillCategory, error) {
	if !validID(id) {
		return nil, nil
	}

	c, err := scanSkillCategory(r.db.QueryRowContext(ctx,
		`UPDATE skill_categories SET is_visible = NOT is_visible, updated_at = NOW()
		 WHERE id = $1 RETURNING `+skillCategoryColumns,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle skill category visibility: %w", err)
	}
	if err := r.attachSkills(ctx, []*model.SkillCategory{c}, true); err != nil {
		return nil, err
	}
	return c, nil
}

// PostgresSkillRepo はPostgreSQLを使用したスキルリポジトリ。
type PostgresSkillRepo struct {
	db *sql.DB
}

// NewPostgresSkillRepo はPostgresSkillRepoを生成する。
func NewPostgresSkillRepo(db *sql.DB) *PostgresSkillRepo {
	return &PostgresSkillRepo{db: db}
}

// FindByID は指定IDのスキルを取得する。見つからない場合はnilを返す。
func (r *PostgresSkillRepo) FindByID(ctx context.Context, id string) (*model.Skill, error) {
	if !validID(id) {
		return nil, nil
	}

	s, err := scanSkill(r.db.QueryRowContext(ctx,
		`SELECT `+skillColumns+` FROM skills WHERE id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find skill: %w", err)
	}
	return s, nil
}

// ListByCategory はカテゴリ内のスキルをorder昇順で返す。
func (r *PostgresSkillRepo) ListByCategory(ctx context.Context, categoryID string, includeHidden bool) ([]*model.Skill, error) {
	skills := []*model.Skill{}
	if !validID(categoryID) {
		return skills, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+skillColumns+` FROM skills
		 WHERE category_id = $1 AND ($2 OR is_visible)
		 ORDER BY sort_order ASC, created_at ASC`,
		categoryID, includeHidden,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan skill row: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate skills: %w", err)
	}
	return skills, nil
}

// Create はスキルを作成する。
func (r *PostgresSkillRepo) Create(ctx context.Context, s *model.Skill) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO skills (id, category_id, name, is_visible, sort_order)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		s.ID, s.CategoryID, s.Name, s.IsVisible, s.Order,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert skill: %w", err)
	}
	return nil
}

// Update は指定されたフィールドのみ更新する。見つからない場合はnilを返す。
func (r *PostgresSkillRepo) Update(ctx context.Context, id string, patch *model.SkillPatch) (*model.Skill, error) {
	if !validID(id) {
		return nil, nil
	}

	b := &updateBuilder{}
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.IsVisible != nil {
		b.set("is_visible", *patch.IsVisible)
	}
	if patch.Order != nil {
		b.set("sort_order", *patch.Order)
	}

	query, args := b.build("skills", id, skillColumns)
	s, err := scanSkill(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update skill: %w", err)
	}
	return s, nil
}

// Delete は指定IDのスキルを削除する。削除した場合はtrueを返す。
func (r *PostgresSkillRepo) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete skill: %w", err)
	}
	n, err := rowsAffected(result)
	return n > 0, err
}

// ToggleVisibility は公開フラグを反転する。見つからない場合はnilを返す。
func (r *PostgresSkillRepo) ToggleVisibility(ctx context.Context, id string) (*model.Skill, error) {
	if !validID(id) {
		return nil, nil
	}

	s, err := scanSkill(r.db.QueryRowContext(ctx,
		`UPDATE skills SET is_visible = NOT is_visible, updated_at = NOW()
		 WHERE id = $1 RETURNING `+skillColumns,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle skill visibility: %w", err)
	}
	return s, nil
}

// compile-time interface check
var (
	_ SkillCategoryRepository = (*PostgresSkillCategoryRepo)(nil)
	_ SkillRepository         = (*PostgresSkillRepo)(nil)
)
