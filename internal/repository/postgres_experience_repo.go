package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

const experienceColumns = `id, job_title, company, location, start_date, end_date,
	description, is_visible, sort_order, created_at, updated_at`

// PostgresExperienceRepo はPostgreSQLを使用した職歴リポジトリ。
type PostgresExperienceRepo struct {
	db *sql.DB
}

// NewPostgresExperienceRepo はPostgresExperienceRepoを生成する。
func NewPostgresExperienceRepo(db *sql.DB) *PostgresExperienceRepo {
	return &PostgresExperienceRepo{db: db}
}

func scanExperience(row rowScanner) (*model.Experience, error) {
	e := &model.Experience{}
	err := row.Scan(
		&e.ID, &e.JobTitle, &e.Company, &e.Location, &e.StartDate, &e.EndDate,
		&e.Description, &e.IsVisible, &e.Order, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// FindByID は指定IDの職歴を取得する。見つからない場合はnilを返す。
func (r *PostgresExperienceRepo) FindByID(ctx context.Context, id string) (*model.Experience, error) {
	if !validID(id) {
		return nil, nil
	}

	e, err := scanExperience(r.db.QueryRowContext(ctx,
		`SELECT `+experienceColumns+` FROM experiences WHERE id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("職歴の取得に失敗しました: %w", err)
	}
	return e, nil
}

// List は職歴をorder昇順で返す。
func (r *PostgresExperienceRepo) List(ctx context.Context, includeHidden bool) ([]*model.Experience, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+experienceColumns+` FROM experiences
		 WHERE $1 OR is_visible
		 ORDER BY sort_order ASC, created_at ASC`,
		includeHidden,
	)
	if err != nil {
		return nil, fmt.Errorf("職歴一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	experiences := []*model.Experience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("職歴行の読み取りに失敗しました: %w", err)
		}
		experiences = append(experiences, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("職歴一覧の走査に失敗しました: %w", err)
	}
	return experiences, nil
}

// Create は職歴を作成する。
func (r *PostgresExperienceRepo) Create(ctx context.Context, e *model.Experience) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO experiences (id, job_title, company, location, start_date, end_date,
			description, is_visible, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`,
		e.ID, e.JobTitle, e.Company, e.Location, e.StartDate, e.EndDate,
		e.Description, e.IsVisible, e.Order,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("職歴の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は指定されたフィールドのみ更新する。見つからない場合はnilを返す。
func (r *PostgresExperienceRepo) Update(ctx context.Context, id string, patch *model.ExperiencePatch) (*model.Experience, error) {
	if !validID(id) {
		return nil, nil
	}

	b := &updateBuilder{}
	if patch.JobTitle != nil {
		b.set("job_title", *patch.JobTitle)
	}
	if patch.Company != nil {
		b.set("company", *patch.Company)
	}
	if patch.Location != nil {
		b.set("location", *patch.Location)
	}
	if patch.StartDate != nil {
		b.set("start_date", *patch.StartDate)
	}
	if patch.EndDate.Set {
		b.set("end_date", patch.EndDate.Value)
	}
	if patch.Description != nil {
		b.set("description", *patch.Description)
	}
	if patch.IsVisible != nil {
		b.set("is_visible", *patch.IsVisible)
	}
	if patch.Order != nil {
		b.set("sort_order", *patch.Order)
	}

	query, args := b.build("experiences", id, experienceColumns)
	e, err := scanExperience(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("職歴の更新に失敗しました: %w", err)
	}
	return e, nil
}

// Delete は指定IDの職歴を削除する。削除した場合はtrueを返す。
func (r *PostgresExperienceRepo) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM experiences WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("職歴の削除に失敗しました: %w", err)
	}
	n, err := rowsAffected(result)
	return n > 0, err
}

// ToggleVisibility は公開フラグを反転する。見つからない場合はnilを返す。
func (r *PostgresExperienceRepo) ToggleVisibility(ctx context.Context, id string) (*model.Experience, error) {
	if !validID(id) {
		return nil, nil
	}

	e, err := scanExperience(r.db.QueryRowContext(ctx,
		`UPDATE experiences SET is_visible = NOT is_visible, updated_at = NOW()
		 WHERE id = $1 RETURNING `+experienceColumns,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("職歴の公開状態の切り替えに失敗しました: %w", err)
	}
	return e, nil
}

// compile-time interface check
var _ ExperienceRepository = (*PostgresExperienceRepo)(nil)
