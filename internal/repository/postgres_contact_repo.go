package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

const contactColumns = `id, name, email, subject, message, is_read, created_at`

// PostgresContactMessageRepo はPostgreSQLを使用した問い合わせリポジトリ。
type PostgresContactMessageRepo struct {
	db *sql.DB
}

// NewPostgresContactMessageRepo はPostgresContactMessageRepoを生成する。
func NewPostgresContactMessageRepo(db *sql.DB) *PostgresContactMessageRepo {
	return &PostgresContactMessageRepo{db: db}
}

func scanContactMessage(row rowScanner) (*model.ContactMessage, error) {
	m := &model.ContactMessage{}
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.IsRead, &m.CreatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

// Create は問い合わせを作成する。
func (r *PostgresContactMessageRepo) Create(ctx context.Context, m *model.ContactMessage) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO contact_messages (id, name, email, subject, message, is_read)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		m.ID, m.Name, m.Email, m.Subject, m.Message, m.IsRead,
	).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("問い合わせの作成に失敗しました: %w", err)
	}
	return nil
}

// List は問い合わせを新しい順に返す。
func (r *PostgresContactMessageRepo) List(ctx context.Context) ([]*model.ContactMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contact_messages ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("問い合わせ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	messages := []*model.ContactMessage{}
	for rows.Next() {
		m, err := scanContactMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("問い合わせ行の読み取りに失敗しました: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("問い合わせ一覧の走査に失敗しました: %w", err)
	}
	return messages, nil
}

// CountUnread は未読の問い合わせ数を返す。
func (r *PostgresContactMessageRepo) CountUnread(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contact_messages WHERE is_read = FALSE`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("未読数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// MarkAsRead は既読にする。見つからない場合はnilを返す。
func (r *PostgresContactMessageRepo) MarkAsRead(ctx context.Context, id string) (*model.ContactMessage, error) {
	if !validID(id) {
		return nil, nil
	}

	m, err := scanContactMessage(r.db.QueryRowContext(ctx,
		`UPDATE contact_messages SET is_read = TRUE WHERE id = $1 RETURNING `+contactColumns,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("既読化に失敗しました: %w", err)
	}
	return m, nil
}

// MarkAllAsRead は未読をすべて既読にし、更新件数を返す。
func (r *PostgresContactMessageRepo) MarkAllAsRead(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contact_messages SET is_read = TRUE WHERE is_read = FALSE`,
	)
	if err != nil {
		return 0, fmt.Errorf("一括既読化に失敗しました: %w", err)
	}
	return rowsAffected(result)
}

// Delete は指定IDの問い合わせを削除する。削除した場合はtrueを返す。
func (r *PostgresContactMessageRepo) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("問い合わせの削除に失敗しました: %w", err)
	}
	n, err := rowsAffected(result)
	return n > 0, err
}

// compile-time interface check
var _ ContactMessageRepository = (*PostgresContactMessageRepo)(nil)
