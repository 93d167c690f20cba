package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

const adminColumns = `id, email, password, name, avatar_url, provider, provider_id, created_at, updated_at`

// bootstrapLockKey は初回管理者作成を直列化するアドバイザリロックのキー。
const bootstrapLockKey = 7310021

// PostgresAdminRepo はPostgreSQLを使用した管理者リポジトリ。
type PostgresAdminRepo struct {
	db *sql.DB
}

// NewPostgresAdminRepo はPostgresAdminRepoを生成する。
func NewPostgresAdminRepo(db *sql.DB) *PostgresAdminRepo {
	return &PostgresAdminRepo{db: db}
}

func scanAdmin(row rowScanner) (*model.Admin, error) {
	a := &model.Admin{}
	var provider string
	err := row.Scan(&a.ID, &a.Email, &a.Password, &a.Name, &a.AvatarURL, &provider, &a.ProviderID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Provider = model.Provider(provider)
	return a, nil
}

// FindByID は指定IDの管理者を取得する。見つからない場合はnilを返す。
func (r *PostgresAdminRepo) FindByID(ctx context.Context, id string) (*model.Admin, error) {
	if !validID(id) {
		return nil, nil
	}

	a, err := scanAdmin(r.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin by ID: %w", err)
	}
	return a, nil
}

// FindByEmail は正規化済みメールアドレスで管理者を検索する。見つからない場合はnilを返す。
func (r *PostgresAdminRepo) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	a, err := scanAdmin(r.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE email = $1`,
		email,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin by email: %w", err)
	}
	return a, nil
}

// FindByProviderIDOrEmail は外部IdPのsubjectまたはメールアドレスで管理者を検索する。
func (r *PostgresAdminRepo) FindByProviderIDOrEmail(ctx context.Context, providerID, email string) (*model.Admin, error) {
	a, err := scanAdmin(r.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins
		 WHERE provider_id = $1 OR email = $2
		 ORDER BY COALESCE(provider_id = $1, FALSE) DESC
		 LIMIT 1`,
		providerID, email,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin by provider ID or email: %w", err)
	}
	return a, nil
}

// Count は管理者の総数を返す。
func (r *PostgresAdminRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}

// Create は管理者を作成する。メールアドレスが重複する場合はErrDuplicateを返す。
func (r *PostgresAdminRepo) Create(ctx context.Context, a *model.Admin) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO admins (id, email, password, name, avatar_url, provider, provider_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		a.ID, a.Email, a.Password, a.Name, a.AvatarURL, string(a.Provider), a.ProviderID,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert admin: %w", err)
	}
	return nil
}

// CreateIfNoneExist は管理者が1人も存在しない場合に限り作成する。
// トランザクション内でアドバイザリロックを取得し、存在確認と挿入を直列化する。
func (r *PostgresAdminRepo) CreateIfNoneExist(ctx context.Context, a *model.Admin) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, bootstrapLockKey); err != nil {
		return false, fmt.Errorf("failed to acquire bootstrap lock: %w", err)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO admins (id, email, password, name, avatar_url, provider, provider_id)
		 SELECT $1, $2, $3, $4, $5, $6, $7
		 WHERE NOT EXISTS (SELECT 1 FROM admins)
		 RETURNING created_at, updated_at`,
		a.ID, a.Email, a.Password, a.Name, a.AvatarURL, string(a.Provider), a.ProviderID,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert bootstrap admin: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

// LinkProvider は外部IdPの情報を既存の管理者に紐付ける。
func (r *PostgresAdminRepo) LinkProvider(ctx context.Context, id string, provider model.Provider, providerID string, avatarURL *string) (*model.Admin, error) {
	if !validID(id) {
		return nil, nil
	}

	a, err := scanAdmin(r.db.QueryRowContext(ctx,
		`UPDATE admins
		 SET provider = $2, provider_id = $3, avatar_url = COALESCE($4, avatar_url), updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+adminColumns,
		id, string(provider), providerID, avatarURL,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("failed to link provider: %w", err)
	}
	return a, nil
}

// compile-time interface check
var _ AdminRepository = (*PostgresAdminRepo)(nil)
