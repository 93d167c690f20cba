package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/jcarizon/portfolio-cms-backend/internal/ordering"
)

// orderedTables は並び替え対象として許可するテーブルと親列の組。
var orderedTables = map[string]string{
	"projects":         "",
	"experiences":      "",
	"skill_categories": "",
	"skills":           "category_id",
}

// PostgresOrderStore はsort_order列を持つテーブルに対するordering.Storeの実装。
type PostgresOrderStore struct {
	db *sql.DB
}

// NewPostgresOrderStore はPostgresOrderStoreを生成する。
func NewPostgresOrderStore(db *sql.DB) *PostgresOrderStore {
	return &PostgresOrderStore{db: db}
}

// scopeFilter はスコープを検証し、WHERE句と引数を返す。
func scopeFilter(scope ordering.Scope) (string, []any, error) {
	parent, ok := orderedTables[scope.Table]
	if !ok || parent != scope.ParentColumn {
		return "", nil, fmt.Errorf("unsupported ordering scope: %s", scope.Key())
	}
	if parent == "" {
		return "", nil, nil
	}
	if !validID(scope.ParentID) {
		return " WHERE FALSE", nil, nil
	}
	return fmt.Sprintf(" WHERE %s = $1", pq.QuoteIdentifier(parent)), []any{scope.ParentID}, nil
}

// MaxOrder はスコープ内の最大order値を返す。スコープが空の場合はfalseを返す。
func (s *PostgresOrderStore) MaxOrder(ctx context.Context, scope ordering.Scope) (int, bool, error) {
	where, args, err := scopeFilter(scope)
	if err != nil {
		return 0, false, err
	}

	var highest sql.NullInt64
	query := fmt.Sprintf(`SELECT MAX(sort_order) FROM %s%s`, pq.QuoteIdentifier(scope.Table), where)
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&highest); err != nil {
		return 0, false, fmt.Errorf("failed to query max order: %w", err)
	}
	if !highest.Valid {
		return 0, false, nil
	}
	return int(highest.Int64), true, nil
}

// ApplyOrder はスコープの行をFOR UPDATEでロックし、planが返した並びを1トランザクションで書き込む。
// planがエラーを返した場合はロールバックし、何も変更しない。
func (s *PostgresOrderStore) ApplyOrder(ctx context.Context, scope ordering.Scope, plan ordering.PlanFunc) error {
	where, args, err := scopeFilter(scope)
	if err != nil {
		return err
	}
	table := pq.QuoteIdentifier(scope.Table)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		fmt.Sprintf(`SELECT id FROM %s%s ORDER BY sort_order ASC, created_at ASC, id ASC FOR UPDATE`, table, where),
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to lock scope rows: %w", err)
	}
	var current []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan scope row: %w", err)
		}
		current = append(current, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate scope rows: %w", err)
	}

	next, err := plan(current)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s AS t
		 SET sort_order = v.ord - 1, updated_at = NOW()
		 FROM unnest($1::uuid[]) WITH ORDINALITY AS v(id, ord)
		 WHERE t.id = v.id AND t.sort_order <> v.ord - 1`, table),
		pq.Array(next),
	)
	if err != nil {
		return fmt.Errorf("failed to apply order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ordering.Store = (*PostgresOrderStore)(nil)
