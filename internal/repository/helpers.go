package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrDuplicate は一意制約違反を表す。
var ErrDuplicate = errors.New("duplicate key")

// pqUniqueViolation はPostgreSQLの一意制約違反エラーコード。
const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// validID はIDがUUIDとして解釈できるかを返す。
// UUID列に不正な文字列を渡すとクエリ自体が失敗するため、事前に未検出扱いにする。
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// updateBuilder は部分更新のSET句を組み立てる。
// 列名は呼び出し側の固定文字列のみを渡すこと。
type updateBuilder struct {
	sets []string
	args []any
}

func (b *updateBuilder) set(column string, value any) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// build は UPDATE table SET ... WHERE id = $n RETURNING returning を返す。
// updated_at は常に更新する。
func (b *updateBuilder) build(table, id, returning string) (string, []any) {
	sets := append(append([]string(nil), b.sets...), "updated_at = NOW()")
	args := append(append([]any(nil), b.args...), id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(sets, ", "), len(args), returning)
	return query, args
}

// rowsAffected はExecの結果から更新件数を取り出す。
func rowsAffected(result sql.Result) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
