// Package cleanup は既読問い合わせの自動削除ジョブを提供する。
// 保持期間を超過した既読メッセージを日次バッチで削除する。未読は対象外。
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// DefaultRetentionDays は既読問い合わせの既定の保持日数。
const DefaultRetentionDays = 180

// Executor はSQLのExecContextを抽象化するインターフェース。
// *sql.DB や *sql.Tx を受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// ContactRetentionJob は保持期間を超過した既読問い合わせの削除ジョブ。
// 削除対象がない場合も成功として扱う。
type ContactRetentionJob struct {
	db            Executor
	logger        *slog.Logger
	RetentionDays int
}

// NewContactRetentionJob は新しいContactRetentionJobを生成する。
// retentionDaysが0以下の場合はDefaultRetentionDaysを使う。
func NewContactRetentionJob(db Executor, logger *slog.Logger, retentionDays int) *ContactRetentionJob {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &ContactRetentionJob{
		db:            db,
		logger:        logger,
		RetentionDays: retentionDays,
	}
}

// Run は保持期間を超過した既読問い合わせを削除する。
func (j *ContactRetentionJob) Run(ctx context.Context) error {
	start := time.Now()

	interval := fmt.Sprintf("%d days", j.RetentionDays)

	query := `DELETE FROM contact_messages WHERE is_read = TRUE AND created_at < now() - $1::interval`
	result, err := j.db.ExecContext(ctx, query, interval)
	if err != nil {
		j.logger.Error("問い合わせの保持期間切れ削除に失敗しました",
			slog.String("error", err.Error()),
			slog.Int("retention_days", j.RetentionDays),
		)
		return fmt.Errorf("問い合わせの保持期間切れ削除に失敗: %w", err)
	}

	deletedCount, err := result.RowsAffected()
	if err != nil {
		j.logger.Error("削除件数の取得に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("削除件数の取得に失敗: %w", err)
	}

	j.logger.Info("問い合わせの保持期間切れ削除が完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Int("retention_days", j.RetentionDays),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}

// Start は起動直後に1回、その後interval毎にRunを実行する。ctxがキャンセルされるまでブロックする。
// 個々の実行エラーはログに残してジョブを継続する。
func (j *ContactRetentionJob) Start(ctx context.Context, interval time.Duration) {
	_ = j.Run(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = j.Run(ctx)
		}
	}
}
