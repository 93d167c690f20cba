package ordering

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

// PlanFunc はロック済みの現在の並び（order昇順のID列）を受け取り、
// 新しい並び（スコープ内の全IDを含む）を返す。エラーを返すと何も変更されない。
type PlanFunc func(current []string) ([]string, error)

// Store はorder値の読み書きを行う永続化層のインターフェース。
type Store interface {
	// MaxOrder はスコープ内の最大order値を返す。スコープが空の場合はfalseを返す。
	MaxOrder(ctx context.Context, scope Scope) (int, bool, error)

	// ApplyOrder はスコープの行をロックした上でplanを呼び出し、
	// 返された並びの位置をorderとして1トランザクションで書き込む。
	ApplyOrder(ctx context.Context, scope Scope, plan PlanFunc) error
}

// ReorderRecorder は並び替え成功を記録するメトリクスのインターフェース。
type ReorderRecorder interface {
	RecordReorder(table string)
}

// Manager は挿入時の既定order算出と一括並び替えを提供する。
type Manager struct {
	store   Store
	metrics ReorderRecorder
}

// NewManager はManagerを生成する。metricsはnilでもよい。
func NewManager(store Store, metrics ReorderRecorder) *Manager {
	return &Manager{store: store, metrics: metrics}
}

// NextOrder はスコープ内の最大order+1を返す。空のスコープでは0。
func (m *Manager) NextOrder(ctx context.Context, scope Scope) (int, error) {
	highest, ok, err := m.store.MaxOrder(ctx, scope)
	if err != nil {
		return 0, fmt.Errorf("failed to read max order for %s: %w", scope.Key(), err)
	}
	if !ok {
		return 0, nil
	}
	return highest + 1, nil
}

// ResolveOrder は明示指定があればそれを、なければNextOrderを返す。
func (m *Manager) ResolveOrder(ctx context.Context, scope Scope, explicit *int) (int, error) {
	if explicit != nil {
		if *explicit < 0 {
			return 0, model.NewValidationError("order must not be negative")
		}
		return *explicit, nil
	}
	return m.NextOrder(ctx, scope)
}

// Reorder はidsの位置をorderとしてスコープに一括適用する。
// idsに含まれないスコープ内の項目は、既存の相対順を保ったままidsの後ろに詰め直される。
// いずれかのIDがスコープに存在しない場合はNotFoundを返し、何も変更しない。
func (m *Manager) Reorder(ctx context.Context, scope Scope, ids []string) error {
	if err := validateIDs(ids); err != nil {
		return err
	}

	err := m.store.ApplyOrder(ctx, scope, func(current []string) ([]string, error) {
		return Plan(scope, current, ids)
	})
	if err != nil {
		return err
	}

	slog.Info("scope reordered",
		slog.String("scope", scope.Key()),
		slog.Int("explicit", len(ids)),
	)
	if m.metrics != nil {
		m.metrics.RecordReorder(scope.Table)
	}
	return nil
}

// Plan は現在の並びと指定IDから新しい並びを算出する。
// 指定IDを先頭に、残りを元の相対順で後ろに並べる。
func Plan(scope Scope, current, ids []string) ([]string, error) {
	members := make(map[string]bool, len(current))
	for _, id := range current {
		members[id] = true
	}

	next := make([]string, 0, len(current))
	placed := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !members[id] {
			return nil, model.NewNotFoundError(scope.Entity, id)
		}
		placed[id] = true
		next = append(next, id)
	}
	for _, id := range current {
		if !placed[id] {
			next = append(next, id)
		}
	}
	return next, nil
}

func validateIDs(ids []string) error {
	if len(ids) == 0 {
		return model.NewValidationError("items must contain at least one id")
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return model.NewValidationError("item id must not be empty")
		}
		if seen[id] {
			return model.NewValidationError(fmt.Sprintf("duplicate item id: %s", id))
		}
		seen[id] = true
	}
	return nil
}
