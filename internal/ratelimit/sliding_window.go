// Package ratelimit は識別キーごとのスライディングウィンドウ方式の送信数制限を提供する。
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jcarizon/portfolio-cms-backend/internal/model"
)

// Limiter は送信可否を判定するインターフェース。
// 受理した場合はnil、上限超過の場合はRATE_LIMITEDのAPIErrorを返す。
type Limiter interface {
	Check(ctx context.Context, key string, now time.Time) error
}

// Config はスライディングウィンドウの設定を保持する。
type Config struct {
	Max             int           // ウィンドウ内で受理する最大件数
	Window          time.Duration // ウィンドウ幅
	CleanupInterval time.Duration // 空になったキーを破棄する間隔
}

// DefaultConfig は1時間あたり3件の既定設定を返す。
func DefaultConfig() Config {
	return Config{
		Max:             3,
		Window:          time.Hour,
		CleanupInterval: 10 * time.Minute,
	}
}

// window は1キー分のタイムスタンプ列。
// deadはクリーンアップでマップから外されたことを示し、Checkは作り直したwindowで再試行する。
type window struct {
	mu    sync.Mutex
	times []time.Time
	dead  bool
}

// SlidingWindow はプロセス内メモリで動作するLimiter。
// 状態はプロセス再起動で失われ、複数インスタンス間では共有されない。
type SlidingWindow struct {
	config Config

	mu      sync.Mutex
	windows map[string]*window

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSlidingWindow は新しいSlidingWindowを生成する。
// CleanupIntervalが正の場合はバックグラウンドでクリーンアップを開始する。
func NewSlidingWindow(config Config) *SlidingWindow {
	sw := &SlidingWindow{
		config:  config,
		windows: make(map[string]*window),
		stopCh:  make(chan struct{}),
	}

	if config.CleanupInterval > 0 {
		go sw.cleanupLoop()
	}

	return sw
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (sw *SlidingWindow) Stop() {
	sw.stopOnce.Do(func() { close(sw.stopCh) })
}

// Check はkeyの直近ウィンドウ内の件数を調べ、上限未満なら now を記録して受理する。
// 枝刈り・判定・追記は同一キーについて排他的に行われる。拒否した試行は記録しない。
// プロセス内で完結しI/Oを伴わないため、contextは参照しない。
func (sw *SlidingWindow) Check(_ context.Context, key string, now time.Time) error {
	for {
		w := sw.getOrCreate(key)

		w.mu.Lock()
		if w.dead {
			w.mu.Unlock()
			continue
		}

		w.times = prune(w.times, now, sw.config.Window)
		if len(w.times) >= sw.config.Max {
			retryAfter := w.times[0].Add(sw.config.Window).Sub(now)
			w.mu.Unlock()

			slog.Warn("rate limit exceeded",
				slog.String("limit_type", "contact"),
				slog.Duration("retry_after", retryAfter),
			)
			return model.NewRateLimitedError(retryAfter)
		}

		w.times = append(w.times, now)
		w.mu.Unlock()
		return nil
	}
}

// KeyCount は現在保持しているキー数を返す。テスト用。
func (sw *SlidingWindow) KeyCount() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return len(sw.windows)
}

func (sw *SlidingWindow) getOrCreate(key string) *window {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	w, ok := sw.windows[key]
	if !ok {
		w = &window{}
		sw.windows[key] = w
	}
	return w
}

// cleanupLoop はバックグラウンドで期限切れキーを定期的に破棄する。
func (sw *SlidingWindow) cleanupLoop() {
	ticker := time.NewTicker(sw.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sw.cleanup(time.Now())
		case <-sw.stopCh:
			return
		}
	}
}

// cleanup はウィンドウ内に有効なタイムスタンプが残っていないキーを削除する。
func (sw *SlidingWindow) cleanup(now time.Time) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	for key, w := range sw.windows {
		w.mu.Lock()
		w.times = prune(w.times, now, sw.config.Window)
		if len(w.times) == 0 {
			w.dead = true
			delete(sw.windows, key)
		}
		w.mu.Unlock()
	}
}

// prune は now - t < window を満たすタイムスタンプだけを残す。
func prune(times []time.Time, now time.Time, window time.Duration) []time.Time {
	kept := times[:0]
	for _, t := range times {
		if now.Sub(t) < window {
			kept = append(kept, t)
		}
	}
	return kept
}

// compile-time interface check
var _ Limiter = (*SlidingWindow)(nil)
