// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
	"time"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, content, system
	Action   string // ユーザー向け対処方法

	// RetryAfter はRATE_LIMITEDの場合に再試行可能になるまでの目安。
	RetryAfter time.Duration
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeConflict     = "CONFLICT"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeValidation   = "VALIDATION_ERROR"
)

// HasCode はerrがAPIErrorであり、指定コードを持つかを判定する。
func HasCode(err error, code string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}

// NewEmailAlreadyRegisteredError は登録済みメールアドレスでの登録エラーを生成する。
func NewEmailAlreadyRegisteredError() *APIError {
	return &APIError{
		Code:     ErrCodeConflict,
		Message:  "Email already registered",
		Category: "auth",
		Action:   "Sign in with the existing account instead.",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
// アカウント不在・パスワード未設定・パスワード不一致を区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Invalid credentials",
		Category: "auth",
		Action:   "Check your email and password.",
	}
}

// NewNoMatchingAccountError は外部IdPでのログインに対応する管理者がいない場合のエラーを生成する。
func NewNoMatchingAccountError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "No account found with this email. Please contact the administrator.",
		Category: "auth",
		Action:   "Ask the site administrator for access.",
	}
}

// NewUnauthorizedError は認証が必要・トークン主体が存在しない場合のエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Unauthorized",
		Category: "auth",
		Action:   "Sign in again.",
	}
}

// NewNotFoundError は指定エンティティが見つからない場合のエラーを生成する。
func NewNotFoundError(entity, id string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("%s with ID %s not found", entity, id),
		Category: "content",
		Action:   "Reload the list and try again.",
	}
}

// NewRateLimitedError は送信回数の上限超過エラーを生成する。
func NewRateLimitedError(retryAfter time.Duration) *APIError {
	return &APIError{
		Code:       ErrCodeRateLimited,
		Message:    "Too many messages sent. Please wait before sending another.",
		Category:   "system",
		Action:     "Please wait and retry later.",
		RetryAfter: retryAfter,
	}
}

// NewValidationError は入力値の不正エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  reason,
		Category: "validation",
		Action:   "Fix the highlighted input and resubmit.",
	}
}
