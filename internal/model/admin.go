package model

import (
	"strings"
	"time"
)

// Provider は管理者アカウントの認証方式を表す。
type Provider string

const (
	// ProviderLocal はメールアドレスとパスワードによる認証。
	ProviderLocal Provider = "local"
	// ProviderGoogle はGoogle OAuthによる認証。
	ProviderGoogle Provider = "google"
)

// Admin はCMSの管理者を表す。
// Passwordはハッシュ値で、外部IdPのみで作成されたアカウントではnil。
type Admin struct {
	ID         string
	Email      string
	Password   *string
	Name       string
	AvatarURL  *string
	Provider   Provider
	ProviderID *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AdminSummary はトークンレスポンスに含める管理者情報。
type AdminSummary struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

// AdminProfile は /auth/me で返す読み取り専用の管理者情報。
// パスワードハッシュは含めない。
type AdminProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatarUrl"`
	Provider  Provider  `json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse はログイン成功時に返すアクセストークンと管理者情報。
type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	Admin       AdminSummary `json:"admin"`
}

// OAuthIdentity は外部IdPのハンドシェイク完了後に得られる正規化済みのユーザー情報。
type OAuthIdentity struct {
	ExternalID  string
	Email       string
	DisplayName string
	AvatarURL   *string
}

// Summary はAdminからAdminSummaryを生成する。
func (a *Admin) Summary() AdminSummary {
	return AdminSummary{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		AvatarURL: a.AvatarURL,
	}
}

// Profile はAdminからAdminProfileを生成する。
func (a *Admin) Profile() AdminProfile {
	return AdminProfile{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		AvatarURL: a.AvatarURL,
		Provider:  a.Provider,
		CreatedAt: a.CreatedAt,
	}
}

// NormalizeEmail はメールアドレスを比較キーとして正規化する（前後空白除去・小文字化）。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
