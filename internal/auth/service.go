// Package auth は管理者の登録・ログイン、アクセストークン、外部IdP連携を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jcarizon/portfolio-cms-backend/internal/metrics"
	"github.com/jcarizon/portfolio-cms-backend/internal/model"
	"github.com/jcarizon/portfolio-cms-backend/internal/repository"
)

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
type OAuthProvider interface {
	// GetLoginURL はOAuth認証URLを生成する。
	GetLoginURL(state string) string
	// ExchangeCode は認可コードをトークンに交換し、ユーザー情報を取得する。
	ExchangeCode(ctx context.Context, code string) (*model.OAuthIdentity, error)
}

// ErrOAuthDisabled はGoogleログインが設定されていない場合に返す。
var ErrOAuthDisabled = errors.New("oauth login is not configured")

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	admins  repository.AdminRepository
	tokens  *TokenCodec
	hasher  *PasswordHasher
	oauth   OAuthProvider
	metrics metrics.MetricsCollector
}

// NewService はServiceを生成する。oauthとmetricsはnilでもよい。
func NewService(
	admins repository.AdminRepository,
	tokens *TokenCodec,
	hasher *PasswordHasher,
	oauth OAuthProvider,
	m metrics.MetricsCollector,
) *Service {
	return &Service{
		admins:  admins,
		tokens:  tokens,
		hasher:  hasher,
		oauth:   oauth,
		metrics: m,
	}
}

// Register はローカル管理者を作成し、トークンを発行する。
func (s *Service) Register(ctx context.Context, email, password, name string) (*model.AuthResponse, error) {
	email = model.NormalizeEmail(email)
	if err := model.ValidateRegistration(email, password, name); err != nil {
		return nil, err
	}

	existing, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmailAlreadyRegisteredError()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	admin := &model.Admin{
		ID:       uuid.NewString(),
		Email:    email,
		Password: &hash,
		Name:     name,
		Provider: model.ProviderLocal,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, model.NewEmailAlreadyRegisteredError()
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	slog.Info("admin registered",
		slog.String("admin_id", admin.ID),
		slog.String("email", admin.Email),
	)
	return s.issue(admin)
}

// Login はメールアドレスとパスワードで認証する。
// アカウント不在・パスワード未設定・不一致はすべて同じエラーになる。
func (s *Service) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	admin, err := s.admins.FindByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	if admin == nil || admin.Password == nil {
		s.hasher.CompareDummy(password)
		s.recordLogin(metrics.LoginFailure)
		return nil, model.NewInvalidCredentialsError()
	}

	ok, err := s.hasher.Compare(*admin.Password, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.recordLogin(metrics.LoginFailure)
		return nil, model.NewInvalidCredentialsError()
	}

	s.recordLogin(metrics.LoginSuccess)
	slog.Info("admin logged in", slog.String("admin_id", admin.ID))
	return s.issue(admin)
}

// LinkOrBootstrapOAuth は外部IdPの身元を既存管理者に紐付ける。
// 該当する管理者がいない場合、管理者が1人もいなければ初回管理者として作成し、
// そうでなければ拒否する。
// 外部IDまたはメールアドレスが空の身元は受け付けない。
func (s *Service) LinkOrBootstrapOAuth(ctx context.Context, identity *model.OAuthIdentity) (*model.AuthResponse, error) {
	if identity == nil || strings.TrimSpace(identity.ExternalID) == "" {
		return nil, model.NewUnauthorizedError()
	}
	email := model.NormalizeEmail(identity.Email)
	if email == "" {
		return nil, model.NewUnauthorizedError()
	}

	admin, err := s.admins.FindByProviderIDOrEmail(ctx, identity.ExternalID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	if admin != nil {
		linked, err := s.admins.LinkProvider(ctx, admin.ID, model.ProviderGoogle, identity.ExternalID, identity.AvatarURL)
		if err != nil {
			return nil, fmt.Errorf("failed to link provider: %w", err)
		}
		if linked == nil {
			return nil, model.NewUnauthorizedError()
		}
		s.recordOAuth(metrics.OAuthLinked)
		slog.Info("oauth identity linked",
			slog.String("admin_id", linked.ID),
			slog.String("provider", string(model.ProviderGoogle)),
		)
		return s.issue(linked)
	}

	count, err := s.admins.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil, s.deny(email)
	}

	providerID := identity.ExternalID
	bootstrap := &model.Admin{
		ID:         uuid.NewString(),
		Email:      email,
		Name:       identity.DisplayName,
		AvatarURL:  identity.AvatarURL,
		Provider:   model.ProviderGoogle,
		ProviderID: &providerID,
	}
	created, err := s.admins.CreateIfNoneExist(ctx, bootstrap)
	if err != nil {
		return nil, fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	if !created {
		// 同時に別のログインが初回管理者を作成した
		return nil, s.deny(email)
	}

	s.recordOAuth(metrics.OAuthBootstrap)
	slog.Info("bootstrap admin created",
		slog.String("admin_id", bootstrap.ID),
		slog.String("email", bootstrap.Email),
	)
	return s.issue(bootstrap)
}

// HandleGoogleCallback は認可コードを交換し、LinkOrBootstrapOAuthを実行する。
func (s *Service) HandleGoogleCallback(ctx context.Context, code string) (*model.AuthResponse, error) {
	if s.oauth == nil {
		return nil, ErrOAuthDisabled
	}
	identity, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}
	return s.LinkOrBootstrapOAuth(ctx, identity)
}

// GoogleLoginURL はGoogleの認証URLを返す。
func (s *Service) GoogleLoginURL(state string) (string, error) {
	if s.oauth == nil {
		return "", ErrOAuthDisabled
	}
	return s.oauth.GetLoginURL(state), nil
}

// OAuthEnabled はGoogleログインが利用可能かを返す。
func (s *Service) OAuthEnabled() bool {
	return s.oauth != nil
}

// ParseToken はアクセストークンを検証してクレームを返す。
func (s *Service) ParseToken(token string) (*Claims, error) {
	return s.tokens.Parse(token)
}

// ValidateToken はクレームの主体が現存する管理者かを確認する。
func (s *Service) ValidateToken(ctx context.Context, claims *Claims) (*model.Admin, error) {
	admin, err := s.admins.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	if admin == nil {
		return nil, model.NewUnauthorizedError()
	}
	return admin, nil
}

// GetProfile は管理者のプロフィールを返す。
func (s *Service) GetProfile(ctx context.Context, id string) (*model.AdminProfile, error) {
	admin, err := s.admins.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	if admin == nil {
		return nil, model.NewUnauthorizedError()
	}
	profile := admin.Profile()
	return &profile, nil
}

func (s *Service) issue(admin *model.Admin) (*model.AuthResponse, error) {
	token, err := s.tokens.Issue(admin.ID, admin.Email)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{AccessToken: token, Admin: admin.Summary()}, nil
}

func (s *Service) deny(email string) error {
	s.recordOAuth(metrics.OAuthDenied)
	slog.Warn("oauth login denied", slog.String("email", email))
	return model.NewNoMatchingAccountError()
}

func (s *Service) recordLogin(result string) {
	if s.metrics != nil {
		s.metrics.RecordLogin(result)
	}
}

func (s *Service) recordOAuth(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordOAuth(outcome)
	}
}
