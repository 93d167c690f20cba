package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenExpiry はJWT_EXPIRES_IN未指定時のアクセストークン有効期間。
const DefaultTokenExpiry = 7 * 24 * time.Hour

// Claims はアクセストークンのペイロード。subに管理者IDを持つ。
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenCodec はHS256署名のアクセストークンを発行・検証する。
type TokenCodec struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewTokenCodec はTokenCodecを生成する。expiryが0以下の場合はDefaultTokenExpiryを使う。
func NewTokenCodec(secret string, expiry time.Duration) *TokenCodec {
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	return &TokenCodec{secret: []byte(secret), expiry: expiry, now: time.Now}
}

// Issue は管理者IDとメールアドレスを含むトークンを発行する。
func (c *TokenCodec) Issue(adminID, email string) (string, error) {
	now := c.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse はトークンの署名と有効期限を検証し、クレームを返す。
// HMAC以外の署名方式は拒否する。
func (c *TokenCodec) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
