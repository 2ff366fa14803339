package security

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nouakchotech/agrimarket/internal/models"
)

var (
	// ErrTokenInvalid covers malformed structure, a bad signature, and
	// unsupported signing methods.
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// RefreshTokenType tags refresh tokens so an access token can never be
// replayed on the refresh path.
const RefreshTokenType = "REFRESH"

const (
	DefaultAccessTokenTTL  = 24 * time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims are the identity claims carried by both token kinds. Refresh
// tokens carry only the subject, user id, and the REFRESH type tag.
type Claims struct {
	UserID    uint   `json:"userId"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role,omitempty"`
	Language  string `json:"lang,omitempty"`
	TokenType string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// TokenProvider issues and verifies HS256-signed session tokens. Tokens are
// stateless: no server-side session record backs them.
type TokenProvider struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenProvider(secret string, accessTTL time.Duration, refreshTTL time.Duration) *TokenProvider {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}
	return &TokenProvider{
		secretKey:  []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (provider *TokenProvider) AccessTokenTTL() time.Duration {
	return provider.accessTTL
}

// IssueAccessToken embeds the user's identity summary: subject is the phone
// number, plus user id, name, role tag, and preferred language.
func (provider *TokenProvider) IssueAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Name:     user.Name,
		Role:     user.Role,
		Language: user.PreferredLanguage,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Phone,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(provider.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(provider.secretKey)
}

// IssueRefreshToken embeds no name or role, only enough to re-resolve the
// user and the REFRESH type tag.
func (provider *TokenProvider) IssueRefreshToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    user.ID,
		TokenType: RefreshTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Phone,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(provider.refreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(provider.secretKey)
}

// Parse verifies signature and expiry and returns the embedded claims.
// Expired tokens fail with ErrTokenExpired; every other failure collapses
// to ErrTokenInvalid.
func (provider *TokenProvider) Parse(tokenValue string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenValue, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return provider.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (provider *TokenProvider) ParseSubject(tokenValue string) (string, error) {
	claims, err := provider.Parse(tokenValue)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (provider *TokenProvider) ParseUserID(tokenValue string) (uint, error) {
	claims, err := provider.Parse(tokenValue)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

func (provider *TokenProvider) ParseExpiry(tokenValue string) (time.Time, error) {
	claims, err := provider.Parse(tokenValue)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrTokenInvalid
	}
	return claims.ExpiresAt.Time, nil
}

// Validate reports whether the token verifies. It never returns an error;
// the failure kind is logged for diagnostics only.
func (provider *TokenProvider) Validate(tokenValue string) bool {
	if tokenValue == "" {
		return false
	}
	if _, err := provider.Parse(tokenValue); err != nil {
		slog.Debug("token validation failed", "reason", err)
		return false
	}
	return true
}
