// Package token issues and verifies the HS256 access/refresh token pair.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vncsmyrnk/notes/internal/core/domain"
)

// Claims is shared by both token kinds; refresh tokens leave Username and
// Email empty.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Type     string `json:"typ"`
}

type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewService(secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (s *Service) GenerateTokenPair(user *domain.User) (*domain.TokenPair, error) {
	access, err := s.sign(Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Type:     domain.TokenTypeAccess,
	}, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := s.sign(Claims{UserID: user.ID, Type: domain.TokenTypeRefresh}, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *Service) VerifyAccess(token string) (*domain.Identity, error) {
	claims, err := s.parse(token, domain.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return &domain.Identity{UserID: claims.UserID, Username: claims.Username, Email: claims.Email}, nil
}

func (s *Service) VerifyRefresh(token string) (string, error) {
	claims, err := s.parse(token, domain.TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (s *Service) sign(claims Claims, ttl time.Duration) (string, error) {
	now := s.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// parse collapses every failure into domain.ErrInvalidToken so callers
// cannot tell a bad signature from an expired token.
func (s *Service) parse(token, wantType string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.Type != wantType || claims.UserID == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
