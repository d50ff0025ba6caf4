package services

import (
	"errors"
	"time"

	"realview/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token purposes. A token is only ever accepted for the purpose it was
// issued with; a password-reset token can never pass as a session.
const (
	TokenPurposeSession = "session"
	TokenPurposeAdmin   = "admin"
	TokenPurposeReset   = "password_reset"
)

// TTLs per purpose. Admin sessions are deliberately shorter-lived given the
// elevated privilege they carry.
const (
	SessionTokenTTL = 24 * time.Hour
	AdminTokenTTL   = 8 * time.Hour
	ResetTokenTTL   = time.Hour
)

// ErrInvalidToken covers malformed, tampered, expired and wrong-purpose
// tokens. Callers must not be able to tell which.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenClaims is the identity payload embedded in every issued token.
type TokenClaims struct {
	Email   string `json:"email"`
	Role    string `json:"role"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

type TokenService interface {
	IssueSession(user *models.User) (*models.TokenResponse, error)
	IssueAdmin(user *models.User) (*models.TokenResponse, error)
	IssueReset(user *models.User) (string, error)
	Verify(tokenString, purpose string) (*TokenClaims, error)
}

type tokenService struct {
	secret []byte
}

func NewTokenService(secret string) TokenService {
	return &tokenService{secret: []byte(secret)}
}

func (s *tokenService) issue(user *models.User, purpose string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	claims := &TokenClaims{
		Email:   user.Email,
		Role:    user.Role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, now, nil
}

func (s *tokenService) IssueSession(user *models.User) (*models.TokenResponse, error) {
	signed, issuedAt, err := s.issue(user, TokenPurposeSession, SessionTokenTTL)
	if err != nil {
		return nil, err
	}
	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(SessionTokenTTL.Seconds()),
		IssuedAt:    issuedAt,
	}, nil
}

func (s *tokenService) IssueAdmin(user *models.User) (*models.TokenResponse, error) {
	signed, issuedAt, err := s.issue(user, TokenPurposeAdmin, AdminTokenTTL)
	if err != nil {
		return nil, err
	}
	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(AdminTokenTTL.Seconds()),
		IssuedAt:    issuedAt,
	}, nil
}

func (s *tokenService) IssueReset(user *models.User) (string, error) {
	signed, _, err := s.issue(user, TokenPurposeReset, ResetTokenTTL)
	return signed, err
}

// Verify validates signature and expiry, then requires the claimed purpose
// to match the expected one. Every failure collapses into ErrInvalidToken.
func (s *tokenService) Verify(tokenString, purpose string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
