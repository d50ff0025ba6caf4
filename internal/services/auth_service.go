package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"realview/internal/caching"
	"realview/internal/common"
	"realview/internal/models"
	"realview/internal/repositories"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials is the single failure every login reject path
	// collapses into: absent user, wrong password and role mismatch all read
	// the same to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUseAdminEndpoint is returned when an admin account hits the
	// ordinary login endpoint. Ordinary login never issues admin tokens.
	ErrUseAdminEndpoint = errors.New("use the admin login endpoint")

	// ErrTooManyAttempts signals the login rate limit tripped.
	ErrTooManyAttempts = errors.New("too many attempts")
)

// ValidationError carries a field-level input rejection.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const (
	loginRateLimit  = 10
	loginRateWindow = 15 * time.Minute
)

type SignupInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role"`
}

type AuthService interface {
	Signup(ctx context.Context, input *SignupInput) (*models.User, error)
	Login(ctx context.Context, email, password, expectedRole, clientKey string) (*models.TokenResponse, *models.User, error)
	AdminLogin(ctx context.Context, email, password, clientKey string) (*models.TokenResponse, *models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type authService struct {
	userRepo repositories.UserRepository
	tokenSvc TokenService
	cacheSvc caching.CacheService
	mailer   MailerService
}

func NewAuthService(userRepo repositories.UserRepository, tokenSvc TokenService, cacheSvc caching.CacheService, mailer MailerService) AuthService {
	return &authService{
		userRepo: userRepo,
		tokenSvc: tokenSvc,
		cacheSvc: cacheSvc,
		mailer:   mailer,
	}
}

func (s *authService) Signup(ctx context.Context, input *SignupInput) (*models.User, error) {
	if err := common.ValidateRequiredString(input.Name, "name"); err != nil {
		return nil, &ValidationError{Field: "name", Message: err.Error()}
	}
	if err := common.ValidateEmail(input.Email); err != nil {
		return nil, &ValidationError{Field: "email", Message: err.Error()}
	}
	if err := common.ValidatePhone(input.Phone); err != nil {
		return nil, &ValidationError{Field: "phone", Message: err.Error()}
	}
	if input.Password != input.ConfirmPassword {
		return nil, &ValidationError{Field: "confirmPassword", Message: "passwords do not match"}
	}
	if err := common.ValidatePassword(input.Password); err != nil {
		return nil, &ValidationError{Field: "password", Message: err.Error()}
	}

	role := strings.ToUpper(strings.TrimSpace(input.Role))
	if role == "" {
		role = models.RoleBuyer
	}
	// ADMIN cannot self-register, ever.
	if !models.ValidSignupRole(role) {
		return nil, &ValidationError{Field: "role", Message: "role must be either BUYER or AGENT"}
	}

	// Advisory pre-check; the unique index is what actually closes the race.
	if existing, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, repositories.ErrEmailTaken
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.TrimSpace(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) checkRateLimit(ctx context.Context, clientKey string) error {
	limited, err := s.cacheSvc.IsRateLimited(ctx, clientKey, loginRateLimit, loginRateWindow)
	if err != nil {
		// Cache trouble must not lock everyone out.
		log.Printf("WARN: rate limit check failed: %v", err)
		return nil
	}
	if limited {
		return ErrTooManyAttempts
	}
	return nil
}

func (s *authService) recordAttempt(ctx context.Context, clientKey string) {
	if err := s.cacheSvc.IncrementRateLimit(ctx, clientKey, loginRateWindow); err != nil {
		log.Printf("WARN: rate limit increment failed: %v", err)
	}
}

func (s *authService) Login(ctx context.Context, email, password, expectedRole, clientKey string) (*models.TokenResponse, *models.User, error) {
	if err := s.checkRateLimit(ctx, clientKey); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.recordAttempt(ctx, clientKey)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		s.recordAttempt(ctx, clientKey)
		return nil, nil, ErrInvalidCredentials
	}

	if user.Role == models.RoleAdmin {
		return nil, nil, ErrUseAdminEndpoint
	}

	if expectedRole != "" && user.Role != strings.ToUpper(expectedRole) {
		s.recordAttempt(ctx, clientKey)
		return nil, nil, ErrInvalidCredentials
	}

	token, err := s.tokenSvc.IssueSession(user)
	if err != nil {
		return nil, nil, err
	}
	return token, user, nil
}

// AdminLogin fails identically for an absent account, a non-admin account
// and a wrong password: a non-admin's correct credentials must not reveal
// that the account exists.
func (s *authService) AdminLogin(ctx context.Context, email, password, clientKey string) (*models.TokenResponse, *models.User, error) {
	if err := s.checkRateLimit(ctx, clientKey); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.recordAttempt(ctx, clientKey)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if user.Role != models.RoleAdmin || !VerifyPassword(password, user.PasswordHash) {
		s.recordAttempt(ctx, clientKey)
		return nil, nil, ErrInvalidCredentials
	}

	token, err := s.tokenSvc.IssueAdmin(user)
	if err != nil {
		return nil, nil, err
	}
	return token, user, nil
}

// ForgotPassword succeeds externally whether or not the account exists.
// Email dispatch happens off the request path with its own deadline: the
// reset record stands even when delivery fails, and delivery failure is
// logged rather than surfaced.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}

	resetToken, err := s.tokenSvc.IssueReset(user)
	if err != nil {
		return err
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.mailer.SendPasswordReset(sendCtx, user.Email, resetToken); err != nil {
			log.Printf("WARN: password reset email to %s failed: %v", user.Email, err)
		}
	}()

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokenSvc.Verify(token, TokenPurposeReset)
	if err != nil {
		return ErrInvalidToken
	}

	if err := common.ValidatePassword(newPassword); err != nil {
		return &ValidationError{Field: "newPassword", Message: err.Error()}
	}

	// Burn the token before updating: a reset token is single-use even
	// inside its TTL.
	fresh, err := s.cacheSvc.MarkResetTokenUsed(ctx, claims.ID, ResetTokenTTL)
	if err != nil {
		return err
	}
	if !fresh {
		return ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ErrInvalidToken
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePasswordHash(ctx, userID, hash)
}
