package services

import (
	"context"
	"io"
	"time"

	"realview/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock repositories and services shared by the service tests.

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, phone string) error {
	args := m.Called(ctx, id, name, phone)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, property *models.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) ListApproved(ctx context.Context, filter *models.PropertySearchFilter) ([]*models.Property, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Property), args.Get(1).(int64), args.Error(2)
}

func (m *MockPropertyRepository) ListByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*models.Property, error) {
	args := m.Called(ctx, agentID, limit, offset)
	return args.Get(0).([]*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) UpdateByOwner(ctx context.Context, id, agentID uuid.UUID, update *models.PropertyUpdate) error {
	args := m.Called(ctx, id, agentID, update)
	return args.Error(0)
}

func (m *MockPropertyRepository) DeleteByOwner(ctx context.Context, id, agentID uuid.UUID) error {
	args := m.Called(ctx, id, agentID)
	return args.Error(0)
}

func (m *MockPropertyRepository) SubmitByOwner(ctx context.Context, id, agentID uuid.UUID) error {
	args := m.Called(ctx, id, agentID)
	return args.Error(0)
}

func (m *MockPropertyRepository) Review(ctx context.Context, id uuid.UUID, action string, reason *string) error {
	args := m.Called(ctx, id, action, reason)
	return args.Error(0)
}

func (m *MockPropertyRepository) ListStaleDrafts(ctx context.Context, olderThan time.Time) ([]*models.Property, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).([]*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) ListAll(ctx context.Context, limit, offset int) ([]*models.Lead, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Lead), args.Get(1).(int64), args.Error(2)
}

func (m *MockLeadRepository) ListByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*models.Lead, int64, error) {
	args := m.Called(ctx, agentID, limit, offset)
	return args.Get(0).([]*models.Lead), args.Get(1).(int64), args.Error(2)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateStatusByAgent(ctx context.Context, id, agentID uuid.UUID, status string) error {
	args := m.Called(ctx, id, agentID, status)
	return args.Error(0)
}

func (m *MockLeadRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetProperty(ctx context.Context, propertyID uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockCacheService) SetProperty(ctx context.Context, property *models.Property, ttl time.Duration) error {
	args := m.Called(ctx, property, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteProperty(ctx context.Context, propertyID uuid.UUID) error {
	args := m.Called(ctx, propertyID)
	return args.Error(0)
}

func (m *MockCacheService) GetStats(ctx context.Context, key string) (map[string]int64, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockCacheService) SetStats(ctx context.Context, key string, stats map[string]int64, ttl time.Duration) error {
	args := m.Called(ctx, key, stats, ttl)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	args := m.Called(ctx, key, window)
	return args.Error(0)
}

func (m *MockCacheService) MarkResetTokenUsed(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, jti, ttl)
	return args.Bool(0), args.Error(1)
}

type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) UploadImage(ctx context.Context, objectName, contentType string, reader io.Reader, objectSize int64) (string, error) {
	args := m.Called(ctx, objectName, contentType, reader, objectSize)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) DeleteImage(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func (m *MockStorageService) EnsureBucketExists(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockMailerService struct {
	mock.Mock
}

func (m *MockMailerService) SendPasswordReset(ctx context.Context, email, resetToken string) error {
	args := m.Called(ctx, email, resetToken)
	return args.Error(0)
}
